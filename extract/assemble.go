package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/gogibeta/pageharvest"
)

// titleSuffixPattern matches the trailing " | <SiteName>" suffix the site
// appends to document titles.
var titleSuffixPattern = regexp.MustCompile(`\s*\|[^|]*$`)

// CleanTitle strips the trailing site-name suffix and surrounding
// whitespace, falling back to a generic placeholder for empty titles.
func CleanTitle(title string) string {
	cleaned := strings.TrimSpace(titleSuffixPattern.ReplaceAllString(title, ""))
	if cleaned == "" {
		return "Document"
	}
	return cleaned
}

// Assemble produces the final Result from a harvest: pages sorted ascending
// by page number, image URLs derived from the asset identifier, and a page
// count that never underreports what was concretely located.
//
// A harvest with zero markers assembles into a successful-but-empty result;
// a missing asset identifier yields pages without URLs rather than a
// failure.
func Assemble(docID pageharvest.DocID, harvest *Harvest, imageHost string) *pageharvest.Result {
	pages := make([]pageharvest.Page, 0, len(harvest.Markers))
	for _, marker := range harvest.Markers {
		page := pageharvest.Page{Page: marker.Page, Hash: marker.Hash}
		if harvest.AssetID != "" {
			page.URL = pageharvest.ImageURL(imageHost, harvest.AssetID, marker.Page, marker.Hash)
		}
		pages = append(pages, page)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Page < pages[j].Page })

	pageCount := harvest.Total
	if len(pages) > pageCount {
		pageCount = len(pages)
	}

	return &pageharvest.Result{
		Success:   true,
		DocID:     string(docID),
		AssetID:   harvest.AssetID,
		Title:     CleanTitle(harvest.Title),
		PageCount: pageCount,
		Pages:     pages,
	}
}
