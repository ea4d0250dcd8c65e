package pageharvest

import (
	"fmt"
	"regexp"
)

// DocID identifies a target document on the hosting site. It is the digit
// sequence extracted from an input URL and is immutable once parsed.
type DocID string

// docIDPattern matches the known document URL shapes:
// .../document/<digits>, .../doc/<digits>, .../embeds/<digits>.
var docIDPattern = regexp.MustCompile(`(?i)/(?:document|doc|embeds)/(\d+)`)

// ParseDocID extracts the document identifier from a raw URL.
// Returns EINVALID if the URL does not match any known document shape.
func ParseDocID(rawURL string) (DocID, error) {
	m := docIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", Errorf(EINVALID, "URL %q does not reference a document", rawURL)
	}
	return DocID(m[1]), nil
}

// PageMarker is one page's located identity: its page number and the content
// hash that addresses its image. Markers are merged into an accumulator keyed
// by page number; the first hash seen for a page number wins.
type PageMarker struct {
	Page int
	Hash string
}

// Page is one assembled page in a Result. URL is empty when no asset
// identifier was discovered.
type Page struct {
	Page int    `json:"page"`
	Hash string `json:"hash"`
	URL  string `json:"url,omitempty"`
}

// Diagnostics describes what an extraction attempted, to support manual
// follow-up on partial results.
type Diagnostics struct {
	CandidateURL string `json:"candidate_url,omitempty"`
	ScrollCycles int    `json:"scroll_cycles"`
	TotalSignal  int    `json:"total_signal,omitempty"`
}

// Result is the terminal outcome of one extraction. It is immutable once
// constructed. Success is true whenever extraction completed without a fatal
// navigation or environment error, even if zero pages were found.
type Result struct {
	Success     bool         `json:"success"`
	DocID       string       `json:"doc_id"`
	AssetID     string       `json:"asset_id,omitempty"`
	Title       string       `json:"title,omitempty"`
	PageCount   int          `json:"page_count"`
	Pages       []Page       `json:"pages"`
	Error       string       `json:"error,omitempty"`
	Diagnostics *Diagnostics `json:"diagnostics,omitempty"`
}

// ImageURL constructs the image-hosting URL for a page under an asset
// identifier.
func ImageURL(imageHost, assetID string, page int, hash string) string {
	return fmt.Sprintf("https://%s/%s/images/%d-%s.png", imageHost, assetID, page, hash)
}
