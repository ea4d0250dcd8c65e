// Package goquery provides DOM-based evidence extraction. It parses the
// rendered HTML and inspects live image elements, lazy-load attributes,
// inline CSS background declarations, and noscript fallbacks for page
// markers, plus the document title.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gogibeta/pageharvest"
	"github.com/gogibeta/pageharvest/extract"
)

// Ensure DOMExtractor implements pageharvest.Extractor at compile time.
var _ pageharvest.Extractor = (*DOMExtractor)(nil)

// imageAttrs are the element attributes that may carry a page-image URL.
// Lazy loaders stage the real URL in data-* attributes before promoting it
// to src.
var imageAttrs = []string{"src", "data-src", "data-lazy-src", "srcset", "data-srcset"}

// DOMExtractor extracts page markers from the parsed DOM. It is more
// thorough than the regexp channels but too slow to re-run on every scroll
// cycle, so it participates in the full pass only.
type DOMExtractor struct{}

// NewDOMExtractor creates a new DOMExtractor.
func NewDOMExtractor() *DOMExtractor {
	return &DOMExtractor{}
}

// Name returns the extractor's identifier.
func (e *DOMExtractor) Name() string { return "dom" }

// Extract parses the snapshot HTML and collects markers from image
// elements, styled backgrounds, and noscript fallbacks. An unparseable
// snapshot yields empty evidence.
func (e *DOMExtractor) Extract(snap pageharvest.Snapshot) pageharvest.Evidence {
	var ev pageharvest.Evidence

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snap.HTML))
	if err != nil {
		return ev
	}

	ev.Title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("img, source").Each(func(_ int, sel *goquery.Selection) {
		for _, attr := range imageAttrs {
			if value, ok := sel.Attr(attr); ok {
				mergeMarkers(&ev, value)
			}
		}
	})

	doc.Find("[style]").Each(func(_ int, sel *goquery.Selection) {
		style, _ := sel.Attr("style")
		if strings.Contains(style, "url(") {
			mergeMarkers(&ev, style)
		}
	})

	// Noscript content is parsed as text by the HTML parser, so the queued
	// image markup inside it never becomes live elements.
	doc.Find("noscript").Each(func(_ int, sel *goquery.Selection) {
		mergeMarkers(&ev, sel.Text())
	})

	return ev
}

// mergeMarkers scans text for page-image URLs and folds the findings into
// the evidence.
func mergeMarkers(ev *pageharvest.Evidence, text string) {
	assetID, markers := extract.FindImageMarkers(text)
	if ev.AssetID == "" {
		ev.AssetID = assetID
	}
	ev.Markers = append(ev.Markers, markers...)
}
