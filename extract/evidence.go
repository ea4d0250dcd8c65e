package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gogibeta/pageharvest"
)

// The site's page images follow a <assetID>/images/<page>-<hash>.<ext> URL
// shape. The same shape appears in live img elements, raw markup queued for
// lazy load, and CSS background-image declarations, so a single pattern over
// the rendered HTML covers all three.
var (
	assetImagePattern = regexp.MustCompile(`(?i)/([a-z0-9]+)/images/(\d+)-([0-9a-f]+)\.(?:png|jpe?g|webp|gif)`)
	bareImagePattern  = regexp.MustCompile(`(?i)/images/(\d+)-([0-9a-f]+)\.(?:png|jpe?g|webp|gif)`)
)

// unescaper undoes the escaping seen when image URLs or marker objects are
// embedded inside serialized JSON strings.
var unescaper = strings.NewReplacer(`\"`, `"`, `\/`, `/`, `\\u0026`, "&")

// scanViews returns the snapshot HTML plus an unescaped variant when the
// markup embeds serialized JSON strings. Patterns run over every view.
func scanViews(html string) []string {
	views := []string{html}
	if strings.Contains(html, `\"`) || strings.Contains(html, `\/`) {
		views = append(views, unescaper.Replace(html))
	}
	return views
}

// FindImageMarkers scans arbitrary text for image URLs of the page-image
// shape and returns the first asset identifier seen plus every (page, hash)
// pair. Escaped variants inside serialized JSON strings are scanned too.
func FindImageMarkers(text string) (string, []pageharvest.PageMarker) {
	var ev pageharvest.Evidence
	for _, view := range scanViews(text) {
		for _, m := range assetImagePattern.FindAllStringSubmatch(view, -1) {
			if ev.AssetID == "" {
				ev.AssetID = m[1]
			}
			appendMarker(&ev, m[2], m[3])
		}
		for _, m := range bareImagePattern.FindAllStringSubmatch(view, -1) {
			appendMarker(&ev, m[1], m[2])
		}
	}
	return ev.AssetID, ev.Markers
}

// ImageURLExtractor finds page markers and the asset identifier in image
// URLs anywhere in the rendered HTML. It is cheap enough to run on every
// scroll cycle.
type ImageURLExtractor struct{}

// NewImageURLExtractor creates a new ImageURLExtractor.
func NewImageURLExtractor() *ImageURLExtractor {
	return &ImageURLExtractor{}
}

// Name returns the extractor's identifier.
func (e *ImageURLExtractor) Name() string { return "imageurl" }

// Extract scans the HTML for image URLs carrying page number and hash.
func (e *ImageURLExtractor) Extract(snap pageharvest.Snapshot) pageharvest.Evidence {
	assetID, markers := FindImageMarkers(snap.HTML)
	return pageharvest.Evidence{AssetID: assetID, Markers: markers}
}

// Inline script payloads correlate page numbers with hashes in a few
// observed shapes: quoted numeric keys mapping to objects with a hash field,
// explicit page/hash key pairs in either order, and an asset_id field.
var (
	numericKeyPattern = regexp.MustCompile(`"(\d+)"\s*:\s*\{[^{}]*?"hash"\s*:\s*"([0-9a-fA-F]+)"`)
	pageHashPattern   = regexp.MustCompile(`"page"\s*:\s*(\d+)\s*,[^{}]*?"hash"\s*:\s*"([0-9a-fA-F]+)"`)
	hashPagePattern   = regexp.MustCompile(`"hash"\s*:\s*"([0-9a-fA-F]+)"\s*,[^{}]*?"page"\s*:\s*(\d+)`)
	assetIDPattern    = regexp.MustCompile(`"(?:asset_id|assetId)"\s*:\s*"([A-Za-z0-9]+)"`)
)

// ScriptPairsExtractor finds page markers in inline script payloads,
// including escaped variants inside serialized JSON strings.
type ScriptPairsExtractor struct{}

// NewScriptPairsExtractor creates a new ScriptPairsExtractor.
func NewScriptPairsExtractor() *ScriptPairsExtractor {
	return &ScriptPairsExtractor{}
}

// Name returns the extractor's identifier.
func (e *ScriptPairsExtractor) Name() string { return "scriptpairs" }

// Extract scans script-looking key/value data for page and hash pairs.
func (e *ScriptPairsExtractor) Extract(snap pageharvest.Snapshot) pageharvest.Evidence {
	var ev pageharvest.Evidence
	for _, view := range scanViews(snap.HTML) {
		for _, m := range numericKeyPattern.FindAllStringSubmatch(view, -1) {
			appendMarker(&ev, m[1], m[2])
		}
		for _, m := range pageHashPattern.FindAllStringSubmatch(view, -1) {
			appendMarker(&ev, m[1], m[2])
		}
		for _, m := range hashPagePattern.FindAllStringSubmatch(view, -1) {
			appendMarker(&ev, m[2], m[1])
		}
		if ev.AssetID == "" {
			if m := assetIDPattern.FindStringSubmatch(view); m != nil {
				ev.AssetID = m[1]
			}
		}
	}
	return ev
}

// pageCountPattern matches an integer immediately followed by a "pages" or
// "slides" word in visible text or markup. The signal is approximate and is
// never treated as an upper bound on the page list.
var pageCountPattern = regexp.MustCompile(`(?i)\b(\d{1,5})\s*(?:pages?|slides?)\b`)

// PageCountExtractor finds the site's self-reported total page count.
type PageCountExtractor struct{}

// NewPageCountExtractor creates a new PageCountExtractor.
func NewPageCountExtractor() *PageCountExtractor {
	return &PageCountExtractor{}
}

// Name returns the extractor's identifier.
func (e *PageCountExtractor) Name() string { return "pagecount" }

// Extract looks for a total-page signal in the visible text first, falling
// back to the raw markup.
func (e *PageCountExtractor) Extract(snap pageharvest.Snapshot) pageharvest.Evidence {
	var ev pageharvest.Evidence
	for _, view := range []string{snap.Text, snap.HTML} {
		if m := pageCountPattern.FindStringSubmatch(view); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				ev.Total = n
				return ev
			}
		}
	}
	return ev
}

// appendMarker parses and appends a (page, hash) pair, dropping markers with
// a non-positive page number or an empty hash.
func appendMarker(ev *pageharvest.Evidence, page, hash string) {
	n, err := strconv.Atoi(page)
	if err != nil || n < 1 || hash == "" {
		return
	}
	ev.Markers = append(ev.Markers, pageharvest.PageMarker{Page: n, Hash: hash})
}
