// Package gjson provides evidence extraction from structured state payloads
// embedded in the page: initial-state assignments and application/json
// script blocks. The payload layout is opaque and shifts across site
// releases, so the whole document tree is searched recursively for anything
// that looks like a page marker.
package gjson

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gogibeta/pageharvest"
	"github.com/tidwall/gjson"
)

// Ensure StateExtractor implements pageharvest.Extractor at compile time.
var _ pageharvest.Extractor = (*StateExtractor)(nil)

var (
	statePattern      = regexp.MustCompile(`(?s)window\.(?:__INITIAL_STATE__|__PRELOADED_STATE__|docManager)\s*=\s*(\{.*?\})\s*[;<]`)
	jsonScriptPattern = regexp.MustCompile(`(?is)<script[^>]*type=["']application/json["'][^>]*>(.*?)</script>`)
)

// Field names observed carrying each signal across site releases.
var (
	pageFields  = []string{"page", "page_num", "pageNum", "page_number", "pageNumber"}
	hashFields  = []string{"hash", "content_hash", "contentHash"}
	totalFields = []string{"total_pages", "totalPages", "page_count", "pageCount"}
	assetFields = []string{"asset_id", "assetId", "asset_prefix", "assetPrefix"}
)

// StateExtractor finds embedded JSON payloads and recursively searches them
// for objects exposing a page-like field together with a hash-like field,
// plus total-page, asset-identifier, and title fields.
type StateExtractor struct{}

// NewStateExtractor creates a new StateExtractor.
func NewStateExtractor() *StateExtractor {
	return &StateExtractor{}
}

// Name returns the extractor's identifier.
func (e *StateExtractor) Name() string { return "state" }

// Extract walks every valid JSON payload embedded in the snapshot HTML.
func (e *StateExtractor) Extract(snap pageharvest.Snapshot) pageharvest.Evidence {
	var ev pageharvest.Evidence
	for _, blob := range payloads(snap.HTML) {
		if !gjson.Valid(blob) {
			continue
		}
		walk(gjson.Parse(blob), &ev)
	}
	return ev
}

// payloads returns the candidate JSON blobs found in the markup.
func payloads(html string) []string {
	var blobs []string
	for _, m := range statePattern.FindAllStringSubmatch(html, -1) {
		blobs = append(blobs, m[1])
	}
	for _, m := range jsonScriptPattern.FindAllStringSubmatch(html, -1) {
		blobs = append(blobs, strings.TrimSpace(m[1]))
	}
	return blobs
}

// walk recursively searches a JSON value for page markers and scalar
// signals. Scalar signals are first-seen-wins, matching accumulator
// semantics upstream.
func walk(value gjson.Result, ev *pageharvest.Evidence) {
	if value.IsObject() {
		if page, hash, ok := markerFields(value); ok {
			ev.Markers = append(ev.Markers, pageharvest.PageMarker{Page: page, Hash: hash})
		}
		for _, field := range totalFields {
			if total := value.Get(field); total.Exists() && ev.Total == 0 && total.Int() > 0 {
				ev.Total = int(total.Int())
			}
		}
		for _, field := range assetFields {
			if asset := value.Get(field); asset.Exists() && ev.AssetID == "" && asset.String() != "" {
				ev.AssetID = asset.String()
			}
		}
		if title := value.Get("title"); title.Exists() && ev.Title == "" && title.Type == gjson.String {
			ev.Title = title.String()
		}
	}

	if !value.IsObject() && !value.IsArray() {
		return
	}

	value.ForEach(func(key, child gjson.Result) bool {
		// Quoted numeric keys mapping to objects with a hash field are one
		// of the observed marker shapes: {"3": {"hash": "cc33"}}.
		if value.IsObject() && child.IsObject() {
			if hash := firstField(child, hashFields); hash != "" {
				if n, err := strconv.Atoi(key.String()); err == nil && n >= 1 {
					ev.Markers = append(ev.Markers, pageharvest.PageMarker{Page: n, Hash: hash})
				}
			}
		}
		walk(child, ev)
		return true
	})
}

// markerFields returns the page number and hash when the object exposes
// both.
func markerFields(value gjson.Result) (int, string, bool) {
	hash := firstField(value, hashFields)
	if hash == "" {
		return 0, "", false
	}
	for _, field := range pageFields {
		if page := value.Get(field); page.Exists() && page.Int() >= 1 {
			return int(page.Int()), hash, true
		}
	}
	return 0, "", false
}

// firstField returns the first non-empty string value among the given
// fields.
func firstField(value gjson.Result, fields []string) string {
	for _, field := range fields {
		if v := value.Get(field); v.Exists() && v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
