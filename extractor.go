package pageharvest

// Evidence is what one extractor found in one snapshot. Zero values mean the
// channel had nothing to say; absence of data is data.
type Evidence struct {
	Markers []PageMarker
	AssetID string
	Title   string
	Total   int
}

// Merge folds another Evidence into e, keeping first-seen values for the
// scalar fields and appending markers. Marker deduplication happens later in
// the accumulator, not here.
func (e *Evidence) Merge(other Evidence) {
	e.Markers = append(e.Markers, other.Markers...)
	if e.AssetID == "" {
		e.AssetID = other.AssetID
	}
	if e.Title == "" {
		e.Title = other.Title
	}
	if e.Total == 0 {
		e.Total = other.Total
	}
}

// Extractor inspects a snapshot for page markers, an asset identifier, a
// title, or a total-page-count signal. Extractors are pure functions over
// the snapshot and never fail: an unparseable snapshot yields empty
// Evidence.
type Extractor interface {
	// Extract returns whatever evidence the channel exposes in the snapshot.
	Extract(snap Snapshot) Evidence

	// Name returns the extractor's identifier (e.g., "imageurl", "state").
	Name() string
}
