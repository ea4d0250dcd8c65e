package gjson_test

import (
	"testing"

	"github.com/gogibeta/pageharvest"
	pqgjson "github.com/gogibeta/pageharvest/gjson"
	"github.com/stretchr/testify/assert"
)

func TestStateExtractor_InitialState(t *testing.T) {
	t.Parallel()

	snap := pageharvest.Snapshot{HTML: `<html><body><script>
		window.__INITIAL_STATE__ = {"document": {"asset_id": "abcd1234", "title": "Annual Report", "total_pages": 3, "pages": [{"page": 1, "hash": "aa11"}, {"page": 2, "hash": "bb22"}]}};
	</script></body></html>`}

	ev := pqgjson.NewStateExtractor().Extract(snap)

	assert.Equal(t, "abcd1234", ev.AssetID)
	assert.Equal(t, "Annual Report", ev.Title)
	assert.Equal(t, 3, ev.Total)
	assert.ElementsMatch(t, []pageharvest.PageMarker{
		{Page: 1, Hash: "aa11"},
		{Page: 2, Hash: "bb22"},
	}, ev.Markers)
}

func TestStateExtractor_JSONScriptBlock(t *testing.T) {
	t.Parallel()

	snap := pageharvest.Snapshot{HTML: `<html><body>
		<script type="application/json">{"viewer": {"pageCount": 2, "items": [{"pageNumber": 1, "contentHash": "aa11"}, {"pageNumber": 2, "contentHash": "bb22"}]}}</script>
	</body></html>`}

	ev := pqgjson.NewStateExtractor().Extract(snap)

	assert.Equal(t, 2, ev.Total)
	assert.ElementsMatch(t, []pageharvest.PageMarker{
		{Page: 1, Hash: "aa11"},
		{Page: 2, Hash: "bb22"},
	}, ev.Markers)
}

func TestStateExtractor_NumericKeyMap(t *testing.T) {
	t.Parallel()

	// Some releases key the marker map by page number instead of carrying
	// an explicit page field.
	snap := pageharvest.Snapshot{HTML: `<html><body><script>
		window.docManager = {"pageData": {"1": {"hash": "aa11"}, "2": {"hash": "bb22"}}};
	</script></body></html>`}

	ev := pqgjson.NewStateExtractor().Extract(snap)

	assert.ElementsMatch(t, []pageharvest.PageMarker{
		{Page: 1, Hash: "aa11"},
		{Page: 2, Hash: "bb22"},
	}, ev.Markers)
}

func TestStateExtractor_DeeplyNestedMarkers(t *testing.T) {
	t.Parallel()

	snap := pageharvest.Snapshot{HTML: `<html><body><script>
		window.__PRELOADED_STATE__ = {"a": {"b": {"c": [{"d": {"page_num": 5, "content_hash": "ee55"}}]}}};
	</script></body></html>`}

	ev := pqgjson.NewStateExtractor().Extract(snap)

	assert.Equal(t, []pageharvest.PageMarker{{Page: 5, Hash: "ee55"}}, ev.Markers)
}

func TestStateExtractor_InvalidPayloadIgnored(t *testing.T) {
	t.Parallel()

	snap := pageharvest.Snapshot{HTML: `<html><body>
		<script type="application/json">{not json at all</script>
		<script>window.__INITIAL_STATE__ = {"page": 1, "hash": "aa11"};</script>
	</body></html>`}

	ev := pqgjson.NewStateExtractor().Extract(snap)

	assert.Equal(t, []pageharvest.PageMarker{{Page: 1, Hash: "aa11"}}, ev.Markers)
}

func TestStateExtractor_NoPayloads(t *testing.T) {
	t.Parallel()

	ev := pqgjson.NewStateExtractor().Extract(pageharvest.Snapshot{HTML: "<html><body><p>plain</p></body></html>"})

	assert.Empty(t, ev.Markers)
	assert.Zero(t, ev.Total)
}
