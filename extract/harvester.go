package extract

import (
	"context"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gogibeta/pageharvest"
)

// Harvest loop defaults. The viewer virtualizes page rendering, so the loop
// scrolls to materialize pages and self-terminates on a known total or the
// iteration budget; there is no "loading complete" event to wait for.
const (
	DefaultMaxScrolls      = 100
	DefaultScrollStep      = 1200
	DefaultScrollPause     = 300 * time.Millisecond
	DefaultStagnationLimit = 8
)

// Harvester collects the maximal set of distinct page markers discoverable
// within a bounded effort budget. It never fails: an empty accumulator is a
// valid outcome and is reported upward as-is.
type Harvester struct {
	Registry *Registry

	// MaxScrolls bounds the number of scroll cycles.
	MaxScrolls int
	// ScrollStep is the forward scroll increment in pixels.
	ScrollStep int
	// ScrollPause is the wait after each scroll for lazy content to attach.
	ScrollPause time.Duration
	// StagnationLimit is the number of fruitless cycles tolerated before the
	// one-shot scroll reset that dislodges a stuck lazy-loader.
	StagnationLimit int
}

// NewHarvester creates a Harvester with default budgets and the given
// registry.
func NewHarvester(registry *Registry) *Harvester {
	return &Harvester{
		Registry:        registry,
		MaxScrolls:      DefaultMaxScrolls,
		ScrollStep:      DefaultScrollStep,
		ScrollPause:     DefaultScrollPause,
		StagnationLimit: DefaultStagnationLimit,
	}
}

// Harvest holds everything the harvest loop accumulated: the marker
// accumulator keyed by page number, the first-seen asset identifier and
// title, the total-page signal, and the number of scroll cycles used.
type Harvest struct {
	Markers map[int]pageharvest.PageMarker
	AssetID string
	Title   string
	Total   int
	Cycles  int
}

// harvestState is the mutable loop state threaded through each iteration.
type harvestState struct {
	Harvest
	stagnant   int
	recovered  bool
	lastDigest uint64
}

// merge folds evidence into the accumulator. Page numbers already present
// keep their first-seen hash. Returns the number of new markers added.
func (st *harvestState) merge(ev pageharvest.Evidence) int {
	added := 0
	for _, m := range ev.Markers {
		if _, ok := st.Markers[m.Page]; ok {
			continue
		}
		st.Markers[m.Page] = m
		added++
	}
	if st.AssetID == "" {
		st.AssetID = ev.AssetID
	}
	if st.Title == "" {
		st.Title = ev.Title
	}
	if st.Total == 0 {
		st.Total = ev.Total
	}
	return added
}

// Harvest runs the evidence-extraction passes and the scroll loop against a
// live session. It stops when the accumulated page count reaches the
// detected total, the scroll budget is exhausted, or the context is done.
func (h *Harvester) Harvest(ctx context.Context, session pageharvest.Session) *Harvest {
	maxScrolls := h.MaxScrolls
	if maxScrolls <= 0 {
		maxScrolls = DefaultMaxScrolls
	}
	step := h.ScrollStep
	if step <= 0 {
		step = DefaultScrollStep
	}
	pause := h.ScrollPause
	if pause <= 0 {
		pause = DefaultScrollPause
	}
	stagnationLimit := h.StagnationLimit
	if stagnationLimit <= 0 {
		stagnationLimit = DefaultStagnationLimit
	}

	st := &harvestState{
		Harvest: Harvest{Markers: make(map[int]pageharvest.PageMarker)},
	}

	// Initial full pass over all evidence channels.
	if snap, err := session.Snapshot(ctx); err == nil {
		for _, e := range h.Registry.Full() {
			st.merge(e.Extract(snap))
		}
		st.lastDigest = xxhash.Sum64String(snap.HTML)
	}

	for st.Cycles < maxScrolls {
		if ctx.Err() != nil {
			break
		}
		if st.Total > 0 && len(st.Markers) >= st.Total {
			break
		}

		st.Cycles++
		_ = session.ScrollBy(ctx, step)
		if !sleepCtx(ctx, pause) {
			break
		}

		snap, err := session.Snapshot(ctx)
		if err != nil {
			st.stagnant++
			h.maybeRecover(ctx, session, st, step, stagnationLimit)
			continue
		}

		added := 0
		for _, e := range h.Registry.Quick() {
			added += st.merge(e.Extract(snap))
		}

		digest := xxhash.Sum64String(snap.HTML)
		if added == 0 && digest == st.lastDigest {
			st.stagnant++
		} else {
			st.stagnant = 0
		}
		st.lastDigest = digest

		h.maybeRecover(ctx, session, st, step, stagnationLimit)
	}

	harvest := st.Harvest
	return &harvest
}

// maybeRecover performs the one-shot stagnation recovery: reset to the top
// and scroll forward aggressively, then let normal scrolling resume.
func (h *Harvester) maybeRecover(ctx context.Context, session pageharvest.Session, st *harvestState, step, limit int) {
	if st.recovered || st.stagnant < limit {
		return
	}
	st.recovered = true
	st.stagnant = 0
	_ = session.ScrollTop(ctx)
	_ = session.ScrollBy(ctx, step*10)
}
