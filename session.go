package pageharvest

import "context"

// Snapshot is one observation of a live rendering context: the full rendered
// HTML and the visible text. Evidence extractors are pure functions over a
// Snapshot.
type Snapshot struct {
	HTML string
	Text string
}

// Session is a live, scriptable rendering context positioned on a page.
// Implementations drive a real browser; tests substitute scripted fakes.
// A Session is owned by a single extraction and is not safe for concurrent
// use.
type Session interface {
	// Navigate loads the URL and waits for the initial load to complete.
	// The context controls timeout and cancellation.
	Navigate(ctx context.Context, url string) error

	// Snapshot captures the currently rendered HTML and visible text.
	Snapshot(ctx context.Context) (Snapshot, error)

	// ScrollBy scrolls the viewport forward by the given number of pixels.
	ScrollBy(ctx context.Context, pixels int) error

	// ScrollTop resets the viewport to the top of the page.
	ScrollTop(ctx context.Context) error

	// Click locates an element by CSS selector and clicks it. It returns an
	// error if the element cannot be found within a short timeout; callers
	// treat click failures as best-effort.
	Click(ctx context.Context, selector string) error

	// Close releases the rendering context. Must be called on every exit
	// path to avoid leaking browser processes.
	Close() error
}

// Browser creates isolated rendering contexts. Implementations may pool or
// recycle the underlying engine process; sessions remain independent.
type Browser interface {
	// NewSession opens a fresh rendering context.
	// Returns EUNAVAILABLE if the engine cannot be started.
	NewSession(ctx context.Context) (Session, error)

	// Close releases the underlying engine.
	Close() error
}
