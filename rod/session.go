package rod

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/gogibeta/pageharvest"
)

// Ensure Session implements pageharvest.Session at compile time.
var _ pageharvest.Session = (*Session)(nil)

// clickTimeout bounds the element lookup for best-effort clicks. The
// affordances either exist shortly after load or not at all.
const clickTimeout = 2 * time.Second

// Session is a live Chrome page owned by a single extraction.
type Session struct {
	page *rod.Page
}

// Navigate loads the URL and waits for the load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	page := s.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

// Snapshot captures the rendered HTML and the visible body text.
func (s *Session) Snapshot(ctx context.Context) (pageharvest.Snapshot, error) {
	page := s.page.Context(ctx)

	html, err := page.HTML()
	if err != nil {
		return pageharvest.Snapshot{}, err
	}

	// Visible text is best effort; pages without a body yield "".
	var text string
	if obj, err := page.Eval(`() => document.body ? document.body.innerText : ""`); err == nil {
		text = obj.Value.Str()
	}

	return pageharvest.Snapshot{HTML: html, Text: text}, nil
}

// ScrollBy scrolls the viewport forward by the given number of pixels.
func (s *Session) ScrollBy(ctx context.Context, pixels int) error {
	_, err := s.page.Context(ctx).Eval(`(y) => window.scrollBy(0, y)`, pixels)
	return err
}

// ScrollTop resets the viewport to the top of the page.
func (s *Session) ScrollTop(ctx context.Context) error {
	_, err := s.page.Context(ctx).Eval(`() => window.scrollTo(0, 0)`)
	return err
}

// Click locates an element by CSS selector and clicks it. The lookup is
// bounded by a short timeout; an absent element returns an error.
func (s *Session) Click(ctx context.Context, selector string) error {
	el, err := s.page.Context(ctx).Timeout(clickTimeout).Element(selector)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// Close releases the page target.
func (s *Session) Close() error {
	return s.page.Close()
}
