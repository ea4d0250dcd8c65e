package extract

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/gogibeta/pageharvest"
)

// Navigation defaults.
const (
	DefaultNavTimeout  = 30 * time.Second
	DefaultSettleDelay = 3 * time.Second
)

// DefaultClickSelectors are UI affordances worth a best-effort click after
// navigation settles. Failure to find or click them never aborts the flow.
var DefaultClickSelectors = []string{
	`button[aria-label="Read for free"]`,
	`.fullscreen_button`,
	`button[data-e2e="fullscreen"]`,
}

// viewerFramePattern locates an embedded viewer iframe in markup that
// resolved to a login, paywall, or redirect page instead of the viewer.
var viewerFramePattern = regexp.MustCompile(`(?i)<iframe[^>]+src=["']([^"']*/embeds/[^"']*)["']`)

// Navigator opens a session positioned on a page from which page markers are
// extractable. It tries ordered candidate URLs with a bounded timeout each;
// a timeout or network failure on one candidate falls through to the next.
type Navigator struct {
	// BaseURL is the document-hosting site root, e.g. "https://www.scribd.com".
	BaseURL string

	// NavTimeout bounds each candidate navigation.
	NavTimeout time.Duration

	// SettleDelay is the fixed wait after navigation for client-side
	// rendering to populate the DOM. There is no reliable readiness signal
	// to wait on instead.
	SettleDelay time.Duration

	// ClickSelectors are clicked best-effort after the settle delay.
	ClickSelectors []string
}

// NewNavigator creates a Navigator with default timeouts and click targets.
func NewNavigator(baseURL string) *Navigator {
	return &Navigator{
		BaseURL:        baseURL,
		NavTimeout:     DefaultNavTimeout,
		SettleDelay:    DefaultSettleDelay,
		ClickSelectors: DefaultClickSelectors,
	}
}

// Candidates returns the ordered navigation targets for a document: the
// lightweight embed view first, then the full document view.
func (n *Navigator) Candidates(docID pageharvest.DocID) []string {
	return []string{
		fmt.Sprintf("%s/embeds/%s/content", n.BaseURL, docID),
		fmt.Sprintf("%s/document/%s", n.BaseURL, docID),
	}
}

// Open creates a session and navigates it to the first candidate URL that
// loads. The returned string is the URL the session ended up on.
//
// Returns EUNAVAILABLE if no session could be created and ENAVIGATION if
// every candidate failed; in the latter case the session is already closed.
func (n *Navigator) Open(ctx context.Context, browser pageharvest.Browser, docID pageharvest.DocID) (pageharvest.Session, string, error) {
	session, err := browser.NewSession(ctx)
	if err != nil {
		if pageharvest.ErrorCode(err) == pageharvest.EUNAVAILABLE {
			return nil, "", err
		}
		return nil, "", pageharvest.Errorf(pageharvest.EUNAVAILABLE, "create browser session: %v", err)
	}

	timeout := n.NavTimeout
	if timeout <= 0 {
		timeout = DefaultNavTimeout
	}
	settle := n.SettleDelay
	if settle <= 0 {
		settle = DefaultSettleDelay
	}

	for _, candidate := range n.Candidates(docID) {
		if err := navigate(ctx, session, candidate, timeout); err != nil {
			continue
		}
		if !sleepCtx(ctx, settle) {
			break
		}

		for _, selector := range n.ClickSelectors {
			_ = session.Click(ctx, selector) // best effort
		}

		landed := candidate
		if frameURL := n.viewerFrame(ctx, session, candidate); frameURL != "" {
			if err := navigate(ctx, session, frameURL, timeout); err == nil {
				if !sleepCtx(ctx, settle) {
					break
				}
				landed = frameURL
			}
		}
		return session, landed, nil
	}

	_ = session.Close()
	return nil, "", pageharvest.Errorf(pageharvest.ENAVIGATION, "all navigation candidates failed for document %s", docID)
}

// navigate loads a URL under its own bounded timeout.
func navigate(ctx context.Context, session pageharvest.Session, rawURL string, timeout time.Duration) error {
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return session.Navigate(navCtx, rawURL)
}

// viewerFrame returns the absolute URL of an embedded viewer iframe when the
// current page carries no page markers of its own, or "" when the page
// already looks like a viewer or exposes no such frame.
func (n *Navigator) viewerFrame(ctx context.Context, session pageharvest.Session, baseURL string) string {
	snap, err := session.Snapshot(ctx)
	if err != nil {
		return ""
	}
	if bareImagePattern.MatchString(snap.HTML) {
		return "" // already a viewer
	}
	m := viewerFramePattern.FindStringSubmatch(snap.HTML)
	if m == nil {
		return ""
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(m[1])
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
