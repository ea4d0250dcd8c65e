// Package rod provides the browser automation layer using headless Chrome.
// It implements pageharvest.Browser and pageharvest.Session on top of
// go-rod, with superficial automation-property overrides applied before any
// page script runs.
package rod

import (
	"context"

	"github.com/go-rod/rod/lib/proto"
	"github.com/gogibeta/pageharvest"
)

// Ensure Browser implements pageharvest.Browser at compile time.
var _ pageharvest.Browser = (*Browser)(nil)

// DefaultUserAgent is a realistic desktop Chrome user agent. The headless
// default advertises automation and gets blocked.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Default viewport dimensions.
const (
	DefaultViewportWidth  = 1366
	DefaultViewportHeight = 768
)

// stealthScript overrides the automation-detectable properties. It runs in
// every new document before page scripts.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3] });
window.chrome = window.chrome || { runtime: {} };
`

// Browser creates isolated scraping sessions backed by a managed headless
// Chrome instance. Browser is safe for concurrent use; each session gets its
// own page target.
type Browser struct {
	manager   *Manager
	userAgent string
	width     int
	height    int
}

// Option configures a Browser.
type Option func(*Browser, *Manager)

// WithUserAgent overrides the user agent applied to new sessions.
func WithUserAgent(ua string) Option {
	return func(b *Browser, _ *Manager) {
		b.userAgent = ua
	}
}

// WithViewport overrides the viewport dimensions applied to new sessions.
func WithViewport(width, height int) Option {
	return func(b *Browser, _ *Manager) {
		b.width = width
		b.height = height
	}
}

// WithMaxSessions sets the number of sessions before the underlying Chrome
// process is recycled. Defaults to DefaultMaxSessions.
func WithMaxSessions(n int64) Option {
	return func(_ *Browser, m *Manager) {
		m.maxSessions = n
	}
}

// NewBrowser launches a managed headless Chrome instance.
// Close must be called when the Browser is no longer needed.
//
// Returns EUNAVAILABLE if Chrome/Chromium cannot be found or launched.
func NewBrowser(opts ...Option) (*Browser, error) {
	b := &Browser{
		userAgent: DefaultUserAgent,
		width:     DefaultViewportWidth,
		height:    DefaultViewportHeight,
	}
	m := &Manager{maxSessions: DefaultMaxSessions}
	for _, opt := range opts {
		opt(b, m)
	}

	if err := m.launch(); err != nil {
		return nil, pageharvest.Errorf(pageharvest.EUNAVAILABLE, "launch browser: %v", err)
	}
	b.manager = m
	return b, nil
}

// NewSession opens a fresh page target configured with the user agent,
// viewport, and automation-property overrides.
func (b *Browser) NewSession(ctx context.Context) (pageharvest.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := b.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, pageharvest.Errorf(pageharvest.EUNAVAILABLE, "create page target: %v", err)
	}

	configured := page.Context(ctx)
	if err := configured.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.userAgent}); err != nil {
		_ = page.Close()
		return nil, pageharvest.Errorf(pageharvest.EUNAVAILABLE, "set user agent: %v", err)
	}
	if err := configured.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             b.width,
		Height:            b.height,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = page.Close()
		return nil, pageharvest.Errorf(pageharvest.EUNAVAILABLE, "set viewport: %v", err)
	}
	if _, err := configured.EvalOnNewDocument(stealthScript); err != nil {
		_ = page.Close()
		return nil, pageharvest.Errorf(pageharvest.EUNAVAILABLE, "install overrides: %v", err)
	}

	b.manager.IncrementSessionCount()
	return &Session{page: page}, nil
}

// Close releases the underlying Chrome instance. Safe to call multiple
// times.
func (b *Browser) Close() error {
	return b.manager.Close()
}
