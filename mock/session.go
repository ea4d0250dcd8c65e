package mock

import (
	"context"

	"github.com/gogibeta/pageharvest"
)

var (
	_ pageharvest.Browser = (*Browser)(nil)
	_ pageharvest.Session = (*Session)(nil)
)

// Browser is a mock implementation of pageharvest.Browser.
type Browser struct {
	NewSessionFn func(ctx context.Context) (pageharvest.Session, error)
	CloseFn      func() error
}

func (b *Browser) NewSession(ctx context.Context) (pageharvest.Session, error) {
	return b.NewSessionFn(ctx)
}

func (b *Browser) Close() error {
	if b.CloseFn == nil {
		return nil
	}
	return b.CloseFn()
}

// Session is a mock implementation of pageharvest.Session.
// Unset function fields are no-ops so tests only script what they assert.
type Session struct {
	NavigateFn  func(ctx context.Context, url string) error
	SnapshotFn  func(ctx context.Context) (pageharvest.Snapshot, error)
	ScrollByFn  func(ctx context.Context, pixels int) error
	ScrollTopFn func(ctx context.Context) error
	ClickFn     func(ctx context.Context, selector string) error
	CloseFn     func() error

	// Closed records whether Close was called, for release-on-exit checks.
	Closed bool
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	if s.NavigateFn == nil {
		return nil
	}
	return s.NavigateFn(ctx, url)
}

func (s *Session) Snapshot(ctx context.Context) (pageharvest.Snapshot, error) {
	if s.SnapshotFn == nil {
		return pageharvest.Snapshot{}, nil
	}
	return s.SnapshotFn(ctx)
}

func (s *Session) ScrollBy(ctx context.Context, pixels int) error {
	if s.ScrollByFn == nil {
		return nil
	}
	return s.ScrollByFn(ctx, pixels)
}

func (s *Session) ScrollTop(ctx context.Context) error {
	if s.ScrollTopFn == nil {
		return nil
	}
	return s.ScrollTopFn(ctx)
}

func (s *Session) Click(ctx context.Context, selector string) error {
	if s.ClickFn == nil {
		return nil
	}
	return s.ClickFn(ctx, selector)
}

func (s *Session) Close() error {
	s.Closed = true
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}
