package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/gogibeta/pageharvest"
)

// Ensure the logging decorators implement the domain interfaces.
var (
	_ pageharvest.Browser = (*LoggingBrowser)(nil)
	_ pageharvest.Session = (*loggingSession)(nil)
)

// LoggingBrowser wraps a Browser with debug logging of session lifecycle and
// navigation.
type LoggingBrowser struct {
	next   pageharvest.Browser
	logger *slog.Logger
}

// NewLoggingBrowser creates a new LoggingBrowser.
func NewLoggingBrowser(next pageharvest.Browser, logger *slog.Logger) *LoggingBrowser {
	return &LoggingBrowser{next: next, logger: logger}
}

// NewSession logs session creation and wraps the session with navigation
// logging.
func (b *LoggingBrowser) NewSession(ctx context.Context) (pageharvest.Session, error) {
	begin := time.Now()
	session, err := b.next.NewSession(ctx)
	b.logger.Debug("new session", "duration", time.Since(begin), "err", err)
	if err != nil {
		return nil, err
	}
	return &loggingSession{next: session, logger: b.logger}, nil
}

// Close delegates to the wrapped browser.
func (b *LoggingBrowser) Close() error {
	return b.next.Close()
}

type loggingSession struct {
	next   pageharvest.Session
	logger *slog.Logger
}

func (s *loggingSession) Navigate(ctx context.Context, url string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("navigate", "url", url, "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.Navigate(ctx, url)
}

func (s *loggingSession) Snapshot(ctx context.Context) (pageharvest.Snapshot, error) {
	return s.next.Snapshot(ctx)
}

func (s *loggingSession) ScrollBy(ctx context.Context, pixels int) error {
	return s.next.ScrollBy(ctx, pixels)
}

func (s *loggingSession) ScrollTop(ctx context.Context) error {
	return s.next.ScrollTop(ctx)
}

func (s *loggingSession) Click(ctx context.Context, selector string) error {
	err := s.next.Click(ctx, selector)
	s.logger.Debug("click", "selector", selector, "err", err)
	return err
}

func (s *loggingSession) Close() error {
	return s.next.Close()
}
