// Package slog provides logging decorators for domain services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/gogibeta/pageharvest"
)

// Ensure LoggingService implements pageharvest.Service.
var _ pageharvest.Service = (*LoggingService)(nil)

// LoggingService wraps a Service with structured logging of each extraction.
type LoggingService struct {
	next   pageharvest.Service
	logger *slog.Logger
}

// NewLoggingService creates a new LoggingService.
func NewLoggingService(next pageharvest.Service, logger *slog.Logger) *LoggingService {
	return &LoggingService{next: next, logger: logger}
}

// Extract logs the outcome of the extraction and delegates to the wrapped
// service.
func (s *LoggingService) Extract(ctx context.Context, rawURL string) (result *pageharvest.Result, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", rawURL,
			"duration", time.Since(begin),
			"err", err,
		}
		if result != nil {
			attrs = append(attrs,
				"success", result.Success,
				"doc_id", result.DocID,
				"pages", len(result.Pages),
				"page_count", result.PageCount,
			)
		}
		s.logger.Info("extract", attrs...)
	}(time.Now())
	return s.next.Extract(ctx, rawURL)
}
