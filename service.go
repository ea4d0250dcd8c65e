package pageharvest

import "context"

// Service runs one complete extraction for a document URL.
type Service interface {
	// Extract parses the document reference out of rawURL, drives a fresh
	// browser session through navigation and harvesting, and returns the
	// assembled Result.
	//
	// Failures inside the pipeline degrade to a Result with Success=false
	// rather than an error. The only errors returned are EINVALID (URL does
	// not reference a document) and EUNAVAILABLE (browser engine could not
	// be started).
	Extract(ctx context.Context, rawURL string) (*Result, error)
}

// Cache forwards extraction results to a remote cache service.
type Cache interface {
	// SaveResult persists a result. Callers treat failures as advisory and
	// never let them affect the extraction outcome.
	SaveResult(ctx context.Context, result *Result) error
}
