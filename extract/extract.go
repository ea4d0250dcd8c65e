// Package extract provides the page-discovery extraction pipeline.
// It coordinates navigation to a document's viewer, the scroll-and-rescan
// harvest loop that collects page markers from a lazily loaded page, and the
// assembly of the final result.
package extract

import (
	"context"
	"time"

	"github.com/gogibeta/pageharvest"
	"golang.org/x/time/rate"
)

// Ensure Service implements pageharvest.Service at compile time.
var _ pageharvest.Service = (*Service)(nil)

// Service runs complete extractions. Each call opens its own isolated
// rendering context; Service holds no per-extraction state and is safe for
// concurrent use.
type Service struct {
	Browser   pageharvest.Browser
	Navigator *Navigator
	Harvester *Harvester

	// ImageHost is the image-hosting domain used to construct page URLs.
	ImageHost string

	// Limiter, if set, is waited on before each extraction to stay polite
	// toward the target site.
	Limiter *rate.Limiter
}

// Extract runs one extraction for a document URL.
//
// Navigation failures degrade to a Result with Success=false. The only
// errors returned are EINVALID (URL does not reference a document),
// EUNAVAILABLE (browser engine could not be started), and context errors.
func (s *Service) Extract(ctx context.Context, rawURL string) (*pageharvest.Result, error) {
	docID, err := pageharvest.ParseDocID(rawURL)
	if err != nil {
		return nil, err
	}

	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	session, landedURL, err := s.Navigator.Open(ctx, s.Browser, docID)
	if err != nil {
		if pageharvest.ErrorCode(err) == pageharvest.EUNAVAILABLE {
			return nil, err
		}
		return &pageharvest.Result{
			DocID: string(docID),
			Pages: []pageharvest.Page{},
			Error: pageharvest.ErrorMessage(err),
		}, nil
	}
	defer session.Close()

	harvest := s.Harvester.Harvest(ctx, session)

	result := Assemble(docID, harvest, s.ImageHost)
	result.Diagnostics = &pageharvest.Diagnostics{
		CandidateURL: landedURL,
		ScrollCycles: harvest.Cycles,
		TotalSignal:  harvest.Total,
	}
	return result, nil
}

// sleepCtx pauses for d unless the context is done first.
// Returns false if the context expired during the pause.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
