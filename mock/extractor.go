package mock

import "github.com/gogibeta/pageharvest"

var _ pageharvest.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pageharvest.Extractor.
type Extractor struct {
	NameValue string
	ExtractFn func(snap pageharvest.Snapshot) pageharvest.Evidence
}

func (e *Extractor) Name() string {
	if e.NameValue == "" {
		return "mock"
	}
	return e.NameValue
}

func (e *Extractor) Extract(snap pageharvest.Snapshot) pageharvest.Evidence {
	return e.ExtractFn(snap)
}
