package mock

import (
	"context"

	"github.com/gogibeta/pageharvest"
)

var (
	_ pageharvest.Service = (*Service)(nil)
	_ pageharvest.Cache   = (*Cache)(nil)
)

// Service is a mock implementation of pageharvest.Service.
type Service struct {
	ExtractFn func(ctx context.Context, rawURL string) (*pageharvest.Result, error)
}

func (s *Service) Extract(ctx context.Context, rawURL string) (*pageharvest.Result, error) {
	return s.ExtractFn(ctx, rawURL)
}

// Cache is a mock implementation of pageharvest.Cache.
type Cache struct {
	SaveResultFn func(ctx context.Context, result *pageharvest.Result) error
}

func (c *Cache) SaveResult(ctx context.Context, result *pageharvest.Result) error {
	return c.SaveResultFn(ctx, result)
}
