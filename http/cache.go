package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-resty/resty/v2"
	"github.com/gogibeta/pageharvest"
)

// Ensure CacheClient implements pageharvest.Cache at compile time.
var _ pageharvest.Cache = (*CacheClient)(nil)

// DefaultCacheTimeout bounds each cache forward request.
const DefaultCacheTimeout = 10 * time.Second

// cacheAttempts is the number of forward attempts before giving up. The
// caller swallows the final error either way.
const cacheAttempts = 3

// CacheClient forwards extraction results to the remote cache service over
// HTTP.
type CacheClient struct {
	client *resty.Client
}

// NewCacheClient creates a CacheClient for the cache service at baseURL.
func NewCacheClient(baseURL string) *CacheClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(DefaultCacheTimeout).
		SetHeader("Content-Type", "application/json")
	return &CacheClient{client: client}
}

// SaveResult posts the result to the cache endpoint, retrying transient
// failures a bounded number of times.
func (c *CacheClient) SaveResult(ctx context.Context, result *pageharvest.Result) error {
	return retry.Do(
		func() error {
			resp, err := c.client.R().
				SetContext(ctx).
				SetBody(result).
				Post("/api/cache")
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("cache service returned %s", resp.Status())
			}
			return nil
		},
		retry.Attempts(cacheAttempts),
		retry.Delay(500*time.Millisecond),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
}

// httpClient exposes the underlying client for transport interception in
// tests.
func (c *CacheClient) httpClient() *http.Client {
	return c.client.GetClient()
}
