package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gogibeta/pageharvest"
	phhttp "github.com/gogibeta/pageharvest/http"
	"github.com/gogibeta/pageharvest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, service pageharvest.Service, cache pageharvest.Cache) *httptest.Server {
	t.Helper()

	srv := phhttp.New(phhttp.Config{
		Service: service,
		Cache:   cache,
		Metrics: phhttp.NewMetrics(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func okResult(docID string) *pageharvest.Result {
	return &pageharvest.Result{
		Success:   true,
		DocID:     docID,
		AssetID:   "abcd1234",
		Title:     "Annual Report",
		PageCount: 2,
		Pages: []pageharvest.Page{
			{Page: 1, Hash: "aa11", URL: "https://img.example.com/abcd1234/images/1-aa11.png"},
			{Page: 2, Hash: "bb22", URL: "https://img.example.com/abcd1234/images/2-bb22.png"},
		},
	}
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &mock.Service{}, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var health phhttp.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, pageharvest.Version, health.Version)
}

func TestServer_ExtractGet(t *testing.T) {
	t.Parallel()

	service := &mock.Service{ExtractFn: func(ctx context.Context, rawURL string) (*pageharvest.Result, error) {
		assert.Equal(t, "https://docs.example.com/document/123456", rawURL)
		return okResult("123456"), nil
	}}
	ts := newTestServer(t, service, nil)

	resp, err := http.Get(ts.URL + "/extract?url=" + "https%3A%2F%2Fdocs.example.com%2Fdocument%2F123456")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result pageharvest.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.Success)
	assert.Equal(t, "123456", result.DocID)
	assert.Len(t, result.Pages, 2)
}

func TestServer_ExtractGet_MissingURL(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &mock.Service{}, nil)

	resp, err := http.Get(ts.URL + "/extract")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Extract_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid input", pageharvest.Errorf(pageharvest.EINVALID, "not a document URL"), http.StatusBadRequest},
		{"browser down", pageharvest.Errorf(pageharvest.EUNAVAILABLE, "browser engine offline"), http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			service := &mock.Service{ExtractFn: func(ctx context.Context, rawURL string) (*pageharvest.Result, error) {
				return nil, tt.err
			}}
			ts := newTestServer(t, service, nil)

			resp, err := http.Get(ts.URL + "/extract?url=x")
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body phhttp.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestServer_ExtractPost_SaveForwardsToCache(t *testing.T) {
	t.Parallel()

	service := &mock.Service{ExtractFn: func(ctx context.Context, rawURL string) (*pageharvest.Result, error) {
		return okResult("123456"), nil
	}}
	var saved *pageharvest.Result
	cache := &mock.Cache{SaveResultFn: func(ctx context.Context, result *pageharvest.Result) error {
		saved = result
		return nil
	}}
	ts := newTestServer(t, service, cache)

	resp, err := http.Post(ts.URL+"/extract", "application/json",
		strings.NewReader(`{"url": "https://docs.example.com/document/123456", "save": true}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, saved, "successful non-empty result must be forwarded")
	assert.Equal(t, "123456", saved.DocID)
}

func TestServer_ExtractPost_NoSaveSkipsCache(t *testing.T) {
	t.Parallel()

	service := &mock.Service{ExtractFn: func(ctx context.Context, rawURL string) (*pageharvest.Result, error) {
		return okResult("123456"), nil
	}}
	cache := &mock.Cache{SaveResultFn: func(ctx context.Context, result *pageharvest.Result) error {
		t.Error("cache must not be called without save")
		return nil
	}}
	ts := newTestServer(t, service, cache)

	resp, err := http.Post(ts.URL+"/extract", "application/json",
		strings.NewReader(`{"url": "https://docs.example.com/document/123456"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_ExtractPost_CacheFailureDoesNotAffectResponse(t *testing.T) {
	t.Parallel()

	service := &mock.Service{ExtractFn: func(ctx context.Context, rawURL string) (*pageharvest.Result, error) {
		return okResult("123456"), nil
	}}
	cache := &mock.Cache{SaveResultFn: func(ctx context.Context, result *pageharvest.Result) error {
		return errors.New("cache service unreachable")
	}}
	ts := newTestServer(t, service, cache)

	resp, err := http.Post(ts.URL+"/extract", "application/json",
		strings.NewReader(`{"url": "https://docs.example.com/document/123456", "save": true}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result pageharvest.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.Success)
}

func TestServer_ExtractPost_InvalidBody(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &mock.Service{}, nil)

	resp, err := http.Post(ts.URL+"/extract", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Batch(t *testing.T) {
	t.Parallel()

	// One good document, one that fails extraction, one empty harvest.
	service := &mock.Service{ExtractFn: func(ctx context.Context, rawURL string) (*pageharvest.Result, error) {
		switch {
		case strings.Contains(rawURL, "111"):
			return okResult("111"), nil
		case strings.Contains(rawURL, "222"):
			return nil, pageharvest.Errorf(pageharvest.EINVALID, "not a document URL")
		default:
			return &pageharvest.Result{Success: true, DocID: "333", Pages: []pageharvest.Page{}}, nil
		}
	}}
	var saves int
	cache := &mock.Cache{SaveResultFn: func(ctx context.Context, result *pageharvest.Result) error {
		saves++
		return nil
	}}
	ts := newTestServer(t, service, cache)

	resp, err := http.Post(ts.URL+"/batch", "application/json",
		strings.NewReader(`{"urls": ["https://d.example.com/document/111", "https://d.example.com/document/222", "https://d.example.com/document/333"]}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []phhttp.BatchItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	require.Len(t, items, 3)

	assert.True(t, items[0].Success)
	assert.Equal(t, 2, items[0].Pages)
	assert.False(t, items[1].Success, "a failed URL is summarized, not fatal")
	assert.True(t, items[2].Success)
	assert.Zero(t, items[2].Pages)

	assert.Equal(t, 1, saves, "only successful non-empty results are persisted")
}

func TestServer_Metrics(t *testing.T) {
	t.Parallel()

	service := &mock.Service{ExtractFn: func(ctx context.Context, rawURL string) (*pageharvest.Result, error) {
		return okResult("123456"), nil
	}}
	ts := newTestServer(t, service, nil)

	_, err := http.Get(ts.URL + "/extract?url=x")
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `pageharvest_extractions_total{outcome="success"} 1`)
}
