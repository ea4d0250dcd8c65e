package extract_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gogibeta/pageharvest"
	"github.com/gogibeta/pageharvest/extract"
	"github.com/gogibeta/pageharvest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastService(browser pageharvest.Browser) *extract.Service {
	registry := extract.NewRegistry()
	registry.RegisterQuick(extract.NewImageURLExtractor())
	registry.RegisterQuick(extract.NewScriptPairsExtractor())
	registry.RegisterQuick(extract.NewPageCountExtractor())

	harvester := extract.NewHarvester(registry)
	harvester.ScrollPause = time.Millisecond

	return &extract.Service{
		Browser:   browser,
		Navigator: fastNavigator(),
		Harvester: harvester,
		ImageHost: "img.example.com",
	}
}

func TestService_Extract(t *testing.T) {
	t.Parallel()

	// The embed view renders the first two pages up front and materializes
	// the third only after scrolling; the visible text reports the total.
	const (
		firstView = `<html><body>
			<img src="https://img.example.com/abcd1234/images/1-aa11.png">
			<img src="https://img.example.com/abcd1234/images/2-bb22.jpg">
		</body></html>`
		scrolledView = `<html><body>
			<img src="https://img.example.com/abcd1234/images/1-aa11.png">
			<img src="https://img.example.com/abcd1234/images/2-bb22.jpg">
			<img src="https://img.example.com/abcd1234/images/3-cc33.png">
		</body></html>`
	)

	scrolled := false
	session := &mock.Session{
		SnapshotFn: func(ctx context.Context) (pageharvest.Snapshot, error) {
			if scrolled {
				return pageharvest.Snapshot{HTML: scrolledView, Text: "3 pages"}, nil
			}
			return pageharvest.Snapshot{HTML: firstView, Text: "3 pages"}, nil
		},
		ScrollByFn: func(ctx context.Context, pixels int) error {
			scrolled = true
			return nil
		},
	}
	browser := &mock.Browser{NewSessionFn: func(ctx context.Context) (pageharvest.Session, error) {
		return session, nil
	}}

	result, err := fastService(browser).Extract(context.Background(), "https://docs.example.com/document/123456/My-Title")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "123456", result.DocID)
	assert.Equal(t, "abcd1234", result.AssetID)
	assert.Equal(t, 3, result.PageCount)
	assert.Equal(t, []pageharvest.Page{
		{Page: 1, Hash: "aa11", URL: "https://img.example.com/abcd1234/images/1-aa11.png"},
		{Page: 2, Hash: "bb22", URL: "https://img.example.com/abcd1234/images/2-bb22.png"},
		{Page: 3, Hash: "cc33", URL: "https://img.example.com/abcd1234/images/3-cc33.png"},
	}, result.Pages)
	assert.Empty(t, result.Error)
	require.NotNil(t, result.Diagnostics)
	assert.Equal(t, 1, result.Diagnostics.ScrollCycles, "loop must stop once the known total is reached")
	assert.Equal(t, 3, result.Diagnostics.TotalSignal)
	assert.True(t, session.Closed, "session must be released after the extraction")
}

func TestService_Extract_InvalidURL(t *testing.T) {
	t.Parallel()

	browser := &mock.Browser{NewSessionFn: func(ctx context.Context) (pageharvest.Session, error) {
		t.Fatal("no session should be opened for a non-document URL")
		return nil, nil
	}}

	result, err := fastService(browser).Extract(context.Background(), "https://docs.example.com/about")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, pageharvest.EINVALID, pageharvest.ErrorCode(err))
}

func TestService_Extract_NavigationFailureDegrades(t *testing.T) {
	t.Parallel()

	session := &mock.Session{
		NavigateFn: func(ctx context.Context, url string) error {
			return errors.New("net::ERR_NAME_NOT_RESOLVED")
		},
	}
	browser := &mock.Browser{NewSessionFn: func(ctx context.Context) (pageharvest.Session, error) {
		return session, nil
	}}

	result, err := fastService(browser).Extract(context.Background(), "https://docs.example.com/document/123456")

	require.NoError(t, err, "navigation failure is a degraded result, not an error")
	assert.False(t, result.Success)
	assert.Equal(t, "123456", result.DocID)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, result.Pages)
	assert.NotNil(t, result.Pages, "pages must serialize as [] even when empty")
}

func TestService_Extract_BrowserUnavailable(t *testing.T) {
	t.Parallel()

	browser := &mock.Browser{NewSessionFn: func(ctx context.Context) (pageharvest.Session, error) {
		return nil, pageharvest.Errorf(pageharvest.EUNAVAILABLE, "browser engine offline")
	}}

	result, err := fastService(browser).Extract(context.Background(), "https://docs.example.com/document/123456")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, pageharvest.EUNAVAILABLE, pageharvest.ErrorCode(err))
}

func TestService_Extract_EmptyHarvestIsSuccessful(t *testing.T) {
	t.Parallel()

	// A page that loads but never exposes markers yields an empty success;
	// the site may legitimately render nothing extractable.
	session := &mock.Session{
		SnapshotFn: func(ctx context.Context) (pageharvest.Snapshot, error) {
			return pageharvest.Snapshot{HTML: "<html><body>nothing here</body></html>"}, nil
		},
	}
	browser := &mock.Browser{NewSessionFn: func(ctx context.Context) (pageharvest.Session, error) {
		return session, nil
	}}

	svc := fastService(browser)
	svc.Harvester.MaxScrolls = 3

	result, err := svc.Extract(context.Background(), "https://docs.example.com/document/123456")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Pages)
	assert.Zero(t, result.PageCount)
}
