package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/gogibeta/pageharvest"
	"github.com/gogibeta/pageharvest/mock"
	phslog "github.com/gogibeta/pageharvest/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingService_Extract(t *testing.T) {
	t.Parallel()

	want := &pageharvest.Result{
		Success:   true,
		DocID:     "123456",
		PageCount: 3,
		Pages: []pageharvest.Page{
			{Page: 1, Hash: "aa11"},
			{Page: 2, Hash: "bb22"},
			{Page: 3, Hash: "cc33"},
		},
	}
	next := &mock.Service{ExtractFn: func(ctx context.Context, rawURL string) (*pageharvest.Result, error) {
		return want, nil
	}}

	var buf bytes.Buffer
	svc := phslog.NewLoggingService(next, slog.New(slog.NewTextHandler(&buf, nil)))

	got, err := svc.Extract(context.Background(), "https://docs.example.com/document/123456")

	require.NoError(t, err)
	assert.Same(t, want, got, "decorator must pass the result through unchanged")

	out := buf.String()
	assert.Contains(t, out, "msg=extract")
	assert.Contains(t, out, "doc_id=123456")
	assert.Contains(t, out, "pages=3")
	assert.Contains(t, out, "success=true")
}

func TestLoggingService_ExtractError(t *testing.T) {
	t.Parallel()

	next := &mock.Service{ExtractFn: func(ctx context.Context, rawURL string) (*pageharvest.Result, error) {
		return nil, pageharvest.Errorf(pageharvest.EINVALID, "not a document URL")
	}}

	var buf bytes.Buffer
	svc := phslog.NewLoggingService(next, slog.New(slog.NewTextHandler(&buf, nil)))

	_, err := svc.Extract(context.Background(), "https://docs.example.com/about")

	require.Error(t, err)
	assert.Contains(t, buf.String(), "not a document URL")
}
