// Package http provides the HTTP surface around the extraction pipeline:
// health, synchronous extraction, batch extraction, metrics, and the
// outbound client for the remote cache service. The surface is thin
// plumbing; all design weight lives in the extract package.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gogibeta/pageharvest"
)

// Server is the extraction HTTP server.
type Server struct {
	httpServer *http.Server
	service    pageharvest.Service
	cache      pageharvest.Cache
	metrics    *Metrics
	logger     *slog.Logger
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1).
	Host string
	// Port is the port to listen on (default: 8080).
	Port string
	// Service runs extractions.
	Service pageharvest.Service
	// Cache, if set, receives successful non-empty results when requested.
	Cache pageharvest.Cache
	// Metrics, if set, records extraction outcomes and serves /metrics.
	Metrics *Metrics
	// Logger is the structured logger to use.
	Logger *slog.Logger
}

// New creates a Server with the given configuration.
func New(cfg Config) *Server {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		service: cfg.Service,
		cache:   cfg.Cache,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}

	s.httpServer = &http.Server{
		Addr:    net.JoinHostPort(cfg.Host, cfg.Port),
		Handler: s.routes(),
		// Extractions run synchronously relative to the request and can
		// scroll for minutes; the write timeout must cover a full harvest.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Addr returns the address the server binds to.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the root request handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the server until the context is cancelled or the listener
// fails.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// routes builds the request mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /extract", s.handleExtractGet)
	mux.HandleFunc("POST /extract", s.handleExtractPost)
	mux.HandleFunc("POST /batch", s.handleBatch)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return mux
}

// HealthResponse is the response for the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: pageharvest.Version})
}

func (s *Server) handleExtractGet(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "url query parameter required")
		return
	}
	s.extract(w, r, rawURL, false)
}

// ExtractRequest is the body of POST /extract.
type ExtractRequest struct {
	URL  string `json:"url"`
	Save bool   `json:"save"`
}

func (s *Server) handleExtractPost(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url field required")
		return
	}
	s.extract(w, r, req.URL, req.Save)
}

// extract runs one extraction and writes the result. Cache forwarding
// failure is swallowed: it never affects the HTTP response.
func (s *Server) extract(w http.ResponseWriter, r *http.Request, rawURL string, save bool) {
	begin := time.Now()
	result, err := s.service.Extract(r.Context(), rawURL)
	if s.metrics != nil {
		s.metrics.ObserveExtraction(result, err, time.Since(begin))
	}
	if err != nil {
		switch pageharvest.ErrorCode(err) {
		case pageharvest.EINVALID:
			writeError(w, http.StatusBadRequest, pageharvest.ErrorMessage(err))
		case pageharvest.EUNAVAILABLE:
			writeError(w, http.StatusServiceUnavailable, pageharvest.ErrorMessage(err))
		default:
			s.logger.Error("extract failed", "url", rawURL, "err", err)
			writeError(w, http.StatusInternalServerError, pageharvest.ErrorMessage(err))
		}
		return
	}

	if save {
		s.forward(r.Context(), result)
	}

	writeJSON(w, http.StatusOK, result)
}

// BatchRequest is the body of POST /batch.
type BatchRequest struct {
	URLs []string `json:"urls"`
}

// BatchItem summarizes one document's outcome in a batch run.
type BatchItem struct {
	URL     string `json:"url"`
	Success bool   `json:"success"`
	Pages   int    `json:"pages"`
}

// handleBatch runs extractions sequentially and opportunistically persists
// successful non-empty results. Per-URL failures are folded into the
// summary, never into the response status.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	items := make([]BatchItem, 0, len(req.URLs))
	for _, rawURL := range req.URLs {
		item := BatchItem{URL: rawURL}

		begin := time.Now()
		result, err := s.service.Extract(r.Context(), rawURL)
		if s.metrics != nil {
			s.metrics.ObserveExtraction(result, err, time.Since(begin))
		}
		if err != nil {
			s.logger.Warn("batch extract failed", "url", rawURL, "err", err)
			items = append(items, item)
			continue
		}

		item.Success = result.Success
		item.Pages = len(result.Pages)
		s.forward(r.Context(), result)
		items = append(items, item)
	}

	writeJSON(w, http.StatusOK, items)
}

// forward sends a successful non-empty result to the cache service,
// swallowing failures.
func (s *Server) forward(ctx context.Context, result *pageharvest.Result) {
	if s.cache == nil || !result.Success || len(result.Pages) == 0 {
		return
	}
	if err := s.cache.SaveResult(ctx, result); err != nil {
		s.logger.Warn("cache forward failed", "doc_id", result.DocID, "err", err)
	}
}

// ErrorResponse is the JSON body for non-200 responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
