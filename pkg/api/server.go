// Package api serves archived IPD snapshots over a read-only REST API.
//
// Routes live under /api/v1 and answer with a JSON envelope of the form
// {"success": bool, "data": ..., "error": "..."}. When an API key is
// configured every /api/v1 request must carry it in the X-API-Key header.
// Prometheus metrics are exposed on /metrics without authentication.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ssargent/ipd/pkg/interp"
	"github.com/ssargent/ipd/pkg/ipd"
)

// Server holds the API server state
type Server struct {
	store    SnapshotStore
	registry *interp.Registry
	config   ServerConfig
	metrics  *Metrics
	logger   *zap.Logger

	mu    sync.RWMutex
	files map[string]*ipd.File
}

// NewServer creates a new API server. A nil registry shows field data as hex.
func NewServer(store SnapshotStore, registry *interp.Registry, config ServerConfig, metrics *Metrics, logger *zap.Logger) *Server {
	if registry == nil {
		registry = interp.NewRegistry()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		store:    store,
		registry: registry,
		config:   config,
		metrics:  metrics,
		logger:   logger,
		files:    make(map[string]*ipd.File),
	}
}

// Router builds the HTTP handler with all routes configured
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if s.config.APIKey != "" {
			r.Use(s.metrics.InstrumentAuthMiddleware(apiKeyMiddleware(s.config.APIKey)))
		}

		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		r.Get("/snapshots", s.metrics.InstrumentHandler("GET", "/api/v1/snapshots", s.handleListSnapshots))
		r.Get("/snapshots/{id}", s.metrics.InstrumentHandler("GET", "/api/v1/snapshots/{id}", s.handleGetSnapshot))
		r.Get("/snapshots/{id}/databases",
			s.metrics.InstrumentHandler("GET", "/api/v1/snapshots/{id}/databases", s.handleListDatabases))
		r.Get("/snapshots/{id}/databases/{name}/records",
			s.metrics.InstrumentHandler("GET", "/api/v1/snapshots/{id}/databases/{name}/records", s.handleListRecords))
	})

	return r
}

// ListenAndServe serves the API until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Bind, strconv.Itoa(s.config.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting ipd REST API server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down ipd REST API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartServer serves store until ctx is cancelled
func StartServer(ctx context.Context, store SnapshotStore, registry *interp.Registry, config ServerConfig, logger *zap.Logger) error {
	return NewServer(store, registry, config, NewMetrics(), logger).ListenAndServe(ctx)
}

// file returns the decoded snapshot, loading it from the store on first use.
// Decoded files are immutable and shared between requests.
func (s *Server) file(id string) (*ipd.File, error) {
	start := time.Now()

	s.mu.RLock()
	f, ok := s.files[id]
	s.mu.RUnlock()
	if ok {
		s.metrics.RecordSnapshotLoad("hit", time.Since(start))
		return f, nil
	}

	f, err := s.store.Load(id)
	if err != nil {
		s.metrics.RecordSnapshotLoad("error", time.Since(start))
		return nil, err
	}

	s.mu.Lock()
	if cached, ok := s.files[id]; ok {
		f = cached
	} else {
		s.files[id] = f
	}
	n := len(s.files)
	s.mu.Unlock()

	s.metrics.RecordSnapshotLoad("miss", time.Since(start))
	s.metrics.SetSnapshotsCached(n)
	return f, nil
}
