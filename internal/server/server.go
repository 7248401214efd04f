// Package server exposes the aggregation engine's read API over HTTP:
// location and category groups, global statistics, refresh triggering, a
// websocket statistics stream, and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/opencampus/seatmap/internal/engine"
	"github.com/opencampus/seatmap/internal/metrics"
)

// Server is the seatmap HTTP server.
type Server struct {
	httpServer *http.Server
	engine     *engine.Engine
	metrics    *metrics.Metrics
	logger     *zap.Logger
	mux        *http.ServeMux
}

// New creates a new Server instance. metrics may be nil; the /metrics route
// is then omitted.
func New(addr string, eng *engine.Engine, m *metrics.Metrics, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		engine:  eng,
		metrics: m,
		logger:  logger,
		mux:     mux,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/spaces/locations", s.handleLocations)
	s.mux.HandleFunc("GET /api/v1/spaces/locations/{name}", s.handleLocation)
	s.mux.HandleFunc("GET /api/v1/spaces/categories", s.handleCategories)
	s.mux.HandleFunc("GET /api/v1/spaces/stats", s.handleStats)
	s.mux.HandleFunc("POST /api/v1/spaces/refresh", s.handleRefresh)
	s.mux.HandleFunc("GET /api/v1/spaces/watch", s.handleWatch)

	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the route multiplexer, for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "seatmap",
	})
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
