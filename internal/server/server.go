// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the prediction client over HTTP so non-Go
// collaborators (viewers, editors) can consume normalized predictions,
// structures, summaries and canonical entities.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Vaishnav14220/chem-canvas-sub005/pkg/types"
)

// MaxBatchSize bounds the identifiers accepted by one batch request.
const MaxBatchSize = 100

const shutdownTimeout = 10 * time.Second

// Service is the prediction API the handlers call.
type Service interface {
	FetchPredictions(ctx context.Context, id string) ([]types.Prediction, error)
	FetchStructure(ctx context.Context, id string, format types.StructureFormat) (*types.StructureDocument, error)
	ConfidenceSummary(ctx context.Context, id string) (*types.ConfidenceSummary, error)
	BatchFetch(ctx context.Context, ids []string, format types.StructureFormat) []types.BatchResult
	ToCanonicalEntity(ctx context.Context, id string) (*types.Entity, error)
	FetchPairwiseError(ctx context.Context, id string) ([][]float64, error)
}

// Server routes HTTP requests to a Service.
type Server struct {
	svc     Service
	logger  *slog.Logger
	metrics http.Handler
	version string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetricsHandler serves h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithVersion is reported by the health endpoint.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New returns a server for svc.
func New(svc Service, opts ...Option) *Server {
	s := &Server{
		svc:     svc,
		logger:  slog.New(slog.DiscardHandler),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine with middleware and routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(requestID(), logging(s.logger), recovery(s.logger))

	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics))
	}

	api := r.Group("/api/v1")
	api.GET("/health", s.health)
	s.registerRoutes(api)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("listening", slog.String("addr", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
