// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package alphafold is the façade over the structural prediction service.
// It validates identifiers, fetches and normalizes prediction records,
// downloads coordinate files with format fallback, summarizes confidence,
// and projects predictions into the canonical Entity shape.
//
// Every Integrator owns its own rate limiter and caches; two integrators
// never share state.
package alphafold

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Vaishnav14220/chem-canvas-sub005/internal/cache"
	"github.com/Vaishnav14220/chem-canvas-sub005/internal/fetch"
	"github.com/Vaishnav14220/chem-canvas-sub005/internal/httputil"
	"github.com/Vaishnav14220/chem-canvas-sub005/internal/metrics"
	"github.com/Vaishnav14220/chem-canvas-sub005/pkg/types"
)

// Cache names, used as the metrics label.
const (
	cachePredictions = "predictions"
	cacheStructures  = "structures"
	cachePairwise    = "pairwise_error"
)

// Integrator fetches, caches, and reshapes predictions for callers.
type Integrator struct {
	cfg     types.ClientConfig
	client  *fetch.Client
	logger  *slog.Logger
	metrics *metrics.Manager

	predictions *cache.TTL[[]types.Prediction]
	structures  *cache.TTL[types.StructureDocument]
	pairwise    *cache.TTL[[][]float64]
}

type settings struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Manager
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error
}

// Option configures an Integrator.
type Option func(*settings)

// WithHTTPClient sets the HTTP client (and so the transport) used for every
// request. Without it a client with cfg.Timeout is created.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.httpClient = c }
}

// WithLogger sets the structured logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithMetrics records requests, retries, waits and cache lookups on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *settings) { s.metrics = m }
}

// WithClock replaces time.Now for the caches and the rate limiter.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithSleep replaces the context-aware sleep used for rate-limit and
// retry waits.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *settings) { s.sleep = sleep }
}

// New builds an Integrator from cfg. Zero-valued fields of cfg take their
// defaults; the configuration is fixed for the Integrator's lifetime.
func New(cfg types.ClientConfig, opts ...Option) *Integrator {
	cfg = cfg.WithDefaults()
	s := settings{
		now:   time.Now,
		sleep: httputil.SleepContext,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	limiter := httputil.NewLimiter(cfg.RateLimitInterval,
		httputil.WithLimiterClock(s.now),
		httputil.WithLimiterSleep(s.sleep),
	)
	client := fetch.New(s.httpClient, limiter,
		fetch.WithRetryPolicy(httputil.RetryPolicy{
			MaxAttempts: cfg.MaxAttempts,
			Backoff:     max(cfg.RateLimitInterval, 0),
			Sleep:       s.sleep,
		}),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithAPIKey(cfg.APIKey),
		fetch.WithLogger(s.logger),
		fetch.WithMetrics(s.metrics),
	)

	return &Integrator{
		cfg:         cfg,
		client:      client,
		logger:      s.logger,
		metrics:     s.metrics,
		predictions: cache.New[[]types.Prediction](cfg.CacheTTL, cfg.CacheEnabled, cache.WithClock(s.now)),
		structures:  cache.New[types.StructureDocument](cfg.CacheTTL, cfg.CacheEnabled, cache.WithClock(s.now)),
		pairwise:    cache.New[[][]float64](cfg.CacheTTL, cfg.CacheEnabled, cache.WithClock(s.now)),
	}
}

// Config returns the effective configuration.
func (i *Integrator) Config() types.ClientConfig {
	return i.cfg
}

func (i *Integrator) predictionURL(id string) string {
	return strings.TrimRight(i.cfg.BaseURL, "/") + "/prediction/" + url.PathEscape(id)
}
