// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exposes Prometheus metrics for the prediction client:
// outgoing requests, 429 retries, rate-limit waits, and cache lookups.
// A nil *Manager is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

// Manager owns the client's metrics and the registry they live on.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	requests     *prometheus.CounterVec
	retries      prometheus.Counter
	throttleWait prometheus.Histogram
	cacheLookups *prometheus.CounterVec
}

// NewManager creates a manager. Without WithRegistry each manager gets its
// own registry, so several clients in one process never collide.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "foldfetch",
		subsystem:        "client",
		histogramBuckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	auto := promauto.With(m.registry)
	m.requests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "requests_total",
		Help:      "Outgoing requests by payload kind and outcome",
	}, []string{"kind", "outcome"})

	m.retries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rate_limited_retries_total",
		Help:      "Retries scheduled after an HTTP 429 response",
	})

	m.throttleWait = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "throttle_wait_seconds",
		Help:      "Time spent waiting on the rate limiter before a request",
		Buckets:   m.histogramBuckets,
	})

	m.cacheLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_lookups_total",
		Help:      "Cache lookups by cache name and result",
	}, []string{"cache", "result"})

	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest counts one finished request.
func (m *Manager) ObserveRequest(kind, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(kind, outcome).Inc()
}

// ObserveRetry counts one scheduled 429 retry.
func (m *Manager) ObserveRetry() {
	if m == nil {
		return
	}
	m.retries.Inc()
}

// ObserveThrottle records a rate-limiter wait.
func (m *Manager) ObserveThrottle(d time.Duration) {
	if m == nil {
		return
	}
	m.throttleWait.Observe(d.Seconds())
}

// ObserveCacheLookup counts a cache hit or miss.
func (m *Manager) ObserveCacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(cache, result).Inc()
}
