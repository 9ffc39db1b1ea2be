// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch performs rate-limited, retried GET requests against the
// prediction service and returns either decoded JSON or raw text.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Vaishnav14220/chem-canvas-sub005/internal/httputil"
	"github.com/Vaishnav14220/chem-canvas-sub005/internal/metrics"
)

// maxTextBytes caps a downloaded structure file.
const maxTextBytes = 64 << 20

// Payload kinds, used as the metrics label.
const (
	kindJSON = "json"
	kindText = "text"
)

// Client sends every request through one shared Limiter and retries 429s
// according to its RetryPolicy. It keeps no record of failures.
type Client struct {
	http      *http.Client
	limiter   *httputil.Limiter
	policy    httputil.RetryPolicy
	userAgent string
	apiKey    string
	logger    *slog.Logger
	metrics   *metrics.Manager
}

// Option configures a Client.
type Option func(*Client)

// WithRetryPolicy sets the retry policy.
func WithRetryPolicy(p httputil.RetryPolicy) Option {
	return func(c *Client) { c.policy = p }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithAPIKey sends key as the x-api-key header.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records requests, retries and waits on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(c *Client) { c.metrics = m }
}

// New returns a client. A nil httpClient means http.DefaultClient; a nil
// limiter means requests are never throttled.
func New(httpClient *http.Client, limiter *httputil.Limiter, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		http:    httpClient,
		limiter: limiter,
		policy:  httputil.RetryPolicy{MaxAttempts: httputil.DefaultMaxAttempts, Backoff: limiter.Interval()},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON fetches url and decodes the body into out. Numbers decode as
// json.Number so the normalizer sees them exactly as sent.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	resp, err := c.get(ctx, url, "application/json", kindJSON)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decoding JSON from %s: %w", url, err)
	}
	return nil
}

// GetText fetches url and returns the body as text. Structure files are not
// JSON, so they come through here.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	resp, err := c.get(ctx, url, "text/plain, */*", kindText)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTextBytes))
	if err != nil {
		return "", fmt.Errorf("reading body from %s: %w", url, err)
	}
	return string(data), nil
}

func (c *Client) get(ctx context.Context, url, accept, kind string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	req.Header.Set("Accept", accept)

	policy := c.policy
	policy.OnRetry = func(attempt int, wait time.Duration) {
		c.metrics.ObserveRetry()
		c.logger.WarnContext(ctx, "rate limited, retrying",
			slog.String("url", url), slog.Int("attempt", attempt), slog.Duration("wait", wait))
	}

	resp, err := httputil.DoWithRetry(ctx, c.send, req, policy)
	switch {
	case err == nil:
		c.metrics.ObserveRequest(kind, metrics.OutcomeSuccess)
		return resp, nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.metrics.ObserveRequest(kind, metrics.OutcomeCancelled)
	default:
		c.metrics.ObserveRequest(kind, metrics.OutcomeFailed)
		c.logger.DebugContext(ctx, "request failed", slog.String("url", url), slog.Any("error", err))
	}
	return nil, err
}

// send waits for a rate-limit slot, then performs one round trip.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	waited, err := c.limiter.Throttle(req.Context())
	if err != nil {
		return nil, err
	}
	c.metrics.ObserveThrottle(waited)
	c.logger.DebugContext(req.Context(), "sending request",
		slog.String("url", req.URL.String()), slog.Duration("throttled", waited))
	return c.http.Do(req)
}
