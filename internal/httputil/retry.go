// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the request plumbing shared by remote clients:
// a minimum-interval rate limiter and a bounded retry policy for HTTP 429.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"
)

// DefaultMaxAttempts is used when RetryPolicy.MaxAttempts is not positive.
const DefaultMaxAttempts = 3

// Sender performs exactly one HTTP round trip.
type Sender func(req *http.Request) (*http.Response, error)

// RetryPolicy controls DoWithRetry.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// Backoff is multiplied by the attempt number to get the wait after a
	// 429: Backoff, 2*Backoff, 3*Backoff, ...
	Backoff time.Duration

	// Sleep waits for d or until ctx is done. Tests substitute a fake.
	Sleep func(ctx context.Context, d time.Duration) error

	// OnRetry, when set, is called before each backoff wait.
	OnRetry func(attempt int, wait time.Duration)
}

// DoWithRetry sends req and retries only on HTTP 429 (Too Many Requests),
// waiting Backoff × attempt between tries. Every other failure is terminal:
// a transport error or a non-2xx status other than 429 returns at once.
//
// A 2xx response is returned with its body open for the caller. Any other
// outcome returns a *RemoteError with the status and a truncated body. If
// the context ends during a backoff wait, ctx.Err() is returned.
func DoWithRetry(ctx context.Context, send Sender, req *http.Request, policy RetryPolicy) (*http.Response, error) {
	maxAttempts := policy.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	sleep := policy.Sleep
	if sleep == nil {
		sleep = SleepContext
	}
	url := req.URL.String()

	for attempt := 1; ; attempt++ {
		resp, err := send(req.Clone(ctx))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, &RemoteError{URL: url, Attempts: attempt, Err: err}
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyExcerpt+1))
		resp.Body.Close()

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxAttempts {
			return nil, &RemoteError{
				URL:        url,
				StatusCode: resp.StatusCode,
				Body:       excerpt(body),
				Attempts:   attempt,
			}
		}

		wait := policy.Backoff * time.Duration(attempt)
		if policy.OnRetry != nil {
			policy.OnRetry(attempt, wait)
		}
		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

// SleepContext waits for d, returning early with ctx.Err() if ctx ends first.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
