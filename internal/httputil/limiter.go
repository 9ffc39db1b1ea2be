// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum interval between permitted calls across all of
// its callers. There is one cadence per limiter, never one per identifier.
type Limiter struct {
	mu       sync.Mutex
	lim      *rate.Limiter
	interval time.Duration
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// LimiterOption configures a Limiter.
type LimiterOption func(*Limiter)

// WithLimiterClock sets the clock used to take reservations.
func WithLimiterClock(now func() time.Time) LimiterOption {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLimiterSleep sets the function used to wait out a reservation.
func WithLimiterSleep(sleep func(ctx context.Context, d time.Duration) error) LimiterOption {
	return func(l *Limiter) {
		if sleep != nil {
			l.sleep = sleep
		}
	}
}

// NewLimiter returns a limiter that spaces calls at least interval apart.
// A non-positive interval yields a limiter that never waits.
func NewLimiter(interval time.Duration, opts ...LimiterOption) *Limiter {
	l := &Limiter{
		interval: interval,
		now:      time.Now,
		sleep:    SleepContext,
	}
	if interval > 0 {
		// Burst 1: the first call passes immediately, every later call
		// waits for the previous one plus interval.
		l.lim = rate.NewLimiter(rate.Every(interval), 1)
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Interval returns the configured minimum spacing. A nil limiter has none.
func (l *Limiter) Interval() time.Duration {
	if l == nil {
		return 0
	}
	return l.interval
}

// Throttle blocks until the caller may send, and reports how long it waited.
// The read-wait-record sequence runs under a mutex so concurrent callers
// are admitted one at a time in arrival order. If ctx ends during the wait
// the reservation is returned to the limiter and ctx.Err() is returned.
func (l *Limiter) Throttle(ctx context.Context) (time.Duration, error) {
	if l == nil || l.lim == nil {
		return 0, ctx.Err()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	t := l.now()
	r := l.lim.ReserveN(t, 1)
	delay := r.DelayFrom(t)
	if delay <= 0 {
		return 0, nil
	}
	if err := l.sleep(ctx, delay); err != nil {
		r.CancelAt(l.now())
		return 0, err
	}
	return delay, nil
}
