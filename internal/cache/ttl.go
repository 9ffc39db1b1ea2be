// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache provides the in-process TTL cache that keeps expensive
// remote records from being fetched again while they are fresh.
package cache

import (
	"sync"
	"time"
)

// entry is a value plus its absolute expiry instant. Entries are replaced
// whole, never updated in place.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL is a key/value store whose entries expire a fixed duration after they
// are set. Expired entries are removed lazily on lookup; there is no
// background sweep and no capacity bound.
type TTL[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	ttl     time.Duration
	enabled bool
	now     func() time.Time
}

// Option configures a TTL cache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the clock used to stamp and check expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New returns a cache whose entries live for ttl. When enabled is false,
// Get always misses and Set does nothing.
func New[V any](ttl time.Duration, enabled bool, opts ...Option) *TTL[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &TTL[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		enabled: enabled,
		now:     o.now,
	}
}

// Get returns the value for key. It reports false when the key was never
// set or its entry has expired; an expired entry is deleted.
func (c *TTL[V]) Get(key string) (V, bool) {
	var zero V
	if !c.enabled {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, overwriting any previous entry, and stamps it
// to expire ttl from now.
func (c *TTL[V]) Set(key string, value V) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
}
