package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"skill-backend/internal/metrics"
)

// Clock abstracts time.Now so TTL behavior is testable with a fake
// clock.
type Clock func() time.Time

// TTL is a process-lifetime, in-memory cache for one value with a fixed
// time to live. Concurrent callers during a cache miss share a single
// in-flight load instead of issuing duplicate upstream fetches
// (single-flight). Nothing is persisted; a restart starts cold.
type TTL[T any] struct {
	name string
	ttl  time.Duration
	now  Clock

	group singleflight.Group

	mu     sync.Mutex
	value  T
	expiry time.Time
	valid  bool
}

// NewTTL builds a cache. A nil clock uses time.Now.
func NewTTL[T any](name string, ttl time.Duration, now Clock) *TTL[T] {
	if now == nil {
		now = time.Now
	}
	return &TTL[T]{name: name, ttl: ttl, now: now}
}

// Get returns the cached value, loading it through load on a miss. All
// callers arriving during one cold load receive that load's result.
func (c *TTL[T]) Get(ctx context.Context, load func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	if c.valid && c.now().Before(c.expiry) {
		value := c.value
		c.mu.Unlock()
		metrics.CacheHitsTotal.WithLabelValues(c.name).Inc()
		return value, nil
	}
	c.mu.Unlock()
	metrics.CacheMissesTotal.WithLabelValues(c.name).Inc()

	result, err, _ := c.group.Do("load", func() (any, error) {
		// A follower may arrive after the leader stored the value but
		// before the group forgot the key; the stored value is current
		// either way.
		c.mu.Lock()
		if c.valid && c.now().Before(c.expiry) {
			value := c.value
			c.mu.Unlock()
			return value, nil
		}
		c.mu.Unlock()

		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.value = value
		c.expiry = c.now().Add(c.ttl)
		c.valid = true
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// Invalidate drops the cached value.
func (c *TTL[T]) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}
