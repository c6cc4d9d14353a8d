package cache

import (
	"context"
	"sync"
	"time"
)

// Policy controls when an item expires. A zero field disables that limit;
// when both are set the item expires at whichever comes first.
type Policy struct {
	// Sliding expires the item after this long without a hit.
	Sliding time.Duration
	// Absolute expires the item this long after insertion regardless of hits.
	Absolute time.Duration
}

type item struct {
	value      any
	insertedAt time.Time
	accessedAt time.Time
	policy     Policy
}

func (it *item) expired(now time.Time) bool {
	if it.policy.Absolute > 0 && !now.Before(it.insertedAt.Add(it.policy.Absolute)) {
		return true
	}
	if it.policy.Sliding > 0 && !now.Before(it.accessedAt.Add(it.policy.Sliding)) {
		return true
	}
	return false
}

// Cache is an in-memory key/value store with per-item expiry. Safe for concurrent use.
type Cache struct {
	mu    sync.Mutex
	items map[string]*item
	now   func() time.Time
}

type Option func(*Cache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(opts ...Option) *Cache {
	c := &Cache{
		items: make(map[string]*item),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key. A hit restarts the sliding window.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if !ok {
		return nil, false
	}
	now := c.now()
	if it.expired(now) {
		delete(c.items, key)
		return nil, false
	}
	it.accessedAt = now
	return it.value, true
}

// Set stores value under key, replacing any previous item.
func (c *Cache) Set(key string, value any, policy Policy) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.items[key] = &item{
		value:      value,
		insertedAt: now,
		accessedAt: now,
		policy:     policy,
	}
}

// Clear drops every item regardless of its remaining lifetime.
func (c *Cache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.items)
	c.items = make(map[string]*item)
	return n
}

// Len counts held items, including expired ones not yet swept.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Sweep removes expired items and returns how many were dropped.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, it := range c.items {
		if it.expired(now) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps every interval until ctx is done.
func (c *Cache) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sweep()
			}
		}
	}()
}
