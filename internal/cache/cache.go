// Package cache provides a small in-process TTL cache, passed to services by
// dependency injection. It replaces ad-hoc package-global memo maps: the TTL
// is explicit, and invalidation is an exported operation so the booking flow
// can drop stale financial summaries the moment activities change.
package cache

import (
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

type TTLCache struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]entry

	now func() time.Time // overridable in tests
}

// New returns a cache whose entries live for ttl. A zero or negative ttl
// disables caching entirely; Get always misses.
func New(ttl time.Duration) *TTLCache {
	return &TTLCache{
		ttl: ttl,
		m:   make(map[string]entry),
		now: time.Now,
	}
}

func (c *TTLCache) Get(key string) (any, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok || c.now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (c *TTLCache) Set(key string, value any) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.m[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate removes the given keys. Unknown keys are ignored.
func (c *TTLCache) Invalidate(keys ...string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	for _, k := range keys {
		delete(c.m, k)
	}
	c.mu.Unlock()
}

// InvalidatePrefix removes every key starting with prefix. Used by writers
// that cannot enumerate the windowed variants of a cached key.
func (c *TTLCache) InvalidatePrefix(prefix string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	for k := range c.m {
		if strings.HasPrefix(k, prefix) {
			delete(c.m, k)
		}
	}
	c.mu.Unlock()
}

// InvalidateAll empties the cache.
func (c *TTLCache) InvalidateAll() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.m = make(map[string]entry)
	c.mu.Unlock()
}

// InvalidateHook returns a func suitable for handing to writers that should
// not depend on the cache type itself.
func (c *TTLCache) InvalidateHook() func(keys ...string) {
	return c.Invalidate
}
