// Package query is a small client-side fetch cache with key-based
// invalidation: list and detail reads are cached per key until a mutation
// invalidates them or they go stale.
package query

import (
	"context"
	"strings"
	"sync"
	"time"
)

type entry struct {
	val     any
	fetched time.Time
}

type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration

	now func() time.Time
}

// NewCache builds a cache whose entries go stale after ttl. A non-positive
// ttl means entries never expire on their own.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: map[string]entry{},
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *Cache) lookup(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(e.fetched) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.val, true
}

func (c *Cache) put(key string, val any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{val: val, fetched: c.now()}
}

// Invalidate drops the given keys. A key ending in "*" drops every entry with
// that prefix, matching the list/detail families used by the mutations.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		if prefix, ok := strings.CutSuffix(k, "*"); ok {
			for ek := range c.entries {
				if strings.HasPrefix(ek, prefix) {
					delete(c.entries, ek)
				}
			}
			continue
		}
		delete(c.entries, k)
	}
}

// Fetch returns the cached value for key, or runs fn and caches its result.
// Errors are never cached.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := c.lookup(key); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}
	t, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.put(key, t)
	return t, nil
}
