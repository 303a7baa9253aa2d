// Package inventory implements the flag-inventory projection layer: a
// per-process TTL cache over the remote projects and feature-flag
// collections, a deterministic sort-and-paginate projector, and the
// unleash:// resource URI codec.
//
// Design decisions:
//   - The cache is an injectable object with an injectable clock, not a
//     package-level singleton, so tests construct isolated instances
//     and control time.
//   - Concurrent misses on one key share a single in-flight fetch
//     instead of racing duplicate requests.
//   - A failed fetch never touches the stored entry: the caller gets
//     the error and the next read retries.
package inventory

import (
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched collection stays fresh. The
// projects and per-project flag collections use the same window.
const DefaultTTL = 60 * time.Second

// entry is one cached collection. Entries are replaced wholesale on
// every successful fetch, never merged.
type entry[T any] struct {
	items     []T
	fetchedAt time.Time
}

// flightResult carries a completed fetch (or a fresh re-check hit) out
// of the singleflight group.
type flightResult[T any] struct {
	items     []T
	fetchedAt time.Time
	cached    bool
}

// Cache is a keyed TTL cache for remote collections. Entries are
// created lazily and never evicted except by overwrite; an expired
// entry is simply bypassed on the next read. Data is always handed out
// as a copy so callers cannot mutate cached state.
type Cache[T any] struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]entry[T]
	group   singleflight.Group
}

// CacheOption customizes a Cache.
type CacheOption[T any] func(*Cache[T])

// WithClock replaces the cache's time source (used by tests).
func WithClock[T any](now func() time.Time) CacheOption[T] {
	return func(c *Cache[T]) { c.now = now }
}

// NewCache creates a Cache with the given TTL. A non-positive ttl
// falls back to DefaultTTL.
func NewCache[T any](ttl time.Duration, opts ...CacheOption[T]) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache[T]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[T]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrFetch returns the collection for key from cache when fresh,
// otherwise runs fetch and stores the result. fromCache reports
// whether the data was served without fetching. Concurrent callers
// that miss on the same key share one fetch; all of them see
// fromCache = false.
//
// On fetch failure the stored entry, fresh or stale, is left exactly
// as it was: no eviction, no stale fallback, just the error.
func (c *Cache[T]) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) ([]T, error)) (items []T, fetchedAt time.Time, fromCache bool, err error) {
	if e, ok := c.lookup(key); ok {
		return slices.Clone(e.items), e.fetchedAt, true, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A flight that completed while we queued may have already
		// refreshed this key.
		if e, ok := c.lookup(key); ok {
			return flightResult[T]{items: e.items, fetchedAt: e.fetchedAt, cached: true}, nil
		}

		fetched, ferr := fetch(ctx)
		if ferr != nil {
			return nil, ferr
		}

		at := c.now()
		c.mu.Lock()
		c.entries[key] = entry[T]{items: fetched, fetchedAt: at}
		c.mu.Unlock()

		return flightResult[T]{items: fetched, fetchedAt: at}, nil
	})
	if err != nil {
		return nil, time.Time{}, false, err
	}

	r := v.(flightResult[T])
	return slices.Clone(r.items), r.fetchedAt, r.cached, nil
}

// lookup returns the entry for key iff it exists and is still fresh:
// now - fetchedAt < ttl. Freshness is binary; there is no partial
// freshness and no background refresh.
func (c *Cache[T]) lookup(key string) (entry[T], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		return entry[T]{}, false
	}
	return e, true
}

// Len reports how many collections are currently stored, fresh or
// stale.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
