// Package memo provides explicit, in-process memoization for expensive provider calls.
//
// Two policies coexist: an identity cache (zero TTL, entries live for the
// process lifetime) for results that are immutable once fetched, and a
// time-expiring cache for results that can go stale. Both are composed around
// a call site explicitly rather than wrapping methods at construction time.
//
// Concurrency: the lock guards only the entry table, never the computation.
// Two concurrent misses on the same key may compute twice; the last writer
// wins and neither caller observes a corrupted entry. Nothing persists across
// process restarts.
package memo

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"
)

type entry[V any] struct {
	value   V
	created time.Time
}

// Cache memoizes the results of an argument-keyed operation.
type Cache[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry[V]

	// now is swappable for deterministic expiry tests.
	now func() time.Time
}

// New initializes a cache with the given time-to-live.
// A zero TTL yields an identity cache whose entries never expire.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
}

// Get returns the cached value for key if present and fresh.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.ttl > 0 && c.now().Sub(e.created) > c.ttl {
		// Stale entry: treat as a miss and drop it.
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Do returns the cached value for key, or invokes fn and stores its result.
// A failed fn is never cached; the error propagates unchanged and the next
// call retries the real operation.
func (c *Cache[V]) Do(key string, fn func() (V, error)) (V, error) {
	if cached, ok := c.Get(key); ok {
		return cached, nil
	}
	return c.Refresh(key, fn)
}

// Refresh bypasses any cached entry, invokes fn, and stores a successful result.
// Used for calls flagged as non-cacheable, e.g. a user-triggered force refresh.
func (c *Cache[V]) Refresh(key string, fn func() (V, error)) (V, error) {
	value, err := fn()
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, created: c.now()}
	c.mu.Unlock()

	return value, nil
}

// Forget drops the entry for key, if any.
func (c *Cache[V]) Forget(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Flush drops every entry.
func (c *Cache[V]) Flush() {
	c.mu.Lock()
	c.entries = make(map[string]entry[V])
	c.mu.Unlock()
}

// Len returns the number of stored entries, including not-yet-evicted stale ones.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Key derives a deterministic cache identifier from a designated subset of
// call arguments. Volatile trailing arguments simply stay out of the subset.
// Parts are hashed as given: provider ids are opaque, case-sensitive tokens,
// so any normalization (e.g. lowercasing a search query) belongs to the
// caller that knows which argument tolerates it.
func Key(parts ...any) string {
	var b strings.Builder
	for i, part := range parts {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		fmt.Fprintf(&b, "%v", part)
	}
	hash := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(hash[:])
}
