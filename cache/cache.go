// Package cache provides the two-tier content-addressed link cache. The
// in-memory tier is authoritative for the lifetime of a run; a CacheStore
// persists entries across runs and is consulted lazily.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/doclink"
	"github.com/fwojciec/doclink/bloom"
)

// minFilterSize keeps the Bloom filter usefully sized for small stores.
const minFilterSize = 1024

// Ensure Cache implements doclink.LinkCache at compile time.
var _ doclink.LinkCache = (*Cache)(nil)

// Cache is a two-tier LinkCache. Store access is best-effort: a failing or
// corrupt persisted tier degrades to memory-only behavior, it never fails a
// lookup. Safe for concurrent use by in-flight batches.
type Cache struct {
	store         doclink.CacheStore // nil for memory-only caches
	schemaVersion string

	initOnce sync.Once

	mu      sync.RWMutex
	entries map[string]*doclink.CacheEntry
	filter  *bloom.Filter // persisted keys; nil without a store

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates a Cache over an optional persistent store. Entries persisted
// under a different prompt schema version are dropped on first use.
func New(store doclink.CacheStore, schemaVersion string) *Cache {
	return &Cache{
		store:         store,
		schemaVersion: schemaVersion,
		entries:       make(map[string]*doclink.CacheEntry),
	}
}

// init drops schema-mismatched persisted rows and builds the Bloom filter
// over the remaining keys so that misses skip the store entirely.
func (c *Cache) init(ctx context.Context) {
	c.initOnce.Do(func() {
		if c.store == nil {
			return
		}
		_, _ = c.store.DeleteSchemaMismatch(ctx, c.schemaVersion)

		keys, err := c.store.Keys(ctx)
		if err != nil {
			return
		}
		size := uint(len(keys))
		if size < minFilterSize {
			size = minFilterSize
		}
		filter := bloom.NewFilter(size, 0.01)
		for _, key := range keys {
			filter.Add(key)
		}

		c.mu.Lock()
		c.filter = filter
		c.mu.Unlock()
	})
}

// Get returns the validated links cached under key. Corrupt persisted
// entries are evicted and reported as misses.
func (c *Cache) Get(ctx context.Context, key string) ([]*doclink.ConceptLink, bool) {
	c.init(ctx)
	now := time.Now()

	c.mu.RLock()
	entry, ok := c.entries[key]
	filter := c.filter
	c.mu.RUnlock()

	if ok {
		if entry.Expired(now) {
			c.misses.Add(1)
			return nil, false
		}
		c.hits.Add(1)
		return entry.Links, true
	}

	if c.store == nil || (filter != nil && !filter.Test(key)) {
		c.misses.Add(1)
		return nil, false
	}

	entry, err := c.store.Get(ctx, key)
	if err != nil {
		if doclink.ErrorCode(err) == doclink.ECORRUPT {
			_ = c.store.Delete(ctx, key)
		}
		c.misses.Add(1)
		return nil, false
	}
	if entry.SchemaVersion != c.schemaVersion {
		_ = c.store.Delete(ctx, key)
		c.misses.Add(1)
		return nil, false
	}
	if entry.Expired(now) {
		c.misses.Add(1)
		return nil, false
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()

	c.hits.Add(1)
	return entry.Links, true
}

// Put stores the validated links under key, overwriting any existing entry.
// Concurrent puts to the same key are last-writer-wins; the key already
// encodes content, model and schema, so collisions carry equivalent values.
func (c *Cache) Put(ctx context.Context, key string, links []*doclink.ConceptLink, ttl time.Duration) {
	c.init(ctx)

	entry := &doclink.CacheEntry{
		Key:           key,
		SchemaVersion: c.schemaVersion,
		Links:         links,
		CreatedAt:     time.Now().UTC(),
		TTL:           ttl,
	}

	c.mu.Lock()
	c.entries[key] = entry
	if c.filter != nil {
		c.filter.Add(key)
	}
	c.mu.Unlock()

	if c.store != nil {
		_ = c.store.Put(ctx, entry)
	}
}

// PurgeExpired removes expired entries from both tiers and returns how many
// were removed. Idempotent.
func (c *Cache) PurgeExpired(ctx context.Context) int {
	c.init(ctx)
	now := time.Now()

	c.mu.Lock()
	var removed int
	for key, entry := range c.entries {
		if entry.Expired(now) {
			delete(c.entries, key)
			removed++
		}
	}
	c.mu.Unlock()

	if c.store != nil {
		if n, err := c.store.PurgeExpired(ctx, now); err == nil {
			// Store entries are a superset of the memory tier.
			removed = n
		}
	}
	return removed
}

// Stats returns the cache's observability counters.
func (c *Cache) Stats() doclink.CacheStats {
	c.mu.RLock()
	entries := len(c.entries)
	c.mu.RUnlock()

	return doclink.CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: entries,
	}
}
