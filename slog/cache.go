package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/doclink"
)

// Ensure LoggingCache implements doclink.LinkCache.
var _ doclink.LinkCache = (*LoggingCache)(nil)

// LoggingCache wraps a LinkCache with debug logging for hits and misses.
type LoggingCache struct {
	next   doclink.LinkCache
	logger *slog.Logger
}

// NewLoggingCache creates a new LoggingCache.
func NewLoggingCache(next doclink.LinkCache, logger *slog.Logger) *LoggingCache {
	return &LoggingCache{next: next, logger: logger}
}

// Get delegates to the wrapped cache and logs the outcome.
func (c *LoggingCache) Get(ctx context.Context, key string) ([]*doclink.ConceptLink, bool) {
	links, ok := c.next.Get(ctx, key)
	if ok {
		c.logger.Debug("cache hit", "key", key, "links", len(links))
	} else {
		c.logger.Debug("cache miss", "key", key)
	}
	return links, ok
}

// Put delegates to the wrapped cache.
func (c *LoggingCache) Put(ctx context.Context, key string, links []*doclink.ConceptLink, ttl time.Duration) {
	c.next.Put(ctx, key, links, ttl)
	c.logger.Debug("cache put", "key", key, "links", len(links), "ttl", ttl)
}

// PurgeExpired delegates to the wrapped cache and logs how many entries
// were removed.
func (c *LoggingCache) PurgeExpired(ctx context.Context) int {
	n := c.next.PurgeExpired(ctx)
	c.logger.Info("cache purge", "removed", n)
	return n
}

// Stats delegates to the wrapped cache.
func (c *LoggingCache) Stats() doclink.CacheStats {
	return c.next.Stats()
}
