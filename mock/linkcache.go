package mock

import (
	"context"
	"time"

	"github.com/fwojciec/doclink"
)

var _ doclink.LinkCache = (*LinkCache)(nil)

// LinkCache is a mock implementation of doclink.LinkCache.
type LinkCache struct {
	GetFn          func(ctx context.Context, key string) ([]*doclink.ConceptLink, bool)
	PutFn          func(ctx context.Context, key string, links []*doclink.ConceptLink, ttl time.Duration)
	PurgeExpiredFn func(ctx context.Context) int
	StatsFn        func() doclink.CacheStats
}

func (c *LinkCache) Get(ctx context.Context, key string) ([]*doclink.ConceptLink, bool) {
	return c.GetFn(ctx, key)
}

func (c *LinkCache) Put(ctx context.Context, key string, links []*doclink.ConceptLink, ttl time.Duration) {
	c.PutFn(ctx, key, links, ttl)
}

func (c *LinkCache) PurgeExpired(ctx context.Context) int {
	return c.PurgeExpiredFn(ctx)
}

func (c *LinkCache) Stats() doclink.CacheStats {
	if c.StatsFn == nil {
		return doclink.CacheStats{}
	}
	return c.StatsFn()
}
