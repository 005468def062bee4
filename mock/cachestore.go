package mock

import (
	"context"
	"time"

	"github.com/fwojciec/doclink"
)

var _ doclink.CacheStore = (*CacheStore)(nil)

// CacheStore is a mock implementation of doclink.CacheStore.
type CacheStore struct {
	KeysFn                 func(ctx context.Context) ([]string, error)
	GetFn                  func(ctx context.Context, key string) (*doclink.CacheEntry, error)
	PutFn                  func(ctx context.Context, entry *doclink.CacheEntry) error
	DeleteFn               func(ctx context.Context, key string) error
	DeleteSchemaMismatchFn func(ctx context.Context, schemaVersion string) (int, error)
	PurgeExpiredFn         func(ctx context.Context, now time.Time) (int, error)
}

func (s *CacheStore) Keys(ctx context.Context) ([]string, error) {
	return s.KeysFn(ctx)
}

func (s *CacheStore) Get(ctx context.Context, key string) (*doclink.CacheEntry, error) {
	return s.GetFn(ctx, key)
}

func (s *CacheStore) Put(ctx context.Context, entry *doclink.CacheEntry) error {
	return s.PutFn(ctx, entry)
}

func (s *CacheStore) Delete(ctx context.Context, key string) error {
	return s.DeleteFn(ctx, key)
}

func (s *CacheStore) DeleteSchemaMismatch(ctx context.Context, schemaVersion string) (int, error) {
	return s.DeleteSchemaMismatchFn(ctx, schemaVersion)
}

func (s *CacheStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	return s.PurgeExpiredFn(ctx, now)
}
