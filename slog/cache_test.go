package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/doclink"
	"github.com/fwojciec/doclink/mock"
	docslog "github.com/fwojciec/doclink/slog"
	"github.com/stretchr/testify/assert"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingCache_Get(t *testing.T) {
	t.Parallel()

	t.Run("logs hit", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.LinkCache{
			GetFn: func(context.Context, string) ([]*doclink.ConceptLink, bool) {
				return []*doclink.ConceptLink{{Name: "x"}}, true
			},
		}

		c := docslog.NewLoggingCache(inner, debugLogger(&buf))
		_, ok := c.Get(context.Background(), "key-1")

		assert.True(t, ok)
		assert.Contains(t, buf.String(), "cache hit")
		assert.Contains(t, buf.String(), "key=key-1")
	})

	t.Run("logs miss", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.LinkCache{
			GetFn: func(context.Context, string) ([]*doclink.ConceptLink, bool) {
				return nil, false
			},
		}

		c := docslog.NewLoggingCache(inner, debugLogger(&buf))
		_, ok := c.Get(context.Background(), "key-1")

		assert.False(t, ok)
		assert.Contains(t, buf.String(), "cache miss")
	})
}

func TestLoggingCache_Put(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var putKey string
	inner := &mock.LinkCache{
		PutFn: func(_ context.Context, key string, _ []*doclink.ConceptLink, _ time.Duration) {
			putKey = key
		},
	}

	c := docslog.NewLoggingCache(inner, debugLogger(&buf))
	c.Put(context.Background(), "key-1", nil, time.Hour)

	assert.Equal(t, "key-1", putKey)
	assert.Contains(t, buf.String(), "cache put")
}

func TestLoggingCache_PurgeExpired(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.LinkCache{
		PurgeExpiredFn: func(context.Context) int { return 4 },
	}

	c := docslog.NewLoggingCache(inner, debugLogger(&buf))
	n := c.PurgeExpired(context.Background())

	assert.Equal(t, 4, n)
	assert.Contains(t, buf.String(), "cache purge")
	assert.Contains(t, buf.String(), "removed=4")
}

func TestLoggingCache_Stats(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.LinkCache{
		StatsFn: func() doclink.CacheStats { return doclink.CacheStats{Hits: 2, Misses: 1, Entries: 3} },
	}

	c := docslog.NewLoggingCache(inner, debugLogger(&buf))
	stats := c.Stats()

	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, 3, stats.Entries)
}
