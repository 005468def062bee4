package doclink

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// CacheEntry is one persisted unit of the content-addressed cache. Entries
// are owned exclusively by the cache; callers read and write through the
// LinkCache interface and never mutate entries directly.
type CacheEntry struct {
	Key           string         `json:"key"`
	SchemaVersion string         `json:"schemaVersion"`
	Links         []*ConceptLink `json:"links"`
	CreatedAt     time.Time      `json:"createdAt"`
	TTL           time.Duration  `json:"ttl"`
}

// Expired reports whether the entry's TTL has elapsed at now.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.CreatedAt.Add(e.TTL))
}

// CacheStats exposes cache observability counters. They are informational
// and not part of the cache's correctness contract.
type CacheStats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

// HitRatio returns hits / (hits + misses), or zero before any lookup.
func (s CacheStats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// LinkCache is the deduplicating layer in front of the reasoning capability.
// Implementations must tolerate concurrent use from in-flight batches; Put
// is last-writer-wins on a key, which is correctness-neutral because the key
// already encodes content, model and schema version.
type LinkCache interface {
	// Get returns the validated links cached under key. The boolean is
	// false on a miss. Corrupted persisted entries are evicted and treated
	// as misses, never surfaced as errors.
	Get(ctx context.Context, key string) ([]*ConceptLink, bool)

	// Put stores the validated (possibly empty) link list under key,
	// overwriting any existing entry.
	Put(ctx context.Context, key string, links []*ConceptLink, ttl time.Duration)

	// PurgeExpired removes entries whose TTL has elapsed and returns how
	// many were removed. Idempotent; callable at any time.
	PurgeExpired(ctx context.Context) int

	// Stats returns the cache's observability counters.
	Stats() CacheStats
}

// CacheStore is the persisted tier behind a LinkCache. Implementations map
// keys to serialized entries; location and format are implementation
// details.
type CacheStore interface {
	// Keys lists every persisted key.
	Keys(ctx context.Context) ([]string, error)

	// Get loads the entry for key. Returns ENOTFOUND if absent and
	// ECORRUPT if the stored value cannot be decoded.
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Put stores the entry, overwriting any existing row for its key.
	Put(ctx context.Context, entry *CacheEntry) error

	// Delete removes the entry for key. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// DeleteSchemaMismatch removes every entry whose schema version is not
	// schemaVersion and returns how many were removed.
	DeleteSchemaMismatch(ctx context.Context, schemaVersion string) (int, error)

	// PurgeExpired removes entries whose TTL has elapsed at now.
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

// CacheKey derives the content-addressed key for a section. The key is a
// deterministic function of the section's whitespace-normalized block
// contents, the model identifier and the prompt schema version, so that a
// model or prompt-template change invalidates stale entries automatically.
func CacheKey(sec *Section, modelID, schemaVersion string) string {
	h := xxhash.New()
	for _, b := range sec.Blocks {
		_, _ = h.WriteString(string(b.Kind))
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(normalizeContent(b.Content))
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.WriteString(modelID)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(schemaVersion)
	return fmt.Sprintf("%016x", h.Sum64())
}

// normalizeContent collapses all whitespace runs to single spaces so that
// formatting-only edits do not defeat the cache.
func normalizeContent(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
