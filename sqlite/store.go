package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/doclink"
)

// Compile-time interface verification.
var _ doclink.CacheStore = (*CacheStore)(nil)

// CacheStore implements doclink.CacheStore using SQLite.
type CacheStore struct {
	db *DB
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(db *DB) *CacheStore {
	return &CacheStore{db: db}
}

// Keys lists every persisted cache key.
func (s *CacheStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM link_cache`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Get loads the entry for key. Returns ENOTFOUND if absent and ECORRUPT if
// the stored row cannot be decoded.
func (s *CacheStore) Get(ctx context.Context, key string) (*doclink.CacheEntry, error) {
	var (
		entry      doclink.CacheEntry
		linksJSON  string
		createdAt  string
		ttlSeconds int64
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT key, schema_version, links, created_at, ttl_seconds
		FROM link_cache
		WHERE key = ?
	`, key).Scan(&entry.Key, &entry.SchemaVersion, &linksJSON, &createdAt, &ttlSeconds)

	if err == sql.ErrNoRows {
		return nil, doclink.Errorf(doclink.ENOTFOUND, "cache entry not found")
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(linksJSON), &entry.Links); err != nil {
		return nil, doclink.Errorf(doclink.ECORRUPT, "cache entry %q cannot be decoded: %v", key, err)
	}
	entry.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, doclink.Errorf(doclink.ECORRUPT, "cache entry %q has invalid created_at: %v", key, err)
	}
	entry.TTL = time.Duration(ttlSeconds) * time.Second

	return &entry, nil
}

// Put stores the entry, overwriting any existing row for its key.
func (s *CacheStore) Put(ctx context.Context, entry *doclink.CacheEntry) error {
	linksJSON, err := json.Marshal(entry.Links)
	if err != nil {
		return fmt.Errorf("failed to encode links: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO link_cache (key, schema_version, links, created_at, ttl_seconds)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			schema_version = excluded.schema_version,
			links = excluded.links,
			created_at = excluded.created_at,
			ttl_seconds = excluded.ttl_seconds
	`, entry.Key, entry.SchemaVersion, string(linksJSON),
		entry.CreatedAt.UTC().Format(time.RFC3339), int64(entry.TTL/time.Second))

	return err
}

// Delete removes the entry for key. Deleting an absent key is not an error.
func (s *CacheStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM link_cache WHERE key = ?`, key)
	return err
}

// DeleteSchemaMismatch removes every entry persisted under a different
// prompt schema version.
func (s *CacheStore) DeleteSchemaMismatch(ctx context.Context, schemaVersion string) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM link_cache WHERE schema_version != ?`, schemaVersion)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

// PurgeExpired removes entries whose TTL has elapsed at now.
func (s *CacheStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, created_at, ttl_seconds FROM link_cache`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var expired []string
	for rows.Next() {
		var (
			key        string
			createdAt  string
			ttlSeconds int64
		)
		if err := rows.Scan(&key, &createdAt, &ttlSeconds); err != nil {
			return 0, err
		}
		created, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			// Undecodable rows are as good as expired.
			expired = append(expired, key)
			continue
		}
		if !now.Before(created.Add(time.Duration(ttlSeconds) * time.Second)) {
			expired = append(expired, key)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, key := range expired {
		if err := s.Delete(ctx, key); err != nil {
			return 0, err
		}
	}
	return len(expired), nil
}
