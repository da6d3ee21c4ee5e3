// Package cache provides a sqlite-backed TTL cache for retrieval responses.
package cache

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.mau.fi/util/dbutil"
)

// Store caches JSON payloads by kind and key with per-entry expiry.
type Store struct {
	db  *dbutil.Database
	ttl time.Duration
}

const schema = `
	CREATE TABLE IF NOT EXISTS retrieval_cache (
		kind TEXT NOT NULL,
		key TEXT NOT NULL,
		payload TEXT NOT NULL,
		expires_at INTEGER NOT NULL,
		PRIMARY KEY (kind, key)
	);
`

// NewStore opens (or creates) a sqlite cache at path.
func NewStore(ctx context.Context, path string, ttl time.Duration) (*Store, error) {
	raw, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db, err := dbutil.NewWithDB(raw, "sqlite3")
	if err != nil {
		return nil, err
	}
	return NewStoreWithDB(ctx, db, ttl)
}

// NewStoreWithDB wraps an existing database handle.
func NewStoreWithDB(ctx context.Context, db *dbutil.Database, ttl time.Duration) (*Store, error) {
	if _, err := db.Exec(ctx, schema); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Store{db: db, ttl: ttl}, nil
}

// Get returns the cached payload for kind/key, or found=false when absent
// or expired.
func (s *Store) Get(ctx context.Context, kind, key string) ([]byte, bool, error) {
	var payload string
	var expiresAt int64
	row := s.db.QueryRow(ctx,
		`SELECT payload, expires_at FROM retrieval_cache WHERE kind=$1 AND key=$2`,
		kind, key,
	)
	if err := row.Scan(&payload, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}
	if time.Now().UnixMilli() >= expiresAt {
		return nil, false, nil
	}
	return []byte(payload), true, nil
}

// Put stores a payload for kind/key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, kind, key string, payload []byte) error {
	expiresAt := time.Now().Add(s.ttl).UnixMilli()
	_, err := s.db.Exec(ctx,
		`INSERT INTO retrieval_cache (kind, key, payload, expires_at)
         VALUES ($1, $2, $3, $4)
         ON CONFLICT (kind, key)
         DO UPDATE SET payload=excluded.payload, expires_at=excluded.expires_at`,
		kind, key, string(payload), expiresAt,
	)
	return err
}

// Prune deletes expired entries and returns how many were removed.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	result, err := s.db.Exec(ctx,
		`DELETE FROM retrieval_cache WHERE expires_at < $1`,
		time.Now().UnixMilli(),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.RawDB.Close()
}
