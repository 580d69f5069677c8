package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/trackmystudy/study-hub/internal/infrastructure/persistence/kv"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION: CREATE KV_BLOBS
// ══════════════════════════════════════════════════════════════════════════════

const migrationKVBlobs = `
-- Migration: Create kv_blobs table
-- One row per aggregate key; the blob is overwritten wholesale on every write.

CREATE TABLE IF NOT EXISTS kv_blobs (
    key        TEXT PRIMARY KEY,
    value      JSONB NOT NULL,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

// Migrate creates the kv_blobs table if it does not exist.
func Migrate(ctx context.Context, conn *Connection) error {
	if _, err := conn.Pool().Exec(ctx, migrationKVBlobs); err != nil {
		return fmt.Errorf("%w: kv_blobs: %v", ErrMigrationFailed, err)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STORE
// ══════════════════════════════════════════════════════════════════════════════

// Store implements kv.Store on the kv_blobs table.
type Store struct {
	conn *Connection
}

// NewStore creates a Store and runs the kv_blobs migration.
func NewStore(ctx context.Context, conn *Connection) (*Store, error) {
	if err := Migrate(ctx, conn); err != nil {
		return nil, err
	}
	return &Store{conn: conn}, nil
}

// Get retrieves the value for a key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, kv.ErrKeyEmpty
	}

	const query = `SELECT value FROM kv_blobs WHERE key = $1`

	var value []byte
	err := s.conn.Pool().QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, kv.ErrKeyNotFound
		}
		return nil, fmt.Errorf("%w: %v", kv.ErrConnection, err)
	}
	return value, nil
}

// Set upserts the value for a key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return kv.ErrKeyEmpty
	}
	if value == nil {
		return kv.ErrNilValue
	}

	const query = `
		INSERT INTO kv_blobs (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := s.conn.Pool().Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("%w: %v", kv.ErrConnection, err)
	}
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return kv.ErrKeyEmpty
	}

	const query = `DELETE FROM kv_blobs WHERE key = $1`

	if _, err := s.conn.Pool().Exec(ctx, query, key); err != nil {
		return fmt.Errorf("%w: %v", kv.ErrConnection, err)
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	s.conn.Close()
	return nil
}
