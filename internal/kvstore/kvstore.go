// Package kvstore is the local device-style cache: a string-keyed table
// of JSON text blobs in a SQLite file. It is a disposable, rebuildable
// mirror of remote state, or the sole source of truth when no
// authenticated session exists.
package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrKeyNotFound = errors.New("key not found")

type Store struct {
	db *sqlx.DB
}

// New prepares the backing table and returns the store. The schema is
// created here rather than via migrations because the cache file is
// throwaway and versionless.
func New(db *sqlx.DB) (*Store, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS cache (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache table: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM cache WHERE key = $1`, key)
	if err == sql.ErrNoRows {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}

	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO cache (key, value) VALUES ($1, $2)
	          ON CONFLICT (key) DO UPDATE SET value = excluded.value`

	_, err := s.db.ExecContext(ctx, query, key, value)
	return err
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cache WHERE key = $1`, key)
	return err
}
