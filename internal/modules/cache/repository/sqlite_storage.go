package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/reshetovitsme/channel-scout/internal/shared/errors"
	"github.com/samber/oops"
	_ "modernc.org/sqlite"
)

// SQLiteStorage implements Storage on a single-table SQLite database, bounded by row count.
type SQLiteStorage struct {
	db         *sql.DB
	maxEntries int
}

// NewSQLiteStorage opens (or creates) basePath/cache.db.
func NewSQLiteStorage(basePath string, maxEntries int) (*SQLiteStorage, error) {
	if err := os.MkdirAll(basePath, 0750); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create storage directory").Wrap(err)
	}
	dbPath := filepath.Join(basePath, "cache.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, oops.With("db_path", dbPath, "context", "failed to open cache database").Wrap(err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS cache_entries (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, oops.With("db_path", dbPath, "context", "failed to init cache schema").Wrap(err)
	}

	return &SQLiteStorage{db: db, maxEntries: maxEntries}, nil
}

func (s *SQLiteStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM cache_entries WHERE key = ?`, key).Scan(&value)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrEntryNotFound
	}
	if err != nil {
		return nil, oops.With("key", key, "context", "failed to read cache entry").Wrap(err)
	}
	return value, nil
}

func (s *SQLiteStorage) Put(ctx context.Context, key string, value []byte) error {
	if s.maxEntries > 0 {
		var exists, count int
		if err := s.db.QueryRowContext(ctx,
			`SELECT (SELECT COUNT(*) FROM cache_entries WHERE key = ?), (SELECT COUNT(*) FROM cache_entries)`,
			key,
		).Scan(&exists, &count); err != nil {
			return oops.With("key", key, "context", "failed to count cache entries").Wrap(err)
		}
		if exists == 0 && count >= s.maxEntries {
			return errors.ErrStorageFull
		}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "database or disk is full") {
			return errors.ErrStorageFull
		}
		return oops.With("key", key, "context", "failed to write cache entry").Wrap(err)
	}
	return nil
}

func (s *SQLiteStorage) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		return oops.With("key", key, "context", "failed to delete cache entry").Wrap(err)
	}
	return nil
}

func (s *SQLiteStorage) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM cache_entries WHERE substr(key, 1, ?) = ? ORDER BY key`,
		len(prefix), prefix,
	)
	if err != nil {
		return nil, oops.With("prefix", prefix, "context", "failed to list cache keys").Wrap(err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, oops.Wrap(err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
