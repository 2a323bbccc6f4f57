package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQLStore persists key/value pairs in a single table of a SQL database.
// The same schema serves SQLite (local, default) and PostgreSQL (shared).
type SQLStore struct {
	db      *sql.DB
	name    string
	queries sqlQueries
}

type sqlQueries struct {
	get    string
	upsert string
	remove string
}

var (
	sqliteQueries = sqlQueries{
		get:    `SELECT store_value FROM kv_store WHERE store_key = ?`,
		upsert: `INSERT INTO kv_store (store_key, store_value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (store_key) DO UPDATE SET store_value = excluded.store_value, updated_at = excluded.updated_at`,
		remove: `DELETE FROM kv_store WHERE store_key = ?`,
	}
	postgresQueries = sqlQueries{
		get:    `SELECT store_value FROM kv_store WHERE store_key = $1`,
		upsert: `INSERT INTO kv_store (store_key, store_value, updated_at) VALUES ($1, $2, NOW())
			ON CONFLICT (store_key) DO UPDATE SET store_value = EXCLUDED.store_value, updated_at = EXCLUDED.updated_at`,
		remove: `DELETE FROM kv_store WHERE store_key = $1`,
	}
)

// NewSQLiteStore opens (creating if needed) the SQLite database at path and
// runs the schema migration. Intermediate directories are created automatically.
func NewSQLiteStore(path string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("sqlite: create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// One writer at a time; the store has a single owner.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	s := &SQLStore{db: db, name: "sqlite", queries: sqliteQueries}
	if err := s.migrate(`
		CREATE TABLE IF NOT EXISTS kv_store (
			store_key   TEXT PRIMARY KEY,
			store_value TEXT NOT NULL,
			updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStore opens a connection to PostgreSQL, runs the schema
// migration, and returns a ready-to-use store.
func NewPostgresStore(dsn string) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	s := &SQLStore{db: db, name: "postgres", queries: postgresQueries}
	if err := s.migrate(`
		CREATE TABLE IF NOT EXISTS kv_store (
			store_key   TEXT PRIMARY KEY,
			store_value TEXT        NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate(ddl string) error {
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("%s: migrate: %w", s.name, err)
	}
	return nil
}

func (s *SQLStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(s.queries.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: get %q: %w", s.name, key, err)
	}
	return value, true, nil
}

func (s *SQLStore) Set(key, value string) error {
	if _, err := s.db.Exec(s.queries.upsert, key, value); err != nil {
		return fmt.Errorf("%s: set %q: %w", s.name, key, err)
	}
	return nil
}

func (s *SQLStore) Remove(key string) error {
	if _, err := s.db.Exec(s.queries.remove, key); err != nil {
		return fmt.Errorf("%s: remove %q: %w", s.name, key, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
