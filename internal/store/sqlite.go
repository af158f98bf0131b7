package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteSlot implements Slot using SQLite.
type SQLiteSlot struct {
	db    *sql.DB
	quota int
}

// Option configures a SQLiteSlot.
type Option func(*SQLiteSlot)

// WithQuota caps the size of a single stored value in bytes. Zero disables the cap.
func WithQuota(bytes int) Option {
	return func(s *SQLiteSlot) { s.quota = bytes }
}

// NewSQLiteSlot opens or creates a SQLite database at the given path.
func NewSQLiteSlot(dbPath string, opts ...Option) (*SQLiteSlot, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteSlot{db: db}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteSlot) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS slots (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteSlot) Put(ctx context.Context, key string, value []byte) error {
	if s.quota > 0 && len(value) > s.quota {
		return fmt.Errorf("put %s (%d bytes): %w", key, len(value), ErrQuotaExceeded)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteSlot) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Probe round-trips a throwaway key to confirm the database is writable.
func (s *SQLiteSlot) Probe(ctx context.Context) error {
	if err := s.Put(ctx, probeKey, []byte("1")); err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	return s.Delete(ctx, probeKey)
}

func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
