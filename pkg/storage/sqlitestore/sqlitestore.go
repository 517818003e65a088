// Package sqlitestore persists session snapshots in a single SQLite file,
// giving hosts a durable storage-port implementation for offline analysis
// of captured sessions. The driver is CGO-free.
package sqlitestore

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/formpulse/behavior-tracker/internal/util/logger"
)

// Store implements the tracker's storage port on a snapshots table keyed by
// storage key. Writes are upserts; every snapshot is a full replacement.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path.
func New(path string) (*Store, error) {
	// WAL + busy timeout to avoid "database is locked"
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	if _, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS snapshots(
	  key        TEXT    PRIMARY KEY,
	  value      TEXT    NOT NULL CHECK (json_valid(value)),
	  updated_at INTEGER NOT NULL
	);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create snapshot table: %w", err)
	}

	return &Store{db: db}, nil
}

// GetItem returns the snapshot under key, reporting false when absent or
// unreadable.
func (s *Store) GetItem(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM snapshots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		logger.Warn("sqlite snapshot read failed for %s: %v", key, err)
		return "", false
	}
	return value, true
}

// SetItem upserts the snapshot.
func (s *Store) SetItem(key, value string) error {
	_, err := s.db.Exec(`
	INSERT INTO snapshots(key, value, updated_at) VALUES(?, json(?), unixepoch())
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("sqlite snapshot write for %s: %w", key, err)
	}
	return nil
}

// RemoveItem deletes the snapshot.
func (s *Store) RemoveItem(key string) {
	if _, err := s.db.Exec(`DELETE FROM snapshots WHERE key = ?`, key); err != nil {
		logger.Warn("sqlite snapshot delete failed for %s: %v", key, err)
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
