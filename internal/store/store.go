// Package store persists refresh snapshots to SQLite so the service can
// serve last-known-good data across restarts.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// SQLiteStore wraps a SQLite database opened with the pragmas this service
// wants: WAL for concurrent readers, one write connection.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path, applies the
// recommended pragmas, and runs schema migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// SQLite performs best with a single write connection. WAL enables concurrent readers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}

	// modernc.org/sqlite requires SQL statements for pragmas, not DSN params.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// DB returns the underlying *sql.DB for direct queries.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Tx executes fn within a database transaction. The transaction is
// committed if fn returns nil, rolled back otherwise.
func (s *SQLiteStore) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id         TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS snapshot_entries (
			snapshot_id TEXT    NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			position    INTEGER NOT NULL,
			source_id   TEXT    NOT NULL,
			raw_name    TEXT    NOT NULL,
			description TEXT    NOT NULL DEFAULT '',
			free_seats  INTEGER NOT NULL,
			total_seats INTEGER NOT NULL,
			location    TEXT    NOT NULL,
			short_name  TEXT    NOT NULL DEFAULT '',
			PRIMARY KEY (snapshot_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_created
			ON snapshots(created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
