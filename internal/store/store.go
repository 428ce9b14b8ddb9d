// Package store persists survey results in SQLite. The survey core never
// touches this package directly; the entry point wires pass output into it.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// Store is a SQLite-backed survey result archive.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path, applies
// the recommended pragmas, and runs migrations.
func New(path string) (*Store, error) {
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

	// modernc.org/sqlite requires pragmas as SQL statements, not DSN params.
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

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Tx executes fn within a transaction, committing on nil and rolling
// back otherwise.
func (s *Store) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
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

// migrations are applied in order; user_version tracks progress.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS survey_results (
		id              TEXT PRIMARY KEY,
		pass_id         TEXT NOT NULL,
		ssid            TEXT NOT NULL,
		bssid           TEXT NOT NULL,
		signal_pct      INTEGER NOT NULL,
		signal_dbm      REAL,
		snr_db          REAL,
		quality         TEXT,
		channel         INTEGER NOT NULL,
		band            TEXT NOT NULL,
		authentication  TEXT,
		skipped         INTEGER NOT NULL,
		skip_reason     TEXT,
		connect_success INTEGER,
		connect_ms      REAL,
		diagnostic      TEXT,
		tests_json      TEXT,
		recorded_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_survey_results_pass ON survey_results(pass_id)`,
	`CREATE INDEX IF NOT EXISTS idx_survey_results_ssid_time ON survey_results(ssid, recorded_at)`,
}

// migrate applies pending schema migrations tracked via PRAGMA user_version.
func (s *Store) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	for i := version; i < len(migrations); i++ {
		if _, err := s.db.ExecContext(ctx, migrations[i]); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			return fmt.Errorf("bump user_version to %d: %w", i+1, err)
		}
	}
	return nil
}
