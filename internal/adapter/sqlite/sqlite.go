// Package sqlite implements the event journal on an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"espresso/internal/domain"
)

// DB wraps a *sql.DB and implements domain.EventRepository.
type DB struct {
	sql *sql.DB
}

var _ domain.EventRepository = (*DB)(nil)

// Open opens or creates the database file at path and runs migrations.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	s, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer; the machine service already serializes operations.
	s.SetMaxOpenConns(1)
	if _, err := s.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := s.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	d := &DB{sql: s}
	if err := d.migrate(context.Background()); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the database.
func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS machine_events (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			kind TEXT NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 0,
			litres REAL NOT NULL DEFAULT 0,
			ok INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_machine_events_created_at ON machine_events(created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// AddEvent inserts a machine event.
func (d *DB) AddEvent(ctx context.Context, e domain.MachineEvent) error {
	ok := 0
	if e.OK {
		ok = 1
	}
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO machine_events(id, kind, quantity, litres, ok, error, status, created_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Kind), e.Quantity, e.Litres, ok, e.Error, e.Status, e.CreatedAt.UTC().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", e.ID, err)
	}
	return nil
}

// ListRecentEvents returns the most recent events up to limit, newest first.
func (d *DB) ListRecentEvents(ctx context.Context, limit int) ([]domain.MachineEvent, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, kind, quantity, litres, ok, error, status, created_at FROM machine_events ORDER BY created_at DESC, seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.MachineEvent, 0, limit)
	for rows.Next() {
		var (
			e       domain.MachineEvent
			kind    string
			ok      int
			created int64
		)
		if err := rows.Scan(&e.ID, &kind, &e.Quantity, &e.Litres, &ok, &e.Error, &e.Status, &created); err != nil {
			return nil, err
		}
		e.Kind = domain.EventKind(kind)
		e.OK = ok != 0
		e.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
