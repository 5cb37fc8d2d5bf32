package postgres

import (
	"context"
	"fmt"

	"espresso/internal/domain"
)

var _ domain.EventRepository = (*DB)(nil)

// AddEvent inserts a machine event.
func (d *DB) AddEvent(ctx context.Context, e domain.MachineEvent) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO machine_events(id, kind, quantity, litres, ok, error, status, created_at) VALUES($1, $2, $3, $4, $5, $6, $7, $8);",
		e.ID, string(e.Kind), e.Quantity, e.Litres, e.OK, e.Error, e.Status, e.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", e.ID, err)
	}
	return nil
}

// ListRecentEvents returns the most recent events up to limit, newest first.
func (d *DB) ListRecentEvents(ctx context.Context, limit int) ([]domain.MachineEvent, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, kind, quantity, litres, ok, error, status, created_at FROM machine_events ORDER BY created_at DESC, id DESC LIMIT $1;", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.MachineEvent, 0, limit)
	for rows.Next() {
		var e domain.MachineEvent
		var kind string
		if err := rows.Scan(&e.ID, &kind, &e.Quantity, &e.Litres, &e.OK, &e.Error, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = domain.EventKind(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}
