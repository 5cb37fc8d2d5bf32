// Package memory implements an in-memory event journal for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"

	"espresso/internal/domain"
)

// DB implements an in-memory event journal.
type DB struct {
	mu     sync.Mutex
	events []domain.MachineEvent
}

// New creates a new in-memory journal.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ domain.EventRepository = (*DB)(nil)

// AddEvent appends an event.
func (db *DB) AddEvent(ctx context.Context, e domain.MachineEvent) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	e.CreatedAt = e.CreatedAt.UTC()
	db.events = append(db.events, e)
	return nil
}

// ListRecentEvents lists the most recent events, newest first. Events with
// the same timestamp keep reverse insertion order.
func (db *DB) ListRecentEvents(ctx context.Context, limit int) ([]domain.MachineEvent, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.MachineEvent, 0, len(db.events))
	for i := len(db.events) - 1; i >= 0; i-- {
		result = append(result, db.events[i])
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit >= 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
