package domain

import (
	"context"
	"time"
)

// EventKind names the machine operation an event records.
type EventKind string

const (
	EventBrew     EventKind = "brew"
	EventDescale  EventKind = "descale"
	EventAddBeans EventKind = "add_beans"
	EventAddWater EventKind = "add_water"
)

// MachineEvent is one journalled machine operation, successful or not.
type MachineEvent struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	Quantity  int       `json:"quantity"`
	Litres    float64   `json:"litres"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// EventRepository is the port for the machine event journal.
type EventRepository interface {
	AddEvent(ctx context.Context, e MachineEvent) error
	ListRecentEvents(ctx context.Context, limit int) ([]MachineEvent, error)
}
