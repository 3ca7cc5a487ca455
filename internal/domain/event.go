package domain

import (
	"context"
	"time"
)

// Event represents a single-day youth event.
type Event struct {
	ID          string
	Name        string
	Date        time.Time
	Description string
	Location    string
	// Capacity is nil when the event accepts an unlimited number of participants.
	Capacity  *int
	AgeGroup  string
	Price     *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCapacityFor reports whether an event with count registrations can accept one more.
func (e *Event) HasCapacityFor(count int) bool {
	return e.Capacity == nil || count < *e.Capacity
}

// EventInput carries the administrator-editable fields of an event.
type EventInput struct {
	Name        string
	Date        time.Time
	Description string
	Location    string
	Capacity    *int
	AgeGroup    string
	Price       *float64
}

// EventSummary is an event with its current registration count.
type EventSummary struct {
	Event           *Event
	RegisteredCount int
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}

// EventService defines event administration and browsing.
type EventService interface {
	Create(ctx context.Context, identity Identity, in EventInput) (*Event, error)
	Update(ctx context.Context, identity Identity, eventID string, in EventInput) (*Event, error)
	Delete(ctx context.Context, identity Identity, eventID string) error
	Get(ctx context.Context, identity Identity, eventID string) (*Event, error)
	List(ctx context.Context, identity Identity, params PaginationParams) ([]*Event, int, error)
	ListSummaries(ctx context.Context, identity Identity) ([]*EventSummary, error)
}

// DateOnly truncates t to midnight of its UTC calendar date, whatever t's location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
