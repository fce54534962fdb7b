package domain

import (
	"context"
	"encoding/json"
	"time"
)

// StoredEvent is the durable record written by an EventStore. It is created
// only by Append and never mutated afterward.
type StoredEvent struct {
	ID          int64
	AggregateID string
	EventName   string
	Payload     json.RawMessage
	OccurredOn  time.Time
	StoredOn    time.Time
}

// EventStore is the durable, append-only log of published domain events.
type EventStore interface {
	// Append writes one durable record, stamping its stored-on time.
	Append(ctx context.Context, event DomainEvent) error

	// EventsForAggregate returns all events for one aggregate, ordered by
	// occurred-on ascending with append order breaking ties. An aggregate
	// with no events yields an empty slice, not an error.
	EventsForAggregate(ctx context.Context, aggregateID string) ([]StoredEvent, error)

	// AllEvents returns every event across all aggregates, ordered by
	// occurred-on ascending.
	AllEvents(ctx context.Context) ([]StoredEvent, error)
}
