package domain

import (
	"context"
	"fmt"
)

// EventPublisher drains an aggregate's outbox into an event store.
type EventPublisher interface {
	PublishEventsFrom(ctx context.Context, task *Task) error
}

// StorePublisher publishes recorded events by appending them one by one to
// an EventStore.
type StorePublisher struct {
	store EventStore
}

// NewStorePublisher creates a StorePublisher backed by the given store.
func NewStorePublisher(store EventStore) *StorePublisher {
	return &StorePublisher{store: store}
}

// PublishEventsFrom appends the outbox events in insertion order. A failed
// append stops publishing and leaves the outbox intact so the caller can
// retry; the outbox is cleared only after every append succeeded.
func (p *StorePublisher) PublishEventsFrom(ctx context.Context, task *Task) error {
	for _, event := range task.RecordedEvents() {
		if err := p.store.Append(ctx, event); err != nil {
			return fmt.Errorf("append %s event: %w", event.EventName(), err)
		}
	}

	task.ClearRecordedEvents()
	return nil
}
