package domain

// EventRecorder is the in-memory outbox of not-yet-published domain events.
// It is a transient staging buffer scoped to one aggregate instance; it is
// never persisted with the aggregate's own record.
type EventRecorder struct {
	events []DomainEvent
}

func (r *EventRecorder) record(event DomainEvent) {
	r.events = append(r.events, event)
}

// RecordedEvents returns the outbox contents in insertion order.
func (r *EventRecorder) RecordedEvents() []DomainEvent {
	events := make([]DomainEvent, len(r.events))
	copy(events, r.events)
	return events
}

// ClearRecordedEvents empties the outbox.
func (r *EventRecorder) ClearRecordedEvents() {
	r.events = nil
}
