package domain

import (
	"encoding/json"
	"time"
)

// Event name discriminators, set explicitly at construction.
const (
	EventNameTaskCreated       = "TaskCreated"
	EventNameTaskUpdated       = "TaskUpdated"
	EventNameTaskStatusChanged = "TaskStatusChanged"
	EventNameTaskDeleted       = "TaskDeleted"
)

// DomainEvent is an immutable fact describing a state change of an aggregate.
type DomainEvent interface {
	AggregateID() string
	EventName() string
	OccurredOn() time.Time
	Payload() ([]byte, error)
}

// baseEvent carries the attributes common to all domain events.
type baseEvent struct {
	aggregateID string
	name        string
	occurredOn  time.Time
}

func newBaseEvent(aggregateID, name string) baseEvent {
	return baseEvent{
		aggregateID: aggregateID,
		name:        name,
		occurredOn:  time.Now().UTC(),
	}
}

func (e baseEvent) AggregateID() string {
	return e.aggregateID
}

func (e baseEvent) EventName() string {
	return e.name
}

func (e baseEvent) OccurredOn() time.Time {
	return e.occurredOn
}

// TaskCreated is recorded when a task aggregate is constructed.
type TaskCreated struct {
	baseEvent
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status"`
}

// NewTaskCreated creates a TaskCreated event.
func NewTaskCreated(aggregateID, title string, description *string, status TaskStatus) TaskCreated {
	return TaskCreated{
		baseEvent:   newBaseEvent(aggregateID, EventNameTaskCreated),
		Title:       title,
		Description: description,
		Status:      status,
	}
}

func (e TaskCreated) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// TaskUpdated is recorded when a task's title or description changes.
type TaskUpdated struct {
	baseEvent
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// NewTaskUpdated creates a TaskUpdated event.
func NewTaskUpdated(aggregateID, title string, description *string) TaskUpdated {
	return TaskUpdated{
		baseEvent:   newBaseEvent(aggregateID, EventNameTaskUpdated),
		Title:       title,
		Description: description,
	}
}

func (e TaskUpdated) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// TaskStatusChanged is recorded on every status transition, including
// degenerate self-transitions.
type TaskStatusChanged struct {
	baseEvent
	OldStatus TaskStatus `json:"old_status"`
	NewStatus TaskStatus `json:"new_status"`
}

// NewTaskStatusChanged creates a TaskStatusChanged event.
func NewTaskStatusChanged(aggregateID string, oldStatus, newStatus TaskStatus) TaskStatusChanged {
	return TaskStatusChanged{
		baseEvent: newBaseEvent(aggregateID, EventNameTaskStatusChanged),
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}
}

func (e TaskStatusChanged) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// TaskDeleted is recorded when a task is soft-deleted, capturing title and
// status at deletion time.
type TaskDeleted struct {
	baseEvent
	Title  string     `json:"title"`
	Status TaskStatus `json:"status"`
}

// NewTaskDeleted creates a TaskDeleted event.
func NewTaskDeleted(aggregateID, title string, status TaskStatus) TaskDeleted {
	return TaskDeleted{
		baseEvent: newBaseEvent(aggregateID, EventNameTaskDeleted),
		Title:     title,
		Status:    status,
	}
}

func (e TaskDeleted) Payload() ([]byte, error) {
	return json.Marshal(e)
}
