package domain

import "context"

// FilterCriteria narrows FindAll results. A nil criteria or one with no
// fields set means no filtering. New filter fields can be added without
// changing the repository contract.
type FilterCriteria struct {
	Status *TaskStatus
}

// HasFilters reports whether any filter field is set.
func (c *FilterCriteria) HasFilters() bool {
	return c != nil && c.Status != nil
}

// TaskRepository is the persistence contract for task aggregates. It stores
// current-state snapshots; it never mutates the task passed in and enforces
// no business rules.
type TaskRepository interface {
	// Save upserts by id: an existing record is replaced in place.
	Save(ctx context.Context, task *Task) error

	// FindByID returns ErrTaskNotFound when the id has no record.
	FindByID(ctx context.Context, id TaskID) (*Task, error)

	// FindAll returns tasks matching the criteria in a stable order.
	FindAll(ctx context.Context, criteria *FilterCriteria) ([]*Task, error)

	// Delete removes the record matching the task's id; it is idempotent
	// when the record is already absent.
	Delete(ctx context.Context, task *Task) error

	// CountByStatus returns the number of stored tasks per status.
	CountByStatus(ctx context.Context) (map[TaskStatus]int, error)
}
