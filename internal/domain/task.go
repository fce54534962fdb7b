package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const maxTitleLength = 255

// Task is the aggregate root enforcing the business rules of a task record.
// All mutations go through its methods; each successful mutation records
// exactly one domain event on the embedded outbox.
type Task struct {
	EventRecorder

	id          TaskID
	title       string
	description *string
	status      TaskStatus
	createdAt   time.Time
	updatedAt   time.Time
	deleted     bool
}

// NewTask constructs a task with status todo and records a TaskCreated event.
func NewTask(id TaskID, title string, description *string) (*Task, error) {
	trimmed, err := validateTitle(title)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &Task{
		id:          id,
		title:       trimmed,
		description: description,
		status:      TaskStatusTodo,
		createdAt:   now,
		updatedAt:   now,
	}
	task.record(NewTaskCreated(id.String(), trimmed, description, TaskStatusTodo))

	return task, nil
}

// ReconstituteTask rebuilds a task from persisted state. It records no event
// and performs no validation beyond what the stored state already satisfied.
func ReconstituteTask(
	id TaskID,
	title string,
	description *string,
	status TaskStatus,
	createdAt time.Time,
	updatedAt time.Time,
) *Task {
	return &Task{
		id:          id,
		title:       title,
		description: description,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (t *Task) ID() TaskID { return t.id }

func (t *Task) Title() string { return t.title }

func (t *Task) Description() *string { return t.description }

func (t *Task) Status() TaskStatus { return t.status }

func (t *Task) CreatedAt() time.Time { return t.createdAt }

func (t *Task) UpdatedAt() time.Time { return t.updatedAt }

func (t *Task) IsDeleted() bool { return t.deleted }

// Update replaces title and description. Passing a nil description clears it.
func (t *Task) Update(title string, description *string) error {
	trimmed, err := validateTitle(title)
	if err != nil {
		return err
	}

	t.title = trimmed
	t.description = description
	t.updatedAt = time.Now().UTC()
	t.record(NewTaskUpdated(t.id.String(), trimmed, description))

	return nil
}

// ChangeStatus transitions the task to newStatus. A task is first marked
// done from in_progress; re-marking a done task is an allowed no-op
// self-transition. The only rejected edge is todo -> done. Reopening a done
// task (done -> todo, done -> in_progress) is allowed.
func (t *Task) ChangeStatus(newStatus TaskStatus) error {
	if newStatus == TaskStatusDone &&
		t.status != TaskStatusInProgress && t.status != TaskStatusDone {
		return ErrInvalidTransition
	}

	oldStatus := t.status
	t.status = newStatus
	t.updatedAt = time.Now().UTC()
	t.record(NewTaskStatusChanged(t.id.String(), oldStatus, newStatus))

	return nil
}

// Delete marks the task as logically deleted. Done tasks cannot be deleted.
func (t *Task) Delete() error {
	if t.status == TaskStatusDone {
		return ErrTaskCompleted
	}

	t.deleted = true
	t.record(NewTaskDeleted(t.id.String(), t.title, t.status))

	return nil
}

func validateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(trimmed) > maxTitleLength {
		return "", ErrTitleTooLong
	}
	return trimmed, nil
}
