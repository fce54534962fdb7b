package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taskledger/taskledger/internal/domain"
)

// TaskService coordinates task use cases: each mutation is the sequential
// pipeline load-or-construct, mutate, persist, publish. Repository save and
// event store append are two separate durability operations; a failed append
// leaves the outbox intact for the caller to retry.
type TaskService struct {
	tasks     domain.TaskRepository
	events    domain.EventStore
	publisher domain.EventPublisher
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	tasks domain.TaskRepository,
	events domain.EventStore,
	publisher domain.EventPublisher,
) *TaskService {
	return &TaskService{
		tasks:     tasks,
		events:    events,
		publisher: publisher,
	}
}

// load parses the textual id and fetches the aggregate.
func (s *TaskService) load(ctx context.Context, id string) (*domain.Task, error) {
	taskID, err := domain.ParseTaskID(id)
	if err != nil {
		return nil, err
	}
	return s.tasks.FindByID(ctx, taskID)
}

// Create constructs a new task and publishes its creation event.
func (s *TaskService) Create(ctx context.Context, title string, description *string) (*domain.Task, error) {
	task, err := domain.NewTask(domain.NewTaskID(), title, description)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	if err := s.publisher.PublishEventsFrom(ctx, task); err != nil {
		return nil, fmt.Errorf("publish events: %w", err)
	}

	slog.Info("task created", "task_id", task.ID().String())

	return task, nil
}

// Update replaces a task's title and description.
func (s *TaskService) Update(ctx context.Context, id, title string, description *string) (*domain.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := task.Update(title, description); err != nil {
		return nil, err
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	if err := s.publisher.PublishEventsFrom(ctx, task); err != nil {
		return nil, fmt.Errorf("publish events: %w", err)
	}

	slog.Info("task updated", "task_id", task.ID().String())

	return task, nil
}

// ChangeStatus transitions a task to the given status.
func (s *TaskService) ChangeStatus(ctx context.Context, id, status string) (*domain.Task, error) {
	newStatus, err := domain.ParseTaskStatus(status)
	if err != nil {
		return nil, err
	}

	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := task.Status()
	if err := task.ChangeStatus(newStatus); err != nil {
		return nil, err
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	if err := s.publisher.PublishEventsFrom(ctx, task); err != nil {
		return nil, fmt.Errorf("publish events: %w", err)
	}

	slog.Info("task status changed",
		"task_id", task.ID().String(),
		"old_status", oldStatus,
		"new_status", newStatus,
	)

	return task, nil
}

// Delete soft-deletes the aggregate and removes its snapshot from the
// repository. The event log is retained.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	task, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err := task.Delete(); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, task); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if err := s.publisher.PublishEventsFrom(ctx, task); err != nil {
		return fmt.Errorf("publish events: %w", err)
	}

	slog.Info("task deleted", "task_id", task.ID().String())

	return nil
}

// GetByID retrieves the current-state snapshot of one task.
func (s *TaskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.load(ctx, id)
}

// List retrieves tasks matching the optional criteria.
func (s *TaskService) List(ctx context.Context, criteria *domain.FilterCriteria) ([]*domain.Task, error) {
	tasks, err := s.tasks.FindAll(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// History returns the published event log of one task. The log survives
// task deletion, so only the id's form is checked, not the task's existence.
func (s *TaskService) History(ctx context.Context, id string) ([]domain.StoredEvent, error) {
	taskID, err := domain.ParseTaskID(id)
	if err != nil {
		return nil, err
	}

	events, err := s.events.EventsForAggregate(ctx, taskID.String())
	if err != nil {
		return nil, fmt.Errorf("load task events: %w", err)
	}
	return events, nil
}

// Stats returns the number of stored tasks per status.
func (s *TaskService) Stats(ctx context.Context) (map[domain.TaskStatus]int, error) {
	counts, err := s.tasks.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	return counts, nil
}
