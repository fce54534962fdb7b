package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/taskledger/taskledger/internal/domain"
)

// MemoryTaskRepository is an in-memory TaskRepository for tests and fast
// iteration. It is an explicit container instance, not a hidden singleton;
// construct one per test or run and Reset it between uses.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]*domain.Task
	order []string
}

// NewMemoryTaskRepository creates an empty MemoryTaskRepository.
func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{tasks: make(map[string]*domain.Task)}
}

// cloneTask snapshots the aggregate's persisted state. The outbox is
// transient and intentionally not part of the snapshot.
func cloneTask(task *domain.Task) *domain.Task {
	var description *string
	if d := task.Description(); d != nil {
		v := *d
		description = &v
	}
	return domain.ReconstituteTask(
		task.ID(),
		task.Title(),
		description,
		task.Status(),
		task.CreatedAt(),
		task.UpdatedAt(),
	)
}

// Save upserts the task snapshot by id.
func (r *MemoryTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := task.ID().String()
	if _, exists := r.tasks[key]; !exists {
		r.order = append(r.order, key)
	}
	r.tasks[key] = cloneTask(task)

	return nil
}

// FindByID retrieves a task by id.
func (r *MemoryTaskRepository) FindByID(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, exists := r.tasks[id.String()]
	if !exists {
		return nil, domain.ErrTaskNotFound
	}

	return cloneTask(task), nil
}

// FindAll retrieves tasks matching the criteria in insertion order.
func (r *MemoryTaskRepository) FindAll(ctx context.Context, criteria *domain.FilterCriteria) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tasks []*domain.Task
	for _, key := range r.order {
		task := r.tasks[key]
		if criteria.HasFilters() && task.Status() != *criteria.Status {
			continue
		}
		tasks = append(tasks, cloneTask(task))
	}

	return tasks, nil
}

// Delete removes the record matching the task's id; absent records are ignored.
func (r *MemoryTaskRepository) Delete(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := task.ID().String()
	if _, exists := r.tasks[key]; !exists {
		return nil
	}

	delete(r.tasks, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}

// CountByStatus returns the number of stored tasks per status.
func (r *MemoryTaskRepository) CountByStatus(ctx context.Context) (map[domain.TaskStatus]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[domain.TaskStatus]int)
	for _, task := range r.tasks {
		counts[task.Status()]++
	}

	return counts, nil
}

// Reset clears all stored tasks.
func (r *MemoryTaskRepository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks = make(map[string]*domain.Task)
	r.order = nil
}

// MemoryEventStore is an in-memory EventStore with the same observable
// contract as the PostgreSQL implementation.
type MemoryEventStore struct {
	mu     sync.RWMutex
	events []domain.StoredEvent
	nextID int64
}

// NewMemoryEventStore creates an empty MemoryEventStore.
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{nextID: 1}
}

// Append writes one record, stamping stored_on at write time.
func (s *MemoryEventStore) Append(ctx context.Context, event domain.DomainEvent) error {
	payload, err := event.Payload()
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event.EventName(), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, domain.StoredEvent{
		ID:          s.nextID,
		AggregateID: event.AggregateID(),
		EventName:   event.EventName(),
		Payload:     payload,
		OccurredOn:  event.OccurredOn(),
		StoredOn:    time.Now().UTC(),
	})
	s.nextID++

	return nil
}

// EventsForAggregate returns all events for one aggregate, occurred-on
// ascending with append order breaking ties.
func (s *MemoryEventStore) EventsForAggregate(ctx context.Context, aggregateID string) ([]domain.StoredEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := []domain.StoredEvent{}
	for _, event := range s.events {
		if event.AggregateID == aggregateID {
			events = append(events, event)
		}
	}
	sortStoredEvents(events)

	return events, nil
}

// AllEvents returns every event across all aggregates.
func (s *MemoryEventStore) AllEvents(ctx context.Context) ([]domain.StoredEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]domain.StoredEvent, len(s.events))
	copy(events, s.events)
	sortStoredEvents(events)

	return events, nil
}

// Reset clears all stored events.
func (s *MemoryEventStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = nil
	s.nextID = 1
}

// sortStoredEvents orders by occurred-on ascending; the stable sort keeps
// append order for equal timestamps.
func sortStoredEvents(events []domain.StoredEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].OccurredOn.Before(events[j].OccurredOn)
	})
}
