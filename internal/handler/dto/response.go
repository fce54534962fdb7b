package dto

import (
	"encoding/json"
	"time"

	"github.com/taskledger/taskledger/internal/domain"
)

// TaskResponse is the current-state snapshot read-side consumers depend on.
type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TasksListResponse represents the response for GET /tasks.
type TasksListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// StoredEventResponse represents one entry of a task's event log.
type StoredEventResponse struct {
	ID          int64           `json:"id"`
	AggregateID string          `json:"aggregate_id"`
	EventName   string          `json:"event_name"`
	Payload     json.RawMessage `json:"payload"`
	OccurredOn  time.Time       `json:"occurred_on"`
	StoredOn    time.Time       `json:"stored_on"`
}

// TaskEventsResponse represents the response for GET /tasks/{id}/events.
type TaskEventsResponse struct {
	Events []StoredEventResponse `json:"events"`
	Total  int                   `json:"total"`
}

// StatsResponse represents the response for GET /stats.
type StatsResponse struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

// ToTaskResponse converts a domain.Task to its snapshot representation.
func ToTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID().String(),
		Title:       task.Title(),
		Description: task.Description(),
		Status:      task.Status().String(),
		CreatedAt:   task.CreatedAt(),
		UpdatedAt:   task.UpdatedAt(),
	}
}

// ToTasksListResponse converts a task slice to the list response.
func ToTasksListResponse(tasks []*domain.Task) TasksListResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, ToTaskResponse(task))
	}
	return TasksListResponse{Tasks: responses, Total: len(responses)}
}

// ToStoredEventResponse converts a domain.StoredEvent.
func ToStoredEventResponse(event domain.StoredEvent) StoredEventResponse {
	return StoredEventResponse{
		ID:          event.ID,
		AggregateID: event.AggregateID,
		EventName:   event.EventName,
		Payload:     event.Payload,
		OccurredOn:  event.OccurredOn,
		StoredOn:    event.StoredOn,
	}
}

// ToTaskEventsResponse converts a stored event slice to the log response.
func ToTaskEventsResponse(events []domain.StoredEvent) TaskEventsResponse {
	responses := make([]StoredEventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, ToStoredEventResponse(event))
	}
	return TaskEventsResponse{Events: responses, Total: len(responses)}
}

// ToStatsResponse converts per-status counts to the stats response.
func ToStatsResponse(counts map[domain.TaskStatus]int) StatsResponse {
	byStatus := make(map[string]int, len(counts))
	total := 0
	for status, count := range counts {
		byStatus[status.String()] = count
		total += count
	}
	return StatsResponse{Total: total, ByStatus: byStatus}
}
