package dto

// CreateTaskRequest represents the request body for POST /tasks.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// UpdateTaskRequest represents the request body for PUT /tasks/{id}.
// Omitting description clears it.
type UpdateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// ChangeTaskStatusRequest represents the request body for PATCH /tasks/{id}/status.
type ChangeTaskStatusRequest struct {
	Status string `json:"status"`
}
