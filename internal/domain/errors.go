package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Task errors
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTaskCompleted     = errors.New("cannot delete a completed task")

	// Validation errors
	ErrInvalidTaskID = errors.New("invalid task id")
	ErrInvalidStatus = errors.New("invalid task status")
	ErrEmptyTitle    = errors.New("task title cannot be empty")
	ErrTitleTooLong  = errors.New("task title cannot exceed 255 characters")
)
