package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/taskledger/taskledger/internal/handler/dto"
	"github.com/taskledger/taskledger/internal/service"
)

// Pinger reports backend connectivity for the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	taskService *service.TaskService
	pinger      Pinger
}

// New creates a new Handler. pinger may be nil when the backend has no
// connectivity to check (the in-memory backend).
func New(taskService *service.TaskService, pinger Pinger) *Handler {
	return &Handler{
		taskService: taskService,
		pinger:      pinger,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// API v1 routes
	mux.HandleFunc("POST /api/v1/tasks", h.handleCreateTask)
	mux.HandleFunc("GET /api/v1/tasks", h.handleListTasks)
	mux.HandleFunc("GET /api/v1/tasks/{id}", h.handleGetTask)
	mux.HandleFunc("PUT /api/v1/tasks/{id}", h.handleUpdateTask)
	mux.HandleFunc("PATCH /api/v1/tasks/{id}/status", h.handleChangeTaskStatus)
	mux.HandleFunc("DELETE /api/v1/tasks/{id}", h.handleDeleteTask)
	mux.HandleFunc("GET /api/v1/tasks/{id}/events", h.handleGetTaskEvents)
	mux.HandleFunc("GET /api/v1/stats", h.handleGetStats)
}

// handleHealthz returns 200 OK if the storage backend is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			slog.Error("storage health check failed", "error", err)
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps a domain error and writes the error response.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}

// extractTaskID extracts and validates the task id path parameter.
// Returns (taskID, true) if valid, ("", false) if invalid (error already sent to client).
func extractTaskID(w http.ResponseWriter, r *http.Request) (string, bool) {
	taskID := r.PathValue("id")
	if taskID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "task id is required")
		return "", false
	}

	if _, err := uuid.Parse(taskID); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "task id must be a valid UUID")
		return "", false
	}

	return taskID, true
}
