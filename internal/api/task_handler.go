package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/taskpulse/taskpulse-api/internal/api/shared"
	"github.com/taskpulse/taskpulse-api/internal/domain"
	"github.com/taskpulse/taskpulse-api/internal/store"
)

// TaskHandler handles the REST task endpoints. The semantics mirror the
// realtime gateway commands: every operation is scoped to the caller,
// and a task owned by someone else is reported as not found.
type TaskHandler struct {
	taskStore store.TaskStore
	validator *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskStore store.TaskStore) *TaskHandler {
	return &TaskHandler{
		taskStore: taskStore,
		validator: validator.New(),
	}
}

// List handles GET /api/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	tasks, err := h.taskStore.FindAll(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to fetch tasks", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Tasks: tasks,
		Count: len(tasks),
	})
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	dueDate, err := parseDueDateParam(req.DueDate)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid dueDate format")
		return
	}

	task, err := domain.NewTask(
		userID,
		req.Title,
		req.Description,
		domain.TaskStatus(req.Status),
		domain.TaskPriority(req.Priority),
		dueDate,
	)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task data")
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create task", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, TaskResponse{Task: task})
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskStore.FindOne(r.Context(), taskID, userID)
	if err != nil {
		h.respondTaskError(w, r, taskID, "Failed to fetch task", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskResponse{Task: task})
}

// Update handles PUT /api/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	update, err := req.toUpdate()
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid dueDate format")
		return
	}

	task, err := h.taskStore.Update(r.Context(), taskID, userID, update)
	if err != nil {
		h.respondTaskError(w, r, taskID, "Failed to update task", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskResponse{Task: task})
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.taskStore.Delete(r.Context(), taskID, userID); err != nil {
		h.respondTaskError(w, r, taskID, "Failed to remove task", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// respondTaskError writes the canonical not-found message for missing
// (or not owned) tasks and a sanitized failure otherwise.
func (h *TaskHandler) respondTaskError(w http.ResponseWriter, r *http.Request, taskID int64, message string, err error) {
	if store.IsNotFoundError(err) {
		shared.RespondWithError(w, r, http.StatusNotFound,
			fmt.Sprintf("Task with ID %d not found", taskID))
		return
	}
	shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, message, err)
}

// toUpdate converts the request into a domain update, validating the
// due date format.
func (p *UpdateTaskRequest) toUpdate() (domain.TaskUpdate, error) {
	update := domain.TaskUpdate{
		Title:       p.Title,
		Description: p.Description,
	}
	if p.Status != nil {
		status := domain.TaskStatus(*p.Status)
		update.Status = &status
	}
	if p.Priority != nil {
		priority := domain.TaskPriority(*p.Priority)
		update.Priority = &priority
	}
	if p.DueDate != nil {
		due, err := parseDueDateParam(*p.DueDate)
		if err != nil {
			return domain.TaskUpdate{}, err
		}
		update.DueDate = due
	}
	return update, nil
}

// parseDueDateParam accepts an RFC3339 timestamp or a plain yyyy-mm-dd
// date. An empty string means no due date.
func parseDueDateParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			utc := t.UTC()
			return &utc, nil
		}
	}
	return nil, fmt.Errorf("invalid due date: %q", raw)
}
