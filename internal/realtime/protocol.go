package realtime

import (
	"encoding/json"
	"time"

	"github.com/taskpulse/taskpulse-api/internal/domain"
)

// Inbound event names.
const (
	EventCreateTask    = "createTask"
	EventFindAllTasks  = "findAllTasks"
	EventFindOneTask   = "findOneTask"
	EventUpdateTask    = "updateTask"
	EventRemoveTask    = "removeTask"
	EventJoinTaskRoom  = "joinTaskRoom"
	EventLeaveTaskRoom = "leaveTaskRoom"
)

// Outbound event names.
const (
	EventConnected      = "connected"
	EventError          = "error"
	EventTaskCreated    = "taskCreated"
	EventTasksFound     = "tasksFound"
	EventTaskFound      = "taskFound"
	EventTaskUpdated    = "taskUpdated"
	EventTaskRemoved    = "taskRemoved"
	EventJoinedTaskRoom = "joinedTaskRoom"
	EventLeftTaskRoom   = "leftTaskRoom"
)

// Envelope is the wire frame for both directions: an event name and an
// event-specific payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// CreateTaskPayload is the inbound payload for createTask. Status and
// priority are optional and validated against the known enum values;
// dueDate carries any RFC3339 timestamp or plain date.
type CreateTaskPayload struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority    string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     string `json:"dueDate,omitempty"`
}

// IDPayload is the inbound payload for the commands addressing a task
// by id: findOneTask, removeTask, joinTaskRoom, leaveTaskRoom.
type IDPayload struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

// UpdateTaskPayload is the inbound payload for updateTask. All fields
// besides the id are optional; absent fields are left untouched.
type UpdateTaskPayload struct {
	ID          int64   `json:"id" validate:"required,gt=0"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority    *string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *string `json:"dueDate,omitempty"`
}

// ConnectedPayload acknowledges a successful handshake.
type ConnectedPayload struct {
	Message   string    `json:"message"`
	UserID    int64     `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorPayload reports a recovered failure to the originating
// connection. Message is short and human-readable; Error optionally
// carries diagnostic detail and must not be assumed structured.
type ErrorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// TaskPayload carries one task, used by taskCreated, taskFound and
// taskUpdated.
type TaskPayload struct {
	Task      *domain.Task `json:"task"`
	Timestamp time.Time    `json:"timestamp"`
}

// TasksFoundPayload carries the caller's task list.
type TasksFoundPayload struct {
	Tasks     []*domain.Task `json:"tasks"`
	Count     int            `json:"count"`
	Timestamp time.Time      `json:"timestamp"`
}

// TaskRemovedPayload carries only the id; the task body no longer exists.
type TaskRemovedPayload struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// JoinedTaskRoomPayload acknowledges a task-room join with a
// human-readable confirmation.
type JoinedTaskRoomPayload struct {
	TaskID    int64     `json:"taskId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// LeftTaskRoomPayload acknowledges a task-room leave.
type LeftTaskRoomPayload struct {
	TaskID    int64     `json:"taskId"`
	Timestamp time.Time `json:"timestamp"`
}
