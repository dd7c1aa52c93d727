package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/taskpulse/taskpulse-api/internal/domain"
	"github.com/taskpulse/taskpulse-api/internal/store"
)

// handlerFunc processes one inbound command on an authenticated session.
type handlerFunc func(ctx context.Context, sess *Session, data json.RawMessage)

// Dispatcher routes inbound commands to their handlers. It enforces
// authentication, invokes the task store, and asks the router to fan
// results out. Every failure from the store or from payload validation
// is recovered here and surfaced to the originating connection as an
// error event; nothing propagates to other sessions or terminates the
// process.
type Dispatcher struct {
	tasks    store.TaskStore
	registry *Registry
	router   *Router
	validate *validator.Validate
	logger   *slog.Logger
	handlers map[string]handlerFunc
}

// NewDispatcher creates a dispatcher over the given collaborators.
func NewDispatcher(tasks store.TaskStore, registry *Registry, router *Router, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dispatcher{
		tasks:    tasks,
		registry: registry,
		router:   router,
		validate: validator.New(),
		logger:   logger.With(slog.String("component", "dispatcher")),
	}
	d.handlers = map[string]handlerFunc{
		EventCreateTask:    d.handleCreateTask,
		EventFindAllTasks:  d.handleFindAllTasks,
		EventFindOneTask:   d.handleFindOneTask,
		EventUpdateTask:    d.handleUpdateTask,
		EventRemoveTask:    d.handleRemoveTask,
		EventJoinTaskRoom:  d.handleJoinTaskRoom,
		EventLeaveTaskRoom: d.handleLeaveTaskRoom,
	}
	return d
}

// Dispatch processes one raw inbound frame from a connection. Commands
// from a single connection arrive here in the order received; the
// caller (the gateway read loop) never dispatches concurrently for the
// same connection.
func (d *Dispatcher) Dispatch(ctx context.Context, connID string, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		d.router.DeliverDirect(connID, EventError, ErrorPayload{
			Message: "Malformed message",
			Error:   err.Error(),
		})
		return
	}

	sess, ok := d.registry.Lookup(connID)
	if !ok || sess.State() != StateAuthenticated {
		d.router.DeliverDirect(connID, EventError, ErrorPayload{
			Message: "Client not authenticated",
		})
		return
	}

	handler, ok := d.handlers[env.Event]
	if !ok {
		d.logger.Debug("unknown command",
			"conn_id", connID,
			"event", env.Event)
		d.router.DeliverDirect(connID, EventError, ErrorPayload{
			Message: fmt.Sprintf("Unknown command: %s", env.Event),
		})
		return
	}

	handler(ctx, sess, env.Data)
}

func (d *Dispatcher) handleCreateTask(ctx context.Context, sess *Session, data json.RawMessage) {
	var payload CreateTaskPayload
	if !d.decode(sess, data, &payload, "Failed to create task") {
		return
	}

	dueDate, err := parseDueDate(payload.DueDate)
	if err != nil {
		d.sendError(sess, "Failed to create task", err)
		return
	}

	task, err := domain.NewTask(
		sess.UserID,
		payload.Title,
		payload.Description,
		domain.TaskStatus(payload.Status),
		domain.TaskPriority(payload.Priority),
		dueDate,
	)
	if err != nil {
		d.sendError(sess, "Failed to create task", err)
		return
	}

	if err := d.tasks.Create(ctx, task); err != nil {
		d.sendError(sess, "Failed to create task", err)
		return
	}

	d.logger.Info("task created",
		"task_id", task.ID,
		"user_id", sess.UserID)

	event := TaskPayload{Task: task, Timestamp: time.Now().UTC()}
	d.router.Broadcast(UserRoom(sess.UserID), EventTaskCreated, event)
	d.router.DeliverDirect(sess.ID, EventTaskCreated, event)
}

func (d *Dispatcher) handleFindAllTasks(ctx context.Context, sess *Session, _ json.RawMessage) {
	tasks, err := d.tasks.FindAll(ctx, sess.UserID)
	if err != nil {
		d.sendError(sess, "Failed to fetch tasks", err)
		return
	}

	d.router.DeliverDirect(sess.ID, EventTasksFound, TasksFoundPayload{
		Tasks:     tasks,
		Count:     len(tasks),
		Timestamp: time.Now().UTC(),
	})
}

func (d *Dispatcher) handleFindOneTask(ctx context.Context, sess *Session, data json.RawMessage) {
	var payload IDPayload
	if !d.decode(sess, data, &payload, "Failed to fetch task") {
		return
	}

	task, err := d.tasks.FindOne(ctx, payload.ID, sess.UserID)
	if err != nil {
		d.sendTaskError(sess, payload.ID, "Failed to fetch task", err)
		return
	}

	d.router.DeliverDirect(sess.ID, EventTaskFound, TaskPayload{
		Task:      task,
		Timestamp: time.Now().UTC(),
	})
}

func (d *Dispatcher) handleUpdateTask(ctx context.Context, sess *Session, data json.RawMessage) {
	var payload UpdateTaskPayload
	if !d.decode(sess, data, &payload, "Failed to update task") {
		return
	}

	update, err := payload.toUpdate()
	if err != nil {
		d.sendError(sess, "Failed to update task", err)
		return
	}

	task, err := d.tasks.Update(ctx, payload.ID, sess.UserID, update)
	if err != nil {
		d.sendTaskError(sess, payload.ID, "Failed to update task", err)
		return
	}

	d.logger.Info("task updated",
		"task_id", task.ID,
		"user_id", sess.UserID)

	event := TaskPayload{Task: task, Timestamp: time.Now().UTC()}
	d.router.Broadcast(UserRoom(sess.UserID), EventTaskUpdated, event)
	d.router.DeliverDirect(sess.ID, EventTaskUpdated, event)
}

func (d *Dispatcher) handleRemoveTask(ctx context.Context, sess *Session, data json.RawMessage) {
	var payload IDPayload
	if !d.decode(sess, data, &payload, "Failed to remove task") {
		return
	}

	if err := d.tasks.Delete(ctx, payload.ID, sess.UserID); err != nil {
		d.sendTaskError(sess, payload.ID, "Failed to remove task", err)
		return
	}

	d.logger.Info("task removed",
		"task_id", payload.ID,
		"user_id", sess.UserID)

	event := TaskRemovedPayload{ID: payload.ID, Timestamp: time.Now().UTC()}
	d.router.Broadcast(UserRoom(sess.UserID), EventTaskRemoved, event)
	d.router.DeliverDirect(sess.ID, EventTaskRemoved, event)
}

func (d *Dispatcher) handleJoinTaskRoom(ctx context.Context, sess *Session, data json.RawMessage) {
	var payload IDPayload
	if !d.decode(sess, data, &payload, "Failed to join task room") {
		return
	}

	// The ownership check: a task invisible to this principal cannot
	// have its room joined, and the error does not reveal whether it
	// exists at all.
	task, err := d.tasks.FindOne(ctx, payload.ID, sess.UserID)
	if err != nil {
		d.sendTaskError(sess, payload.ID, "Failed to join task room", err)
		return
	}

	if err := d.registry.JoinRoom(sess.ID, TaskRoom(payload.ID)); err != nil {
		d.sendError(sess, "Failed to join task room", err)
		return
	}

	d.logger.Debug("joined task room",
		"conn_id", sess.ID,
		"task_id", payload.ID,
		"user_id", sess.UserID)

	d.router.DeliverDirect(sess.ID, EventJoinedTaskRoom, JoinedTaskRoomPayload{
		TaskID:    payload.ID,
		Message:   fmt.Sprintf("Joined room for task: %s", task.Title),
		Timestamp: time.Now().UTC(),
	})
}

func (d *Dispatcher) handleLeaveTaskRoom(_ context.Context, sess *Session, data json.RawMessage) {
	var payload IDPayload
	if !d.decode(sess, data, &payload, "Failed to leave task room") {
		return
	}

	// Unconditional: leaving a room one never joined is a harmless no-op,
	// so there is no ownership check here.
	if err := d.registry.LeaveRoom(sess.ID, TaskRoom(payload.ID)); err != nil {
		d.sendError(sess, "Failed to leave task room", err)
		return
	}

	d.router.DeliverDirect(sess.ID, EventLeftTaskRoom, LeftTaskRoomPayload{
		TaskID:    payload.ID,
		Timestamp: time.Now().UTC(),
	})
}

// decode unmarshals and validates an inbound payload, reporting any
// failure to the caller. Returns false when dispatch should stop.
func (d *Dispatcher) decode(sess *Session, data json.RawMessage, out any, failMessage string) bool {
	if err := json.Unmarshal(data, out); err != nil {
		d.sendError(sess, failMessage, err)
		return false
	}
	if err := d.validate.Struct(out); err != nil {
		d.sendError(sess, failMessage, err)
		return false
	}
	return true
}

// sendError reports a recovered failure to the originating connection
// only: a short message plus the underlying detail as an opaque string.
func (d *Dispatcher) sendError(sess *Session, message string, err error) {
	payload := ErrorPayload{Message: message}
	if err != nil {
		payload.Error = err.Error()
	}
	d.router.DeliverDirect(sess.ID, EventError, payload)
}

// sendTaskError is sendError specialized for task lookups: a missing
// task (which deliberately includes tasks owned by someone else) gets
// the canonical not-found message as the headline.
func (d *Dispatcher) sendTaskError(sess *Session, taskID int64, message string, err error) {
	if store.IsNotFoundError(err) {
		d.router.DeliverDirect(sess.ID, EventError, ErrorPayload{
			Message: fmt.Sprintf("Task with ID %d not found", taskID),
		})
		return
	}
	d.sendError(sess, message, err)
}

// toUpdate converts the wire payload into a domain update, validating
// the due date format.
func (p *UpdateTaskPayload) toUpdate() (domain.TaskUpdate, error) {
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
		due, err := parseDueDate(*p.DueDate)
		if err != nil {
			return domain.TaskUpdate{}, err
		}
		update.DueDate = due
	}
	return update, nil
}

// parseDueDate accepts an RFC3339 timestamp or a plain yyyy-mm-dd date.
// An empty string means no due date.
func parseDueDate(raw string) (*time.Time, error) {
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
