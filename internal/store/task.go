package store

import (
	"context"

	"github.com/taskpulse/taskpulse-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// All methods that accept an ownerID scope the operation to tasks owned
// by that user. A task that exists but belongs to someone else is
// reported with ErrTaskNotFound, identical to a task that does not
// exist, so ownership cannot be probed through this interface.
type TaskStore interface {
	// Create persists a new task and fills in its generated ID.
	// The task must be valid according to domain validation rules.
	Create(ctx context.Context, task *domain.Task) error

	// FindAll retrieves the tasks owned by the given user, most
	// recently created first.
	FindAll(ctx context.Context, ownerID int64) ([]*domain.Task, error)

	// FindOne retrieves a single task by ID, scoped to the owner.
	// Returns ErrTaskNotFound if no such task is visible to the owner.
	FindOne(ctx context.Context, id, ownerID int64) (*domain.Task, error)

	// Update applies the given field changes to a task, scoped to the
	// owner. Returns the updated task, or ErrTaskNotFound if no such
	// task is visible to the owner.
	Update(ctx context.Context, id, ownerID int64, update domain.TaskUpdate) (*domain.Task, error)

	// Delete removes a task by ID, scoped to the owner.
	// Returns ErrTaskNotFound if no such task is visible to the owner.
	Delete(ctx context.Context, id, ownerID int64) error
}
