package store

import (
	"context"

	"github.com/taskpulse/taskpulse-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create persists a new user and fills in its generated ID.
	// Returns ErrEmailExists or ErrUsernameExists when the unique
	// constraints are violated.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
