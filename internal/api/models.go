package api

import (
	"time"

	"github.com/taskpulse/taskpulse-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username  string `json:"username"  validate:"required,min=3,max=30,alphanum"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"omitempty,max=100"`
	LastName  string `json:"lastName"  validate:"omitempty,max=100"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID int64 `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint: a fresh token pair.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// CreateTaskRequest defines the payload for creating a task over REST.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,max=500"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Status      string `json:"status"      validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority    string `json:"priority"    validate:"omitempty,oneof=low medium high urgent"`
	DueDate     string `json:"dueDate"     validate:"omitempty"`
}

// UpdateTaskRequest defines the payload for a partial task update.
// Absent fields leave the stored value untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitempty,max=500"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Status      *string `json:"status"      validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority    *string `json:"priority"    validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *string `json:"dueDate"     validate:"omitempty"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Task *domain.Task `json:"task"`
}

// TaskListResponse wraps the caller's task list.
type TaskListResponse struct {
	Tasks []*domain.Task `json:"tasks"`
	Count int            `json:"count"`
}

// UserResponse wraps the public view of a user.
type UserResponse struct {
	User *domain.UserSummary `json:"user"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}
