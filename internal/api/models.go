package api

import (
	"github.com/tthornvik/task-api/internal/domain"
)

// Common request/response structures. The domain entities already hide
// credential, token and avatar fields from JSON, so responses embed
// them directly instead of mirroring every field into a DTO.

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"          validate:"required"`
	Email    string `json:"email"         validate:"required,email"`
	Password string `json:"password"      validate:"required,min=6,max=72"`
	Age      *int   `json:"age,omitempty" validate:"omitempty,min=0"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// UpdateUserRequest defines the payload for partial profile updates.
// Only these fields are updatable; unknown fields are rejected by the
// strict decoder.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"     validate:"omitempty,min=1"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
	Age      *int    `json:"age,omitempty"      validate:"omitempty,min=0"`
}

// AuthResponse defines the successful response for the registration and
// login endpoints: the sanitized user plus the new session token.
type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// LogoutAllResponse reports how many sessions a logout-all revoked.
type LogoutAllResponse struct {
	SessionsRevoked int64 `json:"sessions_revoked"`
}

// MessageResponse is a minimal acknowledgment body for endpoints that
// have no entity to return.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateTaskRequest defines the payload for the task creation endpoint.
type CreateTaskRequest struct {
	Description string `json:"description" validate:"required"`
	Completed   bool   `json:"completed"`
}

// UpdateTaskRequest defines the payload for partial task updates.
type UpdateTaskRequest struct {
	Description *string `json:"description,omitempty" validate:"omitempty,min=1"`
	Completed   *bool   `json:"completed,omitempty"`
}
