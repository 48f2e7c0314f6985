package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tthornvik/task-api/internal/domain"
	"github.com/tthornvik/task-api/internal/service"
	"github.com/tthornvik/task-api/internal/service/auth"
	"github.com/tthornvik/task-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"revoked token", auth.ErrTokenRevoked, http.StatusUnauthorized},
		{"failed login", service.ErrUnableToLogin, http.StatusUnauthorized},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"avatar not found", store.ErrAvatarNotFound, http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"validation", domain.ErrValidation, http.StatusBadRequest},
		{"invalid id", domain.ErrInvalidID, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"empty description", domain.ErrEmptyTaskDescription, http.StatusBadRequest},
		{"forbidden password", domain.ErrPasswordForbidden, http.StatusBadRequest},
		{"oversized avatar", service.ErrAvatarTooLarge, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestMapErrorToStatusCodeUnwrapsWrappedErrors(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("register: %w", store.ErrEmailExists)
	assert.Equal(t, http.StatusConflict, MapErrorToStatusCode(err))
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"failed login", service.ErrUnableToLogin, "Unable to login"},
		{"expired token", auth.ErrExpiredToken, "Token expired"},
		{"user not found", store.ErrUserNotFound, "User not found"},
		{"task not found", store.ErrTaskNotFound, "Task not found"},
		{"avatar not found", store.ErrAvatarNotFound, "Avatar not found"},
		{"email exists", store.ErrEmailExists, "Email already in use"},
		{"unknown error", errors.New("pq: deadlock detected"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetSafeErrorMessage(tt.err))
		})
	}

	t.Run("validation error carries its field message", func(t *testing.T) {
		err := domain.NewValidationError("limit", "must be a non-negative integer", domain.ErrValidation)
		assert.Equal(t, "limit: must be a non-negative integer", GetSafeErrorMessage(err))
	})

	t.Run("domain sentinel messages pass through", func(t *testing.T) {
		assert.Equal(t, domain.ErrPasswordTooShort.Error(),
			GetSafeErrorMessage(domain.ErrPasswordTooShort))
	})
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New(
		"Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag")
	assert.Equal(t, "Invalid Email: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
