// Package middleware contains the HTTP middleware applied by the router:
// request tracing and bearer-token authentication.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tthornvik/task-api/internal/api/shared"
	"github.com/tthornvik/task-api/internal/redact"
	"github.com/tthornvik/task-api/internal/service/auth"
	"github.com/tthornvik/task-api/internal/store"
)

// AuthMiddleware provides JWT authentication for routes. A token must
// both carry a valid signature and still be present in the user's
// active session list; logout removes the row, which revokes the token
// even though its signature stays valid until expiry.
type AuthMiddleware struct {
	jwtService auth.JWTService
	tokenStore store.TokenStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, tokenStore store.TokenStore) *AuthMiddleware {
	if jwtService == nil {
		panic("jwt service cannot be nil")
	}
	if tokenStore == nil {
		panic("token store cannot be nil")
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Authenticate validates the bearer token from the Authorization header,
// checks it against the user's active sessions, and adds the user ID and
// token to the request context for authorized requests.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		token := parts[1]

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrTokenNotYetValid):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				slog.Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(
					w,
					r,
					http.StatusInternalServerError,
					"Authentication error",
				)
			}
			return
		}

		active, err := m.tokenStore.Exists(r.Context(), claims.UserID, token)
		if err != nil {
			slog.Error("failed to check session token", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}
		if !active {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Token revoked")
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, claims.UserID)
		ctx = context.WithValue(ctx, shared.SessionTokenContextKey, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	return userID, ok
}
