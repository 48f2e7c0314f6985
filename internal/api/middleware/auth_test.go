package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tthornvik/task-api/internal/api/shared"
	"github.com/tthornvik/task-api/internal/mocks"
	"github.com/tthornvik/task-api/internal/service/auth"
)

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name           string
		authHeader     string
		validateErr    error
		claims         *auth.Claims
		tokenActive    bool
		expectedStatus int
		expectedUserID uuid.UUID
	}{
		{
			name:           "valid active token",
			authHeader:     "Bearer valid-token",
			claims:         &auth.Claims{UserID: userID},
			tokenActive:    true,
			expectedStatus: http.StatusOK,
			expectedUserID: userID,
		},
		{
			name:           "missing auth header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid auth format",
			authHeader:     "InvalidFormat",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer invalid-token",
			validateErr:    auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "valid signature but revoked session",
			authHeader:     "Bearer revoked-token",
			claims:         &auth.Claims{UserID: userID},
			tokenActive:    false,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService := &mocks.MockJWTService{
				Claims:      tt.claims,
				ValidateErr: tt.validateErr,
			}

			tokenStore := mocks.NewMockTokenStore()
			tokenStore.ExistsFn = func(
				ctx context.Context,
				gotUserID uuid.UUID,
				token string,
			) (bool, error) {
				return tt.tokenActive, nil
			}

			var gotUserID uuid.UUID
			var gotToken string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = GetUserID(r)
				gotToken, _ = r.Context().Value(shared.SessionTokenContextKey).(string)
				w.WriteHeader(http.StatusOK)
			})

			m := NewAuthMiddleware(jwtService, tokenStore)
			handler := m.Authenticate(next)

			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			require.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedUserID, gotUserID)
				assert.Equal(t, "valid-token", gotToken,
					"the presented token must reach the context for logout")
			}
		})
	}
}

func TestNewAuthMiddlewareRequiresDependencies(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewAuthMiddleware(nil, mocks.NewMockTokenStore()) })
	assert.Panics(t, func() { NewAuthMiddleware(&mocks.MockJWTService{}, nil) })
}
