package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tthornvik/task-api/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestJWTService(t *testing.T) *hmacJWTService {
	t.Helper()
	svc, err := NewJWTService(config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	return svc.(*hmacJWTService)
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{
		JWTSecret:            "tooshort",
		TokenLifetimeMinutes: 60,
	})
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t)
	ctx := context.Background()
	userID := uuid.New()

	token, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestValidateTokenFailures(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t)
	ctx := context.Background()
	userID := uuid.New()

	t.Run("malformed token", func(t *testing.T) {
		_, err := svc.ValidateToken(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other, err := NewJWTService(config.AuthConfig{
			JWTSecret:            "ffffffffffffffffffffffffffffffff",
			TokenLifetimeMinutes: 60,
		})
		require.NoError(t, err)

		token, err := other.GenerateToken(ctx, userID)
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		issued := newTestJWTService(t)
		issuedAt := time.Now().Add(-24 * time.Hour)
		issued.timeFunc = func() time.Time { return issuedAt }

		token, err := issued.GenerateToken(ctx, userID)
		require.NoError(t, err)

		// Validation runs with real time, far past issuance + lifetime + skew.
		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("token within clock skew still valid", func(t *testing.T) {
		issued := newTestJWTService(t)
		issuedAt := time.Now().Add(-60*time.Minute - 30*time.Second)
		issued.timeFunc = func() time.Time { return issuedAt }

		token, err := issued.GenerateToken(ctx, userID)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	})
}
