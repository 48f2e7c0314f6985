package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// TokenStore defines the interface for per-user session token persistence.
// Each issued bearer token is recorded so that individual devices can be
// revoked: a structurally valid JWT is only accepted while its row exists.
type TokenStore interface {
	// Add records a newly issued session token for the user.
	Add(ctx context.Context, userID uuid.UUID, token string) error

	// Exists reports whether the token is in the user's active list.
	Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error)

	// Remove deletes exactly the presented token from the user's list.
	// Returns ErrTokenNotFound if the token is not present.
	Remove(ctx context.Context, userID uuid.UUID, token string) error

	// RemoveAll clears the user's entire token list and returns the number
	// of sessions revoked.
	RemoveAll(ctx context.Context, userID uuid.UUID) (int64, error)

	// WithTx returns a new TokenStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) TokenStore
}
