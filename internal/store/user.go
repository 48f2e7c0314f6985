package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tthornvik/task-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user must already carry a
	// HashedPassword; stores never see plaintext credentials.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	// The returned user does not include the avatar blob; use GetAvatar.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their (normalized) email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user's name, email, hashed password and
	// age. The caller MUST provide a complete user object including
	// HashedPassword.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrEmailExists if updating to an email that already exists.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	// This operation is permanent and cannot be undone. Deleting the
	// user's tasks first is the service layer's responsibility.
	Delete(ctx context.Context, id uuid.UUID) error

	// SetAvatar stores the (already normalized) avatar bytes for a user.
	// Returns ErrUserNotFound if the user does not exist.
	SetAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error

	// GetAvatar retrieves a user's stored avatar bytes.
	// Returns ErrAvatarNotFound if the user has no avatar,
	// and ErrUserNotFound if the user does not exist.
	GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, error)

	// ClearAvatar removes a user's stored avatar.
	// Returns ErrUserNotFound if the user does not exist.
	ClearAvatar(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new UserStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
