package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tthornvik/task-api/internal/platform/logger"
	"github.com/tthornvik/task-api/internal/store"
)

// PostgresTokenStore implements the store.TokenStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTokenStore creates a new PostgreSQL implementation of the
// TokenStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTokenStore(db store.DBTX, logger *slog.Logger) *PostgresTokenStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTokenStore{
		db:     db,
		logger: logger.With(slog.String("component", "token_store")),
	}
}

// Ensure PostgresTokenStore implements store.TokenStore interface
var _ store.TokenStore = (*PostgresTokenStore)(nil)

// WithTx implements store.TokenStore.WithTx
func (s *PostgresTokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return &PostgresTokenStore{
		db:     tx,
		logger: s.logger,
	}
}

// Add implements store.TokenStore.Add
func (s *PostgresTokenStore) Add(ctx context.Context, userID uuid.UUID, token string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO user_tokens (id, user_id, token, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, uuid.New(), userID, token, time.Now().UTC())
	if err != nil {
		log.Error("failed to record session token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	log.Debug("session token recorded",
		slog.String("user_id", userID.String()))
	return nil
}

// Exists implements store.TokenStore.Exists
func (s *PostgresTokenStore) Exists(
	ctx context.Context,
	userID uuid.UUID,
	token string,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM user_tokens WHERE user_id = $1 AND token = $2)`
	err := s.db.QueryRowContext(ctx, query, userID, token).Scan(&exists)
	if err != nil {
		log.Error("failed to check session token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return false, MapError(err)
	}

	return exists, nil
}

// Remove implements store.TokenStore.Remove
// It deletes exactly the presented token from the user's active list.
// Returns store.ErrTokenNotFound if the token is not present.
func (s *PostgresTokenStore) Remove(ctx context.Context, userID uuid.UUID, token string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM user_tokens WHERE user_id = $1 AND token = $2`,
		userID,
		token,
	)
	if err != nil {
		log.Error("failed to remove session token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTokenNotFound); err != nil {
		log.Debug("session token not found for removal",
			slog.String("user_id", userID.String()))
		return err
	}

	log.Info("session token removed",
		slog.String("user_id", userID.String()))
	return nil
}

// RemoveAll implements store.TokenStore.RemoveAll
// Revoking zero sessions is not an error.
func (s *PostgresTokenStore) RemoveAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM user_tokens WHERE user_id = $1`, userID)
	if err != nil {
		log.Error("failed to remove all session tokens",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, MapError(err)
	}

	revoked, err := result.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}

	log.Info("all session tokens removed",
		slog.String("user_id", userID.String()),
		slog.Int64("count", revoked))
	return revoked, nil
}
