package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tthornvik/task-api/internal/domain"
	"github.com/tthornvik/task-api/internal/platform/logger"
	"github.com/tthornvik/task-api/internal/store"
)

// taskSortColumns maps the exported sort field names to the actual
// column expressions used in ORDER BY. Interpolating anything outside
// this whitelist into SQL is never allowed.
var taskSortColumns = map[string]string{
	store.TaskSortCreatedAt:   "created_at",
	store.TaskSortUpdatedAt:   "updated_at",
	store.TaskSortCompleted:   "completed",
	store.TaskSortDescription: "description",
}

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
// It saves a new task to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the owner ID doesn't exist
// (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, owner_id, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.OwnerID,
		task.Description,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("task_id", task.ID.String()),
				slog.String("owner_id", task.OwnerID.String()))
			return fmt.Errorf("%w: owner with ID %s not found",
				store.ErrInvalidEntity, task.OwnerID)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("owner_id", task.OwnerID.String()))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", task.OwnerID.String()))
	return nil
}

// GetForOwner implements store.TaskStore.GetForOwner
// The owner is part of the lookup predicate, so a task belonging to a
// different owner yields store.ErrTaskNotFound rather than a distinct
// authorization error.
func (s *PostgresTaskStore) GetForOwner(
	ctx context.Context,
	ownerID, id uuid.UUID,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, description, completed, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND owner_id = $2
	`

	var task domain.Task
	err := s.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&task.ID,
		&task.OwnerID,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for owner",
				slog.String("task_id", id.String()),
				slog.String("owner_id", ownerID.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	return &task, nil
}

// ListForOwner implements store.TaskStore.ListForOwner
// It retrieves the owner's tasks matching the filter.
// Returns an empty slice if no tasks match the criteria.
func (s *PostgresTaskStore) ListForOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := buildTaskListQuery(ownerID, filter)
	if err != nil {
		log.Warn("invalid task filter",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var tasks []*domain.Task
	for rows.Next() {
		var task domain.Task
		err := rows.Scan(
			&task.ID,
			&task.OwnerID,
			&task.Description,
			&task.Completed,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	// Return empty slice instead of nil if no tasks found
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	log.Debug("listed tasks for owner",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// buildTaskListQuery assembles the SELECT for ListForOwner. The sort
// column comes from the taskSortColumns whitelist; all values travel as
// bind parameters.
func buildTaskListQuery(ownerID uuid.UUID, filter store.TaskFilter) (string, []any, error) {
	query := `
		SELECT id, owner_id, description, completed, created_at, updated_at
		FROM tasks
		WHERE owner_id = $1
	`
	args := []any{ownerID}

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		query += fmt.Sprintf(" AND completed = $%d", len(args))
	}

	sortField := filter.SortField
	if sortField == "" {
		sortField = store.TaskSortCreatedAt
	}
	column, ok := taskSortColumns[sortField]
	if !ok {
		return "", nil, fmt.Errorf("%w: unsupported sort field %q",
			store.ErrInvalidEntity, filter.SortField)
	}

	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", column, direction)

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return query, args, nil
}

// Update implements store.TaskStore.Update
// It persists the task's description and completion state, constrained
// to the task's owner.
// Returns store.ErrTaskNotFound if the task does not exist or belongs to
// a different owner.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	task.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE tasks
		SET description = $1, completed = $2, updated_at = $3
		WHERE id = $4 AND owner_id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Description,
		task.Completed,
		task.UpdatedAt,
		task.ID,
		task.OwnerID,
	)

	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task not found for update",
			slog.String("task_id", task.ID.String()),
			slog.String("owner_id", task.OwnerID.String()))
		return err
	}

	log.Info("task updated successfully",
		slog.String("task_id", task.ID.String()))
	return nil
}

// DeleteForOwner implements store.TaskStore.DeleteForOwner
// Returns store.ErrTaskNotFound if the task does not exist or belongs to
// a different owner.
func (s *PostgresTaskStore) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`,
		id,
		ownerID,
	)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task not found for delete",
			slog.String("task_id", id.String()),
			slog.String("owner_id", ownerID.String()))
		return err
	}

	log.Info("task deleted successfully",
		slog.String("task_id", id.String()))
	return nil
}

// DeleteAllForOwner implements store.TaskStore.DeleteAllForOwner
// It removes every task belonging to the owner; deleting zero tasks is
// not an error.
func (s *PostgresTaskStore) DeleteAllForOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = $1`, ownerID)
	if err != nil {
		log.Error("failed to delete owner's tasks",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return 0, MapError(err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Info("deleted owner's tasks",
		slog.String("owner_id", ownerID.String()),
		slog.Int64("count", deleted))
	return deleted, nil
}
