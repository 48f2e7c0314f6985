package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tthornvik/task-api/internal/domain"
)

// Task sort fields accepted by TaskFilter.SortField.
const (
	TaskSortCreatedAt   = "created_at"
	TaskSortUpdatedAt   = "updated_at"
	TaskSortCompleted   = "completed"
	TaskSortDescription = "description"
)

// TaskFilter describes the optional filtering, pagination and ordering
// applied to a task listing. The zero value returns every task of the
// owner ordered by creation time ascending.
type TaskFilter struct {
	// Completed filters on exact completion state when non-nil.
	Completed *bool

	// Limit caps the number of returned tasks; 0 means no limit.
	Limit int

	// Offset skips that many tasks from the start of the result.
	Offset int

	// SortField selects the ordering column. Must be one of the TaskSort
	// constants; empty means TaskSortCreatedAt.
	SortField string

	// SortDesc orders descending when true.
	SortDesc bool
}

// TaskStore defines the interface for task data persistence.
// Every read and write is scoped to an owner so that authorization is
// folded into the lookup predicate: a task belonging to someone else is
// indistinguishable from a task that does not exist.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrInvalidEntity if the owner does not exist.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetForOwner retrieves a task by ID, constrained to the given owner.
	// Returns ErrTaskNotFound if the task does not exist or belongs to a
	// different owner.
	GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// ListForOwner returns the owner's tasks matching the filter.
	// Returns an empty slice when nothing matches.
	ListForOwner(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)

	// Update persists a task's description and completion state,
	// constrained to the task's owner.
	// Returns ErrTaskNotFound if the task does not exist or belongs to a
	// different owner.
	Update(ctx context.Context, task *domain.Task) error

	// DeleteForOwner removes a task by ID, constrained to the given owner.
	// Returns ErrTaskNotFound if the task does not exist or belongs to a
	// different owner.
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error

	// DeleteAllForOwner removes every task belonging to the owner and
	// returns the number of tasks removed. Used by the user-deletion
	// cascade.
	DeleteAllForOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) TaskStore
}
