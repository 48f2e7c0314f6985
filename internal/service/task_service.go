package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tthornvik/task-api/internal/domain"
	"github.com/tthornvik/task-api/internal/platform/logger"
	"github.com/tthornvik/task-api/internal/store"
)

// TaskUpdate describes a partial task update. Nil fields are left
// unchanged.
type TaskUpdate struct {
	Description *string
	Completed   *bool
}

// TaskService implements owner-scoped task use cases. Ownership is
// enforced by the store predicates, so a task belonging to another user
// is indistinguishable from a missing one.
type TaskService struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskService creates a TaskService.
// If logger is nil, a default logger will be used.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) *TaskService {
	if taskStore == nil {
		panic("task store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_service")),
	}
}

// Create makes a new task owned by the given user.
func (s *TaskService) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	description string,
	completed bool,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(ownerID, description, completed)
	if err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// List retrieves the owner's tasks matching the filter.
func (s *TaskService) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	return s.taskStore.ListForOwner(ctx, ownerID, filter)
}

// Get retrieves a single task by ID, scoped to the owner.
// Returns store.ErrTaskNotFound if the task does not exist or belongs
// to a different user.
func (s *TaskService) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	return s.taskStore.GetForOwner(ctx, ownerID, id)
}

// Update applies a partial update to the owner's task and returns the
// updated task.
// Returns store.ErrTaskNotFound if the task does not exist or belongs
// to a different user.
func (s *TaskService) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	update TaskUpdate,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.taskStore.GetForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if update.Description != nil {
		task.Description = strings.TrimSpace(*update.Description)
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}
	task.UpdatedAt = time.Now().UTC()

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// Delete removes the owner's task and returns its final state.
// Returns store.ErrTaskNotFound if the task does not exist or belongs
// to a different user.
func (s *TaskService) Delete(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.DeleteForOwner(ctx, ownerID, id); err != nil {
		return nil, err
	}

	return task, nil
}
