package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/tthornvik/task-api/internal/domain"
	"github.com/tthornvik/task-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
// Function fields override individual methods; the zero-value fallback
// is an in-memory map keyed by task ID. The fallback honors the
// owner-scoping contract but ignores filter sorting and pagination.
type MockTaskStore struct {
	CreateFn            func(ctx context.Context, task *domain.Task) error
	GetForOwnerFn       func(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)
	ListForOwnerFn      func(ctx context.Context, ownerID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error)
	UpdateFn            func(ctx context.Context, task *domain.Task) error
	DeleteForOwnerFn    func(ctx context.Context, ownerID, id uuid.UUID) error
	DeleteAllForOwnerFn func(ctx context.Context, ownerID uuid.UUID) (int64, error)

	mu    sync.Mutex
	Tasks map[uuid.UUID]*domain.Task
}

// NewMockTaskStore creates a mock store with initialized defaults.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Ensure MockTaskStore implements store.TaskStore
var _ store.TaskStore = (*MockTaskStore)(nil)

// AddTask seeds the in-memory map with a task.
func (m *MockTaskStore) AddTask(task *domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tasks[task.ID] = task
}

// Create implements the TaskStore interface.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tasks[task.ID] = task
	return nil
}

// GetForOwner implements the TaskStore interface.
func (m *MockTaskStore) GetForOwner(
	ctx context.Context,
	ownerID, id uuid.UUID,
) (*domain.Task, error) {
	if m.GetForOwnerFn != nil {
		return m.GetForOwnerFn(ctx, ownerID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.Tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

// ListForOwner implements the TaskStore interface.
func (m *MockTaskStore) ListForOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	if m.ListForOwnerFn != nil {
		return m.ListForOwnerFn(ctx, ownerID, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := []*domain.Task{}
	for _, task := range m.Tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}
		copied := *task
		tasks = append(tasks, &copied)
	}
	return tasks, nil
}

// Update implements the TaskStore interface.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return store.ErrTaskNotFound
	}
	m.Tasks[task.ID] = task
	return nil
}

// DeleteForOwner implements the TaskStore interface.
func (m *MockTaskStore) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	if m.DeleteForOwnerFn != nil {
		return m.DeleteForOwnerFn(ctx, ownerID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.Tasks[id]
	if !ok || task.OwnerID != ownerID {
		return store.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return nil
}

// DeleteAllForOwner implements the TaskStore interface.
func (m *MockTaskStore) DeleteAllForOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) (int64, error) {
	if m.DeleteAllForOwnerFn != nil {
		return m.DeleteAllForOwnerFn(ctx, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for id, task := range m.Tasks {
		if task.OwnerID == ownerID {
			delete(m.Tasks, id)
			deleted++
		}
	}
	return deleted, nil
}

// WithTx implements the TaskStore interface. The mock has no real
// transactions, so it returns itself.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
