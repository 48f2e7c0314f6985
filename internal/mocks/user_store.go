package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/tthornvik/task-api/internal/domain"
	"github.com/tthornvik/task-api/internal/store"
)

// MockUserStore implements store.UserStore for testing.
// Function fields override individual methods; the zero-value fallback
// is an in-memory map keyed by user ID.
type MockUserStore struct {
	CreateFn      func(ctx context.Context, user *domain.User) error
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn  func(ctx context.Context, email string) (*domain.User, error)
	UpdateFn      func(ctx context.Context, user *domain.User) error
	DeleteFn      func(ctx context.Context, id uuid.UUID) error
	SetAvatarFn   func(ctx context.Context, id uuid.UUID, avatar []byte) error
	GetAvatarFn   func(ctx context.Context, id uuid.UUID) ([]byte, error)
	ClearAvatarFn func(ctx context.Context, id uuid.UUID) error

	mu      sync.Mutex
	Users   map[uuid.UUID]*domain.User
	Avatars map[uuid.UUID][]byte
}

// NewMockUserStore creates a mock store with initialized defaults.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users:   make(map[uuid.UUID]*domain.User),
		Avatars: make(map[uuid.UUID][]byte),
	}
}

// Ensure MockUserStore implements store.UserStore
var _ store.UserStore = (*MockUserStore)(nil)

// AddUser seeds the in-memory map with a user.
func (m *MockUserStore) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Users[user.ID] = user
}

// Create implements the UserStore interface.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	m.Users[user.ID] = user
	return nil
}

// GetByID implements the UserStore interface.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// GetByEmail implements the UserStore interface.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.Users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements the UserStore interface.
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	for id, existing := range m.Users {
		if id != user.ID && existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	m.Users[user.ID] = user
	return nil
}

// Delete implements the UserStore interface.
func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.Users, id)
	delete(m.Avatars, id)
	return nil
}

// SetAvatar implements the UserStore interface.
func (m *MockUserStore) SetAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error {
	if m.SetAvatarFn != nil {
		return m.SetAvatarFn(ctx, id, avatar)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[id]; !ok {
		return store.ErrUserNotFound
	}
	m.Avatars[id] = avatar
	return nil
}

// GetAvatar implements the UserStore interface.
func (m *MockUserStore) GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if m.GetAvatarFn != nil {
		return m.GetAvatarFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[id]; !ok {
		return nil, store.ErrUserNotFound
	}
	avatar, ok := m.Avatars[id]
	if !ok || len(avatar) == 0 {
		return nil, store.ErrAvatarNotFound
	}
	return avatar, nil
}

// ClearAvatar implements the UserStore interface.
func (m *MockUserStore) ClearAvatar(ctx context.Context, id uuid.UUID) error {
	if m.ClearAvatarFn != nil {
		return m.ClearAvatarFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.Avatars, id)
	return nil
}

// WithTx implements the UserStore interface. The mock has no real
// transactions, so it returns itself.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
