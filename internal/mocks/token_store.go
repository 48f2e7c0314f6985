package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/tthornvik/task-api/internal/store"
)

// MockTokenStore implements store.TokenStore for testing.
// Function fields override individual methods; the zero-value fallback
// is an in-memory per-user token list.
type MockTokenStore struct {
	AddFn       func(ctx context.Context, userID uuid.UUID, token string) error
	ExistsFn    func(ctx context.Context, userID uuid.UUID, token string) (bool, error)
	RemoveFn    func(ctx context.Context, userID uuid.UUID, token string) error
	RemoveAllFn func(ctx context.Context, userID uuid.UUID) (int64, error)

	mu     sync.Mutex
	Tokens map[uuid.UUID][]string
}

// NewMockTokenStore creates a mock store with initialized defaults.
func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{
		Tokens: make(map[uuid.UUID][]string),
	}
}

// Ensure MockTokenStore implements store.TokenStore
var _ store.TokenStore = (*MockTokenStore)(nil)

// Add implements the TokenStore interface.
func (m *MockTokenStore) Add(ctx context.Context, userID uuid.UUID, token string) error {
	if m.AddFn != nil {
		return m.AddFn(ctx, userID, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tokens[userID] = append(m.Tokens[userID], token)
	return nil
}

// Exists implements the TokenStore interface.
func (m *MockTokenStore) Exists(
	ctx context.Context,
	userID uuid.UUID,
	token string,
) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, userID, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Tokens[userID] {
		if t == token {
			return true, nil
		}
	}
	return false, nil
}

// Remove implements the TokenStore interface.
func (m *MockTokenStore) Remove(ctx context.Context, userID uuid.UUID, token string) error {
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, userID, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	tokens := m.Tokens[userID]
	for i, t := range tokens {
		if t == token {
			m.Tokens[userID] = append(tokens[:i], tokens[i+1:]...)
			return nil
		}
	}
	return store.ErrTokenNotFound
}

// RemoveAll implements the TokenStore interface.
func (m *MockTokenStore) RemoveAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.RemoveAllFn != nil {
		return m.RemoveAllFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	revoked := int64(len(m.Tokens[userID]))
	delete(m.Tokens, userID)
	return revoked, nil
}

// WithTx implements the TokenStore interface. The mock has no real
// transactions, so it returns itself.
func (m *MockTokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return m
}
