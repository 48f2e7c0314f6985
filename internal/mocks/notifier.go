package mocks

import (
	"context"
	"sync"

	"github.com/tthornvik/task-api/internal/service"
)

// NotifierCall records one notification attempt made through the mock.
type NotifierCall struct {
	Kind  string // "welcome" or "cancellation"
	Email string
	Name  string
}

// MockNotifier implements service.Notifier for testing. It records
// every call; notifications run on background goroutines, so access is
// synchronized.
type MockNotifier struct {
	SendWelcomeFn      func(ctx context.Context, email, name string) error
	SendCancellationFn func(ctx context.Context, email, name string) error
	Err                error

	mu    sync.Mutex
	calls []NotifierCall
}

// Ensure MockNotifier implements service.Notifier
var _ service.Notifier = (*MockNotifier)(nil)

// SendWelcome implements the service.Notifier interface.
func (m *MockNotifier) SendWelcome(ctx context.Context, email, name string) error {
	m.record(NotifierCall{Kind: "welcome", Email: email, Name: name})
	if m.SendWelcomeFn != nil {
		return m.SendWelcomeFn(ctx, email, name)
	}
	return m.Err
}

// SendCancellation implements the service.Notifier interface.
func (m *MockNotifier) SendCancellation(ctx context.Context, email, name string) error {
	m.record(NotifierCall{Kind: "cancellation", Email: email, Name: name})
	if m.SendCancellationFn != nil {
		return m.SendCancellationFn(ctx, email, name)
	}
	return m.Err
}

// Calls returns a snapshot of the recorded notification attempts.
func (m *MockNotifier) Calls() []NotifierCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]NotifierCall(nil), m.calls...)
}

func (m *MockNotifier) record(call NotifierCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}
