package mocks

import (
	"errors"

	"github.com/tthornvik/task-api/internal/service/auth"
)

// ErrPasswordMismatch is the default error returned by MockPasswordVerifier
// when ShouldSucceed is false.
var ErrPasswordMismatch = errors.New("password does not match")

// MockPasswordHasher implements auth.PasswordHasher for testing.
// The default implementation returns "hashed:" + password so tests can
// assert what was hashed without running bcrypt.
type MockPasswordHasher struct {
	HashFn func(password string) (string, error)
	Err    error
}

// Ensure MockPasswordHasher implements auth.PasswordHasher
var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements the auth.PasswordHasher interface.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return "hashed:" + password, nil
}

// MockPasswordVerifier implements auth.PasswordVerifier for testing.
type MockPasswordVerifier struct {
	CompareFn     func(hashedPassword, password string) error
	ShouldSucceed bool
}

// Ensure MockPasswordVerifier implements auth.PasswordVerifier
var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare implements the auth.PasswordVerifier interface.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return ErrPasswordMismatch
}
