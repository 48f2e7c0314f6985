package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)

	hashed, err := hasher.Hash("StrongPass123#")
	require.NoError(t, err)

	// The stored credential must never equal the submitted plaintext.
	assert.NotEqual(t, "StrongPass123#", hashed)

	assert.NoError(t, hasher.Compare(hashed, "StrongPass123#"))
	assert.Error(t, hasher.Compare(hashed, "WrongPass123#"))
}

func TestBcryptHasherSaltsEachHash(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("StrongPass123#")
	require.NoError(t, err)
	second, err := hasher.Hash("StrongPass123#")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNewBcryptHasherDefaultCost(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(0)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)
}
