package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("longenough")
	require.NoError(t, err)
	assert.NotEqual(t, "longenough", hash)

	assert.NoError(t, hasher.Compare(hash, "longenough"))
	assert.Error(t, hasher.Compare(hash, "different"))
}

func TestHashRejectsShortPassword(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	_, err := hasher.Hash("seven77")
	assert.ErrorIs(t, err, ErrPasswordTooWeak)

	_, err = hasher.Hash("eight888")
	assert.NoError(t, err)
}
