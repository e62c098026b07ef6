package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	identity "github.com/tejascare/go-identity"
)

func TestHashPassword(t *testing.T) {
	hash := testPasswordHash()
	require.NotEmpty(t, hash)
	assert.NotEqual(t, testPassword, hash)

	assert.NoError(t, identity.ComparePasswordAndHash(testPassword, hash))
}

func TestHashPasswordEmptyInput(t *testing.T) {
	_, err := identity.HashPassword("")
	require.Error(t, err)
	assert.ErrorIs(t, err, identity.ErrNoEmptyString)
}

func TestComparePasswordAndHashMismatch(t *testing.T) {
	err := identity.ComparePasswordAndHash("wrong-password", testPasswordHash())
	require.Error(t, err)
	assert.ErrorIs(t, err, identity.ErrMismatchedHashAndPassword)
}

func TestComparePasswordAndHashMalformedHash(t *testing.T) {
	err := identity.ComparePasswordAndHash(testPassword, "not-a-bcrypt-hash")
	assert.Error(t, err)
}

func TestRandomPasswordHash(t *testing.T) {
	hash := identity.RandomPasswordHash()
	require.NotEmpty(t, hash)

	// a random hash should never verify against any guessable input
	assert.Error(t, identity.ComparePasswordAndHash("", hash))
	assert.Error(t, identity.ComparePasswordAndHash("password", hash))
}
