package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("gonchar-strong-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "gonchar-strong-pass", hash)

	assert.True(t, CheckPassword("gonchar-strong-pass", hash))
	assert.False(t, CheckPassword("wrong-password", hash))
}

func TestHashPassword_TooShort(t *testing.T) {
	for _, password := range []string{"", "a", "1234567"} {
		hash, err := HashPassword(password)
		assert.ErrorIs(t, err, ErrPasswordTooShort)
		assert.Empty(t, hash)
	}
}

func TestHashPassword_SaltedHashesDiffer(t *testing.T) {
	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)

	// bcrypt солит каждый хэш, значения не совпадают.
	assert.NotEqual(t, first, second)
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	assert.False(t, CheckPassword("password", ""))
	assert.False(t, CheckPassword("password", "not-a-bcrypt-hash"))
}
