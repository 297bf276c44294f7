package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user with normalized email", func(t *testing.T) {
		user, err := NewUser("  Yugi@Example.COM ", "Yugi", "millennium1")

		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "yugi@example.com", user.Email)
		assert.Equal(t, "Yugi", user.DisplayName)
		assert.True(t, user.IsActive)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "millennium1", user.PasswordHash)
	})

	t.Run("rejects empty email", func(t *testing.T) {
		_, err := NewUser("   ", "Yugi", "millennium1")
		assert.ErrorIs(t, err, ErrEmptyEmail)
	})

	t.Run("rejects empty display name", func(t *testing.T) {
		_, err := NewUser("yugi@example.com", "  ", "millennium1")
		assert.ErrorIs(t, err, ErrEmptyDisplayName)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("yugi@example.com", "Yugi", "short")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})
}

func TestUser_VerifyPassword(t *testing.T) {
	user, err := NewUser("yugi@example.com", "Yugi", "millennium1")
	require.NoError(t, err)

	assert.True(t, user.VerifyPassword("millennium1"))
	assert.False(t, user.VerifyPassword("millennium2"))

	t.Run("empty hash never verifies", func(t *testing.T) {
		blank := &User{}
		assert.False(t, blank.VerifyPassword("anything"))
	})
}

func TestUser_ToResponse(t *testing.T) {
	user, err := NewUser("yugi@example.com", "Yugi", "millennium1")
	require.NoError(t, err)

	resp := user.ToResponse()

	assert.Equal(t, user.ID, resp.ID)
	assert.Equal(t, user.Email, resp.Email)
	assert.Equal(t, user.DisplayName, resp.DisplayName)
}
