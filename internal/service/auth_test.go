package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocktailgram/backend/internal/types"
)

func TestAuthServiceTokens(t *testing.T) {
	db := openTestDB(t)
	svc := NewAuthService(db, "test-secret")

	user, token, err := svc.Register(&types.RegisterRequest{
		Username:  "alice",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Cooper",
		Password:  "password123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NotEqual(t, "password123", user.PasswordHash)

	t.Run("valid token round-trip", func(t *testing.T) {
		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, "alice", claims.Username)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		other := NewAuthService(db, "other-secret")
		otherToken, err := other.GenerateToken(user)
		require.NoError(t, err)

		_, err = svc.ValidateToken(otherToken)
		assert.Error(t, err)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		_, _, err := svc.Register(&types.RegisterRequest{
			Username:  "alice",
			Email:     "alice@example.com",
			FirstName: "Alice",
			LastName:  "Cooper",
			Password:  "password123",
		})
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("login verifies the password", func(t *testing.T) {
		got, token, err := svc.Login("alice@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.NotEmpty(t, token)

		_, _, err = svc.Login("alice@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, _, err = svc.Login("nobody@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
