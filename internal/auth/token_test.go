package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager([]byte("secret"), time.Hour)

	token, err := m.Generate("user-1", "a@example.com")
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager([]byte("secret"), time.Minute)
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	token, err := m.Generate("user-1", "a@example.com")
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, err := NewTokenManager([]byte("one"), time.Hour).Generate("user-1", "a@example.com")
	require.NoError(t, err)

	_, err = NewTokenManager([]byte("two"), time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenManager([]byte("two"), time.Hour).Validate("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, h.Verify("secret1", hash))
	assert.False(t, h.Verify("secret2", hash))
}
