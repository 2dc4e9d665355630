package jwt_test

import (
	"testing"

	"github.com/mentorify/mentorify-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_GenerateAndValidate(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret-key-at-least-32-chars", "mentorify-api", 24)

	token, err := tm.GenerateToken("7b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d", "mentee@example.com", "Test Mentee", "mentee")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "7b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d", claims.UserID)
	assert.Equal(t, "mentee@example.com", claims.Email)
	assert.Equal(t, "Test Mentee", claims.Name)
	assert.Equal(t, "mentee", claims.Role)
	assert.Equal(t, "mentorify-api", claims.Issuer)
}

func TestTokenManager_ValidateToken_WrongSecret(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret-key-at-least-32-chars", "mentorify-api", 24)
	other := jwt.NewTokenManager("a-completely-different-secret-key", "mentorify-api", 24)

	token, err := tm.GenerateToken("user-id", "user@example.com", "User", "mentor")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestTokenManager_ValidateToken_Expired(t *testing.T) {
	// Negative TTL means the token is already expired when validated
	tm := jwt.NewTokenManager("test-secret-key-at-least-32-chars", "mentorify-api", -1)

	token, err := tm.GenerateToken("user-id", "user@example.com", "User", "mentee")
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)
}

func TestTokenManager_ValidateToken_Garbage(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret-key-at-least-32-chars", "mentorify-api", 24)

	_, err := tm.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestTimingSafeCompare(t *testing.T) {
	assert.True(t, jwt.TimingSafeCompare("token-abc", "token-abc"))
	assert.False(t, jwt.TimingSafeCompare("token-abc", "token-abd"))
	assert.False(t, jwt.TimingSafeCompare("token-abc", "token-abcd"))
}
