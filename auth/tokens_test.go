package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *TokenManager {
	return NewTokenManager("test-secret", 30*time.Minute, 7*24*time.Hour)
}

func TestIssuePairAndVerify(t *testing.T) {
	tm := newTestManager()

	pair, err := tm.IssuePair("user-123")
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.ExpiresAt.After(time.Now()))

	claims, err := tm.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.False(t, claims.IsRefresh())

	refreshClaims, err := tm.Verify(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-123", refreshClaims.Subject)
	assert.True(t, refreshClaims.IsRefresh())
}

func TestAccessTokenOmitsTypeClaim(t *testing.T) {
	tm := newTestManager()

	access, _, err := tm.IssueAccess("user-123")
	require.NoError(t, err)

	claims, err := DecodeUnverified(access)
	require.NoError(t, err)
	_, present := claims["type"]
	assert.False(t, present, "access tokens must not carry a type claim")
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tm := newTestManager()
	other := NewTokenManager("different-secret", 30*time.Minute, time.Hour)

	access, _, err := tm.IssueAccess("user-123")
	require.NoError(t, err)

	_, err = other.Verify(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute, time.Hour)

	access, _, err := tm.IssueAccess("user-123")
	require.NoError(t, err)

	_, err = tm.Verify(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tm := newTestManager()
	_, err := tm.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeUnverified(t *testing.T) {
	tm := newTestManager()
	access, _, err := tm.IssueAccess("apple-subject")
	require.NoError(t, err)

	claims, err := DecodeUnverified(access)
	require.NoError(t, err)
	assert.Equal(t, "apple-subject", claims["sub"])

	_, err = DecodeUnverified("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
