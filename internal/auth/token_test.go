package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)

	token, exp, err := tm.GenerateToken("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, exp.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, "alice", claims.Subject)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 5).GenerateToken("alice")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 5).ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("secret", 5).ParseToken("not-a-token")
	require.Error(t, err)
}
