package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalVerifierRoundTrip(t *testing.T) {
	verifier := NewLocalVerifier([]byte("test-secret"))

	token, err := verifier.IssueToken("sub-1", "writer@mail.com", "Writer", time.Hour)
	require.NoError(t, err)

	claims, err := verifier.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", claims.Subject)
	assert.Equal(t, "writer@mail.com", claims.Email)
	assert.Equal(t, "Writer", claims.Name)
}

func TestLocalVerifierExpiredToken(t *testing.T) {
	verifier := NewLocalVerifier([]byte("test-secret"))

	token, err := verifier.IssueToken("sub-1", "writer@mail.com", "Writer", -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestLocalVerifierWrongSecret(t *testing.T) {
	issuer := NewLocalVerifier([]byte("secret-a"))
	verifier := NewLocalVerifier([]byte("secret-b"))

	token, err := issuer.IssueToken("sub-1", "writer@mail.com", "Writer", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestLocalVerifierMissingClaims(t *testing.T) {
	verifier := NewLocalVerifier([]byte("test-secret"))

	token, err := verifier.IssueToken("sub-1", "", "Writer", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestLocalVerifierGarbage(t *testing.T) {
	verifier := NewLocalVerifier([]byte("test-secret"))

	_, err := verifier.Verify(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
