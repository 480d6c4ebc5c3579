package auth

import (
	"context"
	"errors"
)

var (
	// ErrNoCredential indicates the request carried no bearer token at all.
	ErrNoCredential = errors.New("no authorization token provided")

	// ErrInvalidCredential covers malformed, expired, and signature-invalid
	// tokens, as well as provider timeouts. Verification is never retried.
	ErrInvalidCredential = errors.New("invalid or expired credential")
)

// Claims is the identity asserted by the external provider after a
// successful token verification.
type Claims struct {
	Subject string
	Email   string
	Name    string
}

// TokenVerifier validates a bearer credential against an identity provider.
// Results are not cached; every request re-verifies.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
