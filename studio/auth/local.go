package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

// LocalVerifier validates HS256 tokens issued by this process. It stands in
// for the external identity provider in development and tests, where running
// a Keycloak instance is not practical.
type LocalVerifier struct {
	auth *jwtauth.JWTAuth
}

func NewLocalVerifier(secret []byte) *LocalVerifier {
	return &LocalVerifier{auth: jwtauth.New("HS256", secret, nil)}
}

// IssueToken mints a token carrying the same claim set the external provider
// would assert.
func (v *LocalVerifier) IssueToken(subject, email, name string, exp time.Duration) (string, error) {
	claims := map[string]interface{}{
		"sub":   subject,
		"email": email,
		"name":  name,
		"exp":   time.Now().Add(exp),
	}
	_, token, err := v.auth.Encode(claims)
	if err != nil {
		slog.Error("error generating jwt", "error", err)
		return "", fmt.Errorf("error generating access token: %w", err)
	}
	return token, nil
}

func stringClaim(token interface{ Get(string) (interface{}, bool) }, key string) string {
	valueUncasted, ok := token.Get(key)
	if !ok {
		return ""
	}
	value, ok := valueUncasted.(string)
	if !ok {
		return ""
	}
	return value
}

func (v *LocalVerifier) Verify(ctx context.Context, token string) (Claims, error) {
	decoded, err := jwtauth.VerifyToken(v.auth, token)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	claims := Claims{
		Subject: decoded.Subject(),
		Email:   stringClaim(decoded, "email"),
		Name:    stringClaim(decoded, "name"),
	}

	if claims.Subject == "" || claims.Email == "" {
		return Claims{}, fmt.Errorf("%w: token is missing required claims", ErrInvalidCredential)
	}

	return claims, nil
}
