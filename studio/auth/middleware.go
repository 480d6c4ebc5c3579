package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"content_studio/studio/schema"
	"content_studio/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type requestContextKey string

const userRequestContextKey requestContextKey = "user"

// Authenticator gates requests by composing the token verifier and user
// directory. The identity provider call is bounded so a hung provider cannot
// stall request handlers; a timeout surfaces as an invalid credential.
type Authenticator struct {
	verifier  TokenVerifier
	directory *UserDirectory
	auditLog  AuditLogger

	verifyTimeout time.Duration
}

func NewAuthenticator(verifier TokenVerifier, directory *UserDirectory, auditLog AuditLogger) *Authenticator {
	return &Authenticator{
		verifier:      verifier,
		directory:     directory,
		auditLog:      auditLog,
		verifyTimeout: time.Second,
	}
}

func (a *Authenticator) resolveUser(r *http.Request) (schema.User, error) {
	token := jwtauth.TokenFromHeader(r)
	if token == "" {
		return schema.User{}, ErrNoCredential
	}

	ctx, cancel := context.WithTimeout(r.Context(), a.verifyTimeout)
	defer cancel()

	claims, err := a.verifier.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidCredential) {
			return schema.User{}, err
		}
		return schema.User{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	return a.directory.ResolveOrCreate(claims)
}

func withUser(r *http.Request, user schema.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userRequestContextKey, user))
}

// RequireAuth rejects requests without a verifiable credential and attaches
// the resolved user to the request context otherwise.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	handler := func(w http.ResponseWriter, r *http.Request) {
		user, err := a.resolveUser(r)
		if err != nil {
			switch {
			case errors.Is(err, ErrNoCredential):
				utils.WriteError(w, http.StatusUnauthorized, "No valid authorization token provided")
			case errors.Is(err, ErrInvalidCredential):
				utils.WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
			default:
				utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("unable to resolve user: %v", err))
			}
			return
		}

		next.ServeHTTP(w, withUser(r, user))
	}

	return http.HandlerFunc(handler)
}

// OptionalAuth attaches a user when a verifiable credential is present but
// never rejects the request.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	handler := func(w http.ResponseWriter, r *http.Request) {
		user, err := a.resolveUser(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, withUser(r, user))
	}

	return http.HandlerFunc(handler)
}

// AdminOnly must run after RequireAuth. The missing-user case still answers
// 401 so the auth check is always reported before the role check.
func (a *Authenticator) AdminOnly(next http.Handler) http.Handler {
	handler := func(w http.ResponseWriter, r *http.Request) {
		user, err := UserFromContext(r)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		if !user.IsAdmin() {
			utils.WriteError(w, http.StatusForbidden, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(handler)
}

func (a *Authenticator) AuthMiddleware() chi.Middlewares {
	return chi.Middlewares{a.RequireAuth, a.auditLog.Middleware}
}

func UserFromContext(r *http.Request) (schema.User, error) {
	userUntyped := r.Context().Value(userRequestContextKey)
	if userUntyped == nil {
		return schema.User{}, fmt.Errorf("user field not found in request context")
	}
	user, ok := userUntyped.(schema.User)
	if !ok {
		return schema.User{}, fmt.Errorf("invalid value for user field")
	}
	return user, nil
}
