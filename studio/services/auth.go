package services

import (
	"net/http"

	"content_studio/studio/auth"
	"content_studio/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService struct {
	db       *gorm.DB
	userAuth *auth.Authenticator
}

func (s *AuthService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(s.userAuth.AuthMiddleware()...)

	r.Post("/verify", s.Verify)
	r.Get("/profile", s.Profile)

	return r
}

type userInfo struct {
	Id          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
}

type verifyResponse struct {
	Valid bool     `json:"valid"`
	User  userInfo `json:"user"`
}

// Verify resolves the bearer token through the identity provider and returns
// the local user record, creating it on first sight.
func (s *AuthService) Verify(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	utils.WriteJsonResponse(w, verifyResponse{
		Valid: true,
		User:  userInfo{Id: user.Id, Email: user.Email, DisplayName: user.DisplayName, Role: user.Role},
	})
}

func (s *AuthService) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	utils.WriteJsonResponse(w, userInfo{Id: user.Id, Email: user.Email, DisplayName: user.DisplayName, Role: user.Role})
}
