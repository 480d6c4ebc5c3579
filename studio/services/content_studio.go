package services

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"

	"content_studio/studio/auth"
	"content_studio/studio/generation"
	"content_studio/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

type ContentStudio struct {
	authService      AuthService
	clientService    ClientService
	contentService   ContentService
	analyticsService AnalyticsService

	db          *gorm.DB
	environment string
}

func NewContentStudio(db *gorm.DB, authenticator *auth.Authenticator, llm generation.LLM, environment string) ContentStudio {
	return ContentStudio{
		authService:      AuthService{db: db, userAuth: authenticator},
		clientService:    ClientService{db: db, userAuth: authenticator},
		contentService:   ContentService{db: db, userAuth: authenticator, llm: llm},
		analyticsService: AnalyticsService{db: db, userAuth: authenticator},
		db:               db,
		environment:      environment,
	}
}

// recoverer mirrors chi's Recoverer but keeps the error body in the same
// json shape as the rest of the api. The stack trace is only included
// outside of production.
func (c *ContentStudio) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil && rvr != http.ErrAbortHandler {
				slog.Error("panic in request handler", "panic", rvr, "method", r.Method, "url", r.URL.Path)

				message := "Internal server error"
				if c.environment != "production" {
					message = fmt.Sprintf("%v\n%s", rvr, debug.Stack())
				}
				utils.WriteError(w, http.StatusInternalServerError, message)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (c *ContentStudio) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(c.recoverer)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger: log.New(os.Stderr, "", log.LstdFlags), NoColor: false,
	}))

	r.Mount("/auth", c.authService.Routes())
	r.Mount("/clients", c.clientService.Routes())
	r.Mount("/content", c.contentService.Routes())
	r.Mount("/analytics", c.analyticsService.Routes())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusNotFound, fmt.Sprintf("Route %s not found", r.URL.Path))
	})

	return r
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (c *ContentStudio) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := c.db.WithContext(r.Context()).Exec("SELECT 1").Error; err != nil {
		slog.Error("health check: database unreachable", "error", err)
		utils.WriteJsonStatus(w, http.StatusServiceUnavailable, healthResponse{Status: "unhealthy", Database: "disconnected"})
		return
	}

	utils.WriteJsonResponse(w, healthResponse{Status: "ok", Database: "connected"})
}
