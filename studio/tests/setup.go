package tests

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"content_studio/studio/auth"
	"content_studio/studio/generation"
	"content_studio/studio/schema"
	"content_studio/studio/services"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	studio   services.ContentStudio
	api      chi.Router
	db       *gorm.DB
	verifier *auth.LocalVerifier
}

const adminEmail = "admin@bma.com"

func setupTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}

	if err := schema.Migrate(db); err != nil {
		t.Fatal(err)
	}

	verifier := auth.NewLocalVerifier([]byte("290zcv02ai249"))
	directory := auth.NewUserDirectory(db, []string{adminEmail})
	authenticator := auth.NewAuthenticator(verifier, directory, auth.NewAuditLogger(new(bytes.Buffer)))

	llm, err := generation.NewLLM(generation.Template, "", "")
	if err != nil {
		t.Fatal(err)
	}

	studio := services.NewContentStudio(db, authenticator, llm, "test")

	api := chi.NewRouter()
	api.Mount("/api", studio.Routes())
	api.Get("/health", studio.HealthCheck)

	return &testEnv{studio: studio, api: api, db: db, verifier: verifier}
}

func (e *testEnv) newClient() client {
	return client{api: e.api}
}

// newUser returns a client holding a valid token for the given email. The
// user row itself is created lazily on the first authenticated request.
func (e *testEnv) newUser(t *testing.T, email string) client {
	token, err := e.verifier.IssueToken(fmt.Sprintf("subject-%v", email), email, email, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return client{api: e.api, authToken: token}
}

func (e *testEnv) adminClient(t *testing.T) client {
	return e.newUser(t, adminEmail)
}
