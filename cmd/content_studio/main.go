package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"content_studio/studio/auth"
	"content_studio/studio/generation"
	"content_studio/studio/schema"
	"content_studio/studio/services"

	"github.com/caarlos0/env/v10"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogmulti "github.com/samber/slog-multi"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type studioEnv struct {
	DatabaseUri string `env:"DATABASE_URI,required"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	FrontendUrl string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	LogDir      string `env:"LOG_DIR" envDefault:"logs"`

	AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:","`

	IdentityProvider  string `env:"IDENTITY_PROVIDER" envDefault:"keycloak"`
	KeycloakServerUrl string `env:"KEYCLOAK_SERVER_URL"`
	KeycloakRealm     string `env:"KEYCLOAK_REALM" envDefault:"content-studio"`
	JwtSecret         string `env:"JWT_SECRET"`

	GenAiKey     string `env:"GENAI_KEY"`
	TemplatePath string `env:"PROMPT_TEMPLATE_PATH"`
}

/**
 * ==========================================================================
 * ==== All variables used by content studio must be loaded here. This  ====
 * ==== is to make the data flow clear so that a user can see what      ====
 * ==== variables are exposed, and how the values are propagated        ====
 * ==== through the system.                                             ====
 * ==========================================================================
 */
func loadEnv() (*studioEnv, error) {
	cfg := &studioEnv{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.IdentityProvider == "keycloak" && cfg.KeycloakServerUrl == "" {
		return nil, fmt.Errorf("KEYCLOAK_SERVER_URL must be set when IDENTITY_PROVIDER is keycloak")
	}
	if cfg.IdentityProvider == "local" && cfg.JwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set when IDENTITY_PROVIDER is local")
	}

	return cfg, nil
}

func (cfg *studioEnv) postgresDsn() string {
	parts, err := url.Parse(cfg.DatabaseUri)
	if err != nil {
		log.Fatalf("error parsing db uri: %v", err)
	}
	pwd, _ := parts.User.Password()
	dbname := strings.TrimPrefix(parts.Path, "/")
	return fmt.Sprintf("host=%v user=%v password=%v dbname=%v port=%v", parts.Hostname(), parts.User.Username(), pwd, dbname, parts.Port())
}

func (cfg *studioEnv) llmProvider() generation.LLMProvider {
	if strings.HasPrefix(cfg.GenAiKey, "sk-") {
		return generation.OpenAI
	}
	return generation.Template
}

func initLogging(logFile *os.File, environment string) {
	jsonHandler := slog.NewJSONHandler(logFile, nil).WithAttrs([]slog.Attr{
		slog.String("service", "content_studio"),
		slog.String("environment", environment),
	})
	textHandler := slog.NewTextHandler(os.Stderr, nil)

	slog.SetDefault(slog.New(slogmulti.Fanout(jsonHandler, textHandler)))
	slog.Info("logging initialized", "log_file", logFile.Name())
}

func initDb(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("error opening database connection: %v", err)
	}

	if err := schema.Migrate(db); err != nil {
		log.Fatalf("error migrating db schema: %v", err)
	}

	return db
}

func main() {
	envFile := flag.String("env", "", "File to load env variables from. If not specified will just load them from the environment variables already defined.")
	port := flag.Int("port", 8000, "Port to run server on")

	flag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Fatalf("error loading .env file '%v': %v", *envFile, err)
		}
	}

	cfg, err := loadEnv()
	if err != nil {
		log.Fatalf("failed to load environment variables: %v", err)
	}

	if err := os.MkdirAll(cfg.LogDir, 0777); err != nil {
		log.Fatalf("error creating log dir: %v", err)
	}

	logFile, err := os.OpenFile(filepath.Join(cfg.LogDir, "content_studio.log"), os.O_CREATE|os.O_APPEND|os.O_RDWR, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer logFile.Close()

	auditLog, err := os.OpenFile(filepath.Join(cfg.LogDir, "audit.log"), os.O_CREATE|os.O_APPEND|os.O_RDWR, 0666)
	if err != nil {
		log.Fatalf("error opening audit log file: %v", err)
	}
	defer auditLog.Close()

	initLogging(logFile, cfg.Environment)

	db := initDb(cfg.postgresDsn())

	var verifier auth.TokenVerifier
	if cfg.IdentityProvider == "keycloak" {
		verifier = auth.NewKeycloakVerifier(auth.KeycloakArgs{
			ServerUrl: cfg.KeycloakServerUrl,
			Realm:     cfg.KeycloakRealm,
		})
	} else {
		verifier = auth.NewLocalVerifier([]byte(cfg.JwtSecret))
	}

	directory := auth.NewUserDirectory(db, cfg.AdminEmails)
	authenticator := auth.NewAuthenticator(verifier, directory, auth.NewAuditLogger(auditLog))

	llm, err := generation.NewLLM(cfg.llmProvider(), cfg.GenAiKey, cfg.TemplatePath)
	if err != nil {
		log.Fatalf("error creating llm backend: %v", err)
	}

	studio := services.NewContentStudio(db, authenticator, llm, cfg.Environment)

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendUrl},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))

	r.Mount("/api", studio.Routes())
	r.Get("/health", studio.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	slog.Info("starting server", "port", *port)
	err = http.ListenAndServe(fmt.Sprintf(":%d", *port), r)
	if err != nil {
		log.Fatalf("listen and serve returned error: %v", err.Error())
	}
}
