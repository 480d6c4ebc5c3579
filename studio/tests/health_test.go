package tests

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func checkHealth(t *testing.T, env *testEnv) (int, map[string]string) {
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	env.api.ServeHTTP(w, req)

	var body map[string]string
	if err := jsonDecode(w.Body, &body); err != nil {
		t.Fatalf("error parsing health response: %v", err)
	}
	return w.Code, body
}

func TestHealthCheck(t *testing.T) {
	env := setupTestEnv(t)

	code, body := checkHealth(t, env)
	if code != http.StatusOK || body["status"] != "ok" || body["database"] != "connected" {
		t.Fatalf("unexpected healthy response: %d %v", code, body)
	}

	sqlDb, err := env.db.DB()
	if err != nil {
		t.Fatal(err)
	}
	if err := sqlDb.Close(); err != nil {
		t.Fatal(err)
	}

	code, body = checkHealth(t, env)
	if code != http.StatusServiceUnavailable || body["status"] != "unhealthy" || body["database"] != "disconnected" {
		t.Fatalf("unexpected unhealthy response: %d %v", code, body)
	}
}
