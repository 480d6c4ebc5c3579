package tests

import (
	"net/http"
	"testing"

	"content_studio/studio/schema"
)

func TestMissingToken(t *testing.T) {
	env := setupTestEnv(t)

	c := env.newClient()

	_, err := c.profile()
	if statusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}

	var apiErr *apiError
	if !asApiError(err, &apiErr) || apiErr.Message != "No valid authorization token provided" {
		t.Fatalf("unexpected error body: %v", err)
	}
	if apiErr.Category != "Unauthorized" {
		t.Fatalf("unexpected error category: %v", apiErr.Category)
	}
}

func TestInvalidToken(t *testing.T) {
	env := setupTestEnv(t)

	c := client{api: env.api, authToken: "not-a-real-token"}

	_, err := c.profile()
	if statusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}

	var apiErr *apiError
	if !asApiError(err, &apiErr) || apiErr.Message != "Invalid or expired token" {
		t.Fatalf("unexpected error body: %v", err)
	}
}

func TestFirstRequestCreatesUser(t *testing.T) {
	env := setupTestEnv(t)

	c := env.newUser(t, "writer@mail.com")

	info, err := c.profile()
	if err != nil {
		t.Fatal(err)
	}
	if info.Email != "writer@mail.com" || info.Role != schema.RoleClient {
		t.Fatalf("unexpected profile: %+v", info)
	}

	var count int64
	if err := env.db.Model(&schema.User{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected 1 user, found %d", count)
	}

	// a second request resolves to the same row
	again, err := c.profile()
	if err != nil {
		t.Fatal(err)
	}
	if again.Id != info.Id {
		t.Fatal("repeated requests must resolve to the same user")
	}

	if err := env.db.Model(&schema.User{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected 1 user, found %d", count)
	}
}

func TestAdminEmailGetsAdminRole(t *testing.T) {
	env := setupTestEnv(t)

	admin := env.adminClient(t)

	info, err := admin.profile()
	if err != nil {
		t.Fatal(err)
	}
	if info.Role != schema.RoleAdmin {
		t.Fatalf("expected admin role, got %v", info.Role)
	}
}

func TestVerifyEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	c := env.newUser(t, "writer@mail.com")

	var resp struct {
		Valid bool     `json:"valid"`
		User  userInfo `json:"user"`
	}
	if err := c.Post("/api/auth/verify").Do(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Valid || resp.User.Email != "writer@mail.com" {
		t.Fatalf("unexpected verify response: %+v", resp)
	}
}

func TestAdminOnlyRoutes(t *testing.T) {
	env := setupTestEnv(t)

	c := env.newUser(t, "writer@mail.com")

	err := c.Get("/api/analytics/system").Do(nil)
	if statusOf(err) != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}

	var apiErr *apiError
	if !asApiError(err, &apiErr) || apiErr.Message != "Admin access required" {
		t.Fatalf("unexpected error body: %v", err)
	}

	admin := env.adminClient(t)
	if err := admin.Get("/api/analytics/system").Do(nil); err != nil {
		t.Fatal(err)
	}
}

func TestUnknownRoute(t *testing.T) {
	env := setupTestEnv(t)

	c := env.newUser(t, "writer@mail.com")

	err := c.Get("/api/nonexistent").Do(nil)
	if statusOf(err) != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}
