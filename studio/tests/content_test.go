package tests

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"content_studio/studio/schema"
)

func TestGenerateContent(t *testing.T) {
	env := setupTestEnv(t)

	c := env.newUser(t, "writer@mail.com")

	created, err := c.createClient("Acme", "retail")
	if err != nil {
		t.Fatal(err)
	}

	content, err := c.generateContent(created.Id, schema.BlogPost, "spring sale")
	if err != nil {
		t.Fatal(err)
	}
	if content.Status != schema.Draft || content.Type != schema.BlogPost {
		t.Fatalf("unexpected content: %+v", content)
	}
	if content.Title == "" || content.Body == "" {
		t.Fatal("generated draft must have a title and body")
	}
	if content.ClientId != created.Id {
		t.Fatal("content attached to wrong client")
	}
}

func TestGenerateContentValidation(t *testing.T) {
	env := setupTestEnv(t)

	c := env.newUser(t, "writer@mail.com")
	other := env.newUser(t, "other@mail.com")

	created, err := c.createClient("Acme", "retail")
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.generateContent(created.Id, "newsletter", "spring sale")
	if statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid content type, got %v", err)
	}

	_, err = other.generateContent(created.Id, schema.BlogPost, "spring sale")
	if statusOf(err) != http.StatusForbidden {
		t.Fatalf("expected 403 for cross tenant generation, got %v", err)
	}

	_, err = c.generateContent("11111111-1111-1111-1111-111111111111", schema.BlogPost, "spring sale")
	if statusOf(err) != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown client, got %v", err)
	}
}

func TestListContentFilters(t *testing.T) {
	env := setupTestEnv(t)

	alice := env.newUser(t, "alice@mail.com")
	bob := env.newUser(t, "bob@mail.com")
	admin := env.adminClient(t)

	aliceClient, err := alice.createClient("Acme", "retail")
	if err != nil {
		t.Fatal(err)
	}
	bobClient, err := bob.createClient("Globex", "energy")
	if err != nil {
		t.Fatal(err)
	}

	draft, err := alice.generateContent(aliceClient.Id, schema.BlogPost, "spring sale")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := alice.generateContent(aliceClient.Id, schema.SocialPost, "summer sale"); err != nil {
		t.Fatal(err)
	}
	if _, err := bob.generateContent(bobClient.Id, schema.BlogPost, "wind farms"); err != nil {
		t.Fatal(err)
	}

	aliceVisible, err := alice.listContent("")
	if err != nil {
		t.Fatal(err)
	}
	if len(aliceVisible) != 2 {
		t.Fatalf("expected alice to see 2 items, got %d", len(aliceVisible))
	}

	adminVisible, err := admin.listContent("")
	if err != nil {
		t.Fatal(err)
	}
	if len(adminVisible) != 3 {
		t.Fatalf("expected admin to see 3 items, got %d", len(adminVisible))
	}

	filtered, err := admin.listContent(fmt.Sprintf("?client_id=%v", aliceClient.Id))
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 items for client filter, got %d", len(filtered))
	}

	if err := alice.Post(fmt.Sprintf("/api/content/%v/publish", draft.Id)).Do(nil); err != nil {
		t.Fatal(err)
	}

	published, err := alice.listContent("?status=published")
	if err != nil {
		t.Fatal(err)
	}
	if len(published) != 1 || published[0].Id != draft.Id {
		t.Fatalf("unexpected published filter result: %+v", published)
	}

	_, err = alice.listContent("?status=bogus")
	if statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid status filter, got %v", err)
	}
}

func TestContentAccess(t *testing.T) {
	env := setupTestEnv(t)

	alice := env.newUser(t, "alice@mail.com")
	bob := env.newUser(t, "bob@mail.com")

	aliceClient, err := alice.createClient("Acme", "retail")
	if err != nil {
		t.Fatal(err)
	}
	content, err := alice.generateContent(aliceClient.Id, schema.BlogPost, "spring sale")
	if err != nil {
		t.Fatal(err)
	}

	err = bob.Get(fmt.Sprintf("/api/content/%v", content.Id)).Do(nil)
	if statusOf(err) != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}

	err = bob.Get("/api/content/11111111-1111-1111-1111-111111111111").Do(nil)
	if statusOf(err) != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}

	var fetched contentInfo
	if err := alice.Get(fmt.Sprintf("/api/content/%v", content.Id)).Do(&fetched); err != nil {
		t.Fatal(err)
	}
	if fetched.Id != content.Id {
		t.Fatal("fetched wrong content item")
	}
}

func TestUpdateContent(t *testing.T) {
	env := setupTestEnv(t)

	alice := env.newUser(t, "alice@mail.com")

	aliceClient, err := alice.createClient("Acme", "retail")
	if err != nil {
		t.Fatal(err)
	}
	content, err := alice.generateContent(aliceClient.Id, schema.BlogPost, "spring sale")
	if err != nil {
		t.Fatal(err)
	}

	var updated contentInfo
	err = alice.Put(fmt.Sprintf("/api/content/%v", content.Id)).Json(map[string]interface{}{
		"title":     "Edited title",
		"platforms": []string{"linkedin", "twitter"},
	}).Do(&updated)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "Edited title" || len(updated.Platforms) != 2 {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.Body != content.Body {
		t.Fatal("body should be unchanged")
	}

	err = alice.Put(fmt.Sprintf("/api/content/%v", content.Id)).Json(map[string]string{"type": "bogus"}).Do(nil)
	if statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid type, got %v", err)
	}
}

func TestScheduleAndPublish(t *testing.T) {
	env := setupTestEnv(t)

	alice := env.newUser(t, "alice@mail.com")

	aliceClient, err := alice.createClient("Acme", "retail")
	if err != nil {
		t.Fatal(err)
	}
	content, err := alice.generateContent(aliceClient.Id, schema.LinkedinPost, "hiring push")
	if err != nil {
		t.Fatal(err)
	}

	when := time.Now().Add(48 * time.Hour).UTC()

	var scheduled contentInfo
	err = alice.Post(fmt.Sprintf("/api/content/%v/schedule", content.Id)).Json(map[string]interface{}{
		"scheduled_for": when,
	}).Do(&scheduled)
	if err != nil {
		t.Fatal(err)
	}
	if scheduled.Status != schema.Scheduled || scheduled.ScheduledFor == nil {
		t.Fatalf("unexpected schedule result: %+v", scheduled)
	}

	err = alice.Post(fmt.Sprintf("/api/content/%v/schedule", content.Id)).Json(map[string]interface{}{}).Do(nil)
	if statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing scheduled_for, got %v", err)
	}

	var published contentInfo
	if err := alice.Post(fmt.Sprintf("/api/content/%v/publish", content.Id)).Do(&published); err != nil {
		t.Fatal(err)
	}
	if published.Status != schema.Published || published.PublishedAt == nil {
		t.Fatalf("unexpected publish result: %+v", published)
	}
}
