package generation

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplates(t *testing.T) {
	templates, err := loadTemplates("")
	require.NoError(t, err)

	for _, contentType := range []string{"blog_post", "social_post", "linkedin_post", "seo_article"} {
		tmpl, ok := templates[contentType]
		assert.True(t, ok, contentType)
		assert.NotEmpty(t, tmpl.Label)
		assert.NotEmpty(t, tmpl.System)
		assert.NotEmpty(t, tmpl.Task)
	}
}

func TestTemplateOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	content := "blog_post:\n  label: custom\n  system: sys\n  task: task\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	templates, err := loadTemplates(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", templates["blog_post"].Label)

	_, err = loadTemplates(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMakePrompt(t *testing.T) {
	tmpl := promptTemplate{System: "sys", Task: "write it"}

	system, user := makePrompt(tmpl, DraftRequest{
		ClientName:  "Acme",
		Industry:    "retail",
		BrandVoice:  "friendly",
		Keywords:    []string{"sale", "deals"},
		ContentType: "blog_post",
		Topic:       "spring sale",
	})

	assert.Equal(t, "sys", system)
	assert.Contains(t, user, "Acme")
	assert.Contains(t, user, "friendly")
	assert.Contains(t, user, "sale, deals")
	assert.Contains(t, user, "Topic: spring sale")

	_, bare := makePrompt(tmpl, DraftRequest{ClientName: "Acme", Industry: "retail", Topic: "spring sale"})
	assert.NotContains(t, bare, "Brand voice")
	assert.NotContains(t, bare, "Target keywords")
}

func TestParseDraft(t *testing.T) {
	draft := parseDraft("Title: Spring Sale\nBody text here.", "fallback")
	assert.Equal(t, "Spring Sale", draft.Title)
	assert.Equal(t, "Body text here.", draft.Body)

	draft = parseDraft("no marker at all", "fallback")
	assert.Equal(t, "fallback", draft.Title)
	assert.Equal(t, "no marker at all", draft.Body)

	draft = parseDraft("title: lowercase marker\nrest", "fallback")
	assert.Equal(t, "lowercase marker", draft.Title)
}

func TestTemplateLLM(t *testing.T) {
	llm, err := NewLLM(Template, "", "")
	require.NoError(t, err)

	draft, err := llm.Draft(context.Background(), DraftRequest{
		ClientName:  "Acme",
		Industry:    "retail",
		BrandVoice:  "friendly",
		Keywords:    []string{"sale"},
		ContentType: "social_post",
		Topic:       "spring sale",
	})
	require.NoError(t, err)
	assert.True(t, strings.Contains(draft.Title, "spring sale"))
	assert.NotEmpty(t, draft.Body)

	_, err = llm.Draft(context.Background(), DraftRequest{ContentType: "newsletter", Topic: "x"})
	assert.Error(t, err)
}

func TestNewLLMProviderSelection(t *testing.T) {
	_, err := NewLLM(OpenAI, "", "")
	assert.Error(t, err)

	llm, err := NewLLM(OpenAI, "sk-test", "")
	require.NoError(t, err)
	assert.IsType(t, &OpenAILLM{}, llm)

	llm, err = NewLLM("", "", "")
	require.NoError(t, err)
	assert.IsType(t, &TemplateLLM{}, llm)

	_, err = NewLLM("bogus", "", "")
	assert.Error(t, err)
}
