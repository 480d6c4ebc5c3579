package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// DraftRequest carries the client profile fields the prompt is built from.
type DraftRequest struct {
	ClientName  string
	Industry    string
	BrandVoice  string
	Keywords    []string
	ContentType string
	Topic       string
}

type Draft struct {
	Title string
	Body  string
}

type LLM interface {
	Draft(ctx context.Context, req DraftRequest) (Draft, error)
}

type LLMProvider string

const (
	OpenAI   LLMProvider = "openai"
	Template LLMProvider = "template"
)

// NewLLM selects the generation backend. The template provider needs no API
// key and keeps the generate endpoint functional in development.
func NewLLM(provider LLMProvider, apiKey, templatePath string) (LLM, error) {
	templates, err := loadTemplates(templatePath)
	if err != nil {
		return nil, err
	}

	switch provider {
	case OpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("an api key is required for the openai provider")
		}
		return &OpenAILLM{client: openai.NewClient(apiKey), model: openai.GPT4oMini, templates: templates}, nil
	case Template, "":
		return &TemplateLLM{templates: templates}, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider '%v'", provider)
	}
}

func (req *DraftRequest) template(templates map[string]promptTemplate) (promptTemplate, error) {
	tmpl, ok := templates[req.ContentType]
	if !ok {
		return promptTemplate{}, fmt.Errorf("no prompt template for content type '%v'", req.ContentType)
	}
	return tmpl, nil
}

func makePrompt(tmpl promptTemplate, req DraftRequest) (string, string) {
	profile := []string{fmt.Sprintf("Business: %s (%s)", req.ClientName, req.Industry)}
	if req.BrandVoice != "" {
		profile = append(profile, fmt.Sprintf("Brand voice: %s", req.BrandVoice))
	}
	if len(req.Keywords) > 0 {
		profile = append(profile, fmt.Sprintf("Target keywords: %s", strings.Join(req.Keywords, ", ")))
	}

	userPrompt := fmt.Sprintf("%s\n\n%s\n\nTopic: %s", strings.Join(profile, "\n"), tmpl.Task, req.Topic)

	return tmpl.System, userPrompt
}

// parseDraft splits a "Title: ..." first line from the body. Responses
// without the marker fall back to the topic as title.
func parseDraft(content, topic string) Draft {
	content = strings.TrimSpace(content)

	line, rest, found := strings.Cut(content, "\n")
	if found && strings.HasPrefix(strings.ToLower(line), "title:") {
		title := strings.TrimSpace(line[len("title:"):])
		return Draft{Title: title, Body: strings.TrimSpace(rest)}
	}

	return Draft{Title: topic, Body: content}
}

type OpenAILLM struct {
	client    *openai.Client
	model     string
	templates map[string]promptTemplate
}

func (l *OpenAILLM) Draft(ctx context.Context, req DraftRequest) (Draft, error) {
	tmpl, err := req.template(l.templates)
	if err != nil {
		return Draft{}, err
	}

	systemPrompt, userPrompt := makePrompt(tmpl, req)

	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: l.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return Draft{}, fmt.Errorf("error generating content with openai: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Draft{}, fmt.Errorf("openai returned no completion choices")
	}

	return parseDraft(resp.Choices[0].Message.Content, req.Topic), nil
}

// TemplateLLM produces a deterministic draft from the prompt template alone.
type TemplateLLM struct {
	templates map[string]promptTemplate
}

func (l *TemplateLLM) Draft(ctx context.Context, req DraftRequest) (Draft, error) {
	tmpl, err := req.template(l.templates)
	if err != nil {
		return Draft{}, err
	}

	title := fmt.Sprintf("%s: %s", req.ClientName, req.Topic)

	body := []string{fmt.Sprintf("Draft %s for %s about %s.", tmpl.Label, req.ClientName, req.Topic)}
	if len(req.Keywords) > 0 {
		body = append(body, fmt.Sprintf("Keywords to cover: %s.", strings.Join(req.Keywords, ", ")))
	}
	if req.BrandVoice != "" {
		body = append(body, fmt.Sprintf("Voice: %s.", req.BrandVoice))
	}

	return Draft{Title: title, Body: strings.Join(body, "\n")}, nil
}
