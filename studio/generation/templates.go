package generation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type promptTemplate struct {
	Label  string `yaml:"label"`
	System string `yaml:"system"`
	Task   string `yaml:"task"`
}

// Prompt templates keyed by content type. Operators can override these with
// a yaml file of the same shape.
const defaultTemplates = `
blog_post:
  label: blog post
  system: >
    You are a content marketer writing for the given business. Respond with a
    single line starting with "Title:" followed by the article body. Write in
    the brand voice when one is given and work the target keywords in
    naturally.
  task: Write a blog post of roughly 600 words about the topic below.
social_post:
  label: social media post
  system: >
    You are a content marketer writing for the given business. Respond with a
    single line starting with "Title:" followed by the post body. Keep the
    tone conversational and include a call to action.
  task: Write a short social media post about the topic below.
linkedin_post:
  label: LinkedIn post
  system: >
    You are a content marketer writing for the given business. Respond with a
    single line starting with "Title:" followed by the post body. Write in a
    professional voice suitable for LinkedIn.
  task: Write a LinkedIn post about the topic below.
seo_article:
  label: SEO article
  system: >
    You are a content marketer writing for the given business. Respond with a
    single line starting with "Title:" followed by the article body. Optimize
    the copy around the target keywords without keyword stuffing.
  task: Write an SEO article of roughly 800 words about the topic below.
`

func parseTemplates(data []byte) (map[string]promptTemplate, error) {
	templates := map[string]promptTemplate{}
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("error parsing prompt templates: %w", err)
	}
	return templates, nil
}

func loadTemplates(path string) (map[string]promptTemplate, error) {
	if path == "" {
		return parseTemplates([]byte(defaultTemplates))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading prompt template file '%v': %w", path, err)
	}
	return parseTemplates(data)
}
