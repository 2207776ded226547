// Package assist wraps a hosted text-generation model for editor helpers:
// drafting an article from a title, picking related posts for visitors,
// and suggesting content for the page being viewed.
//
// Model output is never trusted. Article HTML is sanitized before it is
// returned, and recommendations are restricted to the candidates offered.
package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dalemusser/wavesite/internal/app/system/htmlsanitize"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// MaxRecommendations caps Recommend's result.
const MaxRecommendations = 3

// Request is one single-shot generation. Schema describes the JSON the
// model must return.
type Request struct {
	System string
	Prompt string
	Schema *genai.Schema
}

// Model generates a JSON document for a request.
type Model interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GenerationError reports a failed or unusable generation. Its message is
// safe to show to the editor.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: content generation failed, please try again", e.Op)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Candidate is a page that may be recommended.
type Candidate struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// String is the form shown to the model.
func (c Candidate) String() string {
	return "URL: " + c.URL + ", Title: " + c.Title
}

// Helper runs the editor and visitor helpers against a model.
type Helper struct {
	model  Model
	logger *zap.Logger
}

func New(model Model, logger *zap.Logger) *Helper {
	return &Helper{model: model, logger: logger}
}

var articleSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"content": {Type: genai.TypeString, Description: "The article as an HTML string using h2, h3, p, ul and li."},
	},
	Required: []string{"content"},
}

const articleSystem = `You are an expert blog writer and SEO specialist.
Write a comprehensive, well-structured and engaging blog post for the given title.
Use <h2> and <h3> headings, <p> paragraphs and <ul>/<li> lists.
Do not include an <h1>; the title is the main heading.
Write in a clear, concise and professional tone.`

// DraftArticle writes article HTML for title. The result is sanitized and
// contains no h1.
func (h *Helper) DraftArticle(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &GenerationError{Op: "draft article", Err: fmt.Errorf("title is required")}
	}

	raw, err := h.model.Generate(ctx, Request{
		System: articleSystem,
		Prompt: fmt.Sprintf("Blog post title:\n%q", title),
		Schema: articleSchema,
	})
	if err != nil {
		h.logger.Error("article generation failed", zap.String("title", title), zap.Error(err))
		return "", &GenerationError{Op: "draft article", Err: err}
	}

	var out struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		h.logger.Warn("article generation returned malformed output", zap.Error(err))
		return "", &GenerationError{Op: "draft article", Err: err}
	}
	html := strings.TrimSpace(htmlsanitize.SanitizeArticle(out.Content))
	if html == "" {
		return "", &GenerationError{Op: "draft article", Err: fmt.Errorf("empty article")}
	}
	return html, nil
}

var urlListSchema = &genai.Schema{
	Type:  genai.TypeArray,
	Items: &genai.Schema{Type: genai.TypeString},
}

const recommendSystem = `You are a content recommendation system for a technology company's blog.
Find the topics people ask about most often in the inquiries, then choose up to 3 of the most relevant posts from the available list.
Return only the URLs of the chosen posts. Do not recommend a post that is not highly relevant.`

// Recommend picks up to MaxRecommendations candidates that match the themes
// of recent inquiries. Anything the model returns that is not one of the
// candidates is dropped, as are duplicates.
func (h *Helper) Recommend(ctx context.Context, candidates []Candidate, inquiries []string) ([]Candidate, error) {
	if len(candidates) == 0 {
		return []Candidate{}, nil
	}

	var b strings.Builder
	b.WriteString("## User inquiries:\n")
	for _, q := range inquiries {
		b.WriteString("- " + q + "\n")
	}
	b.WriteString("\n## Available blog posts:\n")
	for _, c := range candidates {
		b.WriteString("- " + c.String() + "\n")
	}

	raw, err := h.model.Generate(ctx, Request{System: recommendSystem, Prompt: b.String(), Schema: urlListSchema})
	if err != nil {
		h.logger.Error("recommendation failed", zap.Error(err))
		return nil, &GenerationError{Op: "recommend content", Err: err}
	}
	var picked []string
	if err := json.Unmarshal([]byte(raw), &picked); err != nil {
		h.logger.Warn("recommendation returned malformed output", zap.Error(err))
		return nil, &GenerationError{Op: "recommend content", Err: err}
	}

	byKey := make(map[string]Candidate, len(candidates)*2)
	for _, c := range candidates {
		byKey[c.URL] = c
		byKey[c.String()] = c
	}
	out := lo.FilterMap(picked, func(p string, _ int) (Candidate, bool) {
		c, ok := byKey[strings.TrimSpace(p)]
		return c, ok
	})
	out = lo.UniqBy(out, func(c Candidate) string { return c.URL })
	if len(out) > MaxRecommendations {
		out = out[:MaxRecommendations]
	}
	return out, nil
}

var suggestionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"suggestions": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"suggestions"},
}

const suggestSystem = `You suggest relevant articles, services or case studies based on the page a visitor is viewing and their activity on the site.
Each suggestion is a short title. Do not suggest anything unrelated to the page or the activity.`

// SuggestRelated returns short titles of content related to the current page.
func (h *Helper) SuggestRelated(ctx context.Context, currentURL, activity string) ([]string, error) {
	prompt := "Current URL: " + currentURL + "\nUser activity: " + activity

	raw, err := h.model.Generate(ctx, Request{System: suggestSystem, Prompt: prompt, Schema: suggestionSchema})
	if err != nil {
		h.logger.Error("suggestion failed", zap.String("url", currentURL), zap.Error(err))
		return nil, &GenerationError{Op: "suggest content", Err: err}
	}
	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, &GenerationError{Op: "suggest content", Err: err}
	}
	return lo.Compact(lo.Map(out.Suggestions, func(s string, _ int) string { return strings.TrimSpace(s) })), nil
}
