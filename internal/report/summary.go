package report

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used for executive summaries.
const DefaultModelName = "gemini-2.0-flash"

// Summarizer turns a rendered report into a short executive summary.
type Summarizer interface {
	Summarize(ctx context.Context, report string) (string, error)
}

// GeminiSummarizer asks a Gemini model for the summary. Credentials
// come from the environment (GOOGLE_API_KEY or Vertex env vars).
type GeminiSummarizer struct {
	Model string
}

// NewGeminiSummarizer creates a summarizer with the default model.
func NewGeminiSummarizer() *GeminiSummarizer {
	return &GeminiSummarizer{Model: DefaultModelName}
}

// Summarize sends the report to the model and returns its plain-text
// summary.
func (g *GeminiSummarizer) Summarize(ctx context.Context, report string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		// API version v1 is what docs use for current Gemini models.
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("summarize: create genai client: %w", err)
	}

	prompt := "You are a retail business analyst.\n" +
		"Write a 3-5 sentence executive summary of the sales report below.\n" +
		"Plain text only, no Markdown, no headings, no bullet points.\n" +
		"Focus on revenue drivers, trends, and the main risk.\n\n" +
		report

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	model := g.Model
	if model == "" {
		model = DefaultModelName
	}
	resp, err := client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("summarize: generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("summarize: empty response from model")
	}
	return text, nil
}
