package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/MrSnakeDoc/bibliofind/internal/logger"
)

const promptTemplate = "You are an expert book summarizer. Please provide a concise summary of the following book description:\n\n%s"

// GeminiOptions configures the Gemini summarizer.
type GeminiOptions struct {
	APIKey      string
	Model       string  // ex: "gemini-1.5-flash"
	Temperature float64 // 0..2
}

// Gemini summarizes through Google Gemini. The underlying client is shared
// by all requests and must be released with Close.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
	log    logger.Logger
}

var _ Summarizer = (*Gemini)(nil)

// NewGemini creates a Gemini client.
func NewGemini(ctx context.Context, opts GeminiOptions, log logger.Logger) (*Gemini, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create new gemini client: %w", err)
	}

	model := client.GenerativeModel(opts.Model)
	model.SetTemperature(float32(opts.Temperature))

	return &Gemini{client: client, model: model, name: opts.Model, log: log}, nil
}

// Summarize sends the expert-summarizer prompt for req's description.
func (g *Gemini) Summarize(ctx context.Context, req Request) (Response, error) {
	desc, err := cleanDescription(req)
	if err != nil {
		return Response{}, err
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(Prompt(desc)))
	if err != nil {
		return Response{}, fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := firstText(resp)
	if err != nil {
		return Response{}, err
	}

	g.log.Debug("summary generated",
		logger.String("model", g.name),
		logger.Int("input_chars", len(desc)),
		logger.Int("output_chars", len(text)))

	return Response{Summary: text}, nil
}

// Close releases the Gemini client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// Prompt renders the summarization prompt for a description.
func Prompt(description string) string {
	return fmt.Sprintf(promptTemplate, description)
}

// firstText extracts the text of the first candidate.
func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}
	return out, nil
}
