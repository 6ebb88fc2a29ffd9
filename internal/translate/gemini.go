package translate

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiEngine transforms text via the Gemini API. A per-request key cannot
// override the client here: the SDK binds its key at construction, so the
// engine is only registered when a server-side key is configured.
type GeminiEngine struct {
	client *genai.Client
	model  string
}

func NewGeminiEngine(ctx context.Context, apiKey string) (*GeminiEngine, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiEngine{
		client: client,
		model:  "gemini-2.0-flash",
	}, nil
}

func (g *GeminiEngine) Name() string {
	return "gemini"
}

func (g *GeminiEngine) TranslateSegment(ctx context.Context, text string, opts Options) (string, error) {
	return g.generate(ctx, translationPrompt(text, opts.SourceLang, opts.TargetLang))
}

func (g *GeminiEngine) GenerateScript(ctx context.Context, transcript string, opts Options) (string, error) {
	return g.generate(ctx, scriptPrompt(transcript, opts.TargetLang))
}

func (g *GeminiEngine) generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}

	return strings.TrimSpace(text), nil
}
