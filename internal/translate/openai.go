package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultChatURL = "https://api.openai.com/v1/chat/completions"

// OpenAIEngine transforms text via the OpenAI Chat API.
type OpenAIEngine struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIEngine(apiKey string) *OpenAIEngine {
	return &OpenAIEngine{
		apiKey:  apiKey,
		model:   "gpt-4o-mini",
		baseURL: defaultChatURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

func (o *OpenAIEngine) Name() string {
	return "openai"
}

func (o *OpenAIEngine) TranslateSegment(ctx context.Context, text string, opts Options) (string, error) {
	// Low temperature keeps per-segment translations consistent across a run.
	return o.complete(ctx, translationPrompt(text, opts.SourceLang, opts.TargetLang), 0.3, opts.APIKey)
}

func (o *OpenAIEngine) GenerateScript(ctx context.Context, transcript string, opts Options) (string, error) {
	return o.complete(ctx, scriptPrompt(transcript, opts.TargetLang), 0.7, opts.APIKey)
}

func (o *OpenAIEngine) complete(ctx context.Context, prompt string, temperature float64, apiKey string) (string, error) {
	if apiKey == "" {
		apiKey = o.apiKey
	}
	if apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not configured")
	}

	reqBody := map[string]interface{}{
		"model": o.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": temperature,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", o.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("OpenAI API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty OpenAI response")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
