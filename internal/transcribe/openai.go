package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/subcast/backend/internal/subtitle"
)

const defaultTranscriptionURL = "https://api.openai.com/v1/audio/transcriptions"

// OpenAIClient uses the OpenAI Whisper API with verbose_json output to get
// segment-level timestamps.
type OpenAIClient struct {
	apiKey     string // server default; a per-request key takes precedence
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: defaultTranscriptionURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

func (c *OpenAIClient) Name() string {
	return "openai"
}

// verboseResponse mirrors the verbose_json transcription payload.
// Segment times arrive as float seconds.
type verboseResponse struct {
	Language string `json:"language"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (c *OpenAIClient) Transcribe(ctx context.Context, req Request) ([]subtitle.Segment, error) {
	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = c.apiKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not configured")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	audioFile, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, err
	}
	defer audioFile.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(req.AudioPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, audioFile); err != nil {
		return nil, err
	}

	writer.WriteField("model", "whisper-1")
	writer.WriteField("response_format", "verbose_json")
	if req.Language != "" && req.Language != "auto" {
		writer.WriteField("language", req.Language)
	}
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, &buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	log.Printf("[transcribe-openai] sending %s to Whisper API (language=%s)",
		filepath.Base(req.AudioPath), req.Language)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed verboseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse transcription response: %w", err)
	}

	// A missing segments field means the API gave us no timing data at all.
	// An empty array is valid: it just means no speech was detected.
	if parsed.Segments == nil {
		return nil, fmt.Errorf("transcription response contains no segment data")
	}

	segments := make([]subtitle.Segment, 0, len(parsed.Segments))
	for _, s := range parsed.Segments {
		segments = append(segments, subtitle.Segment{
			Start: int64(s.Start * 1000),
			End:   int64(s.End * 1000),
			Text:  s.Text,
		})
	}

	log.Printf("[transcribe-openai] got %d segments (detected language=%s)",
		len(segments), parsed.Language)
	return segments, nil
}
