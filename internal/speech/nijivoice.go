package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	defaultNijivoiceBase = "https://api.nijivoice.com/api/platform/v1"

	// defaultVoiceActorID is the fixed narrator voice used for podcast output.
	defaultVoiceActorID = "8c08fd5b-b3eb-4294-b102-a1da00f09c72"
)

// NijivoiceClient synthesizes speech via the Nijivoice TTS API.
type NijivoiceClient struct {
	apiKey       string
	baseURL      string
	voiceActorID string
	httpClient   *http.Client
}

func NewNijivoiceClient(apiKey string) *NijivoiceClient {
	return &NijivoiceClient{
		apiKey:       apiKey,
		baseURL:      defaultNijivoiceBase,
		voiceActorID: defaultVoiceActorID,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

func (c *NijivoiceClient) Name() string {
	return "nijivoice"
}

func (c *NijivoiceClient) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = c.apiKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Nijivoice API key not configured")
	}

	reqBody := map[string]string{
		"script":     req.Script,
		"speed":      "1.0",
		"format":     "mp3",
		"pitch":      "0",
		"intonation": "1.0",
		"volume":     "1.0",
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/voice-actors/%s/generate-voice", c.baseURL, c.voiceActorID)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", apiKey)

	log.Printf("[speech-nijivoice] synthesizing %d chars", len(req.Script))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("Nijivoice API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Nijivoice API error (status %d): %s", resp.StatusCode, string(body))
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("Nijivoice API returned no audio data")
	}

	return body, nil
}
