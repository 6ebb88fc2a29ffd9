package transcribe

import (
	"context"

	"github.com/subcast/backend/internal/subtitle"
)

// Request is the input for a transcription call.
type Request struct {
	AudioPath string // absolute path to a 16kHz mono WAV file
	Language  string // ISO 639-1 hint ("en", "ja", ...) or "auto"
	APIKey    string // per-request credential; overrides the engine default
}

// Transcriber converts an audio file into ordered, timestamped segments.
type Transcriber interface {
	Transcribe(ctx context.Context, req Request) ([]subtitle.Segment, error)
	// Name returns the engine name
	Name() string
}
