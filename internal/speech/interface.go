package speech

import "context"

// Request is the input for a synthesis call.
type Request struct {
	Script string // text to speak
	APIKey string // per-request credential; overrides the engine default
}

// Synthesizer turns a narration script into encoded audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) ([]byte, error)
	// Name returns the engine name
	Name() string
}
