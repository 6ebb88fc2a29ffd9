package translate

import "context"

// Options configures translation and script generation.
type Options struct {
	SourceLang string // language of the recognized speech
	TargetLang string // language of the subtitle / narration output
	APIKey     string // per-request credential; overrides the engine default
}

// Engine is the common interface for text transformation backends.
// TranslateSegment is called once per subtitle segment, in chronological
// order; GenerateScript is called once per run with the full transcript.
type Engine interface {
	TranslateSegment(ctx context.Context, text string, opts Options) (string, error)
	GenerateScript(ctx context.Context, transcript string, opts Options) (string, error)
	// Name returns the engine name
	Name() string
}
