package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies where in the pipeline a run failed. Handlers map kinds to
// HTTP status codes; the kind also lands in the run registry.
type Kind string

const (
	KindBadRequest        Kind = "bad_request"
	KindSourceUnavailable Kind = "source_unavailable"
	KindTranscode         Kind = "transcode_error"
	KindTranscription     Kind = "transcription_unavailable"
	KindGeneration        Kind = "generation_failed"
	KindSynthesis         Kind = "synthesis_failed"
	KindInternal          Kind = "internal_error"
)

// Error is a stage failure with a human-readable message and a machine-
// readable kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the failure kind from an error chain, defaulting to
// KindInternal for untyped errors.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindInternal
}

// MessageOf extracts the human-readable message from an error chain.
func MessageOf(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}
