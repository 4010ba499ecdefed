package ai

import (
	"errors"
	"fmt"
)

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrNotConfigured means no credential was supplied for the generation provider.
var ErrNotConfigured = errors.New("generation client not configured")

// ErrEmptyResponse means the provider answered but produced no usable text.
var ErrEmptyResponse = errors.New("generation returned no text")

// GenerationError tags a failed generation call with the prompt step it belonged to.
type GenerationError struct {
	Step string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Step, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
