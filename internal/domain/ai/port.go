package ai

import "context"

// Generator returns a text completion for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
