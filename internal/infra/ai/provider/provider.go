package provider

import (
	"context"
	"fmt"

	"github.com/bryanwahyu/foresight-engine/internal/config"
	"github.com/bryanwahyu/foresight-engine/internal/domain/ai"
	"github.com/bryanwahyu/foresight-engine/internal/infra/ai/gemini"
	"github.com/bryanwahyu/foresight-engine/internal/infra/ai/openai"
)

// New builds the configured generator. It returns ai.ErrNotConfigured when the
// provider has no credential; callers decide whether that is fatal.
func New(ctx context.Context, cfg config.GenerationConfig) (ai.Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s is not set", ai.ErrNotConfigured, cfg.KeyEnv())
	}

	switch cfg.Provider {
	case "gemini", "":
		c, err := gemini.NewClient(ctx, cfg.APIKey, cfg.Model, cfg.MaxOutputTokens)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "openai":
		return openai.NewClient(cfg.APIKey, cfg.Model, cfg.MaxOutputTokens), nil
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s (supported: gemini, openai)", cfg.Provider)
	}
}
