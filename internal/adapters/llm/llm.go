// Package llm provides text-generation backends behind domain.TextGenerator.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eco_hotels/internal/adapters/observability"
	"eco_hotels/internal/domain"
)

type Config struct {
	Provider string // openai|anthropic|gemini
	APIKey   string
	Model    string
	BaseURL  string // optional override, used by tests and proxies
}

var defaultModels = map[string]string{
	"openai":    "gpt-4o",
	"anthropic": "claude-sonnet-4-20250514",
	"gemini":    "gemini-2.0-flash",
}

// New builds the configured backend.
func New(ctx context.Context, cfg Config) (domain.TextGenerator, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = "openai"
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("llm: API key is required for provider %q", provider)
	}
	if cfg.Model == "" {
		cfg.Model = defaultModels[provider]
	}
	// concrete constructors return typed pointers; never hand back a typed nil
	switch provider {
	case "openai":
		g, err := newOpenAI(cfg)
		if err != nil {
			return nil, fmt.Errorf("llm: openai: %w", err)
		}
		return g, nil
	case "anthropic":
		return newAnthropic(cfg), nil
	case "gemini":
		g, err := newGemini(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}

// observe records one completion call against the provider.
func observe(provider string, start time.Time, err error) {
	status := 200
	if err != nil {
		status = 0
	}
	observability.ObserveExternal(provider, "chat", status, time.Since(start))
}
