// Package llm renders advisory rationale through Gemini or Claude.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/advisor/internal/common"
	"github.com/ternarybob/advisor/internal/interfaces"
)

// Renderer adapts a Provider to interfaces.NarrativeRenderer with retry on transient errors.
type Renderer struct {
	provider Provider
	retry    *RetryConfig
	logger   arbor.ILogger
}

var _ interfaces.NarrativeRenderer = (*Renderer)(nil)

// NewRendererWithProvider wraps provider. A nil retry config uses the defaults.
func NewRendererWithProvider(provider Provider, retry *RetryConfig, logger arbor.ILogger) *Renderer {
	if retry == nil {
		retry = NewDefaultRetryConfig()
	}
	return &Renderer{provider: provider, retry: retry, logger: logger}
}

// NewRenderer builds the renderer selected by [llm] default_provider.
// Returns nil with no error when rendering is disabled or the provider has no API key;
// callers then use the baseline rationale.
func NewRenderer(ctx context.Context, config *common.Config, logger arbor.ILogger) (interfaces.NarrativeRenderer, error) {
	retry := NewDefaultRetryConfig()
	if config.LLM.MaxRetries >= 0 {
		retry.MaxRetries = config.LLM.MaxRetries
	}

	var provider Provider
	switch config.LLM.DefaultProvider {
	case common.LLMProviderNone:
		logger.Info().Msg("Narrative rendering disabled (llm.default_provider = none)")
		return nil, nil

	case common.LLMProviderClaude:
		if strings.TrimSpace(config.Claude.APIKey) == "" {
			logger.Warn().Msg("Claude selected but no API key configured, narrative rendering disabled")
			return nil, nil
		}
		provider = NewClaudeProvider(&config.Claude)

	case common.LLMProviderGemini, "":
		if strings.TrimSpace(config.Gemini.APIKey) == "" {
			logger.Warn().Msg("Gemini selected but no API key configured, narrative rendering disabled")
			return nil, nil
		}
		gemini, err := NewGeminiProvider(ctx, &config.Gemini)
		if err != nil {
			return nil, err
		}
		provider = gemini

	default:
		return nil, fmt.Errorf("unknown llm provider %q", config.LLM.DefaultProvider)
	}

	logger.Info().
		Str("provider", string(provider.GetProviderType())).
		Str("model", provider.Model()).
		Int("max_retries", retry.MaxRetries).
		Msg("Narrative renderer initialized")

	return NewRendererWithProvider(provider, retry, logger), nil
}

// Provider returns the backing provider name.
func (r *Renderer) Provider() string {
	return string(r.provider.GetProviderType())
}

// Render generates rationale text. Blank output is an error so callers fall back to the baseline.
func (r *Renderer) Render(ctx context.Context, system string, prompt string) (string, error) {
	request := &ContentRequest{SystemInstruction: system, Prompt: prompt}
	start := time.Now()

	var (
		text   string
		apiErr error
	)
	for attempt := 0; attempt <= r.retry.MaxRetries; attempt++ {
		text, apiErr = r.provider.GenerateContent(ctx, request)
		if apiErr == nil || !IsRetryable(apiErr) || attempt == r.retry.MaxRetries {
			break
		}

		backoff := r.retry.CalculateBackoff(attempt, ExtractRetryDelay(apiErr))
		r.logger.Warn().
			Str("provider", r.Provider()).
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(apiErr).
			Msg("Retrying narrative render")

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}

	if apiErr != nil {
		return "", fmt.Errorf("%s render failed: %w", r.Provider(), apiErr)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty response from %s", r.Provider())
	}

	r.logger.Debug().
		Str("provider", r.Provider()).
		Int("response_length", len(text)).
		Dur("duration", time.Since(start)).
		Msg("Narrative rendered")

	return text, nil
}
