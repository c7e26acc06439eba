package ai

import (
	"context"
	"time"

	"finadvisor/internal/adapters/config"
	"finadvisor/internal/adapters/ratelimit"
	"finadvisor/pkg/errors"
)

// NewChatProvider builds the provider selected by LLM_PROVIDER.
func NewChatProvider(ctx context.Context, cfg config.LLMConfig) (ChatProvider, error) {
	name := NormalizeProviderName(cfg.Provider)
	limiter := ratelimit.NewLimiter("llm-"+name.String(), cfg.RequestsPerMinute)

	switch name {
	case ProviderNameAzure:
		p, err := NewAzureOpenAIProvider(AzureConfig{
			APIKey:     cfg.AzureAPIKey,
			BaseURL:    cfg.AzureBaseURL(),
			Deployment: cfg.AzureDeployment,
			APIVersion: cfg.AzureAPIVersion,
			Timeout:    cfg.Timeout,
			Limiter:    limiter,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case ProviderNameOpenAI:
		p, err := NewOpenAIProvider(OpenAIConfig{
			APIKey:  cfg.OpenAIKey,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.Timeout,
			Limiter: limiter,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case ProviderNameGoogle:
		p, err := NewGeminiProvider(ctx, GeminiConfig{
			APIKey:  cfg.GeminiKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.Timeout,
			Limiter: limiter,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown LLM provider %q", cfg.Provider)
	}
}

func defaultTimeout() time.Duration {
	return 60 * time.Second
}
