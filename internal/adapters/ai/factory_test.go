package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finadvisor/internal/adapters/config"
	"finadvisor/pkg/errors"
)

func TestNewChatProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("azure", func(t *testing.T) {
		p, err := NewChatProvider(ctx, config.LLMConfig{
			Provider:        "Azure",
			AzureAPIKey:     "k",
			AzureEndpoint:   "https://example.openai.azure.com/",
			AzureDeployment: "gpt-4o-advisor",
			AzureAPIVersion: "2024-06-01",
		})
		require.NoError(t, err)
		assert.Equal(t, ProviderNameAzure, p.Name())
		assert.Equal(t, "gpt-4o-advisor", p.Model())
	})

	t.Run("openai", func(t *testing.T) {
		p, err := NewChatProvider(ctx, config.LLMConfig{Provider: "openai", OpenAIKey: "k", OpenAIModel: "gpt-4o-mini"})
		require.NoError(t, err)
		assert.Equal(t, ProviderNameOpenAI, p.Name())
		assert.Equal(t, "gpt-4o-mini", p.Model())
	})

	t.Run("gemini", func(t *testing.T) {
		p, err := NewChatProvider(ctx, config.LLMConfig{Provider: "gemini", GeminiKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, ProviderNameGoogle, p.Name())
		assert.Equal(t, "gemini-2.0-flash", p.Model())
	})

	t.Run("missing keys", func(t *testing.T) {
		for _, name := range []string{"azure", "openai", "gemini"} {
			p, err := NewChatProvider(ctx, config.LLMConfig{Provider: name, AzureEndpoint: "https://x", AzureDeployment: "d"})
			assert.ErrorIs(t, err, errors.ErrInvalidInput, name)
			assert.Nil(t, p, name)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewChatProvider(ctx, config.LLMConfig{Provider: "claude"})
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
	})
}

func TestNormalizeProviderName(t *testing.T) {
	assert.Equal(t, ProviderNameOpenAI, NormalizeProviderName("  OpenAI "))
	assert.True(t, NormalizeProviderName("GEMINI").IsValid())
	assert.False(t, ProviderName("claude").IsValid())
	assert.Len(t, AllProviderNames(), 3)
}
