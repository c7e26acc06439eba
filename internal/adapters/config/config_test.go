package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finadvisor/pkg/errors"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "finadvisor", cfg.App.Name)
	assert.Equal(t, 0.2, cfg.LLM.Temperature)
	assert.Equal(t, 3, cfg.Runtime.MaxToolRounds)
	assert.Equal(t, "IN", cfg.Runtime.DefaultMarket)
	assert.Equal(t, "./workspace", cfg.Runtime.WorkDir)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoadAzure(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "azure")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com/")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT", "gpt-4o")
	t.Setenv("APP_TEMPERATURE", "0.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.openai.azure.com/openai/deployments/gpt-4o/", cfg.LLM.AzureBaseURL())
	assert.Equal(t, 0.5, cfg.LLM.Temperature)
}

func TestValidate(t *testing.T) {
	t.Run("azure requires endpoint", func(t *testing.T) {
		cfg := &Config{LLM: LLMConfig{Provider: "azure"}}
		err := cfg.Validate()
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := &Config{LLM: LLMConfig{Provider: "llama"}}
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative rounds", func(t *testing.T) {
		cfg := &Config{LLM: LLMConfig{Provider: "gemini"}, Runtime: RuntimeConfig{MaxToolRounds: -1}}
		assert.Error(t, cfg.Validate())
	})
}

func TestDefaultSymbolFor(t *testing.T) {
	assert.Equal(t, "AAPL", DefaultSymbolFor("us"))
	assert.Equal(t, "TCS.NS", DefaultSymbolFor("IN"))
	assert.Equal(t, "TCS.NS", DefaultSymbolFor(""))
	assert.Equal(t, "AAPL", RuntimeConfig{DefaultMarket: " US "}.DefaultSymbol())
}
