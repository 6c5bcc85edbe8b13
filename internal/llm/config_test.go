package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.0-flash", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, DefaultTimeout, config.Timeout)
}

func TestConfigFor(t *testing.T) {
	assert.Equal(t, ProviderOpenRouter, ConfigFor(ProviderOpenRouter).Provider)
	assert.NotEmpty(t, ConfigFor(ProviderOpenRouter).BaseURL)
	assert.Equal(t, ProviderGemini, ConfigFor("something-else").Provider)
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	// Unknown tier should fallback to TierStandard, then TierLite
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{},
	}

	assert.Equal(t, "", config.GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(TierAdvanced, "custom-model")

	// Original should be unchanged
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, "custom-model", newConfig.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.0-flash", newConfig.GetModel(TierLite))
}

func TestWithTimeout(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithTimeout(5 * time.Second)

	assert.Equal(t, DefaultTimeout, config.Timeout)
	assert.Equal(t, 5*time.Second, newConfig.Timeout)
	assert.Equal(t, config.GetModel(TierLite), newConfig.GetModel(TierLite))
}
