// Package llm provides centralized LLM configuration and client abstractions.
// It is the model gateway: callers hand it a prompt and get raw provider text back.
package llm

import "time"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for fast scoring and extraction tasks
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning such as question generation
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenRouter is any OpenAI-compatible chat completions endpoint (OpenRouter by default)
	ProviderOpenRouter Provider = "openrouter"
)

// DefaultTimeout bounds a single generation call when no timeout is configured.
const DefaultTimeout = 60 * time.Second

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// BaseURL is only used by OpenAI-compatible providers
	BaseURL string
	// Timeout is the deadline applied to each generation call; zero means DefaultTimeout
	Timeout time.Duration
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.0-flash",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Timeout: DefaultTimeout,
	}
}

// DefaultOpenRouterConfig returns the default OpenRouter configuration
func DefaultOpenRouterConfig() *Config {
	return &Config{
		Provider: ProviderOpenRouter,
		Models: map[ModelTier]string{
			TierLite:     "google/gemini-2.0-flash-001",
			TierStandard: "google/gemini-2.5-flash",
			TierAdvanced: "google/gemini-2.5-pro",
		},
		BaseURL: "https://openrouter.ai/api/v1",
		Timeout: DefaultTimeout,
	}
}

// ConfigFor returns the default configuration for a provider.
// Unknown providers fall back to Gemini.
func ConfigFor(provider Provider) *Config {
	switch provider {
	case ProviderOpenRouter:
		return DefaultOpenRouterConfig()
	default:
		return DefaultGeminiConfig()
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := c.clone()
	newConfig.Models[tier] = model
	return newConfig
}

// WithTimeout returns a new Config with the given per-call timeout
func (c *Config) WithTimeout(d time.Duration) *Config {
	newConfig := c.clone()
	newConfig.Timeout = d
	return newConfig
}

func (c *Config) clone() *Config {
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string, len(c.Models)),
		BaseURL:  c.BaseURL,
		Timeout:  c.Timeout,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	return newConfig
}
