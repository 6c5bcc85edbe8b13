// Package config provides configuration loading and validation for the interview coach.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/interview-coach/internal/feedback"
	"github.com/jonathan/interview-coach/internal/llm"
	"gopkg.in/yaml.v3"
)

// Config is the service configuration. It can be loaded from a JSON or YAML file, is merged
// with defaults, and is finally overridden by environment variables.
type Config struct {
	// Server
	Port           int      `json:"port,omitempty" yaml:"port,omitempty"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
	RateLimit      float64  `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"` // requests per second per client
	RateBurst      int      `json:"rate_burst,omitempty" yaml:"rate_burst,omitempty"`

	// Storage
	DatabaseURL  string   `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	StoreTimeout Duration `json:"store_timeout,omitempty" yaml:"store_timeout,omitempty"`
	RedisURL     string   `json:"redis_url,omitempty" yaml:"redis_url,omitempty"` // empty disables the interview cache
	CacheTTL     Duration `json:"cache_ttl,omitempty" yaml:"cache_ttl,omitempty"`

	// Model
	LLMProvider      string   `json:"llm_provider,omitempty" yaml:"llm_provider,omitempty"`
	GeminiAPIKey     string   `json:"gemini_api_key,omitempty" yaml:"gemini_api_key,omitempty"`
	OpenRouterAPIKey string   `json:"openrouter_api_key,omitempty" yaml:"openrouter_api_key,omitempty"`
	ModelTimeout     Duration `json:"model_timeout,omitempty" yaml:"model_timeout,omitempty"`
	ScorePolicy      string   `json:"score_policy,omitempty" yaml:"score_policy,omitempty"`

	// Auth
	JWTSecret          string `json:"jwt_secret,omitempty" yaml:"jwt_secret,omitempty"`
	JWTIssuer          string `json:"jwt_issuer,omitempty" yaml:"jwt_issuer,omitempty"`
	JWTExpirationHours int    `json:"jwt_expiration_hours,omitempty" yaml:"jwt_expiration_hours,omitempty"`
	VAPIBackendSecret  string `json:"vapi_backend_secret,omitempty" yaml:"vapi_backend_secret,omitempty"`

	// Logging
	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty"`
}

// Defaults returns the built-in configuration values.
func Defaults() Config {
	return Config{
		Port:               8080,
		AllowedOrigins:     []string{"*"},
		RateLimit:          5,
		RateBurst:          10,
		StoreTimeout:       Duration(feedback.DefaultStoreTimeout),
		CacheTTL:           Duration(24 * time.Hour),
		LLMProvider:        string(llm.ProviderGemini),
		ModelTimeout:       Duration(llm.DefaultTimeout),
		ScorePolicy:        string(feedback.DefaultScorePolicy),
		JWTExpirationHours: 24,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// Load reads the optional config file at path, fills unset fields from Defaults and
// applies environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension
// (.yaml and .yml are YAML, anything else JSON).
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config error: 'rate_limit' must be non-negative")
	}
	if c.RateBurst < 0 {
		return fmt.Errorf("config error: 'rate_burst' must be non-negative")
	}
	if c.StoreTimeout < 0 {
		return fmt.Errorf("config error: 'store_timeout' must be non-negative")
	}
	if c.ModelTimeout < 0 {
		return fmt.Errorf("config error: 'model_timeout' must be non-negative")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("config error: 'cache_ttl' must be non-negative")
	}

	switch llm.Provider(c.LLMProvider) {
	case "", llm.ProviderGemini, llm.ProviderOpenRouter:
	default:
		return fmt.Errorf("config error: unknown llm_provider %q", c.LLMProvider)
	}

	if _, err := feedback.ParseScorePolicy(c.ScorePolicy); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: unknown log_format %q (want text or json)", c.LogFormat)
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.RedisURL, defaults.RedisURL)
	mergeString(&result.LLMProvider, defaults.LLMProvider)
	mergeString(&result.GeminiAPIKey, defaults.GeminiAPIKey)
	mergeString(&result.OpenRouterAPIKey, defaults.OpenRouterAPIKey)
	mergeString(&result.ScorePolicy, defaults.ScorePolicy)
	mergeString(&result.JWTSecret, defaults.JWTSecret)
	mergeString(&result.JWTIssuer, defaults.JWTIssuer)
	mergeString(&result.VAPIBackendSecret, defaults.VAPIBackendSecret)
	mergeString(&result.LogLevel, defaults.LogLevel)
	mergeString(&result.LogFormat, defaults.LogFormat)

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.RateLimit == 0 {
		result.RateLimit = defaults.RateLimit
	}
	if result.RateBurst == 0 {
		result.RateBurst = defaults.RateBurst
	}
	if result.JWTExpirationHours == 0 {
		result.JWTExpirationHours = defaults.JWTExpirationHours
	}
	if result.StoreTimeout == 0 {
		result.StoreTimeout = defaults.StoreTimeout
	}
	if result.ModelTimeout == 0 {
		result.ModelTimeout = defaults.ModelTimeout
	}
	if result.CacheTTL == 0 {
		result.CacheTTL = defaults.CacheTTL
	}

	if len(result.AllowedOrigins) == 0 && len(defaults.AllowedOrigins) > 0 {
		result.AllowedOrigins = append([]string(nil), defaults.AllowedOrigins...)
	}

	return result
}

func mergeString(field *string, def string) {
	if *field == "" {
		*field = def
	}
}

// LLMConfig builds the model gateway configuration for the selected provider.
func (c *Config) LLMConfig() *llm.Config {
	return llm.ConfigFor(llm.Provider(c.LLMProvider)).WithTimeout(c.ModelTimeout.Std())
}

// LLMAPIKey returns the API key of the selected provider.
func (c *Config) LLMAPIKey() string {
	if llm.Provider(c.LLMProvider) == llm.ProviderOpenRouter {
		return c.OpenRouterAPIKey
	}
	return c.GeminiAPIKey
}

// ParseLogLevel converts debug, info, warn or error into a slog level. Empty means info.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}
