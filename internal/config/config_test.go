package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"port": 9090,
		"database_url": "postgres://localhost/coach",
		"llm_provider": "openrouter",
		"model_timeout": "45s",
		"store_timeout": 5,
		"score_policy": "clamp",
		"allowed_origins": ["https://coach.example.com"]
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/coach", cfg.DatabaseURL)
	assert.Equal(t, "openrouter", cfg.LLMProvider)
	assert.Equal(t, 45*time.Second, cfg.ModelTimeout.Std())
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout.Std())
	assert.Equal(t, "clamp", cfg.ScorePolicy)
	assert.Equal(t, []string{"https://coach.example.com"}, cfg.AllowedOrigins)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
port: 7070
redis_url: redis://localhost:6379/0
cache_ttl: 2h
model_timeout: 30
log_format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 2*time.Hour, cfg.CacheTTL.Std())
	assert.Equal(t, 30*time.Second, cfg.ModelTimeout.Std())
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{ invalid json }`)

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "config.yml", "model_timeout: [1, 2]\n")

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_BadDuration(t *testing.T) {
	path := writeConfig(t, "config.json", `{"store_timeout": "soon"}`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "negative store timeout", mutate: func(c *Config) { c.StoreTimeout = -1 }, wantErr: "store_timeout"},
		{name: "negative model timeout", mutate: func(c *Config) { c.ModelTimeout = -1 }, wantErr: "model_timeout"},
		{name: "negative rate limit", mutate: func(c *Config) { c.RateLimit = -1 }, wantErr: "rate_limit"},
		{name: "bad port", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "port"},
		{name: "unknown provider", mutate: func(c *Config) { c.LLMProvider = "bard" }, wantErr: "llm_provider"},
		{name: "unknown score policy", mutate: func(c *Config) { c.ScorePolicy = "ignore" }, wantErr: "score policy"},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "log level"},
		{name: "unknown log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{
		Port:        9000,
		DatabaseURL: "postgres://file",
		ScorePolicy: "accept",
	}

	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, "postgres://file", merged.DatabaseURL)
	assert.Equal(t, "accept", merged.ScorePolicy)
	assert.Equal(t, "gemini", merged.LLMProvider)
	assert.Equal(t, llm.DefaultTimeout, merged.ModelTimeout.Std())
	assert.Equal(t, 10*time.Second, merged.StoreTimeout.Std())
	assert.Equal(t, []string{"*"}, merged.AllowedOrigins)
	assert.Equal(t, 24, merged.JWTExpirationHours)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{Port: 9000}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, 9000, merged.Port)
	assert.Empty(t, merged.LLMProvider)
	assert.Zero(t, merged.ModelTimeout)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"DATABASE_URL":        "postgres://env",
		"LLM_PROVIDER":        "openrouter",
		"OPENROUTER_API_KEY":  "or-key",
		"MODEL_TIMEOUT":       "90s",
		"STORE_TIMEOUT":       "3s",
		"SCORE_POLICY":        "clamp",
		"VAPI_BACKEND_SECRET": "vapi",
		"PORT":                "8181",
		"ALLOWED_ORIGINS":     "https://a.example.com, https://b.example.com",
	}
	cfg := Defaults()
	cfg.DatabaseURL = "postgres://file"

	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, "openrouter", cfg.LLMProvider)
	assert.Equal(t, "or-key", cfg.LLMAPIKey())
	assert.Equal(t, 90*time.Second, cfg.ModelTimeout.Std())
	assert.Equal(t, 3*time.Second, cfg.StoreTimeout.Std())
	assert.Equal(t, "clamp", cfg.ScorePolicy)
	assert.Equal(t, "vapi", cfg.VAPIBackendSecret)
	assert.Equal(t, 8181, cfg.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)

	llmCfg := cfg.LLMConfig()
	assert.Equal(t, llm.ProviderOpenRouter, llmCfg.Provider)
	assert.Equal(t, 90*time.Second, llmCfg.Timeout)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	for key, value := range map[string]string{
		"PORT":                 "eighty",
		"MODEL_TIMEOUT":        "forever",
		"JWT_EXPIRATION_HOURS": "a day",
	} {
		t.Run(key, func(t *testing.T) {
			cfg := Defaults()
			err := cfg.ApplyEnv(func(k string) string {
				if k == key {
					return value
				}
				return ""
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, "config.yaml", "database_url: postgres://file\nscore_policy: accept\n")
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("SCORE_POLICY", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, "accept", cfg.ScorePolicy)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoad_RejectsInvalidEnv(t *testing.T) {
	t.Setenv("SCORE_POLICY", "maybe")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLLMAPIKey_Gemini(t *testing.T) {
	cfg := Defaults()
	cfg.GeminiAPIKey = "gem"
	cfg.OpenRouterAPIKey = "or"
	assert.Equal(t, "gem", cfg.LLMAPIKey())
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLogLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestDuration_JSONRoundTrip(t *testing.T) {
	d := Duration(90 * time.Second)
	data, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(data))
}
