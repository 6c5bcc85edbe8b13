package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ApplyEnv overrides fields from environment variables; unset or empty variables are ignored.
// getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(key string, field *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*field = v
		}
	}

	setString("DATABASE_URL", &c.DatabaseURL)
	setString("REDIS_URL", &c.RedisURL)
	setString("LLM_PROVIDER", &c.LLMProvider)
	setString("GEMINI_API_KEY", &c.GeminiAPIKey)
	setString("OPENROUTER_API_KEY", &c.OpenRouterAPIKey)
	setString("SCORE_POLICY", &c.ScorePolicy)
	setString("JWT_SECRET", &c.JWTSecret)
	setString("JWT_ISSUER", &c.JWTIssuer)
	setString("VAPI_BACKEND_SECRET", &c.VAPIBackendSecret)
	setString("LOG_LEVEL", &c.LogLevel)
	setString("LOG_FORMAT", &c.LogFormat)

	if v := getenv("ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		c.AllowedOrigins = origins
	}

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	if v := getenv("JWT_EXPIRATION_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %v", err)
		}
		c.JWTExpirationHours = hours
	}

	durations := []struct {
		key   string
		field *Duration
	}{
		{"MODEL_TIMEOUT", &c.ModelTimeout},
		{"STORE_TIMEOUT", &c.StoreTimeout},
		{"CACHE_TTL", &c.CacheTTL},
	}
	for _, d := range durations {
		v := getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %v", d.key, err)
		}
		*d.field = Duration(parsed)
	}

	return nil
}
