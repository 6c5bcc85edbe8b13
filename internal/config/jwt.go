package config

import (
	"fmt"
	"time"
)

// JWTConfig holds configuration for validating caller tokens and minting development tokens.
type JWTConfig struct {
	Secret          string
	Issuer          string
	ExpirationHours int
}

// JWT returns the token configuration. JWT_SECRET is required.
func (c *Config) JWT() (*JWTConfig, error) {
	config := &JWTConfig{
		Secret:          c.JWTSecret,
		Issuer:          c.JWTIssuer,
		ExpirationHours: c.JWTExpirationHours,
	}
	if config.ExpirationHours == 0 {
		config.ExpirationHours = 24
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

// Expiration returns the lifetime of minted tokens.
func (c *JWTConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
