package config

import "fmt"

// JWTConfig holds configuration for preview server token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig builds a JWT configuration from the auth section.
// The secret is required whenever the preview server is started.
func NewJWTConfig(auth AuthConfig) (*JWTConfig, error) {
	cfg := &JWTConfig{
		Secret:          auth.JWTSecret,
		ExpirationHours: auth.JWTExpirationHours,
	}
	if cfg.ExpirationHours == 0 {
		cfg.ExpirationHours = 24
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT secret is required: set RB_AUTH_JWT_SECRET or JWT_SECRET")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT expiration must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
