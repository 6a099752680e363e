// Package config provides invite token configuration functionality.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// InviteConfig holds configuration for candidate invite token generation and
// validation.
type InviteConfig struct {
	Secret          string
	ExpirationHours int
}

// NewInviteConfig creates a new invite configuration from environment variables.
// It reads INVITE_SECRET (required) and INVITE_EXPIRATION_HOURS (default: 72).
func NewInviteConfig() (*InviteConfig, error) {
	secret := os.Getenv("INVITE_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("INVITE_SECRET is required but not set")
	}

	expirationStr := os.Getenv("INVITE_EXPIRATION_HOURS")
	if expirationStr == "" {
		expirationStr = "72" // default
	}

	expirationHours, err := strconv.Atoi(expirationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid INVITE_EXPIRATION_HOURS: %v", err)
	}

	config := &InviteConfig{
		Secret:          secret,
		ExpirationHours: expirationHours,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *InviteConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("INVITE_SECRET cannot be empty")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("INVITE_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
