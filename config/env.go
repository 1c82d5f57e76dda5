package config

import (
	"os"
	"strings"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment.
// CI is detected automatically; the rest come from ENV and default to development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}

	switch env := Environment(strings.ToLower(os.Getenv("ENV"))); env {
	case Production, Test, Development:
		return env
	default:
		return Development
	}
}

// IsProduction reports whether the config was loaded for production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}
