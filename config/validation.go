package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a configuration
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "is required"})
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{"SQLITE_PATH", "is required when DB_DRIVER=sqlite"})
		}
	case DriverPostgres:
		required := map[string]string{
			"DB_HOST":     cfg.DBHost,
			"DB_NAME":     cfg.DBName,
			"DB_USER":     cfg.DBUser,
			"DB_PASSWORD": cfg.DBPassword,
		}
		for _, field := range []string{"DB_HOST", "DB_NAME", "DB_USER", "DB_PASSWORD"} {
			if required[field] == "" {
				errs = append(errs, ValidationError{field, "is required when DB_DRIVER=postgres"})
			}
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.IsProduction() && cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{"JWT_SECRET", "is required in production"})
	} else if cfg.AdminPasswordHash != "" && cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{"JWT_SECRET", "is required when ADMIN_PASSWORD_HASH is set"})
	}
	if cfg.CacheTTL < 0 {
		errs = append(errs, ValidationError{"CACHE_TTL", "must not be negative"})
	}
	if cfg.RateLimitPerMinute < 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT_PER_MINUTE", "must not be negative"})
	}
	if cfg.MaxAlternatives < 1 {
		errs = append(errs, ValidationError{"MAX_ALTERNATIVES", "must be at least 1"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
