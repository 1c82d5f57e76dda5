package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver   string
	SQLitePath string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Admin auth configuration
	JWTSecret         string
	AdminPasswordHash string

	// Decode configuration
	CacheTTL           time.Duration
	RateLimitPerMinute int
	MaxAlternatives    int
	SeedOnStart        bool

	// Catalog storage configuration
	CatalogS3Bucket string
	CatalogS3Key    string
	AWSRegion       string
}

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Environment:       GetEnvironment(),
		ServerPort:        lookup("SERVER_PORT", "server_port", "5000"),
		ServerHost:        lookup("SERVER_HOST", "server_host", ""),
		DBDriver:          strings.ToLower(lookup("DB_DRIVER", "db_driver", DriverSQLite)),
		SQLitePath:        lookup("SQLITE_PATH", "sqlite_path", "craveq.db"),
		DBHost:            lookup("DB_HOST", "db_host", ""),
		DBPort:            lookup("DB_PORT", "db_port", "5432"),
		DBUser:            lookup("DB_USER", "db_user", ""),
		DBPassword:        lookup("DB_PASSWORD", "db_password", ""),
		DBName:            lookup("DB_NAME", "db_name", ""),
		DBSSLMode:         lookup("DB_SSL_MODE", "db_ssl_mode", "disable"),
		RedisHost:         lookup("REDIS_HOST", "redis_host", ""),
		RedisPort:         lookup("REDIS_PORT", "redis_port", "6379"),
		RedisPassword:     lookup("REDIS_PASSWORD", "redis_password", ""),
		RedisURL:          lookup("REDIS_URL", "redis_url", ""),
		JWTSecret:         lookup("JWT_SECRET", "jwt_secret", ""),
		AdminPasswordHash: lookup("ADMIN_PASSWORD_HASH", "admin_password_hash", ""),
		CatalogS3Bucket:   lookup("CATALOG_S3_BUCKET", "catalog_s3_bucket", ""),
		CatalogS3Key:      lookup("CATALOG_S3_KEY", "catalog_s3_key", "catalog/recipes.yaml"),
		AWSRegion:         lookup("AWS_REGION", "aws_region", ""),
	}

	var errs []string

	redisDB, err := strconv.Atoi(lookup("REDIS_DB", "redis_db", "0"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid REDIS_DB: %v", err))
	}
	cfg.RedisDB = redisDB

	cacheTTL, err := time.ParseDuration(lookup("CACHE_TTL", "cache_ttl", "10m"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid CACHE_TTL: %v", err))
	}
	cfg.CacheTTL = cacheTTL

	rateLimit, err := strconv.Atoi(lookup("RATE_LIMIT_PER_MINUTE", "rate_limit_per_minute", "60"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid RATE_LIMIT_PER_MINUTE: %v", err))
	}
	cfg.RateLimitPerMinute = rateLimit

	maxAlternatives, err := strconv.Atoi(lookup("MAX_ALTERNATIVES", "max_alternatives", "5"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MAX_ALTERNATIVES: %v", err))
	}
	cfg.MaxAlternatives = maxAlternatives

	seedOnStart, err := strconv.ParseBool(lookup("SEED_ON_START", "seed_on_start", "true"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid SEED_ON_START: %v", err))
	}
	cfg.SeedOnStart = seedOnStart

	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to parse configuration:\n%s", strings.Join(errs, "\n"))
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// PostgresDSN builds a lib/pq connection string
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// RedisEnabled reports whether any Redis endpoint is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// lookup returns the environment variable if set, then the Docker secret, then the fallback
func lookup(envVar, secret, fallback string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	if v := readSecret(secret); v != "" {
		return v
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
