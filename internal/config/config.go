// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage and session backend names.
const (
	BackendMemory   = "memory"
	BackendValkey   = "valkey"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Where settings documents and page sessions live
	StorageBackend string // "memory", "valkey", "postgres", "s3"
	SessionBackend string // "memory", "valkey"
	SessionTTL     time.Duration
	SaveFeedback   time.Duration

	// Per-client request limit on the API. RateLimit 0 turns it off.
	RateLimit  int
	RateWindow time.Duration
	// TrustProxy makes the limiter key clients by X-Forwarded-For and
	// X-Real-IP. Only set it behind a proxy that overwrites them.
	TrustProxy bool

	// S3-compatible object storage for the s3 backend
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is read first; variables already set in the environment win. Returns an
// error if critical values are missing in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	sessionTTL, err := durationOrDefault("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	saveFeedback, err := durationOrDefault("SAVE_FEEDBACK", time.Second)
	if err != nil {
		return nil, err
	}
	rateWindow, err := durationOrDefault("RATE_WINDOW", time.Minute)
	if err != nil {
		return nil, err
	}
	rateLimit, err := intOrDefault("RATE_LIMIT", 120)
	if err != nil {
		return nil, err
	}
	trustProxy, err := boolOrDefault("TRUST_PROXY", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "promptlib"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "promptlib"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		StorageBackend: envOrDefault("STORAGE_BACKEND", BackendPostgres),
		SessionBackend: envOrDefault("SESSION_BACKEND", BackendValkey),
		SessionTTL:     sessionTTL,
		SaveFeedback:   saveFeedback,

		RateLimit:  rateLimit,
		RateWindow: rateWindow,
		TrustProxy: trustProxy,

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "promptlib-settings"),
	}

	switch cfg.StorageBackend {
	case BackendMemory, BackendValkey, BackendPostgres, BackendS3:
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND %q is not one of memory, valkey, postgres, s3", cfg.StorageBackend)
	}
	switch cfg.SessionBackend {
	case BackendMemory, BackendValkey:
	default:
		return nil, fmt.Errorf("SESSION_BACKEND %q is not one of memory, valkey", cfg.SessionBackend)
	}

	if cfg.StorageBackend == BackendS3 && (cfg.S3Endpoint == "" || cfg.S3AccessKey == "" || cfg.S3SecretKey == "") {
		return nil, fmt.Errorf("STORAGE_BACKEND=s3 requires S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY")
	}

	if cfg.Env == "production" && cfg.UsesPostgres() {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// UsesPostgres reports whether any backend needs a database connection.
func (c *Config) UsesPostgres() bool {
	return c.StorageBackend == BackendPostgres
}

// UsesValkey reports whether any backend needs a Valkey connection.
func (c *Config) UsesValkey() bool {
	return c.StorageBackend == BackendValkey || c.SessionBackend == BackendValkey
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// durationOrDefault parses a Go duration ("1s", "24h") from the environment.
func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}

// intOrDefault parses a non-negative integer from the environment.
func intOrDefault(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %d", key, n)
	}
	return n, nil
}

// boolOrDefault parses a boolean ("true", "1", "false", ...) from the environment.
func boolOrDefault(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
