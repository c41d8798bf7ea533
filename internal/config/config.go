// Package config loads the immutable application configuration from the
// environment at process start.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment profiles. The test profile pins an in-memory database so test
// runs never touch a developer's data file.
const (
	EnvDev  = "dev"
	EnvTest = "test"
)

// Database providers
const (
	ProviderSQLite   = "sqlite"
	ProviderPostgres = "postgres"
)

// Config represents the application configuration
type Config struct {
	Env        string           `json:"env"`
	Server     ServerConfig     `json:"server"`
	Database   DatabaseConfig   `json:"database"`
	Suggestion SuggestionConfig `json:"suggestion"`
	Logging    LoggingConfig    `json:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	ReadTimeout  int    `json:"read_timeout_seconds"`
	WriteTimeout int    `json:"write_timeout_seconds"`
}

// DatabaseConfig represents the backing store configuration
type DatabaseConfig struct {
	Provider string `json:"provider"`
	DSN      string `json:"dsn"`
}

// SuggestionConfig represents smart-suggestion configuration
type SuggestionConfig struct {
	SimilarityThreshold float64 `json:"similarity_threshold"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Env: EnvDev,
		Server: ServerConfig{
			Host:         "localhost",
			Port:         8080,
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		Database: DatabaseConfig{
			Provider: ProviderSQLite,
			DSN:      "tasktrack.db",
		},
		Suggestion: SuggestionConfig{
			SimilarityThreshold: 0.7,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional .env file and
// environment variable overrides. The returned value is constructed once and
// passed down; nothing mutates it afterwards.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Don't fail if .env doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := DefaultConfig()
	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func loadFromEnv(cfg *Config) {
	if env := os.Getenv("TASKTRACK_ENV"); env != "" {
		cfg.Env = env
	}
	if cfg.Env == EnvTest {
		cfg.Database.Provider = ProviderSQLite
		cfg.Database.DSN = "file:tasktrack_test?mode=memory&cache=shared"
	}

	loadServerConfig(cfg)
	loadDatabaseConfig(cfg)
	loadSuggestionConfig(cfg)
	loadLoggingConfig(cfg)
}

func loadServerConfig(cfg *Config) {
	if host := os.Getenv("TASKTRACK_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("TASKTRACK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if readTimeout := os.Getenv("TASKTRACK_READ_TIMEOUT_SECONDS"); readTimeout != "" {
		if rt, err := strconv.Atoi(readTimeout); err == nil {
			cfg.Server.ReadTimeout = rt
		}
	}
	if writeTimeout := os.Getenv("TASKTRACK_WRITE_TIMEOUT_SECONDS"); writeTimeout != "" {
		if wt, err := strconv.Atoi(writeTimeout); err == nil {
			cfg.Server.WriteTimeout = wt
		}
	}
}

func loadDatabaseConfig(cfg *Config) {
	// The test profile pins its store; env overrides only apply to dev.
	if cfg.Env == EnvTest {
		return
	}
	if provider := os.Getenv("TASKTRACK_DATABASE_PROVIDER"); provider != "" {
		cfg.Database.Provider = provider
	}
	if dsn := os.Getenv("TASKTRACK_DATABASE_URL"); dsn != "" {
		cfg.Database.DSN = dsn
	}
}

func loadSuggestionConfig(cfg *Config) {
	if threshold := os.Getenv("TASKTRACK_SIMILARITY_THRESHOLD"); threshold != "" {
		if v, err := strconv.ParseFloat(threshold, 64); err == nil {
			cfg.Suggestion.SimilarityThreshold = v
		}
	}
}

func loadLoggingConfig(cfg *Config) {
	if level := os.Getenv("TASKTRACK_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("TASKTRACK_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Env != EnvDev && c.Env != EnvTest {
		return fmt.Errorf("unknown environment %q (expected %s or %s)", c.Env, EnvDev, EnvTest)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Database.Provider != ProviderSQLite && c.Database.Provider != ProviderPostgres {
		return fmt.Errorf("unknown database provider %q (expected %s or %s)",
			c.Database.Provider, ProviderSQLite, ProviderPostgres)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	if c.Suggestion.SimilarityThreshold < 0 || c.Suggestion.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be between 0 and 1, got %g",
			c.Suggestion.SimilarityThreshold)
	}
	return nil
}
