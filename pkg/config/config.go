// Package config loads service configuration from MANIFOLD_* environment
// variables with sane defaults for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/manifoldhq/manifold/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Storage       StorageConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// DatabaseConfig holds marketplace database configuration
type DatabaseConfig struct {
	PostgresURL  string
	MaxOpenConns int
	MaxIdleConns int
}

// StorageConfig holds plugin artifact storage configuration
type StorageConfig struct {
	Root    string // base directory for stored archives and manifests
	BaseURL string // public base URL for download links
}

// ObservabilityConfig holds logging and metrics settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("MANIFOLD_HOST", "0.0.0.0"),
			Port:            getEnv("MANIFOLD_PORT", "8080"),
			ReadTimeout:     getEnvDuration("MANIFOLD_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("MANIFOLD_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("MANIFOLD_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("MANIFOLD_SHUTDOWN_TIMEOUT", 30*time.Second),
			HealthPort:      getEnv("MANIFOLD_HEALTH_PORT", "9090"),
		},
		Database: DatabaseConfig{
			PostgresURL:  getEnv("MANIFOLD_POSTGRES_URL", ""),
			MaxOpenConns: getEnvInt("MANIFOLD_POSTGRES_MAX_CONNS", 25),
			MaxIdleConns: getEnvInt("MANIFOLD_POSTGRES_IDLE_CONNS", 5),
		},
		Storage: StorageConfig{
			Root:    getEnv("MANIFOLD_STORAGE_ROOT", "./data/plugins"),
			BaseURL: getEnv("MANIFOLD_STORAGE_BASE_URL", "http://localhost:8080/artifacts"),
		},
		Observability: ObservabilityConfig{
			LogLevel:       observability.ParseLogLevel(getEnv("MANIFOLD_LOG_LEVEL", "info")),
			MetricsEnabled: getEnvBool("MANIFOLD_METRICS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port must not be empty")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must differ")
	}
	if c.Storage.Root == "" {
		return fmt.Errorf("storage root must not be empty")
	}
	if c.Database.MaxOpenConns < c.Database.MaxIdleConns {
		return fmt.Errorf("max open connections must be >= max idle connections")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
