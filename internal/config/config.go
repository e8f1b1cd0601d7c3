package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port            string
	ShutdownTimeout time.Duration

	// Logging
	LogLevel string

	// Storage backend selection
	StoreBackend string

	// Sales tax rates
	TPSRate float64
	TVQRate float64

	// Metrics
	MetricsEnabled bool
}

var (
	validBackends  = []string{"memory", "sqlite"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

func Load() *Config {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),

		StoreBackend: getEnv("STORE_BACKEND", "memory"),

		TPSRate: getEnvFloat("TPS_RATE", 0.05),
		TVQRate: getEnvFloat("TVQ_RATE", 0.09975),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
	}

	return cfg
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.StoreBackend) {
		errors = append(errors, fmt.Sprintf("invalid store backend '%s': must be one of %v", c.StoreBackend, validBackends))
	}

	if !slices.Contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}

	// Tax rates are fractions, 0.05 means 5%
	if c.TPSRate < 0 || c.TPSRate >= 1 {
		errors = append(errors, fmt.Sprintf("invalid TPS rate %v: must be in [0, 1)", c.TPSRate))
	}
	if c.TVQRate < 0 || c.TVQRate >= 1 {
		errors = append(errors, fmt.Sprintf("invalid TVQ rate %v: must be in [0, 1)", c.TVQRate))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	} else if c.ShutdownTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at most 5 minutes", c.ShutdownTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
