// Package config loads and validates application configuration from an
// optional YAML file overlaid by environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `yaml:"port" envconfig:"PORT"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `yaml:"databaseUrl" envconfig:"DATABASE_URL"`

	// RedisURL locates the roster order store.
	// Defaults to "redis://localhost:6379/0".
	RedisURL string `yaml:"redisUrl" envconfig:"REDIS_URL"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `yaml:"logLevel" envconfig:"LOG_LEVEL"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `yaml:"corsOrigins" envconfig:"CORS_ORIGINS"`

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64 `yaml:"maxBodyBytes" envconfig:"MAX_BODY_BYTES"`
}

func defaults() Config {
	return Config{
		Port:         "8080",
		RedisURL:     "redis://localhost:6379/0",
		LogLevel:     "info",
		CORSOrigins:  []string{"http://localhost:5173"},
		MaxBodyBytes: 1 << 20,
	}
}

// Load builds the configuration in three layers: built-in defaults, then the
// YAML file at path (skipped when path is empty), then environment
// variables. Variables that are unset or empty leave the lower layers alone.
// Returns an error listing any required settings that are still missing.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config.Load: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(buf, &cfg); err != nil {
			return Config{}, fmt.Errorf("config.Load: parse %s: %w", path, err)
		}
	}

	var env Config
	if err := envconfig.Process("", &env); err != nil {
		return Config{}, fmt.Errorf("config.Load: environment: %w", err)
	}
	cfg.overlay(env)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// overlay copies every non-zero field of o onto c.
func (c *Config) overlay(o Config) {
	if o.Port != "" {
		c.Port = o.Port
	}
	if o.DatabaseURL != "" {
		c.DatabaseURL = o.DatabaseURL
	}
	if o.RedisURL != "" {
		c.RedisURL = o.RedisURL
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if origins := trimAll(o.CORSOrigins); len(origins) > 0 {
		c.CORSOrigins = origins
	}
	if o.MaxBodyBytes != 0 {
		c.MaxBodyBytes = o.MaxBodyBytes
	}
}

func (c Config) validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required settings not provided: %s", strings.Join(missing, ", "))
	}
	if c.MaxBodyBytes < 1 {
		return errors.New("MAX_BODY_BYTES must be positive")
	}
	return nil
}

// trimAll trims each entry and drops empty ones.
func trimAll(in []string) []string {
	var out []string
	for _, part := range in {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
