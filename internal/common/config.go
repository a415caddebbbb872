// Package common provides shared utilities for favalens
package common

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for favalens
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Fava        FavaConfig    `toml:"fava"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// FavaConfig holds the upstream Fava API configuration
type FavaConfig struct {
	BaseURL    string `toml:"base_url"`
	LedgerSlug string `toml:"ledger_slug"`
	RateLimit  int    `toml:"rate_limit"`
	Timeout    string `toml:"timeout"`
}

// GetTimeout parses and returns the upstream request timeout
func (c *FavaConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Fava: FavaConfig{
			BaseURL:    "http://127.0.0.1:5000",
			LedgerSlug: "example-beancount-file",
			RateLimit:  10,
			Timeout:    "15s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// FAVA_BASE_URL, FAVA_LEDGER_SLUG and PORT match the variables the original
// deployment used; FAVALENS_* follow the usual prefix convention.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FAVALENS_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FAVALENS_HOST"); host != "" {
		config.Server.Host = host
	}

	for _, key := range []string{"FAVALENS_PORT", "PORT"} {
		if port := os.Getenv(key); port != "" {
			if p, err := strconv.Atoi(port); err == nil {
				config.Server.Port = p
			}
			break
		}
	}

	if base := os.Getenv("FAVA_BASE_URL"); base != "" {
		config.Fava.BaseURL = base
	}

	if slug := os.Getenv("FAVA_LEDGER_SLUG"); slug != "" {
		config.Fava.LedgerSlug = slug
	}

	if level := os.Getenv("FAVALENS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// Validate checks the configuration for values the server cannot start with.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid server port %d: must be between 1 and 65535", c.Server.Port))
	}

	if u, err := url.Parse(c.Fava.BaseURL); err != nil {
		problems = append(problems, fmt.Sprintf("invalid fava base_url %q: %v", c.Fava.BaseURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		problems = append(problems, fmt.Sprintf("invalid fava base_url scheme %q: must be http or https", u.Scheme))
	}

	if strings.TrimSpace(c.Fava.LedgerSlug) == "" {
		problems = append(problems, "fava ledger_slug cannot be empty")
	}

	if _, err := time.ParseDuration(c.Fava.Timeout); c.Fava.Timeout != "" && err != nil {
		problems = append(problems, fmt.Sprintf("invalid fava timeout %q: %v", c.Fava.Timeout, err))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}

	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
