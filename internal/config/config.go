// Package config loads the service configuration from defaults, an optional
// config file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"whattocook/internal/platform/spoonacular"
)

// Environment variables read by Load and KeyFunc.
const (
	EnvAPIKey             = "SPOONACULAR_API_KEY"
	EnvLegacyAPIKey       = "SPOONCULAR_API_KEY"
	EnvBaseURL            = "SPOONACULAR_BASE_URL"
	EnvPort               = "PORT"
	EnvAddr               = "ADDR"
	EnvLogLevel           = "LOG_LEVEL"
	EnvLogFormat          = "LOG_FORMAT"
	EnvUpstreamTimeout    = "UPSTREAM_TIMEOUT_SECONDS"
	EnvShutdownTimeout    = "SHUTDOWN_TIMEOUT_SECONDS"
	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "config.json"

// Config represents the application configuration. The file may be JSON or
// YAML; both decode through yaml.v3.
type Config struct {
	Addr string `yaml:"addr"`

	SpoonacularAPIKey  string `yaml:"spoonacular_api_key"`
	SpoonacularBaseURL string `yaml:"spoonacular_base_url"`

	ResultCount  int  `yaml:"result_count"`
	Ranking      int  `yaml:"ranking"`
	IgnorePantry bool `yaml:"ignore_pantry"`

	UpstreamTimeoutSeconds int `yaml:"upstream_timeout_seconds"`
	ShutdownTimeoutSeconds int `yaml:"shutdown_timeout_seconds"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	ImageHosts         []string `yaml:"image_hosts"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Addr:                   ":8080",
		SpoonacularBaseURL:     spoonacular.DefaultBaseURL,
		ResultCount:            10,
		Ranking:                1,
		IgnorePantry:           true,
		UpstreamTimeoutSeconds: int(spoonacular.DefaultTimeout / time.Second),
		ShutdownTimeoutSeconds: 15,
		CORSAllowedOrigins:     []string{"http://localhost:3000"},
		ImageHosts:             []string{"img.spoonacular.com", "spoonacular.com"},
		LogLevel:               "info",
		LogFormat:              "text",
	}
}

// Load reads the config file at path (a missing file is not an error),
// applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.SpoonacularBaseURL = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		c.Addr = ":" + v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv(EnvCORSAllowedOrigins); v != "" {
		c.CORSAllowedOrigins = splitList(v)
	}
	if v := os.Getenv(EnvUpstreamTimeout); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ValidationError{Field: EnvUpstreamTimeout, Message: fmt.Sprintf("not an integer: %q", v)}
		}
		c.UpstreamTimeoutSeconds = n
	}
	if v := os.Getenv(EnvShutdownTimeout); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ValidationError{Field: EnvShutdownTimeout, Message: fmt.Sprintf("not an integer: %q", v)}
		}
		c.ShutdownTimeoutSeconds = n
	}
	return nil
}

// KeyFunc returns a function that resolves the API key on every call, so a
// key set or removed in the environment at runtime is honoured. The config
// file value is the fallback.
func (c *Config) KeyFunc() func() string {
	fileKey := c.SpoonacularAPIKey
	return func() string {
		if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
			return v
		}
		if v := strings.TrimSpace(os.Getenv(EnvLegacyAPIKey)); v != "" {
			return v
		}
		return strings.TrimSpace(fileKey)
	}
}

// UpstreamTimeout returns the outbound call timeout.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
