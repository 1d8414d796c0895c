package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	validLogLevels  = []string{"trace", "debug", "info", "warn", "warning", "error", "fatal", "panic"}
	validLogFormats = []string{"text", "json"}
)

// Validate checks the configuration values. A missing API key is not a
// validation failure; lookups report it per request.
func (c *Config) Validate() error {
	var errs []error
	fail := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Addr == "" {
		fail("addr", "must not be empty")
	}
	if u, err := url.Parse(c.SpoonacularBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		fail("spoonacular_base_url", "must be an absolute URL, got %q", c.SpoonacularBaseURL)
	}
	if c.ResultCount < 1 || c.ResultCount > 100 {
		fail("result_count", "must be between 1 and 100, got %d", c.ResultCount)
	}
	if c.Ranking != 1 && c.Ranking != 2 {
		fail("ranking", "must be 1 (maximize used) or 2 (minimize missing), got %d", c.Ranking)
	}
	if c.UpstreamTimeoutSeconds <= 0 {
		fail("upstream_timeout_seconds", "must be positive, got %d", c.UpstreamTimeoutSeconds)
	}
	if c.ShutdownTimeoutSeconds <= 0 {
		fail("shutdown_timeout_seconds", "must be positive, got %d", c.ShutdownTimeoutSeconds)
	}
	for _, origin := range c.CORSAllowedOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			fail("cors_allowed_origins", "origin %q must start with http:// or https://", origin)
		}
	}
	if !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		fail("log_level", "unknown level %q", c.LogLevel)
	}
	if !slices.Contains(validLogFormats, strings.ToLower(c.LogFormat)) {
		fail("log_format", "must be text or json, got %q", c.LogFormat)
	}

	return errors.Join(errs...)
}
