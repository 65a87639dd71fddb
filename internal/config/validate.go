package config

import (
	"fmt"
	"net/url"
)

// Validate checks Settings for invalid values.
func Validate(cfg *Settings) error {
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0")
	}

	switch cfg.Redirect {
	case RedirectNone, RedirectNormal, RedirectAlways:
	default:
		return fmt.Errorf("redirect must be none/normal/always, got %q", cfg.Redirect)
	}

	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must be >= 0, got %d", cfg.Retry.MaxRetries)
	}
	for _, code := range cfg.Retry.RetryableHTTPCodes {
		if code < 100 || code > 599 {
			return fmt.Errorf("retry.retryable_http_codes contains out-of-range status %d", code)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr must be set when metrics.enabled is true")
	}

	return nil
}

// ValidateURL checks that a URL string is a well-formed, absolute http(s)
// URL suitable for construction into a Path (spec section 6, "URL syntax").
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
