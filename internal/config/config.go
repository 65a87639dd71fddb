// Package config defines the process-wide, explicitly-overridable Settings
// that parameterize every network-facing component of httpvfs: the shared
// HTTP client (timeout, redirect policy) and the retry engine (spec section
// 3, "Settings").
//
// The struct layout and mapstructure/yaml tags follow the teacher's
// internal/config/config.go; the difference is scope, not shape — this is a
// transport/retry settings record, not a crawler settings record.
package config

import "time"

// Version is set at build time via ldflags.
var Version = "dev"

// RedirectPolicy controls how the shared HTTP client follows redirects.
type RedirectPolicy string

const (
	// RedirectNone never follows a redirect; the 3xx response is returned
	// to the caller as-is.
	RedirectNone RedirectPolicy = "none"
	// RedirectNormal follows redirects up to a small, Go-default depth.
	RedirectNormal RedirectPolicy = "normal"
	// RedirectAlways follows redirects without any depth limit.
	RedirectAlways RedirectPolicy = "always"
)

// Settings is the root configuration for httpvfs.
type Settings struct {
	Timeout  time.Duration  `mapstructure:"timeout"  yaml:"timeout"`
	Redirect RedirectPolicy `mapstructure:"redirect" yaml:"redirect"`
	Retry    RetryConfig    `mapstructure:"retry"    yaml:"retry"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"  yaml:"metrics"`
}

// RetryConfig controls the retry engine (spec section 3, "retry.*").
type RetryConfig struct {
	// MaxRetries is a non-negative cap on retry attempts; 0 means one try,
	// no retries.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`

	// RetryableHTTPCodes is the set of HTTP status codes treated as
	// transient.
	RetryableHTTPCodes []int `mapstructure:"retryable_http_codes" yaml:"retryable_http_codes"`

	// RetryableExceptions names the error variants (by the names used in
	// internal/retry.Classifier) whose presence anywhere in a failure's
	// cause chain makes the failure transient.
	RetryableExceptions []string `mapstructure:"retryable_exceptions" yaml:"retryable_exceptions"`

	// RetryableMessages is a set of substrings; any cause whose Error()
	// contains one of them is treated as transient.
	RetryableMessages []string `mapstructure:"retryable_messages" yaml:"retryable_messages"`

	// RetryPredicate is an optional user-supplied predicate over a cause,
	// additive to the built-in rules above. It is not serializable and so
	// is only ever set programmatically, never loaded from a file.
	RetryPredicate func(error) bool `mapstructure:"-" yaml:"-"`
}

// LoggingConfig holds logging settings, following the teacher's
// LoggingConfig shape. Validate checks Level and Format; no logger in this
// module is built from these fields.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// MetricsConfig holds the Prometheus metrics endpoint settings. Addr and
// Path are where the serve-metrics command listens; Enabled is read only by
// Validate.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr"    yaml:"addr"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultRetryableHTTPCodes are the status codes the spec calls out as
// retryable by default: 500, 502, 503.
func DefaultRetryableHTTPCodes() []int {
	return []int{500, 502, 503}
}

// DefaultRetryableExceptions are the built-in transient failure variants:
// TLS failure, unexpected EOF, socket-level failure, socket timeout. See
// internal/retry for the classifier that interprets these names.
func DefaultRetryableExceptions() []string {
	return []string{"tls-failure", "unexpected-eof", "socket-failure", "socket-timeout"}
}

// DefaultRetryableMessages are substrings treated as transient by default.
func DefaultRetryableMessages() []string {
	return []string{"protocol error:"}
}

// DefaultSettings returns a Settings with the defaults spec section 3 names.
func DefaultSettings() *Settings {
	return &Settings{
		Timeout:  30 * time.Second,
		Redirect: RedirectNormal,
		Retry: RetryConfig{
			MaxRetries:          3,
			RetryableHTTPCodes:  DefaultRetryableHTTPCodes(),
			RetryableExceptions: DefaultRetryableExceptions(),
			RetryableMessages:   DefaultRetryableMessages(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
			Path:    "/metrics",
		},
	}
}

// Clone returns a deep-enough copy of s for safe concurrent publication via
// Store.Swap: slice fields are copied so a caller mutating their own Settings
// afterward cannot race with a reader that already swapped it in.
func (s *Settings) Clone() *Settings {
	clone := *s
	clone.Retry.RetryableHTTPCodes = append([]int(nil), s.Retry.RetryableHTTPCodes...)
	clone.Retry.RetryableExceptions = append([]string(nil), s.Retry.RetryableExceptions...)
	clone.Retry.RetryableMessages = append([]string(nil), s.Retry.RetryableMessages...)
	return &clone
}
