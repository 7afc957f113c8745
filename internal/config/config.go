// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"time"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// UpstreamURL is the primary score-table endpoint.
	UpstreamURL string `koanf:"upstream_url"`

	// FallbackURL is tried once when the primary fetch fails. Optional.
	FallbackURL string `koanf:"fallback_url"`

	// PollInterval is the table refresh cadence.
	PollInterval time.Duration `koanf:"poll_interval"`

	// FetchTimeout bounds a single upstream request.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// TopN caps how many subsets a summary shows before folding the rest
	// into per-size overflow buckets.
	TopN int `koanf:"top_n"`

	// DefaultMetric selects the bar metric when a request names none:
	// pts, weight, or sum.
	DefaultMetric string `koanf:"default_metric"`

	// FingerprintCacheSize bounds the seen-payload digest cache.
	FingerprintCacheSize int `koanf:"fingerprint_cache_size"`

	// FingerprintTTL is how long a payload digest stays recorded.
	FingerprintTTL time.Duration `koanf:"fingerprint_ttl"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":8090",
		UpstreamURL:          "http://localhost:9100/api/table",
		FallbackURL:          "",
		PollInterval:         15 * time.Second,
		FetchTimeout:         10 * time.Second,
		TopN:                 24,
		DefaultMetric:        "sum",
		FingerprintCacheSize: 1024,
		FingerprintTTL:       30 * time.Minute,
	}
}
