package config

import (
	"fmt"
	"os"
	"time"
)

const (
	// EnvFetchTimeout overrides the timeout for fetching documents by URL.
	EnvFetchTimeout = "FETCH_TIMEOUT"

	// EnvFetchUserAgent overrides the User-Agent sent when fetching documents by URL.
	EnvFetchUserAgent = "FETCH_USER_AGENT"
)

// FetchConfig configures outbound fetches for URL conversion.
type FetchConfig struct {
	Timeout   string `toml:"timeout"`
	UserAgent string `toml:"user_agent"`
}

// TimeoutDuration parses and returns the fetch timeout.
func (c *FetchConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the fetch configuration.
func (c *FetchConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *FetchConfig) Merge(overlay *FetchConfig) {
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.UserAgent != "" {
		c.UserAgent = overlay.UserAgent
	}
}

func (c *FetchConfig) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.UserAgent == "" {
		c.UserAgent = "AnyToMarkdown/1.0"
	}
}

func (c *FetchConfig) loadEnv() {
	if v := os.Getenv(EnvFetchTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvFetchUserAgent); v != "" {
		c.UserAgent = v
	}
}

func (c *FetchConfig) validate() error {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
