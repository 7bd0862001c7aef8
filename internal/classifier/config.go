package classifier

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config holds classification service settings. An empty Endpoint disables
// remote classification.
type Config struct {
	Endpoint string `toml:"endpoint"`
	Timeout  string `toml:"timeout"`
	CacheTTL string `toml:"cache_ttl"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Endpoint string
	Timeout  string
	CacheTTL string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// CacheTTLDuration returns CacheTTL as a time.Duration. Zero disables caching.
func (c *Config) CacheTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.CacheTTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.CacheTTL != "" {
		c.CacheTTL = overlay.CacheTTL
	}
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "5s"
	}
	if c.CacheTTL == "" {
		c.CacheTTL = "0s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.CacheTTL != "" {
		if v := os.Getenv(env.CacheTTL); v != "" {
			c.CacheTTL = v
		}
	}
}

func (c *Config) validate() error {
	if d, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	} else if d <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if d, err := time.ParseDuration(c.CacheTTL); err != nil {
		return fmt.Errorf("invalid cache_ttl: %w", err)
	} else if d < 0 {
		return fmt.Errorf("cache_ttl cannot be negative")
	}
	if c.Endpoint != "" {
		u, err := url.Parse(c.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("endpoint must be an absolute http(s) URL: %q", c.Endpoint)
		}
	}
	return nil
}
