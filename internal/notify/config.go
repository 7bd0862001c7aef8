package notify

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds outbound notification settings. With no URLs configured,
// messages are written to the log instead of being delivered.
type Config struct {
	URLs           []string `toml:"urls"`
	From           string   `toml:"from"`
	RecipientParam string   `toml:"recipient_param"`
	Timeout        string   `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	URLs           string
	From           string
	RecipientParam string
	Timeout        string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
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
	if overlay.URLs != nil {
		c.URLs = overlay.URLs
	}
	if overlay.From != "" {
		c.From = overlay.From
	}
	if overlay.RecipientParam != "" {
		c.RecipientParam = overlay.RecipientParam
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.From == "" {
		c.From = "Vouch"
	}
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.URLs != "" {
		if v := os.Getenv(env.URLs); v != "" {
			urls := strings.Split(v, ",")
			c.URLs = make([]string, 0, len(urls))
			for _, u := range urls {
				if trimmed := strings.TrimSpace(u); trimmed != "" {
					c.URLs = append(c.URLs, trimmed)
				}
			}
		}
	}
	if env.From != "" {
		if v := os.Getenv(env.From); v != "" {
			c.From = v
		}
	}
	if env.RecipientParam != "" {
		if v := os.Getenv(env.RecipientParam); v != "" {
			c.RecipientParam = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
