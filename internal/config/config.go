// Package config loads the service configuration from TOML files and
// VOUCH_ environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/vouch/internal/classifier"
	"github.com/JaimeStill/vouch/internal/notify"
	"github.com/JaimeStill/vouch/pkg/auth"
	"github.com/JaimeStill/vouch/pkg/database"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvVouchEnv             = "VOUCH_ENV"
	EnvVouchShutdownTimeout = "VOUCH_SHUTDOWN_TIMEOUT"
	EnvVouchVersion         = "VOUCH_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "VOUCH_DB_HOST",
	Port:            "VOUCH_DB_PORT",
	Name:            "VOUCH_DB_NAME",
	User:            "VOUCH_DB_USER",
	Password:        "VOUCH_DB_PASSWORD",
	SSLMode:         "VOUCH_DB_SSL_MODE",
	MaxOpenConns:    "VOUCH_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "VOUCH_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "VOUCH_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "VOUCH_DB_CONN_TIMEOUT",
}

var classifierEnv = &classifier.Env{
	Endpoint: "VOUCH_CLASSIFIER_ENDPOINT",
	Timeout:  "VOUCH_CLASSIFIER_TIMEOUT",
	CacheTTL: "VOUCH_CLASSIFIER_CACHE_TTL",
}

var authEnv = &auth.Env{
	Secret: "VOUCH_AUTH_SECRET",
	Issuer: "VOUCH_AUTH_ISSUER",
}

var notifyEnv = &notify.Env{
	URLs:           "VOUCH_NOTIFY_URLS",
	From:           "VOUCH_NOTIFY_FROM",
	RecipientParam: "VOUCH_NOTIFY_RECIPIENT_PARAM",
	Timeout:        "VOUCH_NOTIFY_TIMEOUT",
}

// Config is the root configuration for the Vouch service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	API             APIConfig         `toml:"api"`
	Classifier      classifier.Config `toml:"classifier"`
	Auth            auth.Config       `toml:"auth"`
	Notify          notify.Config     `toml:"notify"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the VOUCH_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvVouchEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.API.Merge(&overlay.API)
	c.Classifier.Merge(&overlay.Classifier)
	c.Auth.Merge(&overlay.Auth)
	c.Notify.Merge(&overlay.Notify)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Classifier.Finalize(classifierEnv); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Notify.Finalize(notifyEnv); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvVouchShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvVouchVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvVouchEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
