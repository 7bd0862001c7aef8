package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/JaimeStill/vouch/pkg/formatting"
	"github.com/JaimeStill/vouch/pkg/middleware"
	"github.com/JaimeStill/vouch/pkg/pagination"
)

const (
	EnvAPIBasePath      = "VOUCH_API_BASE_PATH"
	EnvAPIPublicURL     = "VOUCH_API_PUBLIC_URL"
	EnvAPIMaxBodySize   = "VOUCH_API_MAX_BODY_SIZE"
	EnvAPIVoteRateLimit = "VOUCH_API_VOTE_RATE_LIMIT"

	defaultMaxBodySize = 1024 * 1024
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "VOUCH_CORS_ENABLED",
	Origins:          "VOUCH_CORS_ORIGINS",
	AllowedMethods:   "VOUCH_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "VOUCH_CORS_ALLOWED_HEADERS",
	ExposedHeaders:   "VOUCH_CORS_EXPOSED_HEADERS",
	AllowCredentials: "VOUCH_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "VOUCH_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "VOUCH_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "VOUCH_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, request limits, CORS, and pagination settings.
type APIConfig struct {
	BasePath    string `toml:"base_path"`
	PublicURL   string `toml:"public_url"`
	MaxBodySize string `toml:"max_body_size"`
	// VoteRateLimit is the number of votes a caller may cast per minute. Zero disables the limit.
	VoteRateLimit *int                  `toml:"vote_rate_limit"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
}

// MaxBodySizeBytes returns MaxBodySize in bytes, falling back to 1MB.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return defaultMaxBodySize
	}
	return size
}

// VotesPerMinute returns the configured vote rate limit.
func (c *APIConfig) VotesPerMinute() int {
	if c.VoteRateLimit == nil {
		return 0
	}
	return *c.VoteRateLimit
}

// ConfirmURL returns the absolute URL of the review confirmation endpoint.
func (c *APIConfig) ConfirmURL() string {
	return strings.TrimRight(c.PublicURL, "/") + c.BasePath + "/reviews/confirm"
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.PublicURL != "" {
		c.PublicURL = overlay.PublicURL
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}
	if overlay.VoteRateLimit != nil {
		c.VoteRateLimit = overlay.VoteRateLimit
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.PublicURL == "" {
		c.PublicURL = "http://localhost:8080"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
	if c.VoteRateLimit == nil {
		limit := 30
		c.VoteRateLimit = &limit
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIPublicURL); v != "" {
		c.PublicURL = v
	}
	if v := os.Getenv(EnvAPIMaxBodySize); v != "" {
		c.MaxBodySize = v
	}
	if v := os.Getenv(EnvAPIVoteRateLimit); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			c.VoteRateLimit = &limit
		}
	}
}

func (c *APIConfig) validate() error {
	u, err := url.Parse(c.PublicURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid public_url: %q", c.PublicURL)
	}
	if c.VotesPerMinute() < 0 {
		return fmt.Errorf("invalid vote_rate_limit: %d", c.VotesPerMinute())
	}
	return nil
}
