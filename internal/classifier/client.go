package classifier

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/JaimeStill/vouch/internal/metrics"
)

const maxResponseBytes = 1 << 20

type request struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type response struct {
	Results     *int    `json:"results"`
	Probability float64 `json:"probability"`
}

// Client classifies text through the remote HTTP service.
type Client struct {
	endpoint string
	http     *http.Client
	cache    *cache.Cache
	logger   *slog.Logger
	metrics  *metrics.Moderation
}

// New returns the Classifier described by cfg: a Client when an endpoint is
// configured, otherwise Disabled.
func New(cfg *Config, logger *slog.Logger, m *metrics.Moderation) Classifier {
	if cfg.Endpoint == "" {
		logger.Warn("classifier endpoint not configured, all submissions require manual confirmation")
		return &Disabled{metrics: m}
	}
	return NewClient(cfg, logger, m)
}

// NewClient creates an HTTP classifier. Redirects are never followed.
func NewClient(cfg *Config, logger *slog.Logger, m *metrics.Moderation) *Client {
	c := &Client{
		endpoint: cfg.Endpoint,
		http: &http.Client{
			Timeout: cfg.TimeoutDuration(),
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger:  logger.With("system", "classifier"),
		metrics: m,
	}

	if ttl := cfg.CacheTTLDuration(); ttl > 0 {
		c.cache = cache.New(ttl, 2*ttl)
	}

	return c
}

// Classify returns the service verdict, or Fallback when the service cannot be
// consulted.
func (c *Client) Classify(ctx context.Context, title, body string) Result {
	key := cacheKey(title, body)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			c.metrics.RecordClassification(metrics.OutcomeCached, 0)
			return v.(Result)
		}
	}

	start := time.Now()
	result, err := c.call(ctx, title, body)
	elapsed := time.Since(start)

	if err != nil {
		c.logger.Warn("classification unavailable, using fallback", "error", err, "duration", elapsed)
		c.metrics.RecordClassification(metrics.OutcomeFallback, elapsed)
		return Fallback()
	}

	c.metrics.RecordClassification(metrics.OutcomeSuccess, elapsed)
	if c.cache != nil {
		c.cache.SetDefault(key, result)
	}
	return result
}

func (c *Client) call(ctx context.Context, title, body string) (Result, error) {
	payload, err := json.Marshal(request{Title: title, Text: body})
	if err != nil {
		return Result{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return Result{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}
	if out.Results == nil {
		return Result{}, errors.New("response missing results field")
	}

	return Result{
		Label:      LabelFromWire(*out.Results),
		Confidence: out.Probability,
	}, nil
}

func cacheKey(title, body string) string {
	h := sha256.New()
	h.Write([]byte(title))
	h.Write([]byte{0})
	h.Write([]byte(body))
	return hex.EncodeToString(h.Sum(nil))
}

// Disabled is used when no endpoint is configured. Every call yields Fallback.
type Disabled struct {
	metrics *metrics.Moderation
}

func (d *Disabled) Classify(context.Context, string, string) Result {
	d.metrics.RecordClassification(metrics.OutcomeDisabled, 0)
	return Fallback()
}
