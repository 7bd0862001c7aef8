// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, metrics, classification,
// notification, authentication) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JaimeStill/vouch/internal/classifier"
	"github.com/JaimeStill/vouch/internal/config"
	"github.com/JaimeStill/vouch/internal/metrics"
	"github.com/JaimeStill/vouch/internal/notify"
	"github.com/JaimeStill/vouch/pkg/auth"
	"github.com/JaimeStill/vouch/pkg/database"
	"github.com/JaimeStill/vouch/pkg/lifecycle"
	"github.com/JaimeStill/vouch/pkg/middleware"
)

const limiterIdleTTL = 10 * time.Minute

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, metrics, and outbound integrations.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Database   database.System
	Registry   *prometheus.Registry
	Metrics    *metrics.Moderation
	Classifier classifier.Classifier
	Notifier   notify.Sender
	Verifier   *auth.Verifier
	Limiter    *middleware.RateLimiter
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m, err := metrics.NewModeration(registry)
	if err != nil {
		return nil, fmt.Errorf("metrics init failed: %w", err)
	}

	notifier, err := notify.New(&cfg.Notify, logger)
	if err != nil {
		return nil, fmt.Errorf("notifier init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle:  lc,
		Logger:     logger,
		Database:   db,
		Registry:   registry,
		Metrics:    m,
		Classifier: classifier.New(&cfg.Classifier, logger, m),
		Notifier:   notifier,
		Verifier:   auth.NewVerifier(&cfg.Auth),
		Limiter:    middleware.NewRateLimiter(limiterIdleTTL),
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// The database pings on startup and closes its pool on shutdown.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}

	return nil
}
