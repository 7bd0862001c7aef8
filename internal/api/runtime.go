package api

import (
	"github.com/JaimeStill/vouch/internal/config"
	"github.com/JaimeStill/vouch/internal/infrastructure"
	"github.com/JaimeStill/vouch/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	ConfirmURL string
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle:  infra.Lifecycle,
			Logger:     infra.Logger.With("module", "api"),
			Database:   infra.Database,
			Registry:   infra.Registry,
			Metrics:    infra.Metrics,
			Classifier: infra.Classifier,
			Notifier:   infra.Notifier,
			Verifier:   infra.Verifier,
			Limiter:    infra.Limiter,
		},
		Pagination: cfg.API.Pagination,
		ConfirmURL: cfg.API.ConfirmURL(),
	}
}
