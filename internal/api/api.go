// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/vouch/internal/config"
	"github.com/JaimeStill/vouch/internal/infrastructure"
	"github.com/JaimeStill/vouch/pkg/auth"
	"github.com/JaimeStill/vouch/pkg/middleware"
	"github.com/JaimeStill/vouch/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Middleware runs in registration order: request id, panic recovery, access
// logging, CORS, body limits, and actor resolution.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.RequestID())
	m.Use(middleware.Recovery(runtime.Logger))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.MaxBody(cfg.API.MaxBodySizeBytes()))
	m.Use(auth.Middleware(runtime.Verifier, runtime.Logger))

	return m, nil
}
