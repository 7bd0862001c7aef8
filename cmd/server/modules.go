package main

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/vouch/internal/api"
	"github.com/JaimeStill/vouch/internal/config"
	"github.com/JaimeStill/vouch/internal/infrastructure"
	"github.com/JaimeStill/vouch/pkg/handlers"
	"github.com/JaimeStill/vouch/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

type readiness struct {
	Status string          `json:"status"`
	Checks map[string]bool `json:"checks"`
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ready, checks := infra.Lifecycle.Status()
		if !ready {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, readiness{Status: "not ready", Checks: checks})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, readiness{Status: "ready", Checks: checks})
	})

	router.Handle("GET /metrics", promhttp.HandlerFor(infra.Registry, promhttp.HandlerOpts{
		ErrorLog: slog.NewLogLogger(infra.Logger.With("system", "metrics").Handler(), slog.LevelError),
	}))

	return router
}
