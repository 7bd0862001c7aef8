package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaimeStill/vouch/internal/config"
	"github.com/JaimeStill/vouch/internal/infrastructure"
	"github.com/JaimeStill/vouch/pkg/lifecycle"
)

type Server struct {
	infra           *infrastructure.Infrastructure
	http            *httpServer
	shutdownTimeout time.Duration
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	return &Server{
		infra:           infra,
		http:            newHTTPServer(&cfg.Server, router, infra.Logger),
		shutdownTimeout: cfg.ShutdownTimeoutDuration(),
	}, nil
}

// Run starts every subsystem, blocks until ctx is done, then drains them within
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Shutdown(s.shutdownTimeout)
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		logReadiness(s.infra.Logger, s.infra.Lifecycle)
	}()

	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown", "timeout", timeout)
	return s.infra.Lifecycle.Shutdown(timeout)
}

func logReadiness(logger *slog.Logger, lc *lifecycle.Coordinator) {
	ready, checks := lc.Status()
	args := make([]any, 0, 2+2*len(checks))
	args = append(args, "ready", ready)
	for name, ok := range checks {
		args = append(args, name, ok)
	}

	if ready {
		logger.Info("startup complete", args...)
		return
	}
	logger.Warn("startup complete with unready subsystems", args...)
}
