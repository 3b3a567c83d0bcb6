package main

import (
	"time"

	"github.com/JaimeStill/anytomarkdown/internal/api"
	"github.com/JaimeStill/anytomarkdown/internal/config"
	"github.com/JaimeStill/anytomarkdown/internal/conversion"
	"github.com/JaimeStill/anytomarkdown/internal/infrastructure"
	"github.com/JaimeStill/anytomarkdown/internal/server"
)

// Server coordinates the lifecycle of all subsystems.
type Server struct {
	infra *infrastructure.Infrastructure
	http  server.System
}

// NewServer creates and initializes the service with all subsystems.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	conv := conversion.New(infra.Binding, conversion.NewPolicy(&cfg.Admission), infra.Logger)

	handler, err := api.NewHandler(cfg, conv, infra.Lifecycle, infra.Logger)
	if err != nil {
		return nil, err
	}

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"provider", cfg.AI.Provider,
	)

	return &Server{
		infra: infra,
		http:  server.New(&cfg.Server, handler, infra.Logger),
	}, nil
}

// Start begins all subsystems and returns once the listener is bound.
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
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown gracefully stops all subsystems within timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
