// Package infrastructure assembles the core systems the conversion service depends on.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/anytomarkdown/internal/ai"
	"github.com/JaimeStill/anytomarkdown/internal/config"
	"github.com/JaimeStill/anytomarkdown/internal/lifecycle"
	"github.com/JaimeStill/anytomarkdown/internal/storage"
	"github.com/JaimeStill/anytomarkdown/pkg/logging"
)

// Infrastructure holds lifecycle coordination, logging, scratch storage, and the AI binding.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Storage   storage.System
	Binding   ai.Binding
}

// New creates an Infrastructure from the application configuration.
// Systems are constructed but not started; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := logging.New(&cfg.Logging)
	return NewWithLogger(cfg, logger)
}

// NewWithLogger creates an Infrastructure that logs through logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	lc := lifecycle.New()

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	binding, err := ai.New(&cfg.AI, store, logger)
	if err != nil {
		return nil, fmt.Errorf("ai binding init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Storage:   store,
		Binding:   binding,
	}, nil
}

// Start registers infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
