package ai

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/anytomarkdown/internal/config"
	"github.com/JaimeStill/anytomarkdown/internal/storage"
)

const cloudflareTimeout = 2 * time.Minute

// New creates the Binding selected by cfg.Provider.
// The store stages PDFs for page rendering in vision-capable backends.
func New(cfg *config.AIConfig, store storage.System, logger *slog.Logger) (Binding, error) {
	logger = logger.With("system", "ai", "provider", cfg.Provider)

	switch cfg.Provider {
	case config.ProviderCloudflare:
		return newCloudflareBinding(cfg.BaseURL, cfg.AccountID, cfg.APIToken, cloudflareTimeout, logger)

	case config.ProviderAgents:
		agentCfg, err := LoadAgentConfig(cfg.AgentConfig)
		if err != nil {
			return nil, err
		}
		m, err := newAgentsModel(agentCfg, cfg.MaxTokens)
		if err != nil {
			return nil, err
		}
		return newTranscribeBinding(cfg.Provider, m, true, store, cfg, logger), nil

	case config.ProviderOpenAI:
		m, err := newOpenAIModel(cfg.BaseURL, cfg.APIToken, cfg.Model, cfg.MaxTokens)
		if err != nil {
			return nil, err
		}
		return newTranscribeBinding(cfg.Provider, m, true, store, cfg, logger), nil

	case config.ProviderAnthropic:
		m, err := newAnthropicModel(cfg.BaseURL, cfg.APIToken, cfg.Model, cfg.MaxTokens)
		if err != nil {
			return nil, err
		}
		return newTranscribeBinding(cfg.Provider, m, false, nil, cfg, logger), nil

	default:
		return nil, fmt.Errorf("unknown ai provider: %s", cfg.Provider)
	}
}

func newTranscribeBinding(name string, m transcriber, vision bool, store storage.System, cfg *config.AIConfig, logger *slog.Logger) *transcribeBinding {
	b := &transcribeBinding{
		name:   name,
		model:  m,
		vision: vision,
		logger: logger,
	}
	if vision && store != nil {
		b.renderer = newPDFRenderer(store, cfg.DPI, cfg.MaxPages, logger)
	}
	return b
}
