package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/JaimeStill/go-agents/pkg/agent"
	agtconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// agentsModel adapts a go-agents agent to the transcriber surface.
type agentsModel struct {
	chat   func(ctx context.Context, prompt string, opts map[string]any) (string, error)
	vision func(ctx context.Context, prompt string, images []string, opts map[string]any) (string, error)
	opts   map[string]any
}

// LoadAgentConfig reads a go-agents JSON configuration and merges it over the library defaults.
func LoadAgentConfig(path string) (*agtconfig.AgentConfig, error) {
	cfg := agtconfig.DefaultAgentConfig()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agent config: %w", err)
	}

	var userCfg agtconfig.AgentConfig
	if err := json.Unmarshal(data, &userCfg); err != nil {
		return nil, fmt.Errorf("parse agent config: %w", err)
	}

	cfg.Merge(&userCfg)
	return &cfg, nil
}

func newAgentsModel(cfg *agtconfig.AgentConfig, maxTokens int) (*agentsModel, error) {
	a, err := agent.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	return &agentsModel{
		chat: func(ctx context.Context, prompt string, opts map[string]any) (string, error) {
			resp, err := a.Chat(ctx, prompt, opts)
			if err != nil {
				return "", err
			}
			return resp.Content(), nil
		},
		vision: func(ctx context.Context, prompt string, images []string, opts map[string]any) (string, error) {
			resp, err := a.Vision(ctx, prompt, images, opts)
			if err != nil {
				return "", err
			}
			return resp.Content(), nil
		},
		opts: map[string]any{"max_tokens": maxTokens},
	}, nil
}

func (m *agentsModel) Text(ctx context.Context, prompt string) (Completion, error) {
	content, err := m.chat(ctx, prompt, m.opts)
	if err != nil {
		return Completion{}, err
	}
	return Completion{Content: content, Tokens: estimateTokens(prompt, content)}, nil
}

func (m *agentsModel) Vision(ctx context.Context, prompt string, images []string) (Completion, error) {
	content, err := m.vision(ctx, prompt, images, m.opts)
	if err != nil {
		return Completion{}, err
	}
	return Completion{Content: content, Tokens: estimateTokens(prompt, content)}, nil
}
