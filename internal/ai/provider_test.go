package ai_test

import (
	"testing"

	"github.com/JaimeStill/anytomarkdown/internal/ai"
	"github.com/JaimeStill/anytomarkdown/internal/config"
	"github.com/JaimeStill/anytomarkdown/pkg/logging"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.AIConfig
		wantErr bool
	}{
		{"cloudflare", config.AIConfig{Provider: config.ProviderCloudflare, AccountID: "acct", APIToken: "tok"}, false},
		{"cloudflare missing account", config.AIConfig{Provider: config.ProviderCloudflare, APIToken: "tok"}, true},
		{"openai", config.AIConfig{Provider: config.ProviderOpenAI, APIToken: "tok", MaxTokens: 100, DPI: 72, MaxPages: 5}, false},
		{"openai missing token", config.AIConfig{Provider: config.ProviderOpenAI}, true},
		{"anthropic", config.AIConfig{Provider: config.ProviderAnthropic, APIToken: "tok", MaxTokens: 100}, false},
		{"agents missing config file", config.AIConfig{Provider: config.ProviderAgents, AgentConfig: "does-not-exist.json"}, true},
		{"unknown", config.AIConfig{Provider: "bogus"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ai.New(&tt.cfg, nil, logging.Discard())
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if b == nil {
				t.Error("New() returned nil binding")
			}
		})
	}
}
