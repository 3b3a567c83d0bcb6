package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	// EnvAIProvider overrides the conversion binding backend.
	EnvAIProvider = "AI_PROVIDER"

	// EnvAIBaseURL overrides the backend API base URL.
	EnvAIBaseURL = "AI_BASE_URL"

	// EnvAIAccountID overrides the Cloudflare account identifier.
	EnvAIAccountID = "AI_ACCOUNT_ID"

	// EnvAIAPIToken overrides the backend API token.
	EnvAIAPIToken = "AI_API_TOKEN"

	// EnvAIModel overrides the model used by the openai and anthropic backends.
	EnvAIModel = "AI_MODEL"

	// EnvAIAgentConfig overrides the path to the go-agents JSON configuration.
	EnvAIAgentConfig = "AI_AGENT_CONFIG"

	// EnvAIMaxTokens overrides the completion token ceiling.
	EnvAIMaxTokens = "AI_MAX_TOKENS"

	// EnvAIMaxPages overrides the maximum number of PDF pages rendered per document.
	EnvAIMaxPages = "AI_MAX_PAGES"

	// EnvAIDPI overrides the PDF page rendering resolution.
	EnvAIDPI = "AI_DPI"
)

// Conversion binding backends.
const (
	ProviderCloudflare = "cloudflare"
	ProviderAgents     = "agents"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
)

// AIConfig selects and configures the AI conversion binding.
type AIConfig struct {
	Provider    string `toml:"provider"`
	BaseURL     string `toml:"base_url"`
	AccountID   string `toml:"account_id"`
	APIToken    string `toml:"api_token"`
	Model       string `toml:"model"`
	AgentConfig string `toml:"agent_config"`
	MaxTokens   int    `toml:"max_tokens"`
	MaxPages    int    `toml:"max_pages"`
	DPI         int    `toml:"dpi"`
}

// Finalize applies defaults, loads environment overrides, and validates the AI configuration.
func (c *AIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *AIConfig) Merge(overlay *AIConfig) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.AccountID != "" {
		c.AccountID = overlay.AccountID
	}
	if overlay.APIToken != "" {
		c.APIToken = overlay.APIToken
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.AgentConfig != "" {
		c.AgentConfig = overlay.AgentConfig
	}
	if overlay.MaxTokens > 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.MaxPages > 0 {
		c.MaxPages = overlay.MaxPages
	}
	if overlay.DPI > 0 {
		c.DPI = overlay.DPI
	}
}

func (c *AIConfig) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderCloudflare
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 8192
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 50
	}
	if c.DPI <= 0 {
		c.DPI = 150
	}
}

func (c *AIConfig) loadEnv() {
	if v := os.Getenv(EnvAIProvider); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvAIBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvAIAccountID); v != "" {
		c.AccountID = v
	}
	if v := os.Getenv(EnvAIAPIToken); v != "" {
		c.APIToken = v
	}
	if v := os.Getenv(EnvAIModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvAIAgentConfig); v != "" {
		c.AgentConfig = v
	}
	if v := os.Getenv(EnvAIMaxTokens); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTokens = n
		}
	}
	if v := os.Getenv(EnvAIMaxPages); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxPages = n
		}
	}
	if v := os.Getenv(EnvAIDPI); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DPI = n
		}
	}
}

func (c *AIConfig) validate() error {
	switch c.Provider {
	case ProviderCloudflare, ProviderAgents, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("invalid provider: %s (must be cloudflare, agents, openai, or anthropic)", c.Provider)
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("max_pages must be at least 1")
	}
	if c.DPI < 1 {
		return fmt.Errorf("dpi must be positive")
	}
	return nil
}
