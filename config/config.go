// Package config provides configuration loading and management for
// draftforge.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/draftforge/draftforge/content"
	"github.com/draftforge/draftforge/engine"
	"github.com/draftforge/draftforge/gate"
	"github.com/draftforge/draftforge/llm"
	"github.com/draftforge/draftforge/runner"
)

// Environment variables carrying secrets. Secrets never live in config
// files.
const (
	EnvNotionToken   = "NOTION_TOKEN"
	EnvTavilyKey     = "TAVILY_API_KEY"
	EnvSlackWebhook  = "SLACK_WEBHOOK_URL"
	EnvAnthropicKey  = "ANTHROPIC_API_KEY"
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvOpenRouterKey = "OPENROUTER_API_KEY"
)

// Config is the complete draftforge configuration.
type Config struct {
	Model   ModelConfig       `yaml:"model"`
	Engine  engine.Config     `yaml:"engine"`
	Gates   *gate.Config      `yaml:"gates"`
	Search  SearchConfig      `yaml:"search"`
	Notion  NotionConfig      `yaml:"notion"`
	Metrics MetricsConfig     `yaml:"metrics"`
	Poll    runner.PollConfig `yaml:"poll"`
}

// EndpointConfig describes one generation endpoint in the fallback
// chain.
type EndpointConfig struct {
	// Provider is a registered provider name ("anthropic", "openai", "ollama").
	Provider string `yaml:"provider"`
	// Model is the provider-specific model identifier.
	Model string `yaml:"model"`
	// URL overrides the provider's default base URL.
	URL string `yaml:"url"`
	// MaxTokens is the default completion budget for this endpoint.
	MaxTokens int `yaml:"max_tokens"`
}

// ModelConfig configures the generation client.
type ModelConfig struct {
	// Endpoints is the fallback chain, tried in order.
	Endpoints []EndpointConfig `yaml:"endpoints"`
	// Timeout is the maximum time to wait for one generation response.
	Timeout time.Duration `yaml:"timeout"`
}

// LLMEndpoints maps the configured chain onto client endpoints.
func (m ModelConfig) LLMEndpoints() []llm.Endpoint {
	endpoints := make([]llm.Endpoint, len(m.Endpoints))
	for i, ep := range m.Endpoints {
		endpoints[i] = llm.Endpoint{
			Provider:  ep.Provider,
			Model:     ep.Model,
			URL:       ep.URL,
			MaxTokens: ep.MaxTokens,
		}
	}
	return endpoints
}

// SearchConfig configures the web search client.
type SearchConfig struct {
	// Depth is the search depth ("basic" or "advanced").
	Depth string `yaml:"depth"`
	// MaxResults is how many hits feed research synthesis.
	MaxResults int `yaml:"max_results"`
}

// NotionConfig configures the work-item database.
type NotionConfig struct {
	// DatabaseID is the content pipeline database.
	DatabaseID string `yaml:"database_id"`
	// CheckpointPath is where the last-processed timestamp persists.
	CheckpointPath string `yaml:"checkpoint_path"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled turns the /metrics listener on.
	Enabled bool `yaml:"enabled"`
	// Addr is the listen address.
	Addr string `yaml:"addr"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Endpoints: []EndpointConfig{
				{Provider: "openai", Model: "anthropic/claude-3.5-sonnet", URL: "https://openrouter.ai/api/v1", MaxTokens: 4096},
			},
			Timeout: 3 * time.Minute,
		},
		Engine: engine.DefaultConfig(),
		Gates:  gate.DefaultConfig(),
		Search: SearchConfig{
			Depth:      "advanced",
			MaxResults: 5,
		},
		Notion: NotionConfig{
			CheckpointPath: ".last_processed",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
		},
		Poll: runner.DefaultPollConfig(),
	}
}

// Validate checks that the configuration is complete and coherent.
func (c *Config) Validate() error {
	if len(c.Model.Endpoints) == 0 {
		return fmt.Errorf("model.endpoints must list at least one endpoint")
	}
	for i, ep := range c.Model.Endpoints {
		if ep.Provider == "" {
			return fmt.Errorf("model.endpoints[%d].provider is required", i)
		}
		if ep.Model == "" {
			return fmt.Errorf("model.endpoints[%d].model is required", i)
		}
	}
	if c.Model.Timeout <= 0 {
		return fmt.Errorf("model.timeout must be positive")
	}

	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	if c.Gates == nil {
		return fmt.Errorf("gates configuration is required")
	}
	if err := c.Gates.Validate(); err != nil {
		return fmt.Errorf("gates: %w", err)
	}

	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive")
	}

	if err := c.Poll.Validate(); err != nil {
		return fmt.Errorf("poll: %w", err)
	}

	return nil
}

// ValidateSecrets confirms the environment carries every credential
// the configured collaborators need. Called at startup so missing
// credentials fail the process before any run starts.
func (c *Config) ValidateSecrets() error {
	if os.Getenv(EnvNotionToken) == "" {
		return fmt.Errorf("%s is required", EnvNotionToken)
	}
	if c.Notion.DatabaseID == "" {
		return fmt.Errorf("notion.database_id is required")
	}
	if os.Getenv(EnvTavilyKey) == "" {
		return fmt.Errorf("%s is required", EnvTavilyKey)
	}

	for _, ep := range c.Model.Endpoints {
		switch ep.Provider {
		case "anthropic":
			if os.Getenv(EnvAnthropicKey) == "" {
				return fmt.Errorf("%s is required for the anthropic endpoint", EnvAnthropicKey)
			}
		case "openai":
			if os.Getenv(EnvOpenAIKey) == "" && os.Getenv(EnvOpenRouterKey) == "" {
				return fmt.Errorf("%s or %s is required for the openai endpoint", EnvOpenAIKey, EnvOpenRouterKey)
			}
		}
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file on top of
// defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence
// for non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if len(other.Model.Endpoints) > 0 {
		c.Model.Endpoints = other.Model.Endpoints
	}
	if other.Model.Timeout != 0 {
		c.Model.Timeout = other.Model.Timeout
	}

	for _, stage := range []content.Stage{content.StageResearch, content.StageWrite} {
		if v, ok := other.Engine.MaxRetries[stage]; ok {
			c.Engine.MaxRetries[stage] = v
		}
	}
	if other.Engine.StageTimeout != 0 {
		c.Engine.StageTimeout = other.Engine.StageTimeout
	}
	if other.Engine.TimeoutPolicy != "" {
		c.Engine.TimeoutPolicy = other.Engine.TimeoutPolicy
	}

	if other.Gates != nil {
		c.Gates = other.Gates
	}

	if other.Search.Depth != "" {
		c.Search.Depth = other.Search.Depth
	}
	if other.Search.MaxResults != 0 {
		c.Search.MaxResults = other.Search.MaxResults
	}

	if other.Notion.DatabaseID != "" {
		c.Notion.DatabaseID = other.Notion.DatabaseID
	}
	if other.Notion.CheckpointPath != "" {
		c.Notion.CheckpointPath = other.Notion.CheckpointPath
	}

	if other.Metrics.Enabled {
		c.Metrics.Enabled = true
	}
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}

	if other.Poll.ActiveInterval != 0 {
		c.Poll.ActiveInterval = other.Poll.ActiveInterval
	}
	if other.Poll.IdleInterval != 0 {
		c.Poll.IdleInterval = other.Poll.IdleInterval
	}
}
