package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/draftforge/draftforge/content"
	"github.com/draftforge/draftforge/engine"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Model.Endpoints) != 1 {
		t.Fatalf("expected 1 default endpoint, got %d", len(cfg.Model.Endpoints))
	}
	if cfg.Model.Endpoints[0].Provider != "openai" {
		t.Errorf("expected openai provider, got %s", cfg.Model.Endpoints[0].Provider)
	}
	if cfg.Engine.MaxRetries[content.StageWrite] != 2 {
		t.Errorf("expected 2 write retries, got %d", cfg.Engine.MaxRetries[content.StageWrite])
	}
	if cfg.Gates == nil {
		t.Fatal("expected default gate configuration")
	}
	if cfg.Poll.IdleInterval != 30*time.Second {
		t.Errorf("expected 30s idle interval, got %v", cfg.Poll.IdleInterval)
	}
	if cfg.Metrics.Enabled {
		t.Error("metrics should be off by default")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "no endpoints",
			modify:  func(c *Config) { c.Model.Endpoints = nil },
			wantErr: true,
		},
		{
			name:    "endpoint without model",
			modify:  func(c *Config) { c.Model.Endpoints[0].Model = "" },
			wantErr: true,
		},
		{
			name:    "zero model timeout",
			modify:  func(c *Config) { c.Model.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "negative stage retries",
			modify:  func(c *Config) { c.Engine.MaxRetries[content.StageResearch] = -1 },
			wantErr: true,
		},
		{
			name:    "nil gates",
			modify:  func(c *Config) { c.Gates = nil },
			wantErr: true,
		},
		{
			name:    "incomplete gate table",
			modify:  func(c *Config) { delete(c.Gates.Writing, content.GoalEducational) },
			wantErr: true,
		},
		{
			name:    "zero search results",
			modify:  func(c *Config) { c.Search.MaxResults = 0 },
			wantErr: true,
		},
		{
			name:    "zero poll interval",
			modify:  func(c *Config) { c.Poll.IdleInterval = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSecrets(t *testing.T) {
	t.Setenv(EnvNotionToken, "secret")
	t.Setenv(EnvTavilyKey, "tavily")
	t.Setenv(EnvOpenRouterKey, "router")
	t.Setenv(EnvOpenAIKey, "")
	t.Setenv(EnvAnthropicKey, "")

	cfg := DefaultConfig()
	cfg.Notion.DatabaseID = "db-1"

	if err := cfg.ValidateSecrets(); err != nil {
		t.Errorf("ValidateSecrets() error = %v", err)
	}

	t.Run("missing notion token", func(t *testing.T) {
		t.Setenv(EnvNotionToken, "")
		if err := cfg.ValidateSecrets(); err == nil {
			t.Error("expected error for missing notion token")
		}
	})

	t.Run("missing database id", func(t *testing.T) {
		bad := DefaultConfig()
		if err := bad.ValidateSecrets(); err == nil {
			t.Error("expected error for missing database id")
		}
	})

	t.Run("anthropic endpoint needs key", func(t *testing.T) {
		withAnthropic := DefaultConfig()
		withAnthropic.Notion.DatabaseID = "db-1"
		withAnthropic.Model.Endpoints = []EndpointConfig{
			{Provider: "anthropic", Model: "claude-test"},
		}
		if err := withAnthropic.ValidateSecrets(); err == nil {
			t.Error("expected error for missing anthropic key")
		}
	})
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
model:
  endpoints:
    - provider: ollama
      model: llama3
      url: http://test:11434/v1
  timeout: 10m
engine:
  max_retries:
    research: 1
    write: 3
  timeout_policy: retry
notion:
  database_id: db-test
search:
  max_results: 8
poll:
  idle_interval: 1m
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Model.Endpoints[0].Model != "llama3" {
		t.Errorf("expected model llama3, got %s", cfg.Model.Endpoints[0].Model)
	}
	if cfg.Model.Timeout != 10*time.Minute {
		t.Errorf("expected timeout 10m, got %v", cfg.Model.Timeout)
	}
	if cfg.Engine.MaxRetries["write"] != 3 {
		t.Errorf("expected 3 write retries, got %d", cfg.Engine.MaxRetries["write"])
	}
	if cfg.Engine.TimeoutPolicy != engine.TimeoutRetry {
		t.Errorf("expected retry timeout policy, got %s", cfg.Engine.TimeoutPolicy)
	}
	if cfg.Notion.DatabaseID != "db-test" {
		t.Errorf("expected database db-test, got %s", cfg.Notion.DatabaseID)
	}
	if cfg.Search.MaxResults != 8 {
		t.Errorf("expected 8 search results, got %d", cfg.Search.MaxResults)
	}
	if cfg.Poll.IdleInterval != time.Minute {
		t.Errorf("expected 1m idle interval, got %v", cfg.Poll.IdleInterval)
	}
	// Unset sections keep defaults.
	if cfg.Poll.ActiveInterval != 5*time.Second {
		t.Errorf("expected default active interval, got %v", cfg.Poll.ActiveInterval)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Model: ModelConfig{
			Endpoints: []EndpointConfig{{Provider: "ollama", Model: "llama3"}},
		},
		Notion: NotionConfig{DatabaseID: "db-override"},
	}

	base.Merge(override)

	if base.Model.Endpoints[0].Model != "llama3" {
		t.Errorf("expected endpoint override, got %s", base.Model.Endpoints[0].Model)
	}
	// Timeout remains from base since override didn't set it.
	if base.Model.Timeout != 3*time.Minute {
		t.Errorf("expected timeout to remain default, got %v", base.Model.Timeout)
	}
	if base.Notion.DatabaseID != "db-override" {
		t.Errorf("expected database db-override, got %s", base.Notion.DatabaseID)
	}
	if base.Notion.CheckpointPath != ".last_processed" {
		t.Errorf("expected checkpoint path to remain default, got %s", base.Notion.CheckpointPath)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Notion.DatabaseID = "db-saved"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Notion.DatabaseID != "db-saved" {
		t.Errorf("expected database db-saved, got %s", loaded.Notion.DatabaseID)
	}
}
