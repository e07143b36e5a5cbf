package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atlas-desktop/trading-backend/internal/config"
)

func TestLoadFallsBackToDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Provider.Primary != "mock" {
		t.Fatalf("expected default primary provider mock, got %q", cfg.Provider.Primary)
	}
}

func TestLoadReadsYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  port: 9999\nprovider:\n  primary: yahoo\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Fatalf("expected port 9999 from file, got %d", cfg.Server.Port)
	}
	if cfg.Provider.Primary != "yahoo" {
		t.Fatalf("expected primary provider yahoo, got %q", cfg.Provider.Primary)
	}
}

func TestLoadAppliesEnvironmentOverride(t *testing.T) {
	t.Setenv("ATLAS_SERVER_PORT", "7777")
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Fatalf("expected env override to win with port 7777, got %d", cfg.Server.Port)
	}
}

func TestLoadMCPServersReturnsEmptyConfigForMissingFile(t *testing.T) {
	servers, priority, err := config.LoadMCPServers(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(servers) != 0 {
		t.Fatalf("expected no servers, got %d", len(servers))
	}
	if len(priority) != 0 {
		t.Fatalf("expected no fallback priority entries, got %d", len(priority))
	}
}

func TestLoadMCPServersParsesFileAndExpandsEnv(t *testing.T) {
	t.Setenv("YAHOO_API_KEY", "secret123")
	path := filepath.Join(t.TempDir(), "mcp_servers.yaml")
	content := `
mcp_servers:
  yahoo:
    name: "Yahoo Finance"
    command: "yahoo-mcp-server"
    args: ["--stdio"]
    env:
      API_KEY: "${YAHOO_API_KEY}"
    enabled: true
    capabilities: ["quote", "price_history"]
    tool_mappings:
      get_quote: "get_stock_info"
fallback_priority:
  quote:
    - yahoo
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	servers, priority, err := config.LoadMCPServers(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(servers) != 1 {
		t.Fatalf("expected 1 server, got %d", len(servers))
	}
	found := false
	for _, e := range servers[0].Env {
		if e == "API_KEY=secret123" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected API_KEY to expand to secret123, got %v", servers[0].Env)
	}
	if len(priority["quote"]) != 1 || priority["quote"][0] != "yahoo" {
		t.Fatalf("expected fallback priority quote -> [yahoo], got %v", priority["quote"])
	}
}
