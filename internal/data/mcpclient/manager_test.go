package mcpclient_test

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/data/mcpclient"
)

// catPath locates a stdio echo loop to stand in for a real MCP tool
// server, per the policy of never shelling out to an unavailable binary
// in tests.
func catPath(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("cat")
	if err != nil {
		t.Skip("cat not available in this environment")
	}
	return path
}

func TestStartupConnectsEnabledServers(t *testing.T) {
	cfg := mcpclient.ServerConfig{
		ID:      "echo",
		Name:    "Echo Server",
		Command: catPath(t),
		Enabled: true,
	}
	m := mcpclient.NewManager(zap.NewNop(), []mcpclient.ServerConfig{cfg}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.Startup(ctx); err != nil {
		t.Fatalf("unexpected startup error: %v", err)
	}

	statuses := m.Statuses()
	if len(statuses) != 1 {
		t.Fatalf("expected 1 status, got %d", len(statuses))
	}
	if statuses[0].Status != "connected" {
		t.Fatalf("expected connected status, got %q (err=%q)", statuses[0].Status, statuses[0].Error)
	}

	if err := m.Shutdown(); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
	for _, s := range m.Statuses() {
		if s.Status != "disconnected" {
			t.Fatalf("expected disconnected after shutdown, got %q", s.Status)
		}
	}
}

func TestStartupSkipsDisabledServers(t *testing.T) {
	cfg := mcpclient.ServerConfig{ID: "disabled", Name: "Disabled", Command: catPath(t), Enabled: false}
	m := mcpclient.NewManager(zap.NewNop(), []mcpclient.ServerConfig{cfg}, nil)

	ctx := context.Background()
	if err := m.Startup(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	statuses := m.Statuses()
	if statuses[0].Status != "disconnected" {
		t.Fatalf("expected a disabled server to stay disconnected, got %q", statuses[0].Status)
	}
}

func TestCallToolAgainstUnconnectedServerFails(t *testing.T) {
	m := mcpclient.NewManager(zap.NewNop(), nil, nil)
	result := m.CallTool(context.Background(), "missing", "some_tool", nil)
	if result.Success {
		t.Fatal("expected failure against an unconnected server")
	}
}

func TestCallToolEchoesRequestThroughStdio(t *testing.T) {
	cfg := mcpclient.ServerConfig{ID: "echo", Name: "Echo Server", Command: catPath(t), Enabled: true}
	m := mcpclient.NewManager(zap.NewNop(), []mcpclient.ServerConfig{cfg}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.Startup(ctx); err != nil {
		t.Fatalf("unexpected startup error: %v", err)
	}
	defer m.Shutdown()

	result := m.CallTool(ctx, "echo", "get_stock_info", map[string]any{"symbol": "AAPL"})
	if !result.Success {
		t.Fatalf("expected a successful round trip, got error %q", result.Error)
	}
	if result.Data == nil {
		t.Fatal("expected echoed data back")
	}
}

func TestCallToolWithFallbackSkipsUnconnectedServers(t *testing.T) {
	m := mcpclient.NewManager(zap.NewNop(), nil, mcpclient.FallbackPriority{
		"quote": {"nonexistent"},
	})
	_, ok := m.CallToolWithFallback(context.Background(), "quote", "quote", nil)
	if ok {
		t.Fatal("expected fallback to report no success when no server is connected")
	}
}
