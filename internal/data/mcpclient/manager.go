// Package mcpclient manages external MCP tool-server subprocesses over
// stdio: launching them, tracking connection status, calling tools, and
// walking a fallback priority list when a primary server's tool call
// fails. Every launched subprocess's stdio pipes are tracked as
// io.Closers and released in reverse order on Shutdown, the Go shape of
// the original's AsyncExitStack.
package mcpclient

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ServerConfig describes one external tool server to launch.
type ServerConfig struct {
	ID           string
	Name         string
	Command      string
	Args         []string
	Env          []string
	Enabled      bool
	Capabilities []string
	ToolMappings map[string]string
}

// ServerStatus is the current connection state of one configured server.
type ServerStatus struct {
	ID            string
	Name          string
	Enabled       bool
	Status        string // disconnected | connecting | connected | error
	Capabilities  []string
	Tools         []string
	ToolCount     int
	ConnectedAt   time.Time
	Error         string
	CallCount     int
	AvgResponseMs float64
}

// ToolCallResult is the outcome of one CallTool invocation.
type ToolCallResult struct {
	ServerID   string
	ToolName   string
	Success    bool
	Data       any
	Error      string
	DurationMs float64
}

type connection struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	closer io.Closer
}

// FallbackPriority maps a data-type key to the ordered list of server IDs
// to try for it.
type FallbackPriority map[string][]string

// Manager owns the lifecycle of every configured MCP server subprocess.
type Manager struct {
	logger *zap.Logger

	mu               sync.Mutex
	configs          map[string]ServerConfig
	statuses         map[string]ServerStatus
	connections      map[string]*connection
	fallbackPriority FallbackPriority
	closers          []io.Closer

	// newCommand constructs the subprocess command; overridable in tests
	// so Startup can be exercised against a fake binary instead of a real
	// tool server.
	newCommand func(ctx context.Context, cfg ServerConfig) *exec.Cmd
}

// NewManager creates a Manager for the given server configs and fallback
// priority table. logger may be nil.
func NewManager(logger *zap.Logger, configs []ServerConfig, fallbackPriority FallbackPriority) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	byID := make(map[string]ServerConfig, len(configs))
	statuses := make(map[string]ServerStatus, len(configs))
	for _, c := range configs {
		byID[c.ID] = c
		statuses[c.ID] = ServerStatus{
			ID:           c.ID,
			Name:         c.Name,
			Enabled:      c.Enabled,
			Status:       "disconnected",
			Capabilities: c.Capabilities,
		}
	}
	return &Manager{
		logger:           logger,
		configs:          byID,
		statuses:         statuses,
		connections:      make(map[string]*connection),
		fallbackPriority: fallbackPriority,
		newCommand: func(ctx context.Context, cfg ServerConfig) *exec.Cmd {
			cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
			cmd.Env = cfg.Env
			return cmd
		},
	}
}

// Startup launches every enabled, configured server. A server that fails
// to launch is recorded with status "error" rather than aborting the
// others.
func (m *Manager) Startup(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, cfg := range m.configs {
		if !cfg.Enabled {
			continue
		}
		if _, connected := m.connections[id]; connected {
			continue
		}
		status := m.statuses[id]
		status.Status = "connecting"
		m.statuses[id] = status

		conn, err := m.connect(ctx, cfg)
		if err != nil {
			status.Status = "error"
			status.Error = err.Error()
			m.statuses[id] = status
			m.logger.Error("failed to connect to mcp server", zap.String("server_id", id), zap.Error(err))
			continue
		}

		m.connections[id] = conn
		status.Status = "connected"
		status.ConnectedAt = time.Now()
		status.Error = ""
		m.statuses[id] = status
		m.logger.Info("connected to mcp server", zap.String("server_id", id), zap.String("name", cfg.Name))
	}
	return nil
}

func (m *Manager) connect(ctx context.Context, cfg ServerConfig) (*connection, error) {
	cmd := m.newCommand(ctx, cfg)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}

	conn := &connection{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
		closer: closerFunc(func() error {
			stdin.Close()
			return cmd.Wait()
		}),
	}
	m.closers = append(m.closers, conn.closer)
	return conn, nil
}

// Shutdown closes every launched subprocess's resources in reverse launch
// order, the same unwind order an AsyncExitStack guarantees.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	m.connections = make(map[string]*connection)
	for id, status := range m.statuses {
		status.Status = "disconnected"
		m.statuses[id] = status
	}
	return firstErr
}

// CallTool writes a single newline-delimited JSON request to the server's
// stdin and reads one newline-delimited JSON reply from its stdout. args
// may be nil.
func (m *Manager) CallTool(ctx context.Context, serverID, toolName string, args map[string]any) ToolCallResult {
	m.mu.Lock()
	conn, ok := m.connections[serverID]
	m.mu.Unlock()

	if !ok {
		return ToolCallResult{ServerID: serverID, ToolName: toolName, Success: false, Error: fmt.Sprintf("server %q not connected", serverID)}
	}

	start := time.Now()
	request := map[string]any{"tool": toolName, "args": args}
	payload, err := json.Marshal(request)
	if err != nil {
		return ToolCallResult{ServerID: serverID, ToolName: toolName, Success: false, Error: err.Error()}
	}

	if _, err := conn.stdin.Write(append(payload, '\n')); err != nil {
		return ToolCallResult{ServerID: serverID, ToolName: toolName, Success: false, Error: err.Error()}
	}

	line, err := conn.stdout.ReadString('\n')
	duration := time.Since(start).Seconds() * 1000
	if err != nil {
		return ToolCallResult{ServerID: serverID, ToolName: toolName, Success: false, Error: err.Error(), DurationMs: duration}
	}

	var data any
	if err := json.Unmarshal([]byte(line), &data); err != nil {
		data = line
	}

	m.recordCall(serverID, duration)
	return ToolCallResult{ServerID: serverID, ToolName: toolName, Success: true, Data: data, DurationMs: duration}
}

func (m *Manager) recordCall(serverID string, durationMs float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status := m.statuses[serverID]
	status.CallCount++
	status.AvgResponseMs = status.AvgResponseMs + (durationMs-status.AvgResponseMs)/float64(status.CallCount)
	m.statuses[serverID] = status
}

// CallToolWithFallback walks the fallback priority list for dataType,
// trying each connected server's mapped tool in order, and returns the
// first successful result.
func (m *Manager) CallToolWithFallback(ctx context.Context, dataType, mappingKey string, args map[string]any) (ToolCallResult, bool) {
	priority := m.fallbackPriority[dataType]

	for _, serverID := range priority {
		m.mu.Lock()
		_, connected := m.connections[serverID]
		cfg, hasCfg := m.configs[serverID]
		m.mu.Unlock()
		if !connected || !hasCfg {
			continue
		}
		toolName, ok := cfg.ToolMappings[mappingKey]
		if !ok {
			continue
		}

		result := m.CallTool(ctx, serverID, toolName, args)
		if result.Success {
			return result, true
		}
		m.logger.Warn("fallback tool call failed", zap.String("server_id", serverID), zap.String("tool", toolName), zap.String("error", result.Error))
	}
	return ToolCallResult{}, false
}

// Statuses returns the current status of every configured server.
func (m *Manager) Statuses() []ServerStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ServerStatus, 0, len(m.statuses))
	for _, s := range m.statuses {
		out = append(out, s)
	}
	return out
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
