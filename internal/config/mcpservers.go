package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/atlas-desktop/trading-backend/internal/data/mcpclient"
)

// mcpServerYAML mirrors one entry under mcp_servers: in the registry
// file, shaped after manager.py's MCPServerConfig.
type mcpServerYAML struct {
	Name         string            `yaml:"name"`
	Command      string            `yaml:"command"`
	Args         []string          `yaml:"args"`
	Env          map[string]string `yaml:"env"`
	Enabled      bool              `yaml:"enabled"`
	Capabilities []string          `yaml:"capabilities"`
	ToolMappings map[string]string `yaml:"tool_mappings"`
}

type mcpServersYAML struct {
	MCPServers       map[string]mcpServerYAML `yaml:"mcp_servers"`
	FallbackPriority map[string][]string      `yaml:"fallback_priority"`
}

// LoadMCPServers reads the external tool-server registry from path. A
// missing file returns an empty, valid configuration with a nil error,
// matching manager.py's _load_config behavior of warning and returning
// defaults rather than failing startup.
func LoadMCPServers(path string) ([]mcpclient.ServerConfig, mcpclient.FallbackPriority, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mcpclient.FallbackPriority{}, nil
		}
		return nil, nil, fmt.Errorf("read mcp servers config %q: %w", path, err)
	}

	var parsed mcpServersYAML
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, nil, fmt.Errorf("parse mcp servers config %q: %w", path, err)
	}

	configs := make([]mcpclient.ServerConfig, 0, len(parsed.MCPServers))
	for id, server := range parsed.MCPServers {
		configs = append(configs, mcpclient.ServerConfig{
			ID:           id,
			Name:         server.Name,
			Command:      server.Command,
			Args:         server.Args,
			Env:          expandEnv(server.Env),
			Enabled:      server.Enabled,
			Capabilities: server.Capabilities,
			ToolMappings: server.ToolMappings,
		})
	}

	return configs, mcpclient.FallbackPriority(parsed.FallbackPriority), nil
}

// expandEnv resolves "${VAR}"-shaped values against the process
// environment, same as manager.py's _load_config env expansion, and
// returns the KEY=VALUE slice exec.Cmd.Env expects.
func expandEnv(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		if strings.HasPrefix(v, "${") && strings.HasSuffix(v, "}") {
			name := v[2 : len(v)-1]
			v = os.Getenv(name)
		}
		out = append(out, k+"="+v)
	}
	return out
}
