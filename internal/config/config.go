// Package config loads server, provider, and scheduler configuration via
// viper (YAML file plus environment variable overrides), generalizing the
// teacher's flag-based types.ServerConfig into a layered config source.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full process configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Provider ProviderConfig `mapstructure:"provider"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig is the HTTP surface's listen/timeout/metrics settings.
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	EnableMetrics  bool          `mapstructure:"enable_metrics"`
	MetricsPort    int           `mapstructure:"metrics_port"`
}

// ProviderConfig selects and parameterizes the primary market-data
// provider; per-provider connection parameters live under the keyed map
// so new providers don't need a new top-level field.
type ProviderConfig struct {
	Primary     string                    `mapstructure:"primary"`
	MCPConfig   string                    `mapstructure:"mcp_config_path"`
	Connections map[string]map[string]any `mapstructure:"connections"`
}

// LogConfig controls the zap logger setup.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the built-in defaults, used when no config file is
// present and no environment overrides are set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:          "localhost",
			Port:          8080,
			ReadTimeout:   30 * time.Second,
			WriteTimeout:  30 * time.Second,
			EnableMetrics: true,
			MetricsPort:   9090,
		},
		Provider: ProviderConfig{
			Primary:   "mock",
			MCPConfig: "config/mcp_servers.yaml",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads configuration from path (if non-empty and present) layered
// over the defaults, then applies environment variable overrides
// (ATLAS_SERVER_PORT, ATLAS_PROVIDER_PRIMARY, etc. — underscores replace
// the YAML key's dots), mirroring the original's SetEnvKeyReplacer +
// AutomaticEnv pattern.
func Load(path string) (Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.read_timeout", def.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", def.Server.WriteTimeout)
	v.SetDefault("server.enable_metrics", def.Server.EnableMetrics)
	v.SetDefault("server.metrics_port", def.Server.MetricsPort)
	v.SetDefault("provider.primary", def.Provider.Primary)
	v.SetDefault("provider.mcp_config_path", def.Provider.MCPConfig)
	v.SetDefault("log.level", def.Log.Level)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("read config %q: %w", path, err)
			}
		}
	}

	v.SetEnvPrefix("atlas")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
