// Package main provides the entry point for the options decision engine
// server: regime classification, strategy selection, position sizing,
// adjustment/exit rules, tail risk assessment, conflict detection, and
// event playbooks, served over HTTP alongside a market-data layer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/atlas-desktop/trading-backend/internal/api"
	"github.com/atlas-desktop/trading-backend/internal/config"
	"github.com/atlas-desktop/trading-backend/internal/data/aggregator"
	"github.com/atlas-desktop/trading-backend/internal/data/cache"
	"github.com/atlas-desktop/trading-backend/internal/data/mcpclient"
	"github.com/atlas-desktop/trading-backend/internal/data/provider"
	"github.com/atlas-desktop/trading-backend/internal/data/provider/mock"
	"github.com/atlas-desktop/trading-backend/internal/data/provider/yahoo"
	"github.com/atlas-desktop/trading-backend/internal/data/toolmap"
	"github.com/atlas-desktop/trading-backend/internal/engine"
	"github.com/atlas-desktop/trading-backend/internal/scheduler"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (optional; defaults and env overrides apply if unset)")
	host := flag.String("host", "", "Server host (overrides config)")
	port := flag.Int("port", 0, "Server port (overrides config)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error; overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	logger := setupLogger(cfg.Log.Level)
	defer logger.Sync()

	logger.Info("starting decision engine server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("provider", cfg.Provider.Primary),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	primaryProvider, mcpManager := buildProvider(logger, cfg.Provider)
	aggregatedProvider := aggregator.New(logger, primaryProvider, mcpManager, toolmap.NewYahooRegistry(logger))

	decisionEngine := engine.New(logger, aggregator.NewForMarketInputs(aggregatedProvider))

	cronScheduler := scheduler.New(logger)
	ttlCache := cache.NewTTLCache(logger)
	if err := cronScheduler.AddJob("@every 5m", scheduler.NewCacheSweepJob(logger, ttlCache)); err != nil {
		logger.Fatal("failed to schedule cache sweep job", zap.Error(err))
	}
	if mcpManager != nil {
		if err := cronScheduler.AddJob("@every 1m", scheduler.NewToolServerHealthJob(ctx, logger, mcpManager)); err != nil {
			logger.Fatal("failed to schedule tool server health job", zap.Error(err))
		}
	}
	cronScheduler.Start()

	if mcpManager != nil {
		if err := mcpManager.Startup(ctx); err != nil {
			logger.Error("failed to start mcp tool servers", zap.Error(err))
		}
	}

	server := api.NewServer(logger, cfg.Server, decisionEngine, aggregatedProvider)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("server error", zap.Error(err))
		}
	}()

	logger.Info("server started successfully",
		zap.String("http", fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)),
	)

	<-sigChan
	logger.Info("shutdown signal received")

	cancel()
	cronScheduler.Stop()

	if mcpManager != nil {
		if err := mcpManager.Shutdown(); err != nil {
			logger.Error("error stopping mcp tool servers", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// buildProvider wires the configured primary market-data provider and,
// if any MCP tool servers are configured, the fallback manager behind
// it. mcpManager is nil when the config names no tool servers.
func buildProvider(logger *zap.Logger, cfg config.ProviderConfig) (provider.Provider, *mcpclient.Manager) {
	var primary provider.Provider
	switch cfg.Primary {
	case "yahoo":
		primary = yahoo.New(logger, nil)
	default:
		primary = mock.New(logger, 0)
	}

	servers, fallbackPriority, err := config.LoadMCPServers(cfg.MCPConfig)
	if err != nil {
		logger.Warn("failed to load mcp server config, continuing without tool-server fallback", zap.Error(err))
		return primary, nil
	}
	if len(servers) == 0 {
		return primary, nil
	}
	return primary, mcpclient.NewManager(logger, servers, fallbackPriority)
}

func setupLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	return logger
}
