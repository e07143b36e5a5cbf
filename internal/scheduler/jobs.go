package scheduler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/data/cache"
	"github.com/atlas-desktop/trading-backend/internal/data/mcpclient"
)

// CacheSweepJob periodically removes expired cache entries and logs a
// point-in-time occupancy snapshot, so the cache doesn't grow unbounded
// with keys nobody reads anymore.
type CacheSweepJob struct {
	logger *zap.Logger
	cache  *cache.TTLCache
}

// NewCacheSweepJob creates a CacheSweepJob. logger may be nil.
func NewCacheSweepJob(logger *zap.Logger, c *cache.TTLCache) *CacheSweepJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheSweepJob{logger: logger, cache: c}
}

func (j *CacheSweepJob) Name() string { return "cache-sweep" }

func (j *CacheSweepJob) Run() error {
	removed := j.cache.Sweep()
	stats := j.cache.Stats()
	j.logger.Debug("cache sweep complete",
		zap.Int("removed", removed),
		zap.Int("active", stats.ActiveEntries),
		zap.Int("total", stats.TotalEntries),
	)
	return nil
}

// ToolServerHealthJob pings every configured tool server by re-running
// Startup, which is a no-op for already-connected servers and attempts a
// reconnect for any in an error/disconnected state.
type ToolServerHealthJob struct {
	logger  *zap.Logger
	manager *mcpclient.Manager
	ctx     context.Context
}

// NewToolServerHealthJob creates a ToolServerHealthJob. logger may be nil.
func NewToolServerHealthJob(ctx context.Context, logger *zap.Logger, manager *mcpclient.Manager) *ToolServerHealthJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ToolServerHealthJob{logger: logger, manager: manager, ctx: ctx}
}

func (j *ToolServerHealthJob) Name() string { return "tool-server-health" }

func (j *ToolServerHealthJob) Run() error {
	if err := j.manager.Startup(j.ctx); err != nil {
		return fmt.Errorf("tool server health check: %w", err)
	}
	for _, status := range j.manager.Statuses() {
		if status.Enabled && status.Status != "connected" {
			j.logger.Warn("tool server unhealthy", zap.String("server_id", status.ID), zap.String("status", status.Status), zap.String("error", status.Error))
		}
	}
	return nil
}
