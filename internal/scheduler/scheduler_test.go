package scheduler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/data/cache"
	"github.com/atlas-desktop/trading-backend/internal/data/mcpclient"
	"github.com/atlas-desktop/trading-backend/internal/scheduler"
)

type countingJob struct {
	name  string
	count int32
}

func (j *countingJob) Name() string { return j.name }
func (j *countingJob) Run() error {
	atomic.AddInt32(&j.count, 1)
	return nil
}

func TestAddJobRunsOnSchedule(t *testing.T) {
	s := scheduler.New(zap.NewNop())
	job := &countingJob{name: "tick"}
	if err := s.AddJob("@every 50ms", job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Start()
	defer s.Stop()

	time.Sleep(180 * time.Millisecond)
	if atomic.LoadInt32(&job.count) < 2 {
		t.Fatalf("expected at least 2 runs, got %d", job.count)
	}
}

func TestRunNowExecutesImmediately(t *testing.T) {
	s := scheduler.New(zap.NewNop())
	job := &countingJob{name: "once"}
	if err := s.RunNow(job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atomic.LoadInt32(&job.count) != 1 {
		t.Fatalf("expected exactly 1 run, got %d", job.count)
	}
}

func TestCacheSweepJobRemovesExpiredEntries(t *testing.T) {
	c := cache.NewTTLCache(zap.NewNop())
	c.Set("stale", 1, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	job := scheduler.NewCacheSweepJob(zap.NewNop(), c)
	if job.Name() != "cache-sweep" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Size() != 0 {
		t.Fatalf("expected the expired entry to be swept, size=%d", c.Size())
	}
}

func TestToolServerHealthJobReportsUnhealthyServers(t *testing.T) {
	configs := []mcpclient.ServerConfig{
		{ID: "broken", Name: "Broken", Command: "/nonexistent/binary/does-not-exist", Enabled: true},
	}
	manager := mcpclient.NewManager(zap.NewNop(), configs, nil)
	job := scheduler.NewToolServerHealthJob(context.Background(), zap.NewNop(), manager)

	if err := job.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	statuses := manager.Statuses()
	if len(statuses) != 1 || statuses[0].Status != "error" {
		t.Fatalf("expected the broken server to report status error, got %+v", statuses)
	}
}
