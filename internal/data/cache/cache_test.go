package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/data/cache"
)

func TestGetOrFetchCoalescesConcurrentCallers(t *testing.T) {
	c := cache.NewTTLCache(zap.NewNop())

	var calls int32
	fetch := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			v, err := c.GetOrFetch(context.Background(), "k", time.Minute, fetch)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results[idx] = v
		}(i)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected fetch to run exactly once, ran %d times", got)
	}
	for _, v := range results {
		if v != "value" {
			t.Fatalf("expected all callers to observe the fetched value, got %v", v)
		}
	}
}

func TestGetOrFetchDoesNotCacheErrors(t *testing.T) {
	c := cache.NewTTLCache(zap.NewNop())

	boom := errors.New("boom")
	_, err := c.GetOrFetch(context.Background(), "k", time.Minute, func(ctx context.Context) (any, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the fetch error to propagate, got %v", err)
	}

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected a failed fetch to leave no cache entry")
	}

	v, err := c.GetOrFetch(context.Background(), "k", time.Minute, func(ctx context.Context) (any, error) {
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}
	if v != "recovered" {
		t.Fatalf("expected retry to succeed and populate the cache, got %v", v)
	}
}

func TestGetOrFetchHonoursCancelledContext(t *testing.T) {
	c := cache.NewTTLCache(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetOrFetch(ctx, "k", time.Minute, func(ctx context.Context) (any, error) {
		t.Fatal("fetch should not run against an already-cancelled context")
		return nil, nil
	})
	if err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected no cache entry after a cancellation")
	}
}

func TestGetTreatsExpiredEntryAsMiss(t *testing.T) {
	c := cache.NewTTLCache(zap.NewNop())
	c.Set("k", "v", time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected an expired entry to read as a miss")
	}
}

func TestInvalidatePrefixAndStats(t *testing.T) {
	c := cache.NewTTLCache(zap.NewNop())
	c.Set("quote:AAPL", 1, time.Minute)
	c.Set("quote:MSFT", 2, time.Minute)
	c.Set("iv:AAPL", 3, time.Minute)

	removed := c.InvalidatePrefix("quote:")
	if removed != 2 {
		t.Fatalf("expected 2 keys removed, got %d", removed)
	}
	if c.Size() != 1 {
		t.Fatalf("expected 1 remaining entry, got %d", c.Size())
	}

	stats := c.Stats()
	if stats.TotalEntries != 1 || stats.ActiveEntries != 1 || stats.ExpiredEntries != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestSweepRemovesOnlyExpiredEntries(t *testing.T) {
	c := cache.NewTTLCache(zap.NewNop())
	c.Set("stale", 1, time.Millisecond)
	c.Set("fresh", 2, time.Minute)
	time.Sleep(5 * time.Millisecond)

	removed := c.Sweep()
	if removed != 1 {
		t.Fatalf("expected 1 swept entry, got %d", removed)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Fatal("expected the fresh entry to survive the sweep")
	}
}
