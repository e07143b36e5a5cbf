// Package integration_test provides end-to-end integration tests that
// exercise the decision engine through the live HTTP API.
package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/api"
	"github.com/atlas-desktop/trading-backend/internal/config"
	"github.com/atlas-desktop/trading-backend/internal/data/provider/mock"
	"github.com/atlas-desktop/trading-backend/internal/engine"
)

// TestFullAnalysisWorkflow drives the complete regime -> recommendation
// -> tail risk -> position evaluation pipeline through the HTTP surface,
// the same path a real client takes.
func TestFullAnalysisWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	decisionEngine := engine.New(logger, nil)
	dataProvider := mock.New(logger, 7)
	cfg := config.Default().Server
	cfg.Port = 18182
	server := api.NewServer(logger, cfg, decisionEngine, dataProvider)

	go func() {
		if err := server.Start(); err != nil {
			t.Logf("server error: %v", err)
		}
	}()
	time.Sleep(100 * time.Millisecond)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Stop(ctx)
	}()

	baseURL := "http://localhost:18182"

	t.Log("Step 1: health check")
	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		t.Fatalf("health check failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health check returned %d", resp.StatusCode)
	}

	t.Log("Step 2: regime classification")
	resp, err = http.Get(baseURL + "/engine/regime")
	if err != nil {
		t.Fatalf("get regime failed: %v", err)
	}
	var regimeResult map[string]any
	json.NewDecoder(resp.Body).Decode(&regimeResult)
	resp.Body.Close()
	if _, ok := regimeResult["regime"]; !ok {
		t.Fatalf("expected a regime field, got %+v", regimeResult)
	}

	t.Log("Step 3: strategy recommendation")
	recommendBody, _ := json.Marshal(map[string]any{"nav": 250000.0, "objective": "income"})
	resp, err = http.Post(baseURL+"/engine/recommend", "application/json", bytes.NewReader(recommendBody))
	if err != nil {
		t.Fatalf("recommend failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("recommend returned %d", resp.StatusCode)
	}
	resp.Body.Close()

	t.Log("Step 4: full analysis with a position")
	analysisBody, _ := json.Marshal(map[string]any{
		"nav":       250000.0,
		"objective": "income",
		"positions": []map[string]any{
			{
				"id":             "pos-integration-1",
				"strategy":       "iron_condor",
				"current_delta":  18.0,
				"initial_delta":  12.0,
				"family":         "short_premium",
				"unrealized_pnl": -500.0,
				"max_profit":     2000.0,
			},
		},
	})
	resp, err = http.Post(baseURL+"/engine/analysis", "application/json", bytes.NewReader(analysisBody))
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("analysis returned %d", resp.StatusCode)
	}
	var analysis map[string]any
	json.NewDecoder(resp.Body).Decode(&analysis)
	resp.Body.Close()
	if _, ok := analysis["positionHealth"]; !ok {
		t.Fatalf("expected positionHealth in analysis response, got %+v", analysis)
	}

	t.Log("Step 5: tail risk and conflicts")
	resp, err = http.Get(baseURL + "/engine/tail-risk")
	if err != nil {
		t.Fatalf("tail risk failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("tail risk returned %d", resp.StatusCode)
	}

	resp, err = http.Get(baseURL + "/engine/conflicts")
	if err != nil {
		t.Fatalf("conflicts failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("conflicts returned %d", resp.StatusCode)
	}

	t.Log("Step 6: market data quote")
	resp, err = http.Get(baseURL + "/quote/AAPL")
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	var quote map[string]any
	json.NewDecoder(resp.Body).Decode(&quote)
	resp.Body.Close()
	if quote["symbol"] != "AAPL" {
		t.Fatalf("expected symbol AAPL, got %+v", quote)
	}
}

// TestConcurrentRequests exercises the API under concurrent load to
// confirm the server itself doesn't serialize unrelated requests; the
// engine's own single-writer regime-tracking limitation is documented
// and out of scope here.
func TestConcurrentRequests(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping concurrent integration test in short mode")
	}

	logger := zap.NewNop()
	decisionEngine := engine.New(logger, nil)
	dataProvider := mock.New(logger, 11)
	cfg := config.Default().Server
	cfg.Port = 18183
	server := api.NewServer(logger, cfg, decisionEngine, dataProvider)

	go server.Start()
	time.Sleep(100 * time.Millisecond)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Stop(ctx)
	}()

	baseURL := "http://localhost:18183"
	symbols := []string{"AAPL", "MSFT", "GOOGL", "NVDA", "SPY"}
	done := make(chan error, len(symbols))

	for _, symbol := range symbols {
		go func(sym string) {
			resp, err := http.Get(baseURL + "/quote/" + sym)
			if err != nil {
				done <- err
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				done <- nil
				return
			}
			done <- nil
		}(symbol)
	}

	for range symbols {
		if err := <-done; err != nil {
			t.Errorf("concurrent quote request failed: %v", err)
		}
	}
}
