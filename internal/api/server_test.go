package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/api"
	"github.com/atlas-desktop/trading-backend/internal/config"
	"github.com/atlas-desktop/trading-backend/internal/data/provider/mock"
	"github.com/atlas-desktop/trading-backend/internal/engine"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zap.NewNop()
	decisionEngine := engine.New(logger, nil)
	dataProvider := mock.New(logger, 42)
	srv := api.NewServer(logger, config.Default().Server, decisionEngine, dataProvider)
	return httptest.NewServer(srv.Router())
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestGetRegimeEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/engine/regime")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["regime"]; !ok {
		t.Fatalf("expected a regime field in response, got %+v", body)
	}
}

func TestRecommendEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	body, _ := json.Marshal(map[string]any{"nav": 100000.0, "objective": "income"})
	resp, err := http.Post(ts.URL+"/engine/recommend", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestEvaluatePositionEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	payload := map[string]any{
		"nav": 100000.0,
		"position": map[string]any{
			"id":            "pos-1",
			"strategy":      "iron_condor",
			"current_delta": 12.0,
			"family":        "short_premium",
		},
	}
	body, _ := json.Marshal(payload)
	resp, err := http.Post(ts.URL+"/engine/positions/evaluate", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result["positionId"] != "pos-1" {
		t.Fatalf("expected positionId pos-1, got %+v", result)
	}
}

func TestStrategiesEndpointFiltersByFamily(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/engine/strategies/short_premium")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestZeroDTEDayEndpointRejectsUnknownDay(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/engine/playbook/0dte/nonsense")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestQuoteEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/quote/AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var quote map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if quote["symbol"] != "AAPL" {
		t.Fatalf("expected symbol AAPL, got %+v", quote)
	}
}

func TestQuotesBatchEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	body, _ := json.Marshal(map[string]any{"symbols": []string{"AAPL", "MSFT"}})
	resp, err := http.Post(ts.URL+"/quotes/batch", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var results map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %+v", results)
	}
}
