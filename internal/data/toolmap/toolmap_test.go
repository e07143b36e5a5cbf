package toolmap_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/data/provider"
	"github.com/atlas-desktop/trading-backend/internal/data/toolmap"
)

func TestNewYahooRegistryResolvesQuoteMapping(t *testing.T) {
	r := toolmap.NewYahooRegistry(zap.NewNop())
	m, ok := r.Lookup(toolmap.CapabilityQuote, "yahoo")
	if !ok {
		t.Fatal("expected a quote mapping for the yahoo server")
	}
	if m.ToolName != "get_stock_info" {
		t.Fatalf("expected tool name get_stock_info, got %q", m.ToolName)
	}
	params := m.ParamMapping("AAPL", provider.MarketUS, 0)
	if params["symbol"] != "AAPL" {
		t.Fatalf("expected symbol param AAPL, got %v", params["symbol"])
	}
}

func TestLookupMissingMappingReturnsFalse(t *testing.T) {
	r := toolmap.NewRegistry(nil)
	if _, ok := r.Lookup(toolmap.CapabilityQuote, "nonexistent"); ok {
		t.Fatal("expected no mapping for an unregistered server")
	}
}

func TestParseQuotePrefersCurrentPriceOverOtherFields(t *testing.T) {
	data := map[string]any{
		"currentPrice":       190.5,
		"regularMarketPrice": 189.0,
		"regularMarketChange": 1.5,
		"volume":             float64(123456),
	}
	result, ok := toolmap.ParseQuote(data, "AAPL", provider.MarketUS)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	q := result.(provider.Quote)
	if q.Price != 190.5 {
		t.Fatalf("expected currentPrice to win, got %v", q.Price)
	}
	if q.Volume != 123456 {
		t.Fatalf("expected volume 123456, got %v", q.Volume)
	}
}

func TestParseQuoteRejectsNonObjectPayload(t *testing.T) {
	if _, ok := toolmap.ParseQuote("not an object", "AAPL", provider.MarketUS); ok {
		t.Fatal("expected parse to fail for a non-object payload")
	}
}

func TestParsePriceHistoryHandlesBareArrayAndWrappedObject(t *testing.T) {
	bare := []any{
		map[string]any{"date": "2024-01-02", "open": 100.0, "high": 101.0, "low": 99.0, "close": 100.5, "volume": float64(1000)},
		map[string]any{"date": "2024-01-03", "open": 100.5, "high": 102.0, "low": 100.0, "close": 101.5, "volume": float64(1500)},
	}
	result, ok := toolmap.ParsePriceHistory(bare, "AAPL", provider.MarketUS)
	if !ok {
		t.Fatal("expected parse to succeed for a bare array")
	}
	hist := result.(provider.PriceHistory)
	if len(hist.Bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(hist.Bars))
	}

	wrapped := map[string]any{"prices": bare}
	result2, ok := toolmap.ParsePriceHistory(wrapped, "AAPL", provider.MarketUS)
	if !ok {
		t.Fatal("expected parse to succeed for a wrapped object")
	}
	hist2 := result2.(provider.PriceHistory)
	if len(hist2.Bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(hist2.Bars))
	}
}

func TestParsePriceHistoryReturnsFalseForEmptyData(t *testing.T) {
	if _, ok := toolmap.ParsePriceHistory(nil, "AAPL", provider.MarketUS); ok {
		t.Fatal("expected parse to fail for nil data")
	}
	if _, ok := toolmap.ParsePriceHistory([]any{}, "AAPL", provider.MarketUS); ok {
		t.Fatal("expected parse to fail for an empty array")
	}
}

func TestParseMarketSentimentDerivesBullishFromBuyHeavyRecommendations(t *testing.T) {
	data := []any{
		map[string]any{"recommendationKey": "strong_buy"},
		map[string]any{"recommendationKey": "buy"},
		map[string]any{"toGrade": "Outperform"},
	}
	result, ok := toolmap.ParseMarketSentiment(data, "AAPL", provider.MarketUS)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	s := result.(provider.MarketSentiment)
	if s.Sentiment != provider.SentimentBullish {
		t.Fatalf("expected bullish sentiment, got %v (ratio %v)", s.Sentiment, s.PutCallRatio)
	}
}

func TestParseMarketSentimentDerivesBearishFromSellHeavyRecommendations(t *testing.T) {
	data := []any{
		map[string]any{"recommendationKey": "sell"},
		map[string]any{"rating": "underperform"},
		map[string]any{"toGrade": "Underweight"},
	}
	result, ok := toolmap.ParseMarketSentiment(data, "AAPL", provider.MarketUS)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	s := result.(provider.MarketSentiment)
	if s.Sentiment != provider.SentimentBearish {
		t.Fatalf("expected bearish sentiment, got %v (ratio %v)", s.Sentiment, s.PutCallRatio)
	}
}
