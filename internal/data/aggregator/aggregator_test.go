package aggregator_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/data/aggregator"
	"github.com/atlas-desktop/trading-backend/internal/data/provider"
	"github.com/atlas-desktop/trading-backend/internal/data/provider/mock"
)

func TestGetQuotePassesThroughToPrimaryOnSuccess(t *testing.T) {
	primary := mock.New(zap.NewNop(), 11)
	agg := aggregator.New(zap.NewNop(), primary, nil, nil)

	q, err := agg.GetQuote(context.Background(), "AAPL", provider.MarketUS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Symbol != "AAPL" {
		t.Fatalf("expected symbol AAPL, got %q", q.Symbol)
	}
}

type failingProvider struct{ name string }

func (f failingProvider) Name() string                                 { return f.name }
func (f failingProvider) SupportsMarket(provider.Market) bool          { return true }
func (f failingProvider) GetQuote(context.Context, string, provider.Market) (provider.Quote, error) {
	return provider.Quote{}, errors.New("primary down")
}
func (f failingProvider) GetOptionChain(context.Context, string, provider.Market) (provider.OptionChain, error) {
	return provider.OptionChain{}, errors.New("primary down")
}
func (f failingProvider) GetPriceHistory(context.Context, string, provider.Market, int) (provider.PriceHistory, error) {
	return provider.PriceHistory{}, errors.New("primary down")
}
func (f failingProvider) GetIVAnalysis(context.Context, string, provider.Market) (provider.IVAnalysis, error) {
	return provider.IVAnalysis{}, errors.New("primary down")
}
func (f failingProvider) GetMarketSentiment(context.Context, string, provider.Market) (provider.MarketSentiment, error) {
	return provider.MarketSentiment{}, errors.New("primary down")
}

func TestGetQuotePropagatesPrimaryErrorWhenNoFallbackConfigured(t *testing.T) {
	agg := aggregator.New(zap.NewNop(), failingProvider{name: "down"}, nil, nil)
	_, err := agg.GetQuote(context.Background(), "AAPL", provider.MarketUS)
	if err == nil {
		t.Fatal("expected the primary's error to propagate with no fallback wired")
	}
}

func TestForMarketInputsAdaptsQuoteAndHistoryShapes(t *testing.T) {
	primary := mock.New(zap.NewNop(), 5)
	agg := aggregator.New(zap.NewNop(), primary, nil, nil)
	adapted := aggregator.NewForMarketInputs(agg)

	q, err := adapted.GetQuote(context.Background(), "SPY", "US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Price <= 0 {
		t.Fatalf("expected a positive price, got %v", q.Price)
	}

	hist, err := adapted.GetPriceHistory(context.Background(), "SPY", "US", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hist.Bars) != 10 {
		t.Fatalf("expected 10 bars, got %d", len(hist.Bars))
	}
}
