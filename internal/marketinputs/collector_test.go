package marketinputs_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/marketinputs"
)

func TestCollectMockIsDeterministicAcrossCalls(t *testing.T) {
	c := marketinputs.NewCollector(zap.NewNop(), nil)

	first, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first.Timestamp, second.Timestamp = first.Timestamp, first.Timestamp
	if first.Spot != second.Spot {
		t.Fatalf("expected identical spot data across calls, got %+v vs %+v", first.Spot, second.Spot)
	}
	if first.Vol != second.Vol {
		t.Fatalf("expected identical vol data across calls, got %+v vs %+v", first.Vol, second.Vol)
	}
}

func TestCollectMockFieldsWithinExpectedRanges(t *testing.T) {
	c := marketinputs.NewCollector(nil, nil)

	inputs, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inputs.Vol.VIX != 17.5 {
		t.Fatalf("expected fixture VIX of 17.5, got %v", inputs.Vol.VIX)
	}
	if inputs.Spot.SPXLevel <= 0 {
		t.Fatalf("expected a positive synthetic SPX level, got %v", inputs.Spot.SPXLevel)
	}
	if inputs.Spot.SPXSma50 <= 0 || inputs.Spot.SPXSma200 <= 0 {
		t.Fatalf("expected positive SMA values, got sma50=%v sma200=%v", inputs.Spot.SPXSma50, inputs.Spot.SPXSma200)
	}
	if inputs.Vol.RV20D <= 0 {
		t.Fatalf("expected a positive realized vol, got %v", inputs.Vol.RV20D)
	}
}

type fakeProvider struct {
	quotes map[string]marketinputs.Quote
	history marketinputs.PriceHistory
}

func (f *fakeProvider) GetQuote(_ context.Context, symbol, _ string) (marketinputs.Quote, error) {
	q, ok := f.quotes[symbol]
	if !ok {
		return marketinputs.Quote{}, errNoQuote{symbol}
	}
	return q, nil
}

func (f *fakeProvider) GetPriceHistory(_ context.Context, _, _ string, _ int) (marketinputs.PriceHistory, error) {
	return f.history, nil
}

type errNoQuote struct{ symbol string }

func (e errNoQuote) Error() string { return "no quote for " + e.symbol }

func TestCollectLiveUsesProviderQuoteAndHistory(t *testing.T) {
	bars := make([]marketinputs.PriceBar, 210)
	price := 5000.0
	for i := range bars {
		price *= 1.0005
		bars[i] = marketinputs.PriceBar{Close: price}
	}

	provider := &fakeProvider{
		quotes: map[string]marketinputs.Quote{
			"SPY":  {Symbol: "SPY", Price: price},
			"^VIX": {Symbol: "^VIX", Price: 22.0},
		},
		history: marketinputs.PriceHistory{Bars: bars},
	}

	c := marketinputs.NewCollector(zap.NewNop(), provider)
	inputs, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inputs.Spot.SPXLevel != price {
		t.Fatalf("expected spot level to match provider quote %v, got %v", price, inputs.Spot.SPXLevel)
	}
	if inputs.Vol.VIX != 22.0 {
		t.Fatalf("expected VIX from provider quote, got %v", inputs.Vol.VIX)
	}
	if inputs.Spot.SPXSma200 <= 0 {
		t.Fatalf("expected a computed 200-day SMA, got %v", inputs.Spot.SPXSma200)
	}
}

func TestCollectFallsBackToMockWhenQuoteFails(t *testing.T) {
	provider := &fakeProvider{quotes: map[string]marketinputs.Quote{}}
	c := marketinputs.NewCollector(zap.NewNop(), provider)

	inputs, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inputs.Vol.VIX != 17.5 {
		t.Fatalf("expected fallback to mock fixture VIX 17.5, got %v", inputs.Vol.VIX)
	}
}
