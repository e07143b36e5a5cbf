package mock_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/data/provider"
	"github.com/atlas-desktop/trading-backend/internal/data/provider/mock"
)

func TestGetQuoteIsDeterministicForAFixedSeed(t *testing.T) {
	p1 := mock.New(zap.NewNop(), 42)
	p2 := mock.New(zap.NewNop(), 42)

	q1, err := p1.GetQuote(context.Background(), "AAPL", provider.MarketUS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q2, err := p2.GetQuote(context.Background(), "AAPL", provider.MarketUS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q1.Price != q2.Price || q1.Bid != q2.Bid || q1.Ask != q2.Ask {
		t.Fatalf("expected identical fixed-seed quotes, got %+v vs %+v", q1, q2)
	}
	if q1.Price <= 0 {
		t.Fatalf("expected a positive price, got %v", q1.Price)
	}
}

func TestGetQuoteFallsBackToDefaultPriceForUnknownSymbol(t *testing.T) {
	p := mock.New(zap.NewNop(), 7)
	q, err := p.GetQuote(context.Background(), "ZZZZ", provider.MarketUS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Price < 99 || q.Price > 101 {
		t.Fatalf("expected price near the 100.0 default base, got %v", q.Price)
	}
}

func TestGetOptionChainGeneratesCallsAndPutsAcrossExpirations(t *testing.T) {
	p := mock.New(zap.NewNop(), 1)
	chain, err := p.GetOptionChain(context.Background(), "SPY", provider.MarketUS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chain.Expirations) != 7 {
		t.Fatalf("expected 7 expirations (4 weekly + 3 monthly), got %d", len(chain.Expirations))
	}
	if len(chain.Contracts) != 7*11*2 {
		t.Fatalf("expected 7*11 strikes*2 sides = %d contracts, got %d", 7*11*2, len(chain.Contracts))
	}
	var sawCall, sawPut bool
	for _, c := range chain.Contracts {
		switch c.Type {
		case provider.OptionTypeCall:
			sawCall = true
		case provider.OptionTypePut:
			sawPut = true
		}
		if c.ImpliedVol <= 0 {
			t.Fatalf("expected a positive implied vol, got %v", c.ImpliedVol)
		}
	}
	if !sawCall || !sawPut {
		t.Fatal("expected both calls and puts in the generated chain")
	}
}

func TestGetPriceHistoryReturnsRequestedBarCountOldestFirst(t *testing.T) {
	p := mock.New(zap.NewNop(), 3)
	hist, err := p.GetPriceHistory(context.Background(), "AAPL", provider.MarketUS, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hist.Bars) != 30 {
		t.Fatalf("expected 30 bars, got %d", len(hist.Bars))
	}
	for i := 1; i < len(hist.Bars); i++ {
		if !hist.Bars[i].Date.After(hist.Bars[i-1].Date) {
			t.Fatalf("expected strictly increasing dates, bar %d (%v) not after bar %d (%v)", i, hist.Bars[i].Date, i-1, hist.Bars[i-1].Date)
		}
	}
}

func TestGetMarketSentimentClassifiesByPutCallRatio(t *testing.T) {
	p := mock.New(zap.NewNop(), 9)
	s, err := p.GetMarketSentiment(context.Background(), "SPY", provider.MarketUS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	switch {
	case s.PutCallRatio < 0.7 && s.Sentiment != provider.SentimentBullish:
		t.Fatalf("expected bullish sentiment for ratio %v, got %v", s.PutCallRatio, s.Sentiment)
	case s.PutCallRatio > 1.3 && s.Sentiment != provider.SentimentBearish:
		t.Fatalf("expected bearish sentiment for ratio %v, got %v", s.PutCallRatio, s.Sentiment)
	}
}

func TestSupportsMarket(t *testing.T) {
	p := mock.New(nil, 1)
	if !p.SupportsMarket(provider.MarketJP) {
		t.Fatal("expected JP to be supported")
	}
	if p.SupportsMarket(provider.Market("XX")) {
		t.Fatal("expected an unknown market to be unsupported")
	}
}
