package provider

import (
	"context"
	"errors"
)

// ErrNotSupported is returned by a capability method a provider does not
// implement for the requested market (spec.md §6: callers see a 501).
var ErrNotSupported = errors.New("provider: capability not supported")

// Provider is the capability surface every market-data adapter implements:
// the deterministic mock, the Yahoo-shaped skeleton, and the aggregated
// fallback chain all satisfy this interface interchangeably.
type Provider interface {
	Name() string
	SupportsMarket(market Market) bool

	GetQuote(ctx context.Context, symbol string, market Market) (Quote, error)
	GetOptionChain(ctx context.Context, symbol string, market Market) (OptionChain, error)
	GetPriceHistory(ctx context.Context, symbol string, market Market, limit int) (PriceHistory, error)
	GetIVAnalysis(ctx context.Context, symbol string, market Market) (IVAnalysis, error)
	GetMarketSentiment(ctx context.Context, symbol string, market Market) (MarketSentiment, error)
}
