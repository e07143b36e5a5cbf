// Package aggregator wraps a primary provider.Provider with external
// tool-server fallbacks, so a primary-provider outage degrades to another
// available source instead of failing the call.
package aggregator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/data/mcpclient"
	"github.com/atlas-desktop/trading-backend/internal/data/provider"
	"github.com/atlas-desktop/trading-backend/internal/data/toolmap"
	"github.com/atlas-desktop/trading-backend/internal/marketinputs"
)

// dataTypeFor maps a capability to the fallback-priority key used by the
// mcpclient manager's configuration (spec.md §6, §4.8).
func dataTypeFor(capability toolmap.Capability) string {
	return string(capability)
}

// Provider is an AggregatedProvider: it tries the primary provider first
// and, on error, tries the connected tool servers via the toolmap
// registry and mcpclient manager.
type Provider struct {
	logger   *zap.Logger
	primary  provider.Provider
	manager  *mcpclient.Manager
	registry *toolmap.Registry
}

// New creates an aggregating Provider. manager and registry may be nil,
// in which case only the primary provider is consulted.
func New(logger *zap.Logger, primary provider.Provider, manager *mcpclient.Manager, registry *toolmap.Registry) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{logger: logger, primary: primary, manager: manager, registry: registry}
}

func (p *Provider) Name() string { return "aggregated:" + p.primary.Name() }

func (p *Provider) SupportsMarket(market provider.Market) bool {
	return p.primary.SupportsMarket(market)
}

func (p *Provider) GetQuote(ctx context.Context, symbol string, market provider.Market) (provider.Quote, error) {
	if q, err := p.primary.GetQuote(ctx, symbol, market); err == nil {
		return q, nil
	} else if v, ok := p.fallback(ctx, toolmap.CapabilityQuote, symbol, market, 0); ok {
		if q, ok := v.(provider.Quote); ok {
			return q, nil
		}
		return provider.Quote{}, err
	} else {
		return provider.Quote{}, err
	}
}

func (p *Provider) GetOptionChain(ctx context.Context, symbol string, market provider.Market) (provider.OptionChain, error) {
	if c, err := p.primary.GetOptionChain(ctx, symbol, market); err == nil {
		return c, nil
	} else if v, ok := p.fallback(ctx, toolmap.CapabilityOptionChain, symbol, market, 0); ok {
		if c, ok := v.(provider.OptionChain); ok {
			return c, nil
		}
		return provider.OptionChain{}, err
	} else {
		return provider.OptionChain{}, err
	}
}

func (p *Provider) GetPriceHistory(ctx context.Context, symbol string, market provider.Market, limit int) (provider.PriceHistory, error) {
	if h, err := p.primary.GetPriceHistory(ctx, symbol, market, limit); err == nil {
		return h, nil
	} else if v, ok := p.fallback(ctx, toolmap.CapabilityPriceHistory, symbol, market, limit); ok {
		if h, ok := v.(provider.PriceHistory); ok {
			return h, nil
		}
		return provider.PriceHistory{}, err
	} else {
		return provider.PriceHistory{}, err
	}
}

func (p *Provider) GetIVAnalysis(ctx context.Context, symbol string, market provider.Market) (provider.IVAnalysis, error) {
	if a, err := p.primary.GetIVAnalysis(ctx, symbol, market); err == nil {
		return a, nil
	} else if v, ok := p.fallback(ctx, toolmap.CapabilityIVAnalysis, symbol, market, 0); ok {
		if a, ok := v.(provider.IVAnalysis); ok {
			return a, nil
		}
		return provider.IVAnalysis{}, err
	} else {
		return provider.IVAnalysis{}, err
	}
}

func (p *Provider) GetMarketSentiment(ctx context.Context, symbol string, market provider.Market) (provider.MarketSentiment, error) {
	if s, err := p.primary.GetMarketSentiment(ctx, symbol, market); err == nil {
		return s, nil
	} else if v, ok := p.fallback(ctx, toolmap.CapabilityMarketSentiment, symbol, market, 0); ok {
		if s, ok := v.(provider.MarketSentiment); ok {
			return s, nil
		}
		return provider.MarketSentiment{}, err
	} else {
		return provider.MarketSentiment{}, err
	}
}

// fallback calls each connected server's mapped tool for capability until
// one parses successfully. Servers are tried in the order Statuses()
// returns them, which is not defined; the manager's fallback priority
// table is not consulted.
func (p *Provider) fallback(ctx context.Context, capability toolmap.Capability, symbol string, market provider.Market, limit int) (any, bool) {
	if p.manager == nil || p.registry == nil {
		return nil, false
	}

	dataType := dataTypeFor(capability)
	statuses := p.manager.Statuses()
	for _, status := range statuses {
		if status.Status != "connected" {
			continue
		}
		mapping, ok := p.registry.Lookup(capability, status.ID)
		if !ok {
			continue
		}
		args := mapping.ParamMapping(symbol, market, limit)
		result := p.manager.CallTool(ctx, status.ID, mapping.ToolName, args)
		if !result.Success {
			p.logger.Warn("fallback tool call failed",
				zap.String("capability", dataType),
				zap.String("server_id", status.ID),
				zap.String("error", result.Error))
			continue
		}
		parsed, ok := mapping.Parser(result.Data, symbol, market)
		if !ok {
			continue
		}
		return parsed, true
	}
	return nil, false
}

// ForMarketInputs adapts a Provider into the simpler marketinputs.Provider
// shape the regime/sizing pipeline needs (a bare quote + close-price
// history, both keyed by plain strings rather than the richer provider
// types), so DecisionEngine can be wired to a live, fallback-capable
// source instead of only the mock fixture.
type ForMarketInputs struct {
	inner *Provider
}

// NewForMarketInputs wraps an aggregator Provider for marketinputs.Collector.
func NewForMarketInputs(inner *Provider) *ForMarketInputs {
	return &ForMarketInputs{inner: inner}
}

func (a *ForMarketInputs) GetQuote(ctx context.Context, symbol, market string) (marketinputs.Quote, error) {
	q, err := a.inner.GetQuote(ctx, symbol, provider.Market(market))
	if err != nil {
		return marketinputs.Quote{}, fmt.Errorf("aggregator: get quote: %w", err)
	}
	return marketinputs.Quote{Symbol: q.Symbol, Price: q.Price}, nil
}

func (a *ForMarketInputs) GetPriceHistory(ctx context.Context, symbol, market string, limit int) (marketinputs.PriceHistory, error) {
	h, err := a.inner.GetPriceHistory(ctx, symbol, provider.Market(market), limit)
	if err != nil {
		return marketinputs.PriceHistory{}, fmt.Errorf("aggregator: get price history: %w", err)
	}
	bars := make([]marketinputs.PriceBar, 0, len(h.Bars))
	for _, b := range h.Bars {
		bars = append(bars, marketinputs.PriceBar{Close: b.Close})
	}
	return marketinputs.PriceHistory{Bars: bars}, nil
}
