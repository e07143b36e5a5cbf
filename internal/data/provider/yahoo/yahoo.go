// Package yahoo is a thin provider.Provider adapter shaped around Yahoo
// Finance's free quote endpoint. It demonstrates the primary-provider
// contract against real network I/O; only GetQuote is implemented, since
// the free endpoint carries no options or sentiment data. It is
// constructed but never dialed unless explicitly configured as the active
// provider.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/data/provider"
)

const quoteEndpoint = "https://query1.finance.yahoo.com/v8/finance/chart/%s"

// Provider calls Yahoo's free chart endpoint for quotes and declines
// every other capability.
type Provider struct {
	logger     *zap.Logger
	httpClient *http.Client
	baseURL    string
}

// New creates a Provider. httpClient may be nil, in which case a client
// with a 5s timeout is used. logger may be nil.
func New(logger *zap.Logger, httpClient *http.Client) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Provider{logger: logger, httpClient: httpClient, baseURL: quoteEndpoint}
}

// WithBaseURL overrides the chart endpoint template (must contain one %s
// for the symbol). Used by tests to point at an httptest server instead
// of the live Yahoo endpoint.
func (p *Provider) WithBaseURL(base string) *Provider {
	p.baseURL = base
	return p
}

func (p *Provider) Name() string { return "yahoo" }

func (p *Provider) SupportsMarket(market provider.Market) bool {
	return market == provider.MarketUS
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice    float64 `json:"regularMarketPrice"`
				PreviousClose         float64 `json:"previousClose"`
				RegularMarketVolume   int64   `json:"regularMarketVolume"`
			} `json:"meta"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// GetQuote fetches a single quote from Yahoo's chart endpoint.
func (p *Provider) GetQuote(ctx context.Context, symbol string, market provider.Market) (provider.Quote, error) {
	if !p.SupportsMarket(market) {
		return provider.Quote{}, fmt.Errorf("yahoo: %w: market %s", provider.ErrNotSupported, market)
	}

	url := fmt.Sprintf(p.baseURL, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return provider.Quote{}, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return provider.Quote{}, fmt.Errorf("yahoo: fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return provider.Quote{}, fmt.Errorf("yahoo: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return provider.Quote{}, fmt.Errorf("yahoo: read response: %w", err)
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return provider.Quote{}, fmt.Errorf("yahoo: decode response: %w", err)
	}
	if len(parsed.Chart.Result) == 0 {
		return provider.Quote{}, fmt.Errorf("yahoo: no result for symbol %s", symbol)
	}

	meta := parsed.Chart.Result[0].Meta
	change := meta.RegularMarketPrice - meta.PreviousClose
	changePct := 0.0
	if meta.PreviousClose != 0 {
		changePct = change / meta.PreviousClose * 100
	}

	return provider.Quote{
		Symbol:        symbol,
		Market:        market,
		Price:         meta.RegularMarketPrice,
		Change:        change,
		ChangePercent: changePct,
		Volume:        meta.RegularMarketVolume,
		Timestamp:     time.Now(),
	}, nil
}

func (p *Provider) GetOptionChain(ctx context.Context, symbol string, market provider.Market) (provider.OptionChain, error) {
	return provider.OptionChain{}, fmt.Errorf("yahoo: %w: option chains", provider.ErrNotSupported)
}

func (p *Provider) GetPriceHistory(ctx context.Context, symbol string, market provider.Market, limit int) (provider.PriceHistory, error) {
	return provider.PriceHistory{}, fmt.Errorf("yahoo: %w: price history", provider.ErrNotSupported)
}

func (p *Provider) GetIVAnalysis(ctx context.Context, symbol string, market provider.Market) (provider.IVAnalysis, error) {
	return provider.IVAnalysis{}, fmt.Errorf("yahoo: %w: IV analysis", provider.ErrNotSupported)
}

func (p *Provider) GetMarketSentiment(ctx context.Context, symbol string, market provider.Market) (provider.MarketSentiment, error) {
	return provider.MarketSentiment{}, fmt.Errorf("yahoo: %w: market sentiment", provider.ErrNotSupported)
}
