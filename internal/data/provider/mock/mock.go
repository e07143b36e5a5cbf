// Package mock provides a deterministic, no-network implementation of
// provider.Provider used as the default data source and in tests.
package mock

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/data/provider"
)

type stock struct {
	name  string
	price float64
}

var mockStocks = map[provider.Market]map[string]stock{
	provider.MarketUS: {
		"AAPL": {"Apple Inc.", 185.50},
		"MSFT": {"Microsoft Corporation", 378.25},
		"GOOGL": {"Alphabet Inc.", 141.80},
		"NVDA": {"NVIDIA Corporation", 495.20},
		"SPY":  {"SPDR S&P 500 ETF", 478.50},
	},
	provider.MarketJP: {
		"7203.T": {"Toyota Motor Corp", 2850.0},
		"9984.T": {"SoftBank Group", 8250.0},
		"6758.T": {"Sony Group Corp", 12500.0},
	},
	provider.MarketHK: {
		"0700.HK": {"Tencent Holdings", 375.40},
		"9988.HK": {"Alibaba Group", 78.25},
		"1299.HK": {"AIA Group", 62.50},
	},
}

// Provider returns simulated market data shaped like a real feed: noisy
// quotes around a fixed base price, option chains generated around the
// current quote, and IV/sentiment summaries derived from the same base.
type Provider struct {
	logger *zap.Logger
	rng    *rand.Rand
}

// New creates a mock Provider. seed pins the random source so tests that
// need reproducible output can pass a fixed value; pass 0 for wall-clock
// based randomness.
func New(logger *zap.Logger, seed int64) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	source := rand.NewSource(seed)
	if seed == 0 {
		source = rand.NewSource(time.Now().UnixNano())
	}
	return &Provider{logger: logger, rng: rand.New(source)}
}

func (p *Provider) Name() string { return "mock" }

func (p *Provider) SupportsMarket(market provider.Market) bool {
	switch market {
	case provider.MarketUS, provider.MarketJP, provider.MarketHK:
		return true
	default:
		return false
	}
}

func (p *Provider) basePrice(symbol string, market provider.Market) float64 {
	if s, ok := mockStocks[market][symbol]; ok {
		return s.price
	}
	return 100.0
}

func (p *Provider) addNoise(price, pct float64) float64 {
	return price * (1 + (p.rng.Float64()*2-1)*pct)
}

func round2(v float64) float64 { return round(v, 2) }

func round(v float64, places int) float64 {
	mult := 1.0
	for i := 0; i < places; i++ {
		mult *= 10
	}
	return float64(int(v*mult+0.5)) / mult
}

func (p *Provider) GetQuote(ctx context.Context, symbol string, market provider.Market) (provider.Quote, error) {
	if err := ctx.Err(); err != nil {
		return provider.Quote{}, err
	}
	price := round2(p.addNoise(p.basePrice(symbol, market), 0.001))
	spread := price * 0.001
	return provider.Quote{
		Symbol:    symbol,
		Market:    market,
		Price:     price,
		Bid:       round2(price - spread),
		Ask:       round2(price + spread),
		Volume:    int64(100000 + p.rng.Intn(4900000)),
		Timestamp: time.Now(),
	}, nil
}

// GetOptionChain generates a chain around the current quote: weekly
// expirations for the next month, monthly for the following three, and an
// eleven-strike ladder centered on the underlying price, mirroring the
// shape (not the exact distribution) of a typical broker feed.
func (p *Provider) GetOptionChain(ctx context.Context, symbol string, market provider.Market) (provider.OptionChain, error) {
	if err := ctx.Err(); err != nil {
		return provider.OptionChain{}, err
	}
	quote, err := p.GetQuote(ctx, symbol, market)
	if err != nil {
		return provider.OptionChain{}, err
	}
	underlying := quote.Price

	today := time.Now().UTC()
	var expirations []time.Time
	for i := 1; i <= 4; i++ {
		expirations = append(expirations, today.AddDate(0, 0, 7*i))
	}
	for i := 1; i <= 3; i++ {
		expirations = append(expirations, today.AddDate(0, 0, 30*i))
	}

	strikeStep := underlying * 0.025
	strikes := make([]float64, 0, 11)
	for i := -5; i <= 5; i++ {
		strikes = append(strikes, round2(underlying+float64(i)*strikeStep))
	}

	var contracts []provider.OptionContract
	expStrs := make([]string, 0, len(expirations))
	for _, exp := range expirations {
		expStrs = append(expStrs, exp.Format("2006-01-02"))
		daysToExp := exp.Sub(today).Hours() / 24
		for _, strike := range strikes {
			moneyness := (underlying - strike) / underlying
			baseIV := 0.25 + absf(moneyness)*0.5 + (p.rng.Float64()*0.04 - 0.02)

			callPrice := maxf(0.01, (underlying-strike)+baseIV*underlying*0.1)
			contracts = append(contracts, provider.OptionContract{
				Symbol:       fmt.Sprintf("%s%sC%08d", symbol, exp.Format("060102"), int(strike*1000)),
				Strike:       strike,
				Expiration:   exp.Format("2006-01-02"),
				Type:         provider.OptionTypeCall,
				Bid:          round2(callPrice * 0.98),
				Ask:          round2(callPrice * 1.02),
				Last:         round2(callPrice),
				Volume:       int64(10 + p.rng.Intn(990)),
				OpenInterest: int64(100 + p.rng.Intn(9900)),
				ImpliedVol:   round(baseIV, 4),
				Greeks: provider.Greeks{
					Delta: round(0.5+moneyness*2, 4),
					Gamma: round(0.05*(1-absf(moneyness)), 4),
					Theta: round(-0.05*baseIV*underlying/365, 4),
					Vega:  round(0.01*underlying*sqrtf(daysToExp/365), 4),
					Rho:   round(0.01*strike*daysToExp/365, 4),
				},
			})

			putPrice := maxf(0.01, (strike-underlying)+baseIV*underlying*0.1)
			contracts = append(contracts, provider.OptionContract{
				Symbol:       fmt.Sprintf("%s%sP%08d", symbol, exp.Format("060102"), int(strike*1000)),
				Strike:       strike,
				Expiration:   exp.Format("2006-01-02"),
				Type:         provider.OptionTypePut,
				Bid:          round2(putPrice * 0.98),
				Ask:          round2(putPrice * 1.02),
				Last:         round2(putPrice),
				Volume:       int64(10 + p.rng.Intn(990)),
				OpenInterest: int64(100 + p.rng.Intn(9900)),
				ImpliedVol:   round(baseIV, 4),
				Greeks: provider.Greeks{
					Delta: round(-0.5+moneyness*2, 4),
					Gamma: round(0.05*(1-absf(moneyness)), 4),
					Theta: round(-0.05*baseIV*underlying/365, 4),
					Vega:  round(0.01*underlying*sqrtf(daysToExp/365), 4),
					Rho:   round(-0.01*strike*daysToExp/365, 4),
				},
			})
		}
	}

	return provider.OptionChain{
		Symbol:      symbol,
		Market:      market,
		Expirations: expStrs,
		Contracts:   contracts,
		Timestamp:   time.Now(),
	}, nil
}

// GetPriceHistory generates limit daily bars ending today, oldest first,
// random-walking around the base price.
func (p *Provider) GetPriceHistory(ctx context.Context, symbol string, market provider.Market, limit int) (provider.PriceHistory, error) {
	if err := ctx.Err(); err != nil {
		return provider.PriceHistory{}, err
	}
	if limit <= 0 {
		limit = 30
	}
	base := p.basePrice(symbol, market)
	bars := make([]provider.PriceBar, limit)
	price := base
	today := time.Now().UTC()
	for i := limit - 1; i >= 0; i-- {
		change := p.rng.NormFloat64() * base * 0.01
		open := price
		price = maxf(0.01, price+change)
		high := maxf(open, price) * (1 + p.rng.Float64()*0.003)
		low := minf(open, price) * (1 - p.rng.Float64()*0.003)
		bars[limit-1-i] = provider.PriceBar{
			Date:   today.AddDate(0, 0, -i),
			Open:   round2(open),
			High:   round2(high),
			Low:    round2(low),
			Close:  round2(price),
			Volume: int64(100000 + p.rng.Intn(4900000)),
		}
	}
	return provider.PriceHistory{Symbol: symbol, Market: market, Bars: bars}, nil
}

// GetIVAnalysis returns an IV summary drawn from the provider's seeded
// random source; it is not derived from any price history.
func (p *Provider) GetIVAnalysis(ctx context.Context, symbol string, market provider.Market) (provider.IVAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return provider.IVAnalysis{}, err
	}
	currentIV := 0.20 + p.rng.Float64()*0.15
	return provider.IVAnalysis{
		Symbol:       symbol,
		CurrentIV:    round(currentIV, 4),
		IVRank:       round(p.rng.Float64()*100, 2),
		IVPercentile: round(p.rng.Float64()*100, 2),
		IV52WHigh:    round(currentIV+0.15, 4),
		IV52WLow:     round(maxf(currentIV-0.12, 0.05), 4),
		IV30DAvg:     round(currentIV*0.95, 4),
	}, nil
}

func (p *Provider) GetMarketSentiment(ctx context.Context, symbol string, market provider.Market) (provider.MarketSentiment, error) {
	if err := ctx.Err(); err != nil {
		return provider.MarketSentiment{}, err
	}
	callVol := int64(1000 + p.rng.Intn(50000))
	putVol := int64(1000 + p.rng.Intn(50000))
	ratio := round(float64(putVol)/float64(maxInt64(callVol, 1)), 3)

	sentiment := provider.SentimentNeutral
	switch {
	case ratio < 0.7:
		sentiment = provider.SentimentBullish
	case ratio > 1.3:
		sentiment = provider.SentimentBearish
	}

	return provider.MarketSentiment{
		Symbol:           symbol,
		PutCallRatio:     ratio,
		TotalCallVolume:  callVol,
		TotalPutVolume:   putVol,
		CallOpenInterest: callVol * 3,
		PutOpenInterest:  putVol * 3,
		Sentiment:        sentiment,
	}, nil
}

func absf(v float64) float64  { return math.Abs(v) }
func maxf(a, b float64) float64 { return math.Max(a, b) }
func minf(a, b float64) float64 { return math.Min(a, b) }
func sqrtf(v float64) float64   { return math.Sqrt(math.Max(v, 0)) }

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
