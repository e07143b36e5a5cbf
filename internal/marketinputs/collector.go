// Package marketinputs assembles enginemodels.MarketInputs from a live
// market data provider, falling back to a deterministic mock fixture when
// no provider is configured or the provider errors.
package marketinputs

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	talib "github.com/markcheno/go-talib"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/atlas-desktop/trading-backend/internal/enginemodels"
)

// Quote is a single instrument quote from a market data provider.
type Quote struct {
	Symbol string
	Price  float64
}

// PriceBar is one daily OHLC bar. Only the close is needed here.
type PriceBar struct {
	Close float64
}

// PriceHistory is a run of daily bars, oldest first.
type PriceHistory struct {
	Bars []PriceBar
}

// Provider is the minimal market-data surface the collector needs from a
// live source: a point quote and a daily price history. Concrete
// aggregated/MCP-backed providers satisfy this structurally.
type Provider interface {
	GetQuote(ctx context.Context, symbol, market string) (Quote, error)
	GetPriceHistory(ctx context.Context, symbol, market string, limit int) (PriceHistory, error)
}

// Collector builds MarketInputs snapshots for the decision engine.
type Collector struct {
	logger   *zap.Logger
	provider Provider
}

// NewCollector creates a Collector. provider may be nil, in which case
// Collect always returns the mock fixture. logger may be nil.
func NewCollector(logger *zap.Logger, provider Provider) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{logger: logger, provider: provider}
}

// Collect returns current market inputs, preferring the live provider and
// falling back to the mock fixture if the provider is absent or errors.
func (c *Collector) Collect(ctx context.Context) (enginemodels.MarketInputs, error) {
	if err := ctx.Err(); err != nil {
		return enginemodels.MarketInputs{}, err
	}
	if c.provider == nil {
		return c.collectMock(), nil
	}
	inputs, err := c.collectLive(ctx)
	if err != nil {
		c.logger.Warn("live market data collection failed, falling back to mock", zap.Error(err))
		return c.collectMock(), nil
	}
	return inputs, nil
}

func (c *Collector) collectLive(ctx context.Context) (enginemodels.MarketInputs, error) {
	spxQuote, err := c.provider.GetQuote(ctx, "SPY", "US")
	if err != nil {
		return enginemodels.MarketInputs{}, fmt.Errorf("get SPY quote: %w", err)
	}
	spxPrice := spxQuote.Price

	vix := 18.0
	if vixQuote, vErr := c.provider.GetQuote(ctx, "^VIX", "US"); vErr == nil {
		vix = vixQuote.Price
	}

	smaFifty, smaTwoHundred := spxPrice, spxPrice
	var ret1D, ret5D, ret20D float64
	rv20D := vix

	if history, hErr := c.provider.GetPriceHistory(ctx, "SPY", "US", 200); hErr == nil && len(history.Bars) > 0 {
		closes := make([]float64, len(history.Bars))
		for i, bar := range history.Bars {
			closes[i] = bar.Close
		}
		n := len(closes)

		if n >= 50 {
			smaFifty = lastSMA(closes, 50)
		}
		if n >= 200 {
			smaTwoHundred = lastSMA(closes, 200)
		}
		if n >= 2 {
			ret1D = closes[n-1]/closes[n-2] - 1
		}
		if n >= 6 {
			ret5D = closes[n-1]/closes[n-6] - 1
		}
		if n >= 21 {
			ret20D = closes[n-1]/closes[n-21] - 1
			rv20D = realizedVol(closes, 20)
		}
	}

	return enginemodels.MarketInputs{
		Spot: enginemodels.SpotData{
			SPXLevel:  spxPrice,
			SPXRet1D:  ret1D,
			SPXRet5D:  ret5D,
			SPXRet20D: ret20D,
			SPXSma50:  smaFifty,
			SPXSma200: smaTwoHundred,
		},
		Vol: enginemodels.VolData{
			VIX:             vix,
			VIXPercentile1Y: 50.0,
			IVAtm1M:         vix,
			IVAtm3M:         vix + 1.5,
			RV20D:           rv20D,
			IVRVSpread:      vix - rv20D,
		},
		Timestamp: time.Now().UTC(),
	}, nil
}

// collectMock builds a deterministic fixture for environments with no
// configured provider: development, demos, and offline tests. A synthetic
// daily-close series is generated from a fixed seed and fed through
// talib.Sma and a gonum/stat realized-vol helper, the same way the live
// path derives its moving averages and realized vol from an actual price
// history, so the two code paths stay shaped alike.
func (c *Collector) collectMock() enginemodels.MarketInputs {
	closes := generateMockCloseSeries()
	n := len(closes)

	spx := closes[n-1]
	smaFifty := lastSMA(closes, 50)
	smaTwoHundred := lastSMA(closes, 200)
	rv10D := realizedVol(closes, 10)
	rv20D := realizedVol(closes, 20)
	rv30D := realizedVol(closes, 30)
	ret1D := closes[n-1]/closes[n-2] - 1
	ret5D := closes[n-1]/closes[n-6] - 1
	ret20D := closes[n-1]/closes[n-21] - 1

	const (
		vix  = 17.5
		iv1M = 17.0
		iv3M = 18.5
		iv6M = 19.2
	)

	return enginemodels.MarketInputs{
		Spot: enginemodels.SpotData{
			SPXLevel:             round(spx, 2),
			SPXRet1D:             round(ret1D, 4),
			SPXRet5D:             round(ret5D, 4),
			SPXRet20D:            round(ret20D, 4),
			SPXSma50:             round(smaFifty, 2),
			SPXSma200:            round(smaTwoHundred, 2),
			BreadthPctAbove50DMA: 62.0,
		},
		Vol: enginemodels.VolData{
			VIX:             vix,
			VIX1DChange:     -0.3,
			VIX5DChange:     -1.2,
			VIXPercentile1Y: 42.0,
			VVIX:            19.5,
			VIX9D:           16.8,
			IVAtm1M:         iv1M,
			IVAtm3M:         iv3M,
			IVAtm6M:         iv6M,
			RV10D:           round(rv10D, 2),
			RV20D:           round(rv20D, 2),
			RV30D:           round(rv30D, 2),
			IVRVSpread:      round(iv1M-rv20D, 2),
		},
		Skew: enginemodels.SkewData{
			PutSkew25D1M:    5.2,
			PutSkew25D3M:    5.8,
			RiskReversal25D: -4.5,
			SkewPctile1Y:    48.0,
		},
		TermStructure: enginemodels.TermStructureData{
			TS1M3M:       iv3M - iv1M,
			TS3M6M:       iv6M - iv3M,
			TSSlope:      0.8,
			VIXFutures1M: 18.2,
			VIXFutures3M: 19.5,
			RollYield:    (18.2 - vix) / vix,
		},
		Events: enginemodels.EventCalendarData{
			DaysToFOMC:     12,
			DaysToCPI:      8,
			DaysToNFP:      15,
			DaysToEarnings: 22,
			EventsNext5D:   0,
			EventsNext20D:  2,
		},
		Credit: enginemodels.CreditMacroData{
			HYOAS:          380.0,
			HYOAS20DChange: 5.0,
			IGSpread:       95.0,
			FedFundsRate:   4.50,
			US10YYield:     4.25,
			US2s10s:        0.15,
		},
		Liquidity: enginemodels.LiquidityData{
			SPXBidAsk:       0.04,
			SPXBidAsk20DMA:  0.04,
			BidAskWidening:  1.0,
			EminiDepth:      1800.0,
			OptionsVolumeOI: 0.45,
		},
		Correlation: enginemodels.CorrelationData{
			ImpliedCorr:     45.0,
			RealizedCorr20D: 40.0,
			CorrPctile1Y:    42.0,
			Dispersion:      5.0,
		},
		Timestamp: time.Now().UTC(),
	}
}

// mockSeriesDays is long enough to seed both the 200-day SMA and the
// 30-day realized vol window the mock fixture reports.
const mockSeriesDays = 260

// generateMockCloseSeries produces a deterministic synthetic SPX daily
// close series: fixed seed, slight upward drift, Gaussian daily noise.
func generateMockCloseSeries() []float64 {
	const (
		basePrice = 5500.0
		drift     = 0.00035
		dailyVol  = 0.009
	)
	rng := rand.New(rand.NewSource(42))
	closes := make([]float64, mockSeriesDays)
	price := basePrice
	for i := 0; i < mockSeriesDays; i++ {
		price *= math.Exp(drift + dailyVol*rng.NormFloat64())
		closes[i] = price
	}
	return closes
}

// lastSMA returns the most recent simple moving average over period bars.
func lastSMA(closes []float64, period int) float64 {
	sma := talib.Sma(closes, period)
	if len(sma) == 0 {
		return closes[len(closes)-1]
	}
	return sma[len(sma)-1]
}

// realizedVol annualizes the standard deviation of daily log returns over
// the trailing window, expressed in IV-comparable percentage points.
func realizedVol(closes []float64, window int) float64 {
	n := len(closes)
	start := n - window
	if start < 1 {
		start = 1
	}
	logRets := make([]float64, 0, window)
	for i := start; i < n; i++ {
		logRets = append(logRets, math.Log(closes[i]/closes[i-1]))
	}
	if len(logRets) == 0 {
		return 0
	}
	return stat.StdDev(logRets, nil) * math.Sqrt(252) * 100
}

func round(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
