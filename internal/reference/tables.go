// Package reference holds the 8 backtested quantitative reference tables
// (put selling, overwriting, hedging, sector event sensitivity, global
// vol levels, 0DTE premium, vol risk premium, and tail trading
// performance) and provides name-keyed lookup.
package reference

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/enginemodels"
)

func f(v float64) *float64 { return &v }

var putSelling = []enginemodels.PutSellingPerformance{
	{Delta: 70, AnnReturn: 7.1, Sharpe: 0.50, StdDev: 17.0, WinRate: 0.68, AvgPremium: 0.24},
	{Delta: 60, AnnReturn: 6.9, Sharpe: 0.51, StdDev: 16.0, WinRate: 0.56, AvgPremium: 0.19},
	{Delta: 50, AnnReturn: 6.3, Sharpe: 0.50, StdDev: 14.5, WinRate: 0.44, AvgPremium: 0.14},
	{Delta: 40, AnnReturn: 5.6, Sharpe: 0.50, StdDev: 12.6, WinRate: 0.32, AvgPremium: 0.10},
	{Delta: 30, AnnReturn: 4.8, Sharpe: 0.50, StdDev: 10.1, WinRate: 0.23, AvgPremium: 0.07},
	{Delta: 20, AnnReturn: 3.8, Sharpe: 0.54, StdDev: 7.6, WinRate: 0.15, AvgPremium: 0.04},
}

var overwriting = []enginemodels.OverwritingPerformance{
	{FCFQuintile: "Q1 (Low)", AnnReturn: 2.6, Sharpe: 0.27, StdDev: 13.0},
	{FCFQuintile: "Q2", AnnReturn: 6.1, Sharpe: 0.62, StdDev: 11.0},
	{FCFQuintile: "Q3", AnnReturn: 7.9, Sharpe: 0.92, StdDev: 9.0},
	{FCFQuintile: "Q4", AnnReturn: 7.9, Sharpe: 0.91, StdDev: 9.0},
	{FCFQuintile: "Q5 (High)", AnnReturn: 8.8, Sharpe: 0.90, StdDev: 10.0},
}

var hedging = []enginemodels.HedgingComparison{
	{Strategy: "S&P 500 (unhedged)", AnnReturn: 9.2, Vol: 18.2, Sharpe: 0.51, MaxDD: -38.0},
	{Strategy: "Put Spread Collar 3m/3m", AnnReturn: 7.6, Vol: 8.8, Sharpe: 0.88, MaxDD: -14.0},
	{Strategy: "Long Put (monthly roll)", AnnReturn: 6.0, Vol: 10.8, Sharpe: 0.56, MaxDD: -13.0},
	{Strategy: "Put Spread", AnnReturn: 7.5, Vol: 13.5, Sharpe: 0.56, MaxDD: -17.0},
	{Strategy: "Covered Call (10% OTM)", AnnReturn: 10.7, Vol: 14.0, Sharpe: 0.76, MaxDD: -25.0},
	{Strategy: "Put Selling (10% OTM)", AnnReturn: 5.5, Vol: 7.0, Sharpe: 0.76, MaxDD: -22.0},
}

var sectorSensitivity = []enginemodels.SectorEventSensitivity{
	{Sector: "Energy", Activity: 0.1, Credit: 0.2, Employment: 0.1, Housing: 0.1, Oil: 0.8, Policy: 0.1, Prices: 0.4},
	{Sector: "Real Estate", Activity: 0.1, Credit: 0.4, Employment: 0.3, Housing: 0.8, Oil: 0.1, Policy: 0.3, Prices: 0.1},
	{Sector: "Financials", Activity: 0.1, Credit: 0.5, Employment: 0.1, Housing: 0.4, Oil: 0.1, Policy: 0.4, Prices: 0.3},
	{Sector: "Tech", Activity: 0.1, Credit: 0.1, Employment: 0.2, Housing: 0.1, Oil: 0.1, Policy: 0.2, Prices: 0.2},
	{Sector: "Healthcare", Activity: 0.1, Credit: 0.1, Employment: 0.1, Housing: 0.1, Oil: 0.1, Policy: 0.2, Prices: 0.1},
}

var globalVol = []enginemodels.GlobalVolLevel{
	{Index: "SPX", IV1M: 21.2, Pctile1M5Y: 15.5, IV3M: 22.5, Pctile3M5Y: 18.2, VarianceBasis1M: -3.3},
	{Index: "NDX", IV1M: 19.0, Pctile1M5Y: 12.5, IV3M: 21.0, Pctile3M5Y: 10.5, VarianceBasis1M: 7.7},
	{Index: "DAX", IV1M: 15.2, Pctile1M5Y: 23.4, IV3M: 15.9, Pctile3M5Y: 24.1, VarianceBasis1M: -6.3},
	{Index: "HSCEI", IV1M: 22.1, Pctile1M5Y: 15.2, IV3M: 22.4, Pctile3M5Y: 24.3, VarianceBasis1M: 0.0},
}

var zeroDTEPremium = []enginemodels.ZeroDTEVolPremium{
	{Day: "Monday", NDXPremium: "3.2-4.5%", GammaImbalance: "-175 to -125bps", Bias: "SELL"},
	{Day: "Tuesday", NDXPremium: "3.2-4.5%", GammaImbalance: "-125 to -100bps", Bias: "SELL"},
	{Day: "Wednesday", NDXPremium: "2.2-2.5%", GammaImbalance: "-50bps", Bias: "AVOID/BUY"},
	{Day: "Thursday", NDXPremium: "2.2-2.5%", GammaImbalance: "-75bps", Bias: "SELECTIVE"},
	{Day: "Friday", NDXPremium: "3.0-3.5%", GammaImbalance: "-150bps", Bias: "SELL"},
}

var volRiskPremium = []enginemodels.VolRiskPremium{
	{Tenor: "2Y", ATM: 42, OTM25D: 25, OTM10D: 12, OTM5D: 3},
	{Tenor: "5Y", ATM: 16, OTM25D: 10, OTM10D: 5, OTM5D: 3},
	{Tenor: "10Y", ATM: 7, OTM25D: 3, OTM10D: -1, OTM5D: -3},
	{Tenor: "20Y", ATM: 2, OTM25D: -3, OTM10D: -8, OTM5D: -12},
}

var tailTrading = []enginemodels.TailTradingPerformance{
	{Configuration: "SPX only", AnnReturn: 12.5, Vol: f(18.2), Sharpe: f(0.69), MaxDD: f(-31.0)},
	{Configuration: "SPX + Put Spread", AnnReturn: 10.2, Vol: f(14.8), Sharpe: f(0.69), MaxDD: f(-12.0)},
	{Configuration: "SPX + Tail + Put Spread", AnnReturn: 17.1, Vol: f(15.4), Sharpe: f(1.11), MaxDD: f(-17.6)},
	{Configuration: "2025 YTD: PS only", AnnReturn: 0.8},
	{Configuration: "2025 YTD: PS + Tail", AnnReturn: 7.6},
}

// tableNames maps a lookup name to its table contents. Stored as `any`
// since each table has a distinct row type; callers use GetTable and a
// type switch/assertion on the result, or a typed accessor below.
var tableNames = map[string]any{
	"put_selling":        putSelling,
	"overwriting":        overwriting,
	"hedging":            hedging,
	"sector_sensitivity": sectorSensitivity,
	"global_vol":         globalVol,
	"zero_dte_premium":   zeroDTEPremium,
	"vol_risk_premium":   volRiskPremium,
	"tail_trading":       tailTrading,
}

// Tables provides name-keyed access to the standing reference tables.
type Tables struct {
	logger *zap.Logger
}

// NewTables creates a Tables accessor. logger may be nil.
func NewTables(logger *zap.Logger) *Tables {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tables{logger: logger}
}

// GetTable retrieves a reference table by name. The returned value's
// concrete type depends on the table (e.g. []enginemodels.PutSellingPerformance
// for "put_selling"); callers type-assert to the row type they expect.
func (t *Tables) GetTable(name string) (any, error) {
	table, ok := tableNames[name]
	if !ok {
		return nil, fmt.Errorf("unknown table %q. Available: %v", name, t.ListTables())
	}
	return table, nil
}

// ListTables returns all available table names, sorted for stable output.
func (t *Tables) ListTables() []string {
	names := make([]string, 0, len(tableNames))
	for name := range tableNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PutSelling returns the put-selling-by-delta performance table.
func (t *Tables) PutSelling() []enginemodels.PutSellingPerformance { return putSelling }

// Overwriting returns the overwriting-by-FCF-quintile performance table.
func (t *Tables) Overwriting() []enginemodels.OverwritingPerformance { return overwriting }

// Hedging returns the hedging strategy comparison table.
func (t *Tables) Hedging() []enginemodels.HedgingComparison { return hedging }

// SectorSensitivity returns the macro-event sector sensitivity table.
func (t *Tables) SectorSensitivity() []enginemodels.SectorEventSensitivity { return sectorSensitivity }

// GlobalVol returns the global vol level and percentile table.
func (t *Tables) GlobalVol() []enginemodels.GlobalVolLevel { return globalVol }

// ZeroDTEPremium returns the 0DTE day-of-week vol premium table.
func (t *Tables) ZeroDTEPremium() []enginemodels.ZeroDTEVolPremium { return zeroDTEPremium }

// VolRiskPremium returns the vol risk premium matrix by tenor.
func (t *Tables) VolRiskPremium() []enginemodels.VolRiskPremium { return volRiskPremium }

// TailTrading returns the three-pillar tail trading performance table.
func (t *Tables) TailTrading() []enginemodels.TailTradingPerformance { return tailTrading }
