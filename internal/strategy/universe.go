// Package strategy holds the strategy universe: the catalog of 19
// options strategy templates (income, directional, hedging, tail-trading,
// and relative-value families) that the selector scores and parameterizes.
//
// The catalog is immutable after package initialization and safe to share
// across concurrent requests without locking.
package strategy

import (
	"fmt"

	"github.com/atlas-desktop/trading-backend/internal/enginemodels"
)

// Universe is the complete strategy template catalog.
type Universe struct {
	templates map[string]enginemodels.StrategyTemplate
	order     []string
}

// NewUniverse constructs the standing strategy universe.
func NewUniverse() *Universe {
	templates := buildTemplates()
	order := make([]string, 0, len(templates))
	for _, t := range defaultOrder {
		order = append(order, t)
	}
	return &Universe{templates: templates, order: order}
}

// Get returns a strategy template by name.
func (u *Universe) Get(name string) (enginemodels.StrategyTemplate, error) {
	tpl, ok := u.templates[name]
	if !ok {
		return enginemodels.StrategyTemplate{}, fmt.Errorf("unknown strategy %q: available %v", name, u.Names())
	}
	return tpl, nil
}

// ListAll returns all strategy templates in catalog order.
func (u *Universe) ListAll() []enginemodels.StrategyTemplate {
	out := make([]enginemodels.StrategyTemplate, 0, len(u.order))
	for _, name := range u.order {
		out = append(out, u.templates[name])
	}
	return out
}

// ByFamily filters strategies by family.
func (u *Universe) ByFamily(family enginemodels.StrategyFamily) []enginemodels.StrategyTemplate {
	var out []enginemodels.StrategyTemplate
	for _, name := range u.order {
		t := u.templates[name]
		if t.Family == family {
			out = append(out, t)
		}
	}
	return out
}

// ByObjective filters strategies by objective.
func (u *Universe) ByObjective(objective enginemodels.StrategyObjective) []enginemodels.StrategyTemplate {
	var out []enginemodels.StrategyTemplate
	for _, name := range u.order {
		t := u.templates[name]
		if t.Objective == objective {
			out = append(out, t)
		}
	}
	return out
}

// Names returns all strategy names in catalog order.
func (u *Universe) Names() []string {
	out := make([]string, len(u.order))
	copy(out, u.order)
	return out
}

// Templates exposes the catalog as a map keyed by name. Iteration order
// over it is not defined; the selector walks Names() instead.
func (u *Universe) Templates() map[string]enginemodels.StrategyTemplate {
	return u.templates
}

var defaultOrder = []string{
	"cash_secured_put",
	"put_credit_spread",
	"short_strangle",
	"iron_condor",
	"covered_call",
	"calendar_spread_short_front",
	"put_debit_spread",
	"call_debit_spread",
	"long_straddle",
	"put_ladder_1x2",
	"vix_call_spread",
	"vix_collar_zero_cost",
	"scheduled_convexity",
	"tail_delta_pillar",
	"tail_gamma_pillar",
	"tail_vega_pillar",
	"dispersion_long",
	"variance_swap_ko",
	"sector_iv_rv",
}

func buildTemplates() map[string]enginemodels.StrategyTemplate {
	m := make(map[string]enginemodels.StrategyTemplate, len(defaultOrder))

	m["cash_secured_put"] = enginemodels.StrategyTemplate{
		Name:           "cash_secured_put",
		Family:         enginemodels.FamilyShortPremium,
		Objective:      enginemodels.ObjectiveIncome,
		Legs:           1,
		BaseDelta:      12,
		BaseDTE:        37,
		ProfitTarget:   "0.50",
		StopLoss:       "2.0",
		RollDTE:        21,
		HasRollDTE:     true,
		WinRate:        0.74,
		HasWinRate:     true,
		SharpeHist:     0.50,
		HasSharpeHist:  true,
		RegimeAllowed:  []string{"VERY_LOW", "LOW", "NORMAL", "ELEVATED"},
		RegimeExcluded: []string{"HIGH", "EXTREME", "CRISIS"},
		EventBlock:     true,
		Description:    "GS Art of Put Selling: 10-15 delta, 74% win rate, 30-45 DTE",
	}

	m["put_credit_spread"] = enginemodels.StrategyTemplate{
		Name:           "put_credit_spread",
		Family:         enginemodels.FamilyShortPremium,
		Objective:      enginemodels.ObjectiveIncome,
		Legs:           2,
		BaseDeltas:     map[string]int{"short": 17, "long": 7},
		BaseDTE:        37,
		WidthPct:       0.07,
		ProfitTarget:   "0.50",
		StopLoss:       "1.0",
		RollDTE:        21,
		HasRollDTE:     true,
		RegimeAllowed:  []string{"VERY_LOW", "LOW", "NORMAL", "ELEVATED", "HIGH"},
		RegimeExcluded: []string{"CRISIS"},
		EventBlock:     true,
		Description:    "Defined-risk put spread, 7% width between strikes",
	}

	m["short_strangle"] = enginemodels.StrategyTemplate{
		Name:           "short_strangle",
		Family:         enginemodels.FamilyShortPremium,
		Objective:      enginemodels.ObjectiveIncome,
		Legs:           2,
		BaseDeltas:     map[string]int{"put": 17, "call": 17},
		BaseDTE:        37,
		ProfitTarget:   "0.50",
		StopLoss:       "2.0",
		RollDTE:        21,
		HasRollDTE:     true,
		RegimeAllowed:  []string{"LOW", "NORMAL"},
		RegimeExcluded: []string{"ELEVATED", "HIGH", "EXTREME", "CRISIS"},
		EventBlock:     true,
		IVRankMin:      50,
		HasIVRankMin:   true,
		Description:    "Naked strangle, only in low/normal vol with IV rank > 50th",
	}

	m["iron_condor"] = enginemodels.StrategyTemplate{
		Name:   "iron_condor",
		Family: enginemodels.FamilyShortPremium,
		Objective: enginemodels.ObjectiveIncome,
		Legs:   4,
		BaseDeltas: map[string]int{
			"short_put": 17, "long_put": 7, "short_call": 17, "long_call": 7,
		},
		BaseDTE:        37,
		ProfitTarget:   "0.50",
		StopLoss:       "0.25",
		RollDTE:        21,
		HasRollDTE:     true,
		RegimeAllowed:  []string{"LOW", "NORMAL", "ELEVATED"},
		RegimeExcluded: []string{"HIGH", "EXTREME", "CRISIS"},
		EventBlock:     true,
		Description:    "4-leg defined-risk; close at 50% profit or 25% of max loss early",
	}

	m["covered_call"] = enginemodels.StrategyTemplate{
		Name:           "covered_call",
		Family:         enginemodels.FamilyShortPremium,
		Objective:      enginemodels.ObjectiveIncome,
		Legs:           1,
		BaseDelta:      30,
		BaseDTE:        30,
		ProfitTarget:   "0.50",
		StopLoss:       "2.0",
		SharpeHist:     0.76,
		HasSharpeHist:  true,
		RegimeAllowed:  []string{"VERY_LOW", "LOW", "NORMAL", "ELEVATED"},
		RegimeExcluded: []string{"CRISIS"},
		Description:    "GS Overwriting: large-cap Sharpe 0.76, Q5 FCF yield = 8.8%",
	}

	m["calendar_spread_short_front"] = enginemodels.StrategyTemplate{
		Name:              "calendar_spread_short_front",
		Family:            enginemodels.FamilyShortPremium,
		Objective:         enginemodels.ObjectiveEventHarvest,
		Legs:              2,
		BaseDelta:         50,
		BaseDTE:           37,
		BaseDTEIsSymbolic: true, // source: "event_dte"
		ProfitTarget:      "front_expires_worthless",
		StopLoss:          "realized_move > 1.5x implied_move",
		RegimeAllowed:     []string{"ALL"},
		RegimeExcluded:    []string{"CRISIS"},
		EventRequired:     true,
		Description:       "ATM calendar selling front-end event IV, buying back-month",
	}

	m["put_debit_spread"] = enginemodels.StrategyTemplate{
		Name:          "put_debit_spread",
		Family:        enginemodels.FamilyLongPremium,
		Objective:     enginemodels.ObjectiveDirectionalBearish,
		Legs:          2,
		BaseDeltas:    map[string]int{"long": 35, "short": 17},
		BaseDTE:       52,
		WidthPct:      0.12,
		ProfitTarget:  "1.00",
		StopLoss:      "0.50",
		RegimeAllowed: []string{"ELEVATED", "HIGH", "NORMAL"},
		Description:   "Bearish debit spread, 45-60 DTE, 2:1 R/R target",
	}

	m["call_debit_spread"] = enginemodels.StrategyTemplate{
		Name:          "call_debit_spread",
		Family:        enginemodels.FamilyLongPremium,
		Objective:     enginemodels.ObjectiveDirectionalBullish,
		Legs:          2,
		BaseDeltas:    map[string]int{"long": 45, "short": 27},
		BaseDTE:       52,
		ProfitTarget:  "1.00",
		StopLoss:      "0.50",
		RegimeAllowed: []string{"VERY_LOW", "LOW", "NORMAL"},
		Description:   "Bullish debit spread, 45-60 DTE, 2:1 R/R target",
	}

	m["long_straddle"] = enginemodels.StrategyTemplate{
		Name:              "long_straddle",
		Family:            enginemodels.FamilyLongPremium,
		Objective:         enginemodels.ObjectiveEventVol,
		Legs:              2,
		BaseDelta:         50,
		BaseDTE:           37,
		BaseDTEIsSymbolic: true, // source: "event_dte + 7"
		ProfitTarget:      "realized > 1.5x implied",
		StopLoss:          "theta > 25% of premium with no move",
		IVRankMax:         30,
		HasIVRankMax:      true,
		RegimeAllowed:     []string{"LOW", "NORMAL"},
		EventRequired:     true,
		Description:       "ATM straddle for event vol, only when IV rank < 30th",
	}

	m["put_ladder_1x2"] = enginemodels.StrategyTemplate{
		Name:          "put_ladder_1x2",
		Family:        enginemodels.FamilyHedging,
		Objective:     enginemodels.ObjectivePortfolioHedge,
		Legs:          3,
		Structure:     "buy 1x ATM-5% put, sell 2x ATM-15% puts",
		BaseDTE:       75,
		Cost:          "zero_or_credit",
		ProfitTarget:  "0.50",
		StopLoss:      "2.0",
		RegimeAllowed: []string{"ELEVATED", "HIGH"},
		Description:   "Put ladder monetizing rich skew, protection -5% to -15%",
	}

	m["vix_call_spread"] = enginemodels.StrategyTemplate{
		Name:          "vix_call_spread",
		Family:        enginemodels.FamilyHedging,
		Objective:     enginemodels.ObjectiveTailHedge,
		Legs:          2,
		Structure:     "buy VIX call at current+4, sell at current+12",
		BaseDTE:       45,
		CostBudget:    0.01,
		HasCostBudget: true,
		ProfitTarget:  "0.50",
		StopLoss:      "2.0",
		RegimeAllowed: []string{"LOW", "NORMAL"},
		VIXMax:        20,
		HasVIXMax:     true,
		Description:   "3-5x convexity vs SPX puts in crises (GS Hedging Toolkit)",
	}

	m["vix_collar_zero_cost"] = enginemodels.StrategyTemplate{
		Name:          "vix_collar_zero_cost",
		Family:        enginemodels.FamilyHedging,
		Objective:     enginemodels.ObjectivePortfolioHedge,
		Legs:          3,
		Structure:     "buy VIX call, sell higher VIX call, sell VIX put to fund",
		Cost:          "zero",
		ProfitTarget:  "0.50",
		StopLoss:      "2.0",
		RegimeAllowed: []string{"NORMAL"},
		Description:   "Zero-cost VIX collar (JPM Equity Vol Strategy)",
	}

	m["scheduled_convexity"] = enginemodels.StrategyTemplate{
		Name:          "scheduled_convexity",
		Family:        enginemodels.FamilyHedging,
		Objective:     enginemodels.ObjectiveSystematicTail,
		Legs:          1,
		Structure:     "buy 5-10 delta OTM puts monthly on schedule",
		CostBudget:    0.01,
		HasCostBudget: true,
		ProfitTarget:  "0.50",
		StopLoss:      "2.0",
		RegimeAllowed: []string{"ALL"},
		Description:   "GS Asymmetric 27yr: scheduled > discretionary convexity",
	}

	m["tail_delta_pillar"] = enginemodels.StrategyTemplate{
		Name:          "tail_delta_pillar",
		Family:        enginemodels.FamilyTailTrading,
		Objective:     enginemodels.ObjectiveSpotRecovery,
		Legs:          2,
		Structure:     "Long SPX 1M ATM-25D call spread",
		ProfitTarget:  "0.50",
		StopLoss:      "2.0",
		RegimeAllowed: []string{"ELEVATED", "HIGH", "CRISIS"},
		Description:   "Pillar 1: captures spot recovery, 1/22 notional per signal",
	}

	m["tail_gamma_pillar"] = enginemodels.StrategyTemplate{
		Name:          "tail_gamma_pillar",
		Family:        enginemodels.FamilyTailTrading,
		Objective:     enginemodels.ObjectiveRealizedVolCapture,
		Legs:          1,
		Structure:     "Long SPX 5D 25-delta calls, daily hedge at close",
		WinRate:       0.622,
		HasWinRate:    true,
		ProfitTarget:  "0.50",
		StopLoss:      "2.0",
		RegimeAllowed: []string{"ELEVATED", "HIGH", "CRISIS"},
		Description:   "Pillar 2: 62.2% hit rate capturing realized vol on recovery bounces",
	}

	m["tail_vega_pillar"] = enginemodels.StrategyTemplate{
		Name:          "tail_vega_pillar",
		Family:        enginemodels.FamilyTailTrading,
		Objective:     enginemodels.ObjectiveVIXNormalization,
		Legs:          3,
		Structure:     "Long VIX 1M ATM-25-10D put ladder",
		ProfitTarget:  "0.50",
		StopLoss:      "2.0",
		RegimeAllowed: []string{"ELEVATED", "HIGH", "CRISIS"},
		Description:   "Pillar 3: VIX mean reversion, 1/26 notional, match gamma vega",
	}

	m["dispersion_long"] = enginemodels.StrategyTemplate{
		Name:          "dispersion_long",
		Family:        enginemodels.FamilyRelativeValue,
		Objective:     enginemodels.ObjectiveCorrelationRV,
		Legs:          2,
		Structure:     "sell index vol, buy single-stock vol basket",
		BaseDTE:       90,
		WinRate:       0.5529,
		HasWinRate:    true,
		ProfitTarget:  "0.50",
		StopLoss:      "2.0",
		RegimeAllowed: []string{"NORMAL", "LOW"},
		Description:   "JPM: 55.29% normal hit rate, enter when implied corr > 70th pctile",
	}

	m["variance_swap_ko"] = enginemodels.StrategyTemplate{
		Name:          "variance_swap_ko",
		Family:        enginemodels.FamilyShortPremium,
		Objective:     enginemodels.ObjectiveCarryWithProtection,
		Legs:          1,
		Structure:     "short KO variance swap (KO at 2.5x strike vol)",
		BaseDTE:       60,
		ProfitTarget:  "0.50",
		StopLoss:      "2.0",
		RegimeAllowed: []string{"LOW", "NORMAL"},
		Description:   "JPM: caps left-tail at barrier, retains 85-90% of carry",
	}

	m["sector_iv_rv"] = enginemodels.StrategyTemplate{
		Name:          "sector_iv_rv",
		Family:        enginemodels.FamilyRelativeValue,
		Objective:     enginemodels.ObjectiveSectorMeanReversion,
		Legs:          2,
		Structure:     "sell top-decile sector IV, buy bottom-decile",
		BaseDTE:       60,
		ProfitTarget:  "0.50",
		StopLoss:      "2.0",
		RegimeAllowed: []string{"NORMAL", "LOW"},
		Description:   "Sector IV divergence > 40pts (5Y lookback) mean reversion",
	}

	return m
}
