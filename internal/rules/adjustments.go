// Package rules evaluates the standing adjustment (A1-A9) and exit
// (X1-X7) rule catalogs against a position snapshot, the current regime,
// and market inputs.
package rules

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/enginemodels"
)

// AdjustmentCatalog is the standing set of A1-A9 rule definitions,
// keyed by rule ID.
var AdjustmentCatalog = map[string]enginemodels.AdjustmentRule{
	"A1": {
		RuleID: "A1", Name: "Time Roll", Trigger: "dte <= 21",
		Action:    "Roll to next month (same delta) or close",
		Rationale: "Gamma acceleration beyond 21 DTE [GS Art of Put Selling]",
		Priority:  enginemodels.PriorityHigh,
	},
	"A2": {
		RuleID: "A2", Name: "Time Close", Trigger: "dte <= 7 AND strategy != '0DTE'",
		Action:    "Close position regardless of P&L",
		Rationale: "Gamma fundamentally changes position character [JPM P&L Attribution]",
		Priority:  enginemodels.PriorityCritical,
	},
	"A3": {
		RuleID: "A3", Name: "Delta Breach", Trigger: "short_strike_delta > 30 (from initial 10-20)",
		Action:    "Roll strike further OTM and out in time",
		Rationale: "Underlying moved significantly toward strike [JPM Resilient Option Carry]",
		Priority:  enginemodels.PriorityHigh,
	},
	"A4": {
		RuleID: "A4", Name: "Strangle Test", Trigger: "tested side breached by > 1 standard deviation",
		Action:    "Close tested side; leave untested as standalone if profitable. Do NOT double down.",
		Rationale: "[GS Art of Put Selling]",
		Priority:  enginemodels.PriorityHigh,
	},
	"A5": {
		RuleID: "A5", Name: "Delta Hedge", Trigger: "portfolio_delta > +/-15% NAV",
		Action:    "Add delta hedges via futures or ATM options",
		Rationale: "[Inference from JPM position management framework]",
		Priority:  enginemodels.PriorityHigh,
	},
	"A6": {
		RuleID: "A6", Name: "Vol Spike", Trigger: "vix_1d_change > 5 OR vix_5d_change > 30%",
		Action:    "Reduce all short vega by 50%. If VIX > 35: close ALL naked short vol.",
		Rationale: "[GS Vol Vitals; GS State of Vol]",
		Priority:  enginemodels.PriorityCritical,
	},
	"A7": {
		RuleID: "A7", Name: "Earnings Dodge", Trigger: "days_to_earnings <= 5 AND position is covered_call on that name",
		Action:    "Roll or close calls before earnings",
		Rationale: "Failure costs 3-6% annually [GS Overwriting 16yr study]",
		Priority:  enginemodels.PriorityHigh,
	},
	"A8": {
		RuleID: "A8", Name: "Regime Change", Trigger: "regime classification changes (e.g., NORMAL -> ELEVATED)",
		Action:    "Review ALL positions. Close any not appropriate for new regime.",
		Rationale: "[JPM Systematic Vol]",
		Priority:  enginemodels.PriorityCritical,
	},
	"A9": {
		RuleID: "A9", Name: "Correlation Spike", Trigger: "implied_corr rises above 80th pctile within 5 days",
		Action:    "Close all dispersion trades. Review short vol positions for systemic risk.",
		Rationale: "[JPM Equity Vol Strategy]",
		Priority:  enginemodels.PriorityHigh,
	},
}

// AdjustmentEngine evaluates A1-A9 against a position snapshot.
type AdjustmentEngine struct {
	logger *zap.Logger
}

// NewAdjustmentEngine creates an AdjustmentEngine. logger may be nil.
func NewAdjustmentEngine(logger *zap.Logger) *AdjustmentEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdjustmentEngine{logger: logger}
}

// Evaluate runs all adjustment rules for a position and returns only the
// ones that triggered. previousRegime may be nil when no prior regime is
// known, in which case A8 never triggers.
func (e *AdjustmentEngine) Evaluate(
	position enginemodels.PositionView,
	regime enginemodels.RegimeResult,
	inputs enginemodels.MarketInputs,
	previousRegime *enginemodels.RegimeResult,
) []enginemodels.RuleEvaluation {
	var results []enginemodels.RuleEvaluation

	dte := position.EffectiveDTE()

	// A1: Time Roll
	if dte <= 21 && dte > 7 {
		results = append(results, enginemodels.RuleEvaluation{
			RuleID: "A1", RuleName: "Time Roll", Triggered: true,
			Priority: enginemodels.PriorityHigh,
			Action:   AdjustmentCatalog["A1"].Action,
			Details:  fmt.Sprintf("Position DTE=%d, below 21-day roll threshold", dte),
		})
	}

	// A2: Time Close
	if dte <= 7 && !position.Is0DTE {
		results = append(results, enginemodels.RuleEvaluation{
			RuleID: "A2", RuleName: "Time Close", Triggered: true,
			Priority: enginemodels.PriorityCritical,
			Action:   AdjustmentCatalog["A2"].Action,
			Details:  fmt.Sprintf("Position DTE=%d, gamma acceleration zone", dte),
		})
	}

	// A3: Delta Breach
	initialDelta := position.EffectiveInitialDelta()
	if absFloat(position.CurrentDelta) > 30 && absFloat(initialDelta) <= 20 {
		results = append(results, enginemodels.RuleEvaluation{
			RuleID: "A3", RuleName: "Delta Breach", Triggered: true,
			Priority: enginemodels.PriorityHigh,
			Action:   AdjustmentCatalog["A3"].Action,
			Details:  fmt.Sprintf("Delta moved from %v to %v", initialDelta, position.CurrentDelta),
		})
	}

	// A4: Strangle Test
	if position.Strategy == "short_strangle" || position.Strategy == "iron_condor" {
		if position.TestedBreachStd > 1.0 {
			results = append(results, enginemodels.RuleEvaluation{
				RuleID: "A4", RuleName: "Strangle Test", Triggered: true,
				Priority: enginemodels.PriorityHigh,
				Action:   AdjustmentCatalog["A4"].Action,
				Details:  fmt.Sprintf("Tested side breached by %.1f std deviations", position.TestedBreachStd),
			})
		}
	}

	// A5: Delta Hedge
	if absFloat(position.PortfolioDeltaPct) > 0.15 {
		results = append(results, enginemodels.RuleEvaluation{
			RuleID: "A5", RuleName: "Delta Hedge", Triggered: true,
			Priority: enginemodels.PriorityHigh,
			Action:   AdjustmentCatalog["A5"].Action,
			Details:  fmt.Sprintf("Portfolio delta at %.1f%% of NAV", position.PortfolioDeltaPct*100),
		})
	}

	// A6: Vol Spike
	vix1D := inputs.Vol.VIX1DChange
	var vix5DPct float64
	if inputs.Vol.VIX > 0 {
		denom := inputs.Vol.VIX - inputs.Vol.VIX5DChange
		if denom < 1 {
			denom = 1
		}
		vix5DPct = inputs.Vol.VIX5DChange / denom
	}
	if vix1D > 5 || vix5DPct > 0.30 {
		action := AdjustmentCatalog["A6"].Action
		if inputs.Vol.VIX > 35 {
			action = "CRITICAL: VIX > 35 - close ALL naked short vol immediately"
		}
		results = append(results, enginemodels.RuleEvaluation{
			RuleID: "A6", RuleName: "Vol Spike", Triggered: true,
			Priority: enginemodels.PriorityCritical,
			Action:   action,
			Details:  fmt.Sprintf("VIX 1d change: %+.1f, 5d change: %.1f%%", vix1D, vix5DPct*100),
		})
	}

	// A7: Earnings Dodge
	if position.IsCoveredCall && inputs.Events.DaysToEarnings <= 5 {
		results = append(results, enginemodels.RuleEvaluation{
			RuleID: "A7", RuleName: "Earnings Dodge", Triggered: true,
			Priority: enginemodels.PriorityHigh,
			Action:   AdjustmentCatalog["A7"].Action,
			Details:  fmt.Sprintf("Earnings in %d days for covered call", inputs.Events.DaysToEarnings),
		})
	}

	// A8: Regime Change
	if previousRegime != nil && previousRegime.Regime != regime.Regime {
		results = append(results, enginemodels.RuleEvaluation{
			RuleID: "A8", RuleName: "Regime Change", Triggered: true,
			Priority: enginemodels.PriorityCritical,
			Action:   AdjustmentCatalog["A8"].Action,
			Details:  fmt.Sprintf("Regime changed: %s -> %s", previousRegime.Regime, regime.Regime),
		})
	}

	// A9: Correlation Spike
	if inputs.Correlation.CorrPctile1Y > 80 && position.IsDispersion {
		results = append(results, enginemodels.RuleEvaluation{
			RuleID: "A9", RuleName: "Correlation Spike", Triggered: true,
			Priority: enginemodels.PriorityHigh,
			Action:   AdjustmentCatalog["A9"].Action,
			Details:  fmt.Sprintf("Implied correlation at %.0fth percentile", inputs.Correlation.CorrPctile1Y),
		})
	}

	return sortByPriority(results)
}

// GetAllRules returns the full A1-A9 catalog.
func (e *AdjustmentEngine) GetAllRules() []enginemodels.AdjustmentRule {
	out := make([]enginemodels.AdjustmentRule, 0, len(AdjustmentCatalog))
	for _, id := range []string{"A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8", "A9"} {
		out = append(out, AdjustmentCatalog[id])
	}
	return out
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// sortByPriority stably sorts triggered rule evaluations CRITICAL-first.
func sortByPriority(results []enginemodels.RuleEvaluation) []enginemodels.RuleEvaluation {
	sorted := make([]enginemodels.RuleEvaluation, len(results))
	copy(sorted, results)
	for i := 1; i < len(sorted); i++ {
		j := i
		for j > 0 && sorted[j-1].Priority.Rank() > sorted[j].Priority.Rank() {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
			j--
		}
	}
	return sorted
}
