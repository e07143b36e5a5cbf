package selector

import (
	"fmt"
	"math"

	"github.com/atlas-desktop/trading-backend/internal/enginemodels"
	"github.com/atlas-desktop/trading-backend/internal/sizing"
)

// checkGates runs the entry-gate checks applicable to a given template.
// Gates that don't apply to this template/regime combination are omitted
// entirely rather than reported as passing.
func (s *Selector) checkGates(
	tpl enginemodels.StrategyTemplate,
	regime enginemodels.RegimeResult,
	inputs enginemodels.MarketInputs,
) []enginemodels.GateCheckResult {
	var gates []enginemodels.GateCheckResult

	// G1: IV rank filter, short premium only.
	if tpl.Family == enginemodels.FamilyShortPremium {
		passed := inputs.Vol.VIXPercentile1Y >= 25
		reason := ""
		if !passed {
			reason = "IV rank below 25th pctile - insufficient premium"
		}
		gates = append(gates, enginemodels.GateCheckResult{GateName: "G1_iv_rank", Passed: passed, Reason: reason})
	}

	// G2: event avoidance.
	if tpl.EventBlock && regime.EventActive {
		ev := inputs.Events
		blocked := false
		switch regime.EventType {
		case enginemodels.EventTypeFOMC, enginemodels.EventTypeCPI, enginemodels.EventTypeNFP:
			if minInt(ev.DaysToFOMC, ev.DaysToCPI, ev.DaysToNFP) <= 10 {
				blocked = true
			}
		}
		if regime.EventType == enginemodels.EventTypeEarnings && ev.DaysToEarnings <= 5 {
			blocked = true
		}
		reason := ""
		if blocked {
			reason = fmt.Sprintf("Event (%s) within blocking window", regime.EventType)
		}
		gates = append(gates, enginemodels.GateCheckResult{GateName: "G2_event_avoidance", Passed: !blocked, Reason: reason})
	}

	// G3: liquidity.
	passed := inputs.Liquidity.SPXBidAsk <= 0.30
	reason := ""
	if !passed {
		reason = "Bid-ask > 30% of mid - abort entry"
	}
	gates = append(gates, enginemodels.GateCheckResult{GateName: "G3_liquidity", Passed: passed, Reason: reason})

	// G4: theta/gamma ratio, deferred to live execution.
	if tpl.Family == enginemodels.FamilyShortPremium {
		gates = append(gates, enginemodels.GateCheckResult{
			GateName: "G4_theta_gamma", Passed: true, Reason: "Theta/gamma check deferred to execution",
		})
	}

	// G5: regime compatibility.
	regimeName := string(regime.Regime)
	allowsAll := false
	for _, a := range tpl.RegimeAllowed {
		if a == "ALL" {
			allowsAll = true
			break
		}
	}
	isExcluded := false
	for _, e := range tpl.RegimeExcluded {
		if e == regimeName {
			isExcluded = true
			break
		}
	}
	var regimeOK bool
	if allowsAll {
		regimeOK = !isExcluded
	} else {
		isAllowed := false
		for _, a := range tpl.RegimeAllowed {
			if a == regimeName {
				isAllowed = true
				break
			}
		}
		regimeOK = isAllowed && !isExcluded
	}
	reason = ""
	if !regimeOK {
		reason = fmt.Sprintf("Strategy not allowed in %s regime", regimeName)
	}
	gates = append(gates, enginemodels.GateCheckResult{GateName: "G5_regime_compat", Passed: regimeOK, Reason: reason})

	// G6: VVIX stability, short premium only.
	if regime.VolUnstable && tpl.Family == enginemodels.FamilyShortPremium {
		passed = tpl.Legs >= 2
		reason = ""
		if !passed {
			reason = "VVIX > 22 - no naked short vol"
		}
		gates = append(gates, enginemodels.GateCheckResult{GateName: "G6_vvix_stability", Passed: passed, Reason: reason})
	}

	// G7: strategy-specific IV rank / VIX constraints.
	if tpl.HasIVRankMin {
		passed = inputs.Vol.VIXPercentile1Y >= float64(tpl.IVRankMin)
		reason = ""
		if !passed {
			reason = fmt.Sprintf("IV rank %.0f below strategy min %d", inputs.Vol.VIXPercentile1Y, tpl.IVRankMin)
		}
		gates = append(gates, enginemodels.GateCheckResult{GateName: "G7_iv_rank_min", Passed: passed, Reason: reason})
	}
	if tpl.HasIVRankMax {
		passed = inputs.Vol.VIXPercentile1Y <= float64(tpl.IVRankMax)
		reason = ""
		if !passed {
			reason = fmt.Sprintf("IV rank %.0f above strategy max %d", inputs.Vol.VIXPercentile1Y, tpl.IVRankMax)
		}
		gates = append(gates, enginemodels.GateCheckResult{GateName: "G7_iv_rank_max", Passed: passed, Reason: reason})
	}
	if tpl.HasVIXMax {
		passed = inputs.Vol.VIX <= tpl.VIXMax
		reason = ""
		if !passed {
			reason = fmt.Sprintf("VIX %.1f above strategy max %.1f", inputs.Vol.VIX, tpl.VIXMax)
		}
		gates = append(gates, enginemodels.GateCheckResult{GateName: "G7_vix_max", Passed: passed, Reason: reason})
	}

	return gates
}

func minInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// matchesObjective reports whether a template fits the requested trading
// objective bucket ("income", "directional", "hedging", "event",
// "relative_value", "tail", or "all").
func matchesObjective(tpl enginemodels.StrategyTemplate, objective string) bool {
	switch objective {
	case "income":
		return tpl.Family == enginemodels.FamilyShortPremium
	case "directional":
		return tpl.Objective == enginemodels.ObjectiveDirectionalBullish ||
			tpl.Objective == enginemodels.ObjectiveDirectionalBearish ||
			tpl.Objective == enginemodels.ObjectiveSpotRecovery
	case "hedging":
		return tpl.Family == enginemodels.FamilyHedging
	case "event":
		return tpl.EventRequired
	case "relative_value":
		return tpl.Family == enginemodels.FamilyRelativeValue
	case "tail":
		return tpl.Family == enginemodels.FamilyTailTrading
	default:
		return true
	}
}

// score computes the six-dimension weighted score for a candidate:
// edge 25%, carry/convexity fit 20%, tail risk 20%, robustness 15%,
// liquidity 10%, complexity 10%.
func score(
	tpl enginemodels.StrategyTemplate,
	regime enginemodels.RegimeResult,
	inputs enginemodels.MarketInputs,
) enginemodels.StrategyScore {
	// Dimension 1: edge.
	ivRankScore := inputs.Vol.VIXPercentile1Y / 10.0
	var edge float64
	if tpl.Family == enginemodels.FamilyShortPremium {
		ivRVBonus := minFloat(inputs.Vol.IVRVSpread/1.0, 3.0)
		edge = minFloat(ivRankScore+ivRVBonus, 10.0)
	} else {
		edge = maxFloat(10.0-ivRankScore, 0.0)
	}

	// Dimension 2: carry vs convexity fit.
	var carryFit float64
	switch tpl.Objective {
	case enginemodels.ObjectiveIncome, enginemodels.ObjectiveCarryWithProtection:
		carryFit = 8.0
		if regime.Regime == enginemodels.VolRegimeElevated || regime.Regime == enginemodels.VolRegimeHigh {
			carryFit = 6.0
		}
	case enginemodels.ObjectiveTailHedge, enginemodels.ObjectiveSystematicTail, enginemodels.ObjectiveEventVol:
		if inputs.Vol.VIXPercentile1Y < 30 {
			carryFit = 8.0
		} else {
			carryFit = 5.0
		}
	default:
		carryFit = 5.0
	}

	// Dimension 3: tail risk exposure (10 = least risk).
	var tail float64
	legs := tpl.Legs
	switch {
	case legs >= 4:
		tail = 9.0
	case legs >= 2:
		tail = 7.0
	case legs == 1:
		if tpl.Family == enginemodels.FamilyShortPremium {
			tail = 3.0
			if regime.Regime == enginemodels.VolRegimeElevated {
				tail = 2.0
			}
		} else {
			tail = 8.0
		}
	default:
		tail = 5.0
	}

	// Dimension 4: robustness / win rate.
	winRate := tpl.WinRate
	if !tpl.HasWinRate {
		winRate = 0.55
	}
	sharpe := tpl.SharpeHist
	if !tpl.HasSharpeHist {
		sharpe = 0.50
	}
	robust := minFloat((winRate*10)*0.6+(sharpe*5)*0.4, 10.0)

	// Dimension 5: liquidity.
	baPct := inputs.Liquidity.SPXBidAsk * 100
	var liquid float64
	switch {
	case baPct < 5:
		liquid = 10.0
	case baPct < 10:
		liquid = 8.0
	case baPct < 20:
		liquid = 5.0
	case baPct < 30:
		liquid = 3.0
	default:
		liquid = 0.0
	}

	// Dimension 6: complexity penalty (10 = simplest).
	var complexity float64
	switch legs {
	case 1:
		complexity = 10.0
	case 2:
		complexity = 8.0
	case 3:
		complexity = 5.0
	default:
		complexity = 3.0
	}

	total := 0.25*edge + 0.20*carryFit + 0.20*tail + 0.15*robust + 0.10*liquid + 0.10*complexity

	return enginemodels.StrategyScore{
		Total:      round2(total),
		Edge:       round2(edge),
		CarryFit:   round2(carryFit),
		TailRisk:   round2(tail),
		Robustness: round2(robust),
		Liquidity:  round2(liquid),
		Complexity: round2(complexity),
	}
}

// parameterize derives execution-ready delta, DTE, and size multiplier
// for a candidate from its template and the current regime/inputs.
func (s *Selector) parameterize(
	tpl enginemodels.StrategyTemplate,
	regime enginemodels.RegimeResult,
	inputs enginemodels.MarketInputs,
) enginemodels.StrategyParams {
	var delta int
	hasDelta := false
	var deltas map[string]int
	if len(tpl.BaseDeltas) > 0 {
		deltas = make(map[string]int, len(tpl.BaseDeltas))
		for leg, d := range tpl.BaseDeltas {
			deltas[leg] = adjustDelta(d, regime.Regime)
		}
	} else {
		delta = adjustDelta(tpl.BaseDelta, regime.Regime)
		hasDelta = true
	}

	var dte int
	if tpl.BaseDTEIsSymbolic {
		dte = 37
	} else {
		dte = tpl.BaseDTE
		if regime.EventActive && !tpl.EventRequired {
			ev := inputs.Events
			eventDays := minInt(ev.DaysToFOMC, ev.DaysToCPI, ev.DaysToNFP, ev.DaysToEarnings)
			if eventDays+10 > dte {
				dte = eventDays + 10
			}
		}
	}

	sellMult, buyMult := sizing.RegimeMultipliers(regime.Regime)
	mult := sellMult
	if tpl.Family != enginemodels.FamilyShortPremium {
		mult = buyMult
	}
	mult *= sizing.VVIXAdjustment(inputs.Vol.VVIX)
	if regime.Confidence == enginemodels.ConfidenceLow {
		mult *= 0.50
	}

	return enginemodels.StrategyParams{
		Delta:          delta,
		HasDelta:       hasDelta,
		Deltas:         deltas,
		DTE:            dte,
		SizeMultiplier: round4(mult),
		ProfitTarget:   tpl.ProfitTarget,
		StopLoss:       tpl.StopLoss,
		RollDTE:        tpl.RollDTE,
		HasRollDTE:     tpl.HasRollDTE,
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// round4 matches sizing.Sizer's rounding of the regime_side_mult x
// vvix_adj x confidence_adj product (spec.md section 8): size
// multipliers are reported to 4 decimals, not 2.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
