// Package regime classifies the current market regime from a MarketInputs
// snapshot using a priority-ordered rule cascade: Crisis > Liquidity
// Stress > Event Window > Vol Level > Trend > VVIX Instability.
//
// Unlike a statistical HMM, this classifier is a pure, deterministic
// function of its inputs — the same inputs always produce the same
// RegimeResult, which keeps the downstream selector, sizer, and rule
// evaluators reproducible and trivially testable.
package regime

import (
	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/enginemodels"
)

// normalEminiDepth is the baseline E-mini depth (contracts) used as the
// reference point for liquidity-stress comparison.
const normalEminiDepth = 1500.0

// Classifier runs the full priority-ordered regime classification.
type Classifier struct {
	logger *zap.Logger
}

// NewClassifier creates a regime Classifier. logger may be nil, in which
// case a no-op logger is used.
func NewClassifier(logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{logger: logger}
}

// Classify runs the full priority-ordered regime classification against a
// single MarketInputs snapshot. CRISIS and LIQUIDITY_STRESS return early:
// once either triggers, the event window, vol level, VVIX and confidence
// scoring are skipped; the trend is still computed and reported alongside
// as side information.
func (c *Classifier) Classify(inputs enginemodels.MarketInputs) enginemodels.RegimeResult {
	v := inputs.Vol
	cr := inputs.Credit
	lq := inputs.Liquidity
	s := inputs.Spot
	ts := inputs.TermStructure

	// ── PRIORITY 1: CRISIS DETECTION ──
	crisisSignals := 0
	if v.VIX > 30 {
		crisisSignals += 2
	}
	if v.VIX1DChange > 5 {
		crisisSignals += 2
	}
	if v.VIX > 35 {
		crisisSignals++
	}
	if cr.HYOAS20DChange > 50 {
		crisisSignals++
	}
	if ts.TS1M3M < 0 {
		crisisSignals++
	}
	if lq.BidAskWidening > 2.0 {
		crisisSignals++
	}

	if crisisSignals >= 3 {
		confidence := enginemodels.ConfidenceMedium
		if crisisSignals >= 5 {
			confidence = enginemodels.ConfidenceHigh
		}
		return enginemodels.RegimeResult{
			Regime:            enginemodels.VolRegimeCrisis,
			Trend:             classifyTrend(s),
			Confidence:        confidence,
			ConfirmingSignals: crisisSignals,
			Actions: []string{
				"CLOSE all naked short vol positions immediately",
				"CLOSE all positions if VIX > 35 [GS Vol Vitals]",
				"ONLY defined-risk spreads allowed (5-10 delta, 14-21 DTE)",
				"Position size: 25% of baseline or FLAT",
				"Activate tail hedges if not already on",
				"Monitor for VIX peak (avg duration 2-4 weeks, avg peak ~45)",
			},
			Timestamp: inputs.Timestamp,
		}
	}

	// ── PRIORITY 2: LIQUIDITY STRESS ──
	liquidityStress := 0
	if lq.BidAskWidening > 1.5 {
		liquidityStress++
	}
	if lq.SPXBidAsk > lq.SPXBidAsk20DMA*1.3 {
		liquidityStress++
	}
	if lq.EminiDepth < 0.6*normalEminiDepth {
		liquidityStress++
	}
	if cr.HYOAS20DChange > 30 {
		liquidityStress++
	}

	if liquidityStress >= 2 {
		return enginemodels.RegimeResult{
			Regime:            enginemodels.VolRegimeLiquidityStress,
			Trend:             classifyTrend(s),
			Confidence:        enginemodels.ConfidenceMedium,
			ConfirmingSignals: liquidityStress,
			Actions: []string{
				"REDUCE all positions by 25-50%",
				"NO new naked short vol positions",
				"Tighten stops on existing positions",
				"Begin adding tail hedges (VIX call spreads)",
				"Monitor: if persists >10 days, move to crisis protocol",
			},
			Timestamp: inputs.Timestamp,
		}
	}

	// ── PRIORITY 3: EVENT WINDOW ──
	ev := inputs.Events
	eventActive := false
	eventType := enginemodels.EventTypeNone
	switch {
	case ev.DaysToFOMC <= 5:
		eventActive = true
		eventType = enginemodels.EventTypeFOMC
	case ev.DaysToCPI <= 3:
		eventActive = true
		eventType = enginemodels.EventTypeCPI
	case ev.DaysToNFP <= 3:
		eventActive = true
		eventType = enginemodels.EventTypeNFP
	case ev.DaysToEarnings <= 3:
		eventActive = true
		eventType = enginemodels.EventTypeEarnings
	}
	multiEvent := ev.EventsNext5D >= 2

	// ── PRIORITY 4: VOL LEVEL ──
	var volRegime enginemodels.VolRegime
	switch {
	case v.VIX < 12:
		volRegime = enginemodels.VolRegimeVeryLow
	case v.VIX < 15:
		volRegime = enginemodels.VolRegimeLow
	case v.VIX < 20:
		volRegime = enginemodels.VolRegimeNormal
	case v.VIX < 25:
		volRegime = enginemodels.VolRegimeElevated
	case v.VIX <= 30:
		volRegime = enginemodels.VolRegimeHigh
	default:
		volRegime = enginemodels.VolRegimeExtreme
	}

	// ── PRIORITY 5: TREND ──
	trend := classifyTrend(s)

	// ── PRIORITY 6: VVIX INSTABILITY ──
	volUnstable := v.VVIX > 22

	// ── CONFIDENCE SCORING ──
	confirming := scoreConfidence(volRegime, v, inputs.Skew, ts, cr)
	var confidence enginemodels.Confidence
	switch {
	case confirming >= 3:
		confidence = enginemodels.ConfidenceHigh
	case confirming >= 2:
		confidence = enginemodels.ConfidenceMedium
	default:
		confidence = enginemodels.ConfidenceLow
	}

	actions := buildActions(volRegime, trend, eventActive, volUnstable)

	c.logger.Debug("classified regime",
		zap.String("regime", string(volRegime)),
		zap.String("trend", string(trend)),
		zap.String("confidence", string(confidence)),
	)

	return enginemodels.RegimeResult{
		Regime:            volRegime,
		Trend:             trend,
		EventActive:       eventActive,
		EventType:         eventType,
		MultiEvent:        multiEvent,
		VolUnstable:       volUnstable,
		Confidence:        confidence,
		ConfirmingSignals: confirming,
		Actions:           actions,
		Timestamp:         inputs.Timestamp,
	}
}

func classifyTrend(s enginemodels.SpotData) enginemodels.Trend {
	if s.SPXLevel > s.SPXSma50 && s.SPXLevel > s.SPXSma200 {
		if s.BreadthPctAbove50DMA > 60 {
			return enginemodels.TrendStrongUptrend
		}
		return enginemodels.TrendUptrend
	}
	if s.SPXLevel < s.SPXSma50 && s.SPXLevel < s.SPXSma200 {
		if s.BreadthPctAbove50DMA < 40 {
			return enginemodels.TrendStrongDowntrend
		}
		return enginemodels.TrendDowntrend
	}
	return enginemodels.TrendRangeBound
}

func scoreConfidence(
	volRegime enginemodels.VolRegime,
	v enginemodels.VolData,
	sk enginemodels.SkewData,
	ts enginemodels.TermStructureData,
	cr enginemodels.CreditMacroData,
) int {
	confirming := 0

	isLow := volRegime == enginemodels.VolRegimeLow || volRegime == enginemodels.VolRegimeVeryLow
	isElevHigh := volRegime == enginemodels.VolRegimeElevated || volRegime == enginemodels.VolRegimeHigh

	// IV-RV agreement
	if isLow && v.IVRVSpread < 2 {
		confirming++
	} else if isElevHigh && v.IVRVSpread > 3 {
		confirming++
	}

	// Skew alignment
	if isElevHigh && sk.PutSkew25D1M > 6 {
		confirming++
	} else if isLow && sk.PutSkew25D1M < 4 {
		confirming++
	}

	// Term structure alignment
	isLowNormal := isLow || volRegime == enginemodels.VolRegimeNormal
	if isLowNormal && ts.TS1M3M > 0 {
		confirming++
	} else if volRegime == enginemodels.VolRegimeHigh && ts.TS1M3M < 1 {
		confirming++
	}

	// Credit confirmation
	if isLowNormal && cr.HYOAS20DChange < 20 {
		confirming++
	} else if isElevHigh && cr.HYOAS20DChange > 30 {
		confirming++
	}

	return confirming
}

func buildActions(volRegime enginemodels.VolRegime, trend enginemodels.Trend, eventActive, volUnstable bool) []string {
	var actions []string

	switch volRegime {
	case enginemodels.VolRegimeVeryLow:
		actions = append(actions,
			"Maximize premium selling at full size",
			"Cheap convexity available - consider tail hedges",
		)
	case enginemodels.VolRegimeLow:
		actions = append(actions,
			"Full premium selling allowed",
			"Begin building convexity positions",
		)
	case enginemodels.VolRegimeNormal:
		actions = append(actions, "Standard position sizes, balanced approach")
	case enginemodels.VolRegimeElevated:
		actions = append(actions,
			"Reduce selling to 50% size; defined-risk only for new trades",
			"Review all naked positions for rolling/closing",
		)
	case enginemodels.VolRegimeHigh:
		actions = append(actions,
			"Only defined-risk spreads at 25% size",
			"Consider long convexity positions",
		)
	case enginemodels.VolRegimeExtreme:
		actions = append(actions,
			"No premium selling",
			"Buy convexity only; activate crisis protocol",
		)
	}

	if eventActive {
		actions = append(actions, "Event window active - use event playbook")
	}
	if volUnstable {
		actions = append(actions, "VVIX > 22: vol surface unstable, reduce sizes 25-50%")
	}

	switch trend {
	case enginemodels.TrendStrongDowntrend, enginemodels.TrendDowntrend:
		actions = append(actions, "Downtrend: favor bearish strategies, tighten upside")
	case enginemodels.TrendStrongUptrend, enginemodels.TrendUptrend:
		actions = append(actions, "Uptrend: favor bullish strategies, maintain hedges")
	}

	return actions
}
