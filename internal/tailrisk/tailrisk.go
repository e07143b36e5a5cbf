// Package tailrisk evaluates systemic tail risk: the standing hedge
// allocation, early warning signals, crisis protocol activation, and the
// 3-pillar (delta/gamma/vega) tail trading signal.
package tailrisk

import (
	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/enginemodels"
)

// standingHedgeAllocation is the fixed portfolio hedge allocation across
// VIX call spreads, SPX put spreads, and scheduled OTM puts.
var standingHedgeAllocation = enginemodels.HedgeAllocation{
	AnnualBudgetPct: 0.02,
	Instruments: []enginemodels.HedgeInstrument{
		{
			Name:       "VIX Call Spreads",
			Allocation: 0.60,
			Structure:  "buy VIX call at spot+4, sell at spot+12",
			Tenor:      "30-60 DTE, roll monthly",
			Rationale:  "3-5x convexity vs SPX puts in true crises [GS Hedging Toolkit]",
		},
		{
			Name:       "SPX Put Spreads",
			Allocation: 0.25,
			Structure:  "buy 5% OTM put, sell 15% OTM put",
			Tenor:      "90 DTE, roll quarterly",
			Rationale:  "Better for moderate corrections (5-10%), Sharpe 0.88 [GS Asymmetric 27yr]",
		},
		{
			Name:       "Scheduled OTM Puts",
			Allocation: 0.15,
			Structure:  "buy 5-10 delta SPX puts monthly",
			Tenor:      "Monthly schedule",
			Rationale:  "DCA into convexity > discretionary [GS Asymmetric 27yr]",
		},
	},
}

// crisisActions are the standing directives issued when the crisis
// protocol activates.
var crisisActions = []string{
	"Close ALL naked short vol immediately",
	"Reduce defined-risk short vol by 75%",
	"Deploy remaining hedge budget into convexity",
	"Cash position to minimum 40% of NAV",
	"Monitor for VIX peak (avg 2-4 weeks, avg peak ~45) [GS Vol Vitals]",
	"Do NOT sell vol until VIX establishes downtrend from peak",
}

// Manager runs tail-risk assessments.
type Manager struct {
	logger *zap.Logger
}

// NewManager creates a tail-risk Manager. logger may be nil.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{logger: logger}
}

// Assess runs the full tail-risk assessment against a MarketInputs snapshot.
func (m *Manager) Assess(inputs enginemodels.MarketInputs) enginemodels.TailRiskAssessment {
	warnings := m.checkEarlyWarnings(inputs)
	activeCount := 0
	for _, w := range warnings {
		if w.Triggered {
			activeCount++
		}
	}
	crisis := m.checkCrisis(inputs, activeCount)
	tailTrading := m.checkTailSignal(inputs)

	var actions []string
	if crisis {
		actions = crisisActions
	}

	return enginemodels.TailRiskAssessment{
		HedgeAllocation:      standingHedgeAllocation,
		EarlyWarnings:        warnings,
		ActiveWarningsCount:  activeCount,
		CrisisProtocolActive: crisis,
		CrisisActions:        actions,
		TailTrading:          tailTrading,
		Timestamp:            inputs.Timestamp,
	}
}

func (m *Manager) checkEarlyWarnings(inputs enginemodels.MarketInputs) []enginemodels.EarlyWarningSignal {
	return []enginemodels.EarlyWarningSignal{
		{
			Signal:       "HY OAS widens > 50bps in 20 days",
			Action:       "Double hedge allocation",
			LeadTime:     "2-4 weeks before equity vol spike [GS Equity Vol & Economy]",
			Triggered:    inputs.Credit.HYOAS20DChange > 50,
			CurrentValue: inputs.Credit.HYOAS20DChange,
			Threshold:    50.0,
		},
		{
			Signal:       "Bid-ask spreads widen > 50% above 20d MA for > 10 days",
			Action:       "Activate crisis protocol",
			LeadTime:     "2-4 weeks [GS Rising Importance of Falling Liquidity]",
			Triggered:    inputs.Liquidity.BidAskWidening > 1.5,
			CurrentValue: inputs.Liquidity.BidAskWidening,
			Threshold:    1.5,
		},
		{
			Signal:       "Implied correlation rises above 80th pctile in 5 days",
			Action:       "Close all dispersion; review all short vol [JPM Equity Vol Strategy]",
			Triggered:    inputs.Correlation.CorrPctile1Y > 80,
			CurrentValue: inputs.Correlation.CorrPctile1Y,
			Threshold:    80.0,
		},
		{
			Signal:       "VVIX > 28 sustained for 3+ days",
			Action:       "Reduce all position sizes by 50% [GS Vol Vitals]",
			Triggered:    inputs.Vol.VVIX > 28,
			CurrentValue: inputs.Vol.VVIX,
			Threshold:    28.0,
		},
	}
}

// checkCrisis activates the crisis protocol if VIX > 35 or at least 3
// early warning signals are firing simultaneously.
func (m *Manager) checkCrisis(inputs enginemodels.MarketInputs, activeWarnings int) bool {
	if inputs.Vol.VIX > 35 {
		return true
	}
	return activeWarnings >= 3
}

// checkTailSignal evaluates the 3-pillar tail trading signal: a 3M-1M
// implied vol term structure inversion (TS < 0), historically rare
// (< 80 occurrences since 2004).
func (m *Manager) checkTailSignal(inputs enginemodels.MarketInputs) enginemodels.TailTradingStatus {
	tsValue := inputs.TermStructure.TS1M3M
	active := tsValue < 0

	return enginemodels.TailTradingStatus{
		SignalActive:      active,
		TSValue:           tsValue,
		DeltaPillarActive: active,
		GammaPillarActive: active,
		VegaPillarActive:  active,
	}
}
