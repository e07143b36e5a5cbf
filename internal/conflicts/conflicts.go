// Package conflicts detects contradictory market signals against the
// standing 8-scenario conflict resolution matrix and attaches the
// corresponding resolution guidance.
package conflicts

import (
	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/enginemodels"
)

type conflictDefinition struct {
	id          string
	description string
	signalA     string
	signalB     string
	resolution  string
}

var definitions = []conflictDefinition{
	{
		id:          "C1",
		description: "IV says sell, Trend says caution",
		signalA:     "IV Rank > 75",
		signalB:     "SPX below 200 DMA",
		resolution:  "Defined-risk spreads only. 50% size. No naked short.",
	},
	{
		id:          "C2",
		description: "Event approaching, carry attractive",
		signalA:     "Theta > 0 carry setup",
		signalB:     "FOMC/CPI in 3 days",
		resolution:  "WAIT. Enter T+1 post-event. IV crush creates better entry.",
	},
	{
		id:          "C3",
		description: "Low vol + Steep skew",
		signalA:     "VIX < 15",
		signalB:     "25d skew > 80th pctile",
		resolution:  "Risk reversals or put ladders to monetize skew. No naked short puts.",
	},
	{
		id:          "C4",
		description: "Credit widening, VIX still low",
		signalA:     "HY OAS +50bps / 20d",
		signalB:     "VIX < 18",
		resolution:  "Reduce short vol 25%. Add VIX call spread. Credit leads equity vol 2-4 weeks.",
	},
	{
		id:          "C5",
		description: "Dispersion high, correlation low",
		signalA:     "Implied corr < 30th pctile",
		signalB:     "Sector dispersion elevated",
		resolution:  "Enter dispersion trade at 50% standard size. Defined risk preferred.",
	},
	{
		id:          "C6",
		description: "Regime confidence = LOW",
		signalA:     "Mixed signals",
		signalB:     "No clear regime",
		resolution:  "Defined-risk only. 50% size. No new naked positions. WAIT for clarity.",
	},
	{
		id:          "C7",
		description: "VVIX elevated, VIX normal",
		signalA:     "VVIX > 22",
		signalB:     "VIX 15-20",
		resolution:  "Vol surface unstable. Reduce all sizes 25-50%. Avoid long-dated vega.",
	},
	{
		id:          "C8",
		description: "Term structure inverted",
		signalA:     "1M IV > 3M IV",
		signalB:     "VIX < 25",
		resolution:  "Activate tail trading framework (3-pillar). This is the signal.",
	},
}

// Resolver detects and resolves conflicting market signals.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a conflict Resolver. logger may be nil.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger}
}

// CheckConflicts returns only the conflict scenarios currently detected.
func (r *Resolver) CheckConflicts(regime enginemodels.RegimeResult, inputs enginemodels.MarketInputs) []enginemodels.ConflictScenario {
	var detected []enginemodels.ConflictScenario
	for _, c := range r.evaluateAll(regime, inputs) {
		if c.Detected {
			detected = append(detected, c)
		}
	}
	return detected
}

// CheckAll returns every conflict scenario with its detection status.
func (r *Resolver) CheckAll(regime enginemodels.RegimeResult, inputs enginemodels.MarketInputs) []enginemodels.ConflictScenario {
	return r.evaluateAll(regime, inputs)
}

func (r *Resolver) evaluateAll(regime enginemodels.RegimeResult, inputs enginemodels.MarketInputs) []enginemodels.ConflictScenario {
	v := inputs.Vol
	s := inputs.Spot
	c := inputs.Credit
	ev := inputs.Events
	sk := inputs.Skew
	co := inputs.Correlation
	ts := inputs.TermStructure

	detections := [8]bool{
		// C1: IV says sell, Trend says caution
		v.VIXPercentile1Y > 75 && s.SPXLevel < s.SPXSma200,
		// C2: Event approaching, carry attractive
		minInt(ev.DaysToFOMC, ev.DaysToCPI, ev.DaysToNFP) <= 3 && v.VIXPercentile1Y > 40,
		// C3: Low vol + Steep skew
		v.VIX < 15 && sk.SkewPctile1Y > 80,
		// C4: Credit widening, VIX still low
		c.HYOAS20DChange > 50 && v.VIX < 18,
		// C5: Dispersion high, correlation low
		co.CorrPctile1Y < 30 && co.Dispersion > 10,
		// C6: Regime confidence = LOW
		regime.Confidence == enginemodels.ConfidenceLow,
		// C7: VVIX elevated, VIX normal
		v.VVIX > 22 && v.VIX >= 15 && v.VIX <= 20,
		// C8: Term structure inverted
		ts.TS1M3M < 0 && v.VIX < 25,
	}

	results := make([]enginemodels.ConflictScenario, len(definitions))
	for i, d := range definitions {
		results[i] = enginemodels.ConflictScenario{
			ConflictID:  d.id,
			Description: d.description,
			SignalA:     d.signalA,
			SignalB:     d.signalB,
			Resolution:  d.resolution,
			Detected:    detections[i],
		}
	}
	return results
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
