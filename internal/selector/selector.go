// Package selector runs the strategy selection pipeline: entry gates,
// objective filtering, six-dimension scoring, parameterization, and
// top-3 ranking with regime-aware fallback logic.
package selector

import (
	"sort"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/enginemodels"
	"github.com/atlas-desktop/trading-backend/internal/strategy"
)

// deltaAdjustments scales a strategy's base delta by regime.
var deltaAdjustments = map[enginemodels.VolRegime]float64{
	enginemodels.VolRegimeVeryLow:         1.2,
	enginemodels.VolRegimeLow:             1.1,
	enginemodels.VolRegimeNormal:          1.0,
	enginemodels.VolRegimeElevated:        0.8,
	enginemodels.VolRegimeHigh:            0.6,
	enginemodels.VolRegimeCrisis:          0.5,
	enginemodels.VolRegimeExtreme:         0.5,
	enginemodels.VolRegimeLiquidityStress: 0.7,
}

func adjustDelta(baseDelta int, regime enginemodels.VolRegime) int {
	factor, ok := deltaAdjustments[regime]
	if !ok {
		factor = 1.0
	}
	adjusted := int(roundHalfAwayFromZero(float64(baseDelta) * factor))
	if adjusted < 1 {
		return 1
	}
	return adjusted
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return float64(int(v + 0.5))
	}
	return -float64(int(-v + 0.5))
}

// Selector scores and parameterizes strategy recommendations against the
// current regime and market inputs.
type Selector struct {
	logger   *zap.Logger
	universe *strategy.Universe
}

// NewSelector creates a Selector over the given universe. A nil universe
// uses strategy.NewUniverse(). logger may be nil.
func NewSelector(logger *zap.Logger, universe *strategy.Universe) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if universe == nil {
		universe = strategy.NewUniverse()
	}
	return &Selector{logger: logger, universe: universe}
}

// Select runs the full selection pipeline: gates -> objective filter ->
// score -> parameterize -> rank top 3 -> fallback logic.
func (s *Selector) Select(
	regime enginemodels.RegimeResult,
	inputs enginemodels.MarketInputs,
	objective string,
	nav float64,
) enginemodels.StrategyRecommendation {
	if objective == "" {
		objective = "income"
	}
	if nav == 0 {
		nav = 100_000
	}

	var candidates []enginemodels.StrategyCandidate

	for _, name := range s.universe.Names() {
		tpl, err := s.universe.Get(name)
		if err != nil {
			continue
		}

		gates := s.checkGates(tpl, regime, inputs)
		allPassed := true
		for _, g := range gates {
			if !g.Passed {
				allPassed = false
				break
			}
		}
		if !allPassed {
			continue
		}

		if !matchesObjective(tpl, objective) {
			continue
		}

		scores := score(tpl, regime, inputs)
		params := s.parameterize(tpl, regime, inputs)

		candidates = append(candidates, enginemodels.StrategyCandidate{
			Name:     name,
			Template: tpl,
			Scores:   scores,
			Params:   params,
			Gates:    gates,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Scores.Total > candidates[j].Scores.Total
	})

	top := candidates
	if len(top) > 3 {
		top = top[:3]
	}

	if len(top) == 0 {
		return enginemodels.StrategyRecommendation{
			Recommendation: enginemodels.RecommendationNoTrade,
			Regime:         regime,
			Note:           "No strategy passes all filters in current regime",
			Timestamp:      inputs.Timestamp,
		}
	}

	if top[0].Scores.Total < 5.0 {
		return enginemodels.StrategyRecommendation{
			Recommendation: enginemodels.RecommendationLowConviction,
			Strategies:     top,
			Regime:         regime,
			Note:           "Reduce size by 50% or wait for better setup",
			Timestamp:      inputs.Timestamp,
		}
	}

	if regime.Confidence == enginemodels.ConfidenceLow {
		var definedRisk []enginemodels.StrategyCandidate
		for _, c := range top {
			if c.Template.Legs >= 2 {
				definedRisk = append(definedRisk, c)
			}
		}
		if len(definedRisk) == 0 {
			return enginemodels.StrategyRecommendation{
				Recommendation: enginemodels.RecommendationRegimeUncertain,
				Regime:         regime,
				Note:           "Mixed signals; no defined-risk strategies available. WAIT.",
				Timestamp:      inputs.Timestamp,
			}
		}
		return enginemodels.StrategyRecommendation{
			Recommendation: enginemodels.RecommendationTradeCautious,
			Strategies:     definedRisk,
			Regime:         regime,
			Note:           "Low confidence regime - defined risk only, 50% size",
			Timestamp:      inputs.Timestamp,
		}
	}

	return enginemodels.StrategyRecommendation{
		Recommendation: enginemodels.RecommendationTrade,
		Strategies:     top,
		Regime:         regime,
		Timestamp:      inputs.Timestamp,
	}
}
