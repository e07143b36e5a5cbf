package conflicts_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/conflicts"
	"github.com/atlas-desktop/trading-backend/internal/enginemodels"
)

func TestCheckAllReturnsAllEightScenarios(t *testing.T) {
	r := conflicts.NewResolver(zap.NewNop())

	all := r.CheckAll(enginemodels.RegimeResult{}, enginemodels.MarketInputs{})
	if len(all) != 8 {
		t.Fatalf("expected 8 conflict scenarios, got %d", len(all))
	}
}

func TestCheckConflictsOnlyReturnsDetected(t *testing.T) {
	r := conflicts.NewResolver(zap.NewNop())

	regime := enginemodels.RegimeResult{Confidence: enginemodels.ConfidenceLow}
	inputs := enginemodels.MarketInputs{}

	detected := r.CheckConflicts(regime, inputs)
	if len(detected) != 1 {
		t.Fatalf("expected only C6 (low confidence) to be detected, got %d", len(detected))
	}
	if detected[0].ConflictID != "C6" {
		t.Fatalf("expected C6, got %s", detected[0].ConflictID)
	}
}

func TestC8TermStructureInversion(t *testing.T) {
	r := conflicts.NewResolver(zap.NewNop())

	inputs := enginemodels.MarketInputs{
		Vol:           enginemodels.VolData{VIX: 18},
		TermStructure: enginemodels.TermStructureData{TS1M3M: -0.2},
	}

	detected := r.CheckConflicts(enginemodels.RegimeResult{}, inputs)
	found := false
	for _, c := range detected {
		if c.ConflictID == "C8" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected C8 term structure inversion to be detected")
	}
}

func TestNoConflictsInBenignMarket(t *testing.T) {
	r := conflicts.NewResolver(zap.NewNop())

	inputs := enginemodels.MarketInputs{
		Vol:           enginemodels.VolData{VIX: 16, VVIX: 15, VIXPercentile1Y: 40},
		Spot:          enginemodels.SpotData{SPXLevel: 5000, SPXSma200: 4800},
		TermStructure: enginemodels.TermStructureData{TS1M3M: 1.0},
		Skew:          enginemodels.SkewData{SkewPctile1Y: 40},
		Credit:        enginemodels.CreditMacroData{HYOAS20DChange: 5},
		Correlation:   enginemodels.CorrelationData{CorrPctile1Y: 50, Dispersion: 5},
	}
	regime := enginemodels.RegimeResult{Confidence: enginemodels.ConfidenceHigh}

	detected := r.CheckConflicts(regime, inputs)
	if len(detected) != 0 {
		t.Fatalf("expected no conflicts detected, got %d", len(detected))
	}
}
