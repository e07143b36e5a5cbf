package regime_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/enginemodels"
	"github.com/atlas-desktop/trading-backend/internal/regime"
)

func TestClassifyCrisisTrigger(t *testing.T) {
	c := regime.NewClassifier(zap.NewNop())

	inputs := enginemodels.MarketInputs{
		Vol: enginemodels.VolData{
			VIX:         38,
			VIX1DChange: 6,
		},
		Credit: enginemodels.CreditMacroData{
			HYOAS20DChange: 60,
		},
		TermStructure: enginemodels.TermStructureData{
			TS1M3M: -0.5,
		},
		Liquidity: enginemodels.LiquidityData{
			BidAskWidening: 2.3,
		},
	}

	result := c.Classify(inputs)

	if result.Regime != enginemodels.VolRegimeCrisis {
		t.Fatalf("expected CRISIS, got %s", result.Regime)
	}
	if result.Confidence != enginemodels.ConfidenceHigh {
		t.Fatalf("expected confidence HIGH (signal sum 8), got %s", result.Confidence)
	}
	if result.ConfirmingSignals != 8 {
		t.Fatalf("expected confirming signal sum 8, got %d", result.ConfirmingSignals)
	}
	foundClose := false
	for _, a := range result.Actions {
		if a == "CLOSE all naked short vol positions immediately" {
			foundClose = true
		}
	}
	if !foundClose {
		t.Fatal("expected close-naked-short-vol action")
	}
}

func TestClassifyElevatedUptrendStable(t *testing.T) {
	c := regime.NewClassifier(zap.NewNop())

	inputs := enginemodels.MarketInputs{
		Vol: enginemodels.VolData{
			VIX:        22,
			VVIX:       20,
			IVRVSpread: 4,
		},
		Spot: enginemodels.SpotData{
			SPXLevel:             5900,
			SPXSma50:             5800,
			SPXSma200:            5600,
			BreadthPctAbove50DMA: 65,
		},
		TermStructure: enginemodels.TermStructureData{TS1M3M: 1.5},
		Skew:          enginemodels.SkewData{SkewPctile1Y: 55},
		Credit:        enginemodels.CreditMacroData{HYOAS20DChange: 10},
		Events: enginemodels.EventCalendarData{
			DaysToFOMC: 30, DaysToCPI: 30, DaysToNFP: 30, DaysToEarnings: 30,
		},
	}

	result := c.Classify(inputs)

	if result.Regime != enginemodels.VolRegimeElevated {
		t.Fatalf("expected ELEVATED, got %s", result.Regime)
	}
	if result.Trend != enginemodels.TrendStrongUptrend {
		t.Fatalf("expected STRONG_UPTREND, got %s", result.Trend)
	}
	if result.EventActive {
		t.Fatal("expected event_active=false")
	}
	if result.Confidence != enginemodels.ConfidenceMedium && result.Confidence != enginemodels.ConfidenceHigh {
		t.Fatalf("expected MEDIUM or HIGH confidence, got %s", result.Confidence)
	}
	found := false
	for _, a := range result.Actions {
		if a == "Reduce selling to 50% size; defined-risk only for new trades" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected 50% size reduction action")
	}
}

func TestClassifyEventWindow(t *testing.T) {
	c := regime.NewClassifier(zap.NewNop())

	inputs := enginemodels.MarketInputs{
		Vol: enginemodels.VolData{VIX: 17},
		Events: enginemodels.EventCalendarData{
			DaysToFOMC: 25, DaysToCPI: 2, DaysToNFP: 25, DaysToEarnings: 25,
		},
	}

	result := c.Classify(inputs)

	if !result.EventActive {
		t.Fatal("expected event_active=true")
	}
	if result.EventType != enginemodels.EventTypeCPI {
		t.Fatalf("expected event_type=CPI, got %s", result.EventType)
	}
	if result.MultiEvent {
		t.Fatal("expected multi_event=false")
	}
	if result.Regime != enginemodels.VolRegimeNormal {
		t.Fatalf("expected NORMAL, got %s", result.Regime)
	}
}

func TestClassifyCrisisShortCircuitsLowerPriority(t *testing.T) {
	c := regime.NewClassifier(zap.NewNop())

	inputs := enginemodels.MarketInputs{
		Vol: enginemodels.VolData{
			VIX:         36,
			VIX1DChange: 8,
			VVIX:        10, // would not trigger vol_unstable, should not even be inspected
		},
		Credit:        enginemodels.CreditMacroData{HYOAS20DChange: 5},
		TermStructure: enginemodels.TermStructureData{TS1M3M: -1},
	}

	result := c.Classify(inputs)
	if result.Regime != enginemodels.VolRegimeCrisis {
		t.Fatalf("expected CRISIS, got %s", result.Regime)
	}
	if result.VolUnstable {
		t.Fatal("crisis path should not set vol_unstable side info")
	}
}
