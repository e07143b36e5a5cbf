package sizing_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/enginemodels"
	"github.com/atlas-desktop/trading-backend/internal/sizing"
)

func TestCalculateNormalRegimeIncomeSize(t *testing.T) {
	s := sizing.NewSizer(zap.NewNop(), nil)

	result := s.Calculate(sizing.CalcParams{
		NAV: 1_000_000,
		Regime: enginemodels.RegimeResult{
			Regime:     enginemodels.VolRegimeNormal,
			Confidence: enginemodels.ConfidenceHigh,
		},
		Inputs: enginemodels.MarketInputs{
			Vol: enginemodels.VolData{VVIX: 18},
		},
		IsSellPremium: true,
	})

	if result.SizeMultiplier != 0.75 {
		t.Fatalf("expected size_multiplier 0.75 (0.75 x 1.00 x 1.00), got %v", result.SizeMultiplier)
	}
	if result.MultiplierBreakdown.FinalSell != 0.75 {
		t.Fatalf("expected final_sell 0.75, got %v", result.MultiplierBreakdown.FinalSell)
	}
}

func TestCalculateLowConfidenceHalvesMultiplier(t *testing.T) {
	s := sizing.NewSizer(zap.NewNop(), nil)

	result := s.Calculate(sizing.CalcParams{
		NAV: 1_000_000,
		Regime: enginemodels.RegimeResult{
			Regime:     enginemodels.VolRegimeNormal,
			Confidence: enginemodels.ConfidenceLow,
		},
		Inputs: enginemodels.MarketInputs{
			Vol: enginemodels.VolData{VVIX: 18},
		},
		IsSellPremium: true,
	})

	// 0.75 sell_mult * 1.00 vvix_adj * 0.50 conf_adj = 0.375
	if result.SizeMultiplier != 0.375 {
		t.Fatalf("expected size_multiplier 0.375, got %v", result.SizeMultiplier)
	}
}

func TestCalculateHighVVIXReducesMultiplier(t *testing.T) {
	s := sizing.NewSizer(zap.NewNop(), nil)

	result := s.Calculate(sizing.CalcParams{
		NAV: 1_000_000,
		Regime: enginemodels.RegimeResult{
			Regime:     enginemodels.VolRegimeVeryLow,
			Confidence: enginemodels.ConfidenceHigh,
		},
		Inputs: enginemodels.MarketInputs{
			Vol: enginemodels.VolData{VVIX: 30},
		},
		IsSellPremium: true,
	})

	// 1.00 sell_mult * 0.50 vvix_adj (vvix>28) * 1.00 conf_adj = 0.50
	if result.SizeMultiplier != 0.50 {
		t.Fatalf("expected size_multiplier 0.50, got %v", result.SizeMultiplier)
	}
}

func TestCalculateFlagsPortfolioVegaBreach(t *testing.T) {
	limits := enginemodels.DefaultRiskLimits()
	s := sizing.NewSizer(zap.NewNop(), &limits)

	result := s.Calculate(sizing.CalcParams{
		NAV: 1_000_000,
		Regime: enginemodels.RegimeResult{
			Regime:     enginemodels.VolRegimeNormal,
			Confidence: enginemodels.ConfidenceHigh,
		},
		Inputs:        enginemodels.MarketInputs{Vol: enginemodels.VolData{VVIX: 15}},
		IsSellPremium: true,
		PortfolioVega: 10_000, // 10000/1e6 = 0.01 > 0.005 limit
	})

	if result.WithinLimits {
		t.Fatal("expected vega breach to mark result as outside limits")
	}
	if len(result.RiskLimitBreaches) == 0 {
		t.Fatal("expected at least one risk limit breach message")
	}
}

func TestCalculateCrisisRegimeZeroesSellSize(t *testing.T) {
	s := sizing.NewSizer(zap.NewNop(), nil)

	result := s.Calculate(sizing.CalcParams{
		NAV: 1_000_000,
		Regime: enginemodels.RegimeResult{
			Regime:     enginemodels.VolRegimeCrisis,
			Confidence: enginemodels.ConfidenceHigh,
		},
		Inputs:        enginemodels.MarketInputs{Vol: enginemodels.VolData{VVIX: 15}},
		IsSellPremium: true,
	})

	if result.SizeMultiplier != 0 {
		t.Fatalf("expected crisis sell multiplier 0, got %v", result.SizeMultiplier)
	}
}
