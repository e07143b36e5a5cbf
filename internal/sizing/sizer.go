// Package sizing computes position sizes from regime-based premium
// multipliers, a VVIX stability adjustment, regime-confidence adjustment,
// and fixed-premium-of-NAV budgeting, then checks the result against
// portfolio-level risk limits.
package sizing

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/enginemodels"
)

// sizeMultiplier holds the sell/buy premium multiplier pair for a regime.
type sizeMultiplier struct {
	sell float64
	buy  float64
}

// regimeMultipliers maps each regime to its (sell_premium, buy_premium)
// multiplier pair. Falls back to (0.50, 0.75) for an unrecognized regime.
var regimeMultipliers = map[enginemodels.VolRegime]sizeMultiplier{
	enginemodels.VolRegimeVeryLow:         {sell: 1.00, buy: 0.50},
	enginemodels.VolRegimeLow:             {sell: 1.00, buy: 0.75},
	enginemodels.VolRegimeNormal:          {sell: 0.75, buy: 1.00},
	enginemodels.VolRegimeElevated:        {sell: 0.50, buy: 1.00},
	enginemodels.VolRegimeHigh:            {sell: 0.25, buy: 1.00},
	enginemodels.VolRegimeExtreme:         {sell: 0.00, buy: 1.00},
	enginemodels.VolRegimeCrisis:          {sell: 0.00, buy: 1.00},
	enginemodels.VolRegimeLiquidityStress: {sell: 0.25, buy: 0.75},
}

var defaultMultiplier = sizeMultiplier{sell: 0.50, buy: 0.75}

func multiplierFor(regime enginemodels.VolRegime) (sell, buy float64) {
	m, ok := regimeMultipliers[regime]
	if !ok {
		m = defaultMultiplier
	}
	return m.sell, m.buy
}

// RegimeMultipliers exposes the regime sell/buy premium multiplier table
// for callers that need the raw pair without a full Calculate, such as
// the selector's parameterization step.
func RegimeMultipliers(regime enginemodels.VolRegime) (sell, buy float64) {
	return multiplierFor(regime)
}

// VVIXAdjustment returns the VVIX-based size reduction factor
// [GS Vol Vitals: VVIX > 22 implies reduce 25-50%].
func VVIXAdjustment(vvix float64) float64 {
	switch {
	case vvix <= 18:
		return 1.00
	case vvix <= 22:
		return 0.85
	case vvix <= 28:
		return 0.65
	default:
		return 0.50
	}
}

// FixedPremiumSize allocates a fixed fraction of NAV as premium budget
// rather than a fixed notional — this naturally shrinks size when vol
// (and therefore premium) is high [JPM Equity Vol Strategy].
func FixedPremiumSize(nav, budgetPct float64) float64 {
	return nav * budgetPct
}

// Sizer calculates position sizes based on regime, VVIX, and risk limits.
type Sizer struct {
	logger *zap.Logger
	limits enginemodels.RiskLimits
}

// NewSizer creates a Sizer. A zero-value limits argument uses
// DefaultRiskLimits. logger may be nil, in which case a no-op logger is used.
func NewSizer(logger *zap.Logger, limits *enginemodels.RiskLimits) *Sizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := enginemodels.DefaultRiskLimits()
	if limits != nil {
		l = *limits
	}
	return &Sizer{logger: logger, limits: l}
}

// CalcParams bundles the portfolio state needed for a sizing calculation.
type CalcParams struct {
	NAV             float64
	Regime          enginemodels.RegimeResult
	Inputs          enginemodels.MarketInputs
	IsSellPremium   bool
	BudgetPct       float64 // defaults to 0.005 when zero
	PortfolioVega   float64
	PortfolioDelta  float64
	DailyPnL        float64
	WeeklyPnL       float64
}

// Calculate computes the position size with all adjustments and limit checks.
func (s *Sizer) Calculate(p CalcParams) enginemodels.PositionSizeResult {
	budgetPct := p.BudgetPct
	if budgetPct == 0 {
		budgetPct = 0.005
	}

	sellMult, buyMult := multiplierFor(p.Regime.Regime)
	vvixAdj := VVIXAdjustment(p.Inputs.Vol.VVIX)
	confAdj := 1.0
	if p.Regime.Confidence == enginemodels.ConfidenceLow {
		confAdj = 0.50
	}

	finalSell := round(sellMult*vvixAdj*confAdj, 4)
	finalBuy := round(buyMult*vvixAdj*confAdj, 4)

	multiplier := finalSell
	if !p.IsSellPremium {
		multiplier = finalBuy
	}
	premiumBudget := FixedPremiumSize(p.NAV, budgetPct) * multiplier

	breakdown := enginemodels.SizeMultipliers{
		SellPremium:          sellMult,
		BuyPremium:           buyMult,
		VVIXAdjustment:       vvixAdj,
		ConfidenceAdjustment: confAdj,
		FinalSell:            finalSell,
		FinalBuy:             finalBuy,
	}

	breaches := s.checkLimits(p.NAV, p.PortfolioVega, p.PortfolioDelta, p.DailyPnL, p.WeeklyPnL)

	return enginemodels.PositionSizeResult{
		PremiumBudget:       round(premiumBudget, 2),
		SizeMultiplier:      multiplier,
		MultiplierBreakdown: breakdown,
		RiskLimitBreaches:   breaches,
		WithinLimits:        len(breaches) == 0,
	}
}

func (s *Sizer) checkLimits(nav, portfolioVega, portfolioDelta, dailyPnL, weeklyPnL float64) []string {
	var breaches []string
	if nav <= 0 {
		return breaches
	}

	if math.Abs(portfolioVega/nav) > s.limits.MaxPortfolioVega {
		breaches = append(breaches, fmt.Sprintf(
			"Portfolio vega %.4f exceeds limit %v", portfolioVega/nav, s.limits.MaxPortfolioVega,
		))
	}
	if math.Abs(portfolioDelta/nav) > s.limits.MaxPortfolioDelta {
		breaches = append(breaches, fmt.Sprintf(
			"Portfolio delta %.2f%% exceeds limit %.0f%%",
			portfolioDelta/nav*100, s.limits.MaxPortfolioDelta*100,
		))
	}
	if dailyPnL < 0 && math.Abs(dailyPnL/nav) > s.limits.DailyPnLStop {
		breaches = append(breaches, fmt.Sprintf(
			"Daily P&L loss %.2f%% exceeds limit %.1f%%",
			dailyPnL/nav*100, s.limits.DailyPnLStop*100,
		))
	}
	if weeklyPnL < 0 && math.Abs(weeklyPnL/nav) > s.limits.WeeklyPnLStop {
		breaches = append(breaches, fmt.Sprintf(
			"Weekly P&L loss %.2f%% exceeds limit %.1f%%",
			weeklyPnL/nav*100, s.limits.WeeklyPnLStop*100,
		))
	}
	return breaches
}

func round(v float64, places int) float64 {
	mult := math.Pow(10, float64(places))
	return math.Round(v*mult) / mult
}
