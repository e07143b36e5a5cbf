package rules

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/enginemodels"
)

// ExitCatalog is the standing set of X1-X7 rule definitions, keyed by
// rule ID.
var ExitCatalog = map[string]enginemodels.ExitRule{
	"X1": {
		RuleID: "X1", Name: "Credit Profit Target", Trigger: "unrealized_profit >= 50% of max_profit",
		Action:    "Close. Set limit order at entry.",
		Rationale: "Maximizes risk-adjusted returns [GS Art of Put Selling 10yr]",
		AppliesTo: "ALL short_premium strategies",
	},
	"X2": {
		RuleID: "X2", Name: "Debit Profit Target", Trigger: "unrealized_profit >= 100% of debit_paid",
		Action:    "Close (2:1 R/R achieved). For event trades: close within 24hrs post-event.",
		Rationale: "[GS Trading Events]",
		AppliesTo: "ALL long_premium strategies",
	},
	"X3": {
		RuleID: "X3", Name: "Credit Stop Loss", Trigger: "unrealized_loss >= 2x premium_received",
		Action:    "Close. Expected recovery is negative beyond this point.",
		Rationale: "[GS Art of Put Selling]",
		AppliesTo: "ALL short_premium strategies",
	},
	"X4": {
		RuleID: "X4", Name: "Debit Stop Loss", Trigger: "unrealized_loss >= 50% of premium_paid AND no catalyst change",
		Action:    "Close. Re-evaluate thesis before re-entering.",
		AppliesTo: "ALL long_premium strategies",
	},
	"X5": {
		RuleID: "X5", Name: "Time Stop", Trigger: "dte <= 7 AND strategy_type != '0DTE'",
		Action:    "Close. Gamma acceleration makes position fundamentally different.",
		Rationale: "[JPM P&L Attribution; JPM Same-day Options]",
	},
	"X6": {
		RuleID: "X6", Name: "Regime Exit", Trigger: "regime_classifier output changes to incompatible regime",
		Action:    "Close ALL positions not appropriate for new regime immediately.",
		Rationale: "[JPM Systematic Vol]",
	},
	"X7": {
		RuleID: "X7", Name: "Daily P&L Stop", Trigger: "daily_pnl_loss > 1.5% of NAV",
		Action:    "Reduce exposure by 50%. No new trades today.",
		Rationale: "[JPM Systematic Vol]",
	},
}

// ExitEngine evaluates X1-X7 against a position snapshot.
type ExitEngine struct {
	logger *zap.Logger
}

// NewExitEngine creates an ExitEngine. logger may be nil.
func NewExitEngine(logger *zap.Logger) *ExitEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExitEngine{logger: logger}
}

// Evaluate runs all exit rules for a position and returns only the ones
// that triggered. A zero nav is treated as 100,000 for the X7 P&L-stop
// check, and a nil previousRegime suppresses X6.
func (e *ExitEngine) Evaluate(
	position enginemodels.PositionView,
	regime enginemodels.RegimeResult,
	inputs enginemodels.MarketInputs,
	previousRegime *enginemodels.RegimeResult,
	nav float64,
) []enginemodels.RuleEvaluation {
	if nav == 0 {
		nav = 100_000
	}
	var results []enginemodels.RuleEvaluation

	family := position.Family
	pnl := position.UnrealizedPnL

	// X1: Credit Profit Target
	if family == "short_premium" && position.MaxProfit > 0 && pnl >= position.MaxProfit*0.50 {
		results = append(results, enginemodels.RuleEvaluation{
			RuleID: "X1", RuleName: "Credit Profit Target", Triggered: true,
			Priority: enginemodels.PriorityHigh,
			Action:   ExitCatalog["X1"].Action,
			Details:  fmt.Sprintf("Profit %.2f >= 50%% of max %.2f", pnl, position.MaxProfit),
		})
	}

	// X2: Debit Profit Target
	if family == "long_premium" && position.PremiumPaid > 0 && pnl >= position.PremiumPaid {
		results = append(results, enginemodels.RuleEvaluation{
			RuleID: "X2", RuleName: "Debit Profit Target", Triggered: true,
			Priority: enginemodels.PriorityHigh,
			Action:   ExitCatalog["X2"].Action,
			Details:  fmt.Sprintf("Profit %.2f >= 100%% of debit %.2f", pnl, position.PremiumPaid),
		})
	}

	// X3: Credit Stop Loss
	if family == "short_premium" && position.PremiumReceived > 0 && pnl < 0 &&
		absFloat(pnl) >= position.PremiumReceived*2 {
		results = append(results, enginemodels.RuleEvaluation{
			RuleID: "X3", RuleName: "Credit Stop Loss", Triggered: true,
			Priority: enginemodels.PriorityCritical,
			Action:   ExitCatalog["X3"].Action,
			Details:  fmt.Sprintf("Loss %.2f >= 2x premium %.2f", pnl, position.PremiumReceived),
		})
	}

	// X4: Debit Stop Loss
	if family == "long_premium" && position.PremiumPaid > 0 && pnl < 0 &&
		absFloat(pnl) >= position.PremiumPaid*0.50 {
		results = append(results, enginemodels.RuleEvaluation{
			RuleID: "X4", RuleName: "Debit Stop Loss", Triggered: true,
			Priority: enginemodels.PriorityHigh,
			Action:   ExitCatalog["X4"].Action,
			Details:  fmt.Sprintf("Loss %.2f >= 50%% of debit %.2f", pnl, position.PremiumPaid),
		})
	}

	// X5: Time Stop
	dte := position.EffectiveDTE()
	if dte <= 7 && !position.Is0DTE {
		results = append(results, enginemodels.RuleEvaluation{
			RuleID: "X5", RuleName: "Time Stop", Triggered: true,
			Priority: enginemodels.PriorityCritical,
			Action:   ExitCatalog["X5"].Action,
			Details:  fmt.Sprintf("DTE=%d, gamma acceleration zone", dte),
		})
	}

	// X6: Regime Exit
	if previousRegime != nil && previousRegime.Regime != regime.Regime && len(position.RegimeAllowed) > 0 {
		allowed := false
		for _, a := range position.RegimeAllowed {
			if a == "ALL" || a == string(regime.Regime) {
				allowed = true
				break
			}
		}
		if !allowed {
			results = append(results, enginemodels.RuleEvaluation{
				RuleID: "X6", RuleName: "Regime Exit", Triggered: true,
				Priority: enginemodels.PriorityCritical,
				Action:   ExitCatalog["X6"].Action,
				Details:  fmt.Sprintf("New regime %s not in allowed %v", regime.Regime, position.RegimeAllowed),
			})
		}
	}

	// X7: Daily P&L Stop
	if position.DailyPnL < 0 && absFloat(position.DailyPnL/nav) > 0.015 {
		results = append(results, enginemodels.RuleEvaluation{
			RuleID: "X7", RuleName: "Daily P&L Stop", Triggered: true,
			Priority: enginemodels.PriorityCritical,
			Action:   ExitCatalog["X7"].Action,
			Details:  fmt.Sprintf("Daily loss %.2f%% exceeds 1.5%% limit", position.DailyPnL/nav*100),
		})
	}

	return sortByPriority(results)
}

// GetAllRules returns the full X1-X7 catalog.
func (e *ExitEngine) GetAllRules() []enginemodels.ExitRule {
	out := make([]enginemodels.ExitRule, 0, len(ExitCatalog))
	for _, id := range []string{"X1", "X2", "X3", "X4", "X5", "X6", "X7"} {
		out = append(out, ExitCatalog[id])
	}
	return out
}
