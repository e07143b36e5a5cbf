// Package engine provides DecisionEngine, the unified facade over regime
// classification, strategy selection, position sizing, adjustment/exit
// rules, event playbooks, tail risk, and conflict resolution.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/conflicts"
	"github.com/atlas-desktop/trading-backend/internal/enginemodels"
	"github.com/atlas-desktop/trading-backend/internal/marketinputs"
	"github.com/atlas-desktop/trading-backend/internal/playbooks"
	"github.com/atlas-desktop/trading-backend/internal/reference"
	"github.com/atlas-desktop/trading-backend/internal/regime"
	"github.com/atlas-desktop/trading-backend/internal/rules"
	"github.com/atlas-desktop/trading-backend/internal/selector"
	"github.com/atlas-desktop/trading-backend/internal/strategy"
	"github.com/atlas-desktop/trading-backend/internal/tailrisk"
)

// DecisionEngine wires the full pipeline into a single API. It tracks the
// previous classified regime so that A8/X6 (regime-change rules) can react
// to a transition rather than only a point-in-time snapshot. The tail risk
// assessment does not use it.
//
// A DecisionEngine is not safe for concurrent FullAnalysis/GetRegime calls:
// the last classified regime is last-writer-wins, matching the facade it
// was ported from. Callers that drive it from multiple goroutines must
// serialize access (e.g. one engine per request worker, or an external
// mutex at the call site).
type DecisionEngine struct {
	logger *zap.Logger

	collector        *marketinputs.Collector
	classifier       *regime.Classifier
	selector         *selector.Selector
	adjustmentEngine *rules.AdjustmentEngine
	exitEngine       *rules.ExitEngine
	tailRiskManager  *tailrisk.Manager
	conflictResolver *conflicts.Resolver
	playbookLibrary  *playbooks.Library
	referenceTables  *reference.Tables
	universe         *strategy.Universe

	previousRegime *enginemodels.RegimeResult
	lastInputs     *enginemodels.MarketInputs
}

// New creates a DecisionEngine. provider may be nil, in which case market
// inputs are drawn from the deterministic mock fixture. logger may be nil.
func New(logger *zap.Logger, provider marketinputs.Provider) *DecisionEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	universe := strategy.NewUniverse()

	return &DecisionEngine{
		logger:           logger,
		collector:        marketinputs.NewCollector(logger, provider),
		classifier:       regime.NewClassifier(logger),
		selector:         selector.NewSelector(logger, universe),
		adjustmentEngine: rules.NewAdjustmentEngine(logger),
		exitEngine:       rules.NewExitEngine(logger),
		tailRiskManager:  tailrisk.NewManager(logger),
		conflictResolver: conflicts.NewResolver(logger),
		playbookLibrary:  playbooks.NewLibrary(logger),
		referenceTables:  reference.NewTables(logger),
		universe:         universe,
	}
}

// FullAnalysis runs the complete decision engine pipeline: regime
// classification, strategy recommendation, tail risk, conflicts, the
// active event playbook (if any), and position health checks.
func (e *DecisionEngine) FullAnalysis(
	ctx context.Context,
	nav float64,
	objective string,
	positions []enginemodels.PositionView,
) (enginemodels.FullAnalysisResult, error) {
	inputs, err := e.collector.Collect(ctx)
	if err != nil {
		return enginemodels.FullAnalysisResult{}, fmt.Errorf("collect market inputs: %w", err)
	}
	e.lastInputs = &inputs

	regimeResult := e.classifier.Classify(inputs)
	recommendation := e.selector.Select(regimeResult, inputs, objective, nav)
	tailRisk := e.tailRiskManager.Assess(inputs)
	detectedConflicts := e.conflictResolver.CheckConflicts(regimeResult, inputs)

	var activePlaybook *enginemodels.EventPlaybook
	if regimeResult.EventActive && regimeResult.EventType != enginemodels.EventTypeNone {
		if pb, pbErr := e.playbookLibrary.GetPlaybook(regimeResult.EventType); pbErr == nil {
			activePlaybook = &pb
		}
	}

	healthChecks := make([]enginemodels.PositionHealthCheck, 0, len(positions))
	for _, pos := range positions {
		healthChecks = append(healthChecks, e.evaluatePosition(pos, regimeResult, inputs, nav))
	}

	e.previousRegime = &regimeResult

	return enginemodels.FullAnalysisResult{
		Regime:         regimeResult,
		Recommendation: recommendation,
		TailRisk:       tailRisk,
		Conflicts:      detectedConflicts,
		ActivePlaybook: activePlaybook,
		PositionHealth: healthChecks,
		MarketInputs:   inputs,
		Timestamp:      time.Now().UTC(),
	}, nil
}

// GetRegime classifies and returns the current market regime.
func (e *DecisionEngine) GetRegime(ctx context.Context) (enginemodels.RegimeResult, error) {
	inputs, err := e.collector.Collect(ctx)
	if err != nil {
		return enginemodels.RegimeResult{}, err
	}
	e.lastInputs = &inputs
	regimeResult := e.classifier.Classify(inputs)
	e.previousRegime = &regimeResult
	return regimeResult, nil
}

// GetRecommendations returns strategy recommendations for current
// conditions without running the rest of the analysis pipeline.
func (e *DecisionEngine) GetRecommendations(ctx context.Context, nav float64, objective string) (enginemodels.StrategyRecommendation, error) {
	inputs, err := e.collector.Collect(ctx)
	if err != nil {
		return enginemodels.StrategyRecommendation{}, err
	}
	e.lastInputs = &inputs
	regimeResult := e.classifier.Classify(inputs)
	e.previousRegime = &regimeResult
	return e.selector.Select(regimeResult, inputs, objective, nav), nil
}

// EvaluatePosition evaluates a single position against the adjustment
// (A1-A9) and exit (X1-X7) rule catalogs.
func (e *DecisionEngine) EvaluatePosition(ctx context.Context, position enginemodels.PositionView, nav float64) (enginemodels.PositionHealthCheck, error) {
	inputs, err := e.collector.Collect(ctx)
	if err != nil {
		return enginemodels.PositionHealthCheck{}, err
	}
	e.lastInputs = &inputs
	regimeResult := e.classifier.Classify(inputs)
	return e.evaluatePosition(position, regimeResult, inputs, nav), nil
}

// GetTailRisk returns the current tail risk assessment.
func (e *DecisionEngine) GetTailRisk(ctx context.Context) (enginemodels.TailRiskAssessment, error) {
	inputs, err := e.collector.Collect(ctx)
	if err != nil {
		return enginemodels.TailRiskAssessment{}, err
	}
	e.lastInputs = &inputs
	return e.tailRiskManager.Assess(inputs), nil
}

// GetConflicts returns only the currently detected signal conflicts.
func (e *DecisionEngine) GetConflicts(ctx context.Context) ([]enginemodels.ConflictScenario, error) {
	inputs, err := e.collector.Collect(ctx)
	if err != nil {
		return nil, err
	}
	e.lastInputs = &inputs
	regimeResult := e.classifier.Classify(inputs)
	return e.conflictResolver.CheckConflicts(regimeResult, inputs), nil
}

// GetAllConflicts returns all conflict scenarios with their detection status.
func (e *DecisionEngine) GetAllConflicts(ctx context.Context) ([]enginemodels.ConflictScenario, error) {
	inputs, err := e.collector.Collect(ctx)
	if err != nil {
		return nil, err
	}
	e.lastInputs = &inputs
	regimeResult := e.classifier.Classify(inputs)
	return e.conflictResolver.CheckAll(regimeResult, inputs), nil
}

// GetPlaybook returns a specific event playbook by name.
func (e *DecisionEngine) GetPlaybook(eventType string) (enginemodels.EventPlaybook, error) {
	return e.playbookLibrary.GetPlaybook(enginemodels.EventType(strings.ToUpper(eventType)))
}

// GetZeroDTEPlaybook returns the 0DTE playbook.
func (e *DecisionEngine) GetZeroDTEPlaybook() enginemodels.ZeroDTEPlaybook {
	return e.playbookLibrary.GetZeroDTE()
}

// GetZeroDTEDay returns the 0DTE recommendation for a specific weekday.
func (e *DecisionEngine) GetZeroDTEDay(day string) (enginemodels.ZeroDTEDayInfo, error) {
	return e.playbookLibrary.GetZeroDTEDay(enginemodels.DayOfWeek(day))
}

// GetStrategyUniverse returns all strategy templates.
func (e *DecisionEngine) GetStrategyUniverse() []enginemodels.StrategyTemplate {
	return e.universe.ListAll()
}

// GetStrategiesByFamily returns strategy templates filtered by family.
func (e *DecisionEngine) GetStrategiesByFamily(family string) []enginemodels.StrategyTemplate {
	return e.universe.ByFamily(enginemodels.StrategyFamily(family))
}

// GetReferenceTable returns a backtested reference data table by name.
func (e *DecisionEngine) GetReferenceTable(name string) (any, error) {
	return e.referenceTables.GetTable(name)
}

// ListReferenceTables lists the available reference table names.
func (e *DecisionEngine) ListReferenceTables() []string {
	return e.referenceTables.ListTables()
}

// LastInputs returns the market inputs collected by the most recent call
// to any method that queries market data, or false if none has run yet.
func (e *DecisionEngine) LastInputs() (enginemodels.MarketInputs, bool) {
	if e.lastInputs == nil {
		return enginemodels.MarketInputs{}, false
	}
	return *e.lastInputs, true
}

func (e *DecisionEngine) evaluatePosition(
	position enginemodels.PositionView,
	regimeResult enginemodels.RegimeResult,
	inputs enginemodels.MarketInputs,
	nav float64,
) enginemodels.PositionHealthCheck {
	adjustmentRules := e.adjustmentEngine.Evaluate(position, regimeResult, inputs, e.previousRegime)
	exitRules := e.exitEngine.Evaluate(position, regimeResult, inputs, e.previousRegime, nav)

	triggered := make([]enginemodels.RuleEvaluation, 0, len(adjustmentRules)+len(exitRules))
	triggered = append(triggered, adjustmentRules...)
	triggered = append(triggered, exitRules...)

	criticalCount := 0
	for _, r := range triggered {
		if r.Priority == enginemodels.PriorityCritical {
			criticalCount++
		}
	}

	var action string
	switch {
	case criticalCount > 0:
		var critical []string
		for _, r := range triggered {
			if r.Priority == enginemodels.PriorityCritical {
				critical = append(critical, r.Action)
			}
		}
		action = "IMMEDIATE ACTION REQUIRED: " + strings.Join(critical, "; ")
	case len(triggered) > 0:
		n := len(triggered)
		if n > 3 {
			n = 3
		}
		var summary []string
		for _, r := range triggered[:n] {
			summary = append(summary, r.Action)
		}
		action = "Review: " + strings.Join(summary, "; ")
	default:
		action = "No action needed - position healthy"
	}

	positionID := position.ID
	if positionID == "" {
		positionID = "unknown"
	}

	return enginemodels.PositionHealthCheck{
		PositionID:        positionID,
		AdjustmentRules:   adjustmentRules,
		ExitRules:         exitRules,
		TriggeredCount:    len(triggered),
		CriticalCount:     criticalCount,
		RecommendedAction: action,
	}
}
