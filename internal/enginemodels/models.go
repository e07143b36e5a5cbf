// Package enginemodels defines the shared data types for the options
// decision engine: market inputs, regime output, strategy templates and
// candidates, sizing results, rule evaluations, playbooks, tail-risk
// assessments, conflict scenarios, and the reference-table rows.
//
// These types are pure data — no behavior lives here. Regime
// classification, scoring, sizing, and rule evaluation all live in their
// own packages and operate on these structs.
package enginemodels

import "time"

// VolRegime is the eight-way volatility regime classification.
type VolRegime string

const (
	VolRegimeVeryLow          VolRegime = "VERY_LOW"
	VolRegimeLow              VolRegime = "LOW"
	VolRegimeNormal           VolRegime = "NORMAL"
	VolRegimeElevated         VolRegime = "ELEVATED"
	VolRegimeHigh             VolRegime = "HIGH"
	VolRegimeExtreme          VolRegime = "EXTREME"
	VolRegimeCrisis           VolRegime = "CRISIS"
	VolRegimeLiquidityStress  VolRegime = "LIQUIDITY_STRESS"
)

// Trend is the SPX trend classification.
type Trend string

const (
	TrendStrongUptrend   Trend = "STRONG_UPTREND"
	TrendUptrend         Trend = "UPTREND"
	TrendRangeBound      Trend = "RANGE_BOUND"
	TrendDowntrend       Trend = "DOWNTREND"
	TrendStrongDowntrend Trend = "STRONG_DOWNTREND"
)

// Confidence is the regime classifier's self-reported confidence level.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// EventType identifies the kind of macro event driving an event window.
type EventType string

const (
	EventTypeFOMC     EventType = "FOMC"
	EventTypeCPI      EventType = "CPI"
	EventTypeNFP      EventType = "NFP"
	EventTypeEarnings EventType = "EARNINGS"
	EventTypeNone     EventType = "NONE"
)

// StrategyFamily groups strategy templates by risk posture.
type StrategyFamily string

const (
	FamilyShortPremium  StrategyFamily = "short_premium"
	FamilyLongPremium   StrategyFamily = "long_premium"
	FamilyHedging       StrategyFamily = "hedging"
	FamilyTailTrading   StrategyFamily = "tail_trading"
	FamilyRelativeValue StrategyFamily = "relative_value"
)

// StrategyObjective is the finer-grained trading objective of a template.
type StrategyObjective string

const (
	ObjectiveIncome               StrategyObjective = "income"
	ObjectiveDirectionalBullish   StrategyObjective = "directional_bullish"
	ObjectiveDirectionalBearish   StrategyObjective = "directional_bearish"
	ObjectiveEventHarvest         StrategyObjective = "event_harvest"
	ObjectiveEventVol             StrategyObjective = "event_vol"
	ObjectivePortfolioHedge       StrategyObjective = "portfolio_hedge"
	ObjectiveTailHedge            StrategyObjective = "tail_hedge"
	ObjectiveSystematicTail       StrategyObjective = "systematic_tail"
	ObjectiveSpotRecovery         StrategyObjective = "spot_recovery"
	ObjectiveRealizedVolCapture   StrategyObjective = "realized_vol_capture"
	ObjectiveVIXNormalization     StrategyObjective = "vix_normalization"
	ObjectiveCorrelationRV        StrategyObjective = "correlation_RV"
	ObjectiveCarryWithProtection  StrategyObjective = "carry_with_protection"
	ObjectiveSectorMeanReversion  StrategyObjective = "sector_mean_reversion"
)

// RulePriority orders adjustment-rule urgency.
type RulePriority string

const (
	PriorityCritical RulePriority = "CRITICAL"
	PriorityHigh     RulePriority = "HIGH"
	PriorityMedium   RulePriority = "MEDIUM"
	PriorityLow      RulePriority = "LOW"
)

// priorityRank gives a sortable ordinal for RulePriority, CRITICAL first.
var priorityRank = map[RulePriority]int{
	PriorityCritical: 0,
	PriorityHigh:      1,
	PriorityMedium:    2,
	PriorityLow:       3,
}

// Rank returns the sort ordinal for this priority (lower sorts first).
func (p RulePriority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// RecommendationType is the top-level verdict of the strategy selector.
type RecommendationType string

const (
	RecommendationTrade           RecommendationType = "TRADE"
	RecommendationTradeCautious   RecommendationType = "TRADE_CAUTIOUS"
	RecommendationLowConviction   RecommendationType = "LOW_CONVICTION"
	RecommendationNoTrade         RecommendationType = "NO_TRADE"
	RecommendationRegimeUncertain RecommendationType = "REGIME_UNCERTAIN"
)

// PlaybookPhase identifies a phase of an event playbook's timeline.
type PlaybookPhase string

const (
	PhasePreEvent  PlaybookPhase = "pre_event"
	PhaseEventEve  PlaybookPhase = "event_eve"
	PhasePostEvent PlaybookPhase = "post_event"
)

// DayOfWeek names a trading day for the 0DTE playbook.
type DayOfWeek string

const (
	Monday    DayOfWeek = "Monday"
	Tuesday   DayOfWeek = "Tuesday"
	Wednesday DayOfWeek = "Wednesday"
	Thursday  DayOfWeek = "Thursday"
	Friday    DayOfWeek = "Friday"
)

// ── Market Inputs ─────────────────────────────────────────────────────────

// SpotData holds SPX level, returns, moving averages, and breadth.
type SpotData struct {
	SPXLevel             float64 `json:"spxLevel"`
	SPXRet1D             float64 `json:"spxRet1d"`
	SPXRet5D             float64 `json:"spxRet5d"`
	SPXRet20D            float64 `json:"spxRet20d"`
	SPXSma50             float64 `json:"spxSma50"`
	SPXSma200            float64 `json:"spxSma200"`
	BreadthPctAbove50DMA float64 `json:"breadthPctAbove50dma"`
}

// VolData holds VIX, VVIX, implied/realized vol, and term-proximate fields.
type VolData struct {
	VIX             float64 `json:"vix"`
	VIX1DChange     float64 `json:"vix1dChange"`
	VIX5DChange     float64 `json:"vix5dChange"`
	VIXPercentile1Y float64 `json:"vixPercentile1y"`
	VVIX            float64 `json:"vvix"`
	VIX9D           float64 `json:"vix9d"`
	IVAtm1M         float64 `json:"ivAtm1m"`
	IVAtm3M         float64 `json:"ivAtm3m"`
	IVAtm6M         float64 `json:"ivAtm6m"`
	RV10D           float64 `json:"rv10d"`
	RV20D           float64 `json:"rv20d"`
	RV30D           float64 `json:"rv30d"`
	IVRVSpread      float64 `json:"ivRvSpread"`
}

// SkewData holds 25-delta put skew and risk-reversal cost.
type SkewData struct {
	PutSkew25D1M    float64 `json:"putSkew25d1m"`
	PutSkew25D3M    float64 `json:"putSkew25d3m"`
	RiskReversal25D float64 `json:"riskReversal25d"`
	SkewPctile1Y    float64 `json:"skewPctile1y"`
}

// TermStructureData holds the vol term structure and VIX futures curve.
type TermStructureData struct {
	TS1M3M       float64 `json:"ts1m3m"`
	TS3M6M       float64 `json:"ts3m6m"`
	TSSlope      float64 `json:"tsSlope"`
	VIXFutures1M float64 `json:"vixFutures1m"`
	VIXFutures3M float64 `json:"vixFutures3m"`
	RollYield    float64 `json:"rollYield"`
}

// EventCalendarData holds trading-day counts to the next macro events.
type EventCalendarData struct {
	DaysToFOMC     int `json:"daysToFomc"`
	DaysToCPI      int `json:"daysToCpi"`
	DaysToNFP      int `json:"daysToNfp"`
	DaysToEarnings int `json:"daysToEarnings"`
	EventsNext5D   int `json:"eventsNext5d"`
	EventsNext20D  int `json:"eventsNext20d"`
}

// CreditMacroData holds credit-spread and rates context.
type CreditMacroData struct {
	HYOAS           float64 `json:"hyOas"`
	HYOAS20DChange  float64 `json:"hyOas20dChange"`
	IGSpread        float64 `json:"igSpread"`
	FedFundsRate    float64 `json:"fedFundsRate"`
	US10YYield      float64 `json:"us10yYield"`
	US2s10s         float64 `json:"us2s10s"`
}

// LiquidityData holds options bid-ask and futures depth metrics.
type LiquidityData struct {
	SPXBidAsk        float64 `json:"spxBidAsk"`
	SPXBidAsk20DMA   float64 `json:"spxBidAsk20dMa"`
	BidAskWidening   float64 `json:"bidAskWidening"`
	EminiDepth       float64 `json:"eminiDepth"`
	OptionsVolumeOI  float64 `json:"optionsVolumeOi"`
}

// CorrelationData holds implied/realized correlation and dispersion.
type CorrelationData struct {
	ImpliedCorr     float64 `json:"impliedCorr"`
	RealizedCorr20D float64 `json:"realizedCorr20d"`
	CorrPctile1Y    float64 `json:"corrPctile1y"`
	Dispersion      float64 `json:"dispersion"`
}

// MarketInputs is the complete set of market data consumed by the engine.
type MarketInputs struct {
	Spot          SpotData          `json:"spot"`
	Vol           VolData           `json:"vol"`
	Skew          SkewData          `json:"skew"`
	TermStructure TermStructureData `json:"termStructure"`
	Events        EventCalendarData `json:"events"`
	Credit        CreditMacroData   `json:"credit"`
	Liquidity     LiquidityData     `json:"liquidity"`
	Correlation   CorrelationData   `json:"correlation"`
	Timestamp     time.Time         `json:"timestamp"`
}

// ── Regime Result ─────────────────────────────────────────────────────────

// RegimeResult is the output of the regime classifier.
type RegimeResult struct {
	Regime            VolRegime  `json:"regime"`
	Trend             Trend      `json:"trend"`
	EventActive       bool       `json:"eventActive"`
	EventType         EventType  `json:"eventType"`
	MultiEvent        bool       `json:"multiEvent"`
	VolUnstable       bool       `json:"volUnstable"`
	Confidence        Confidence `json:"confidence"`
	ConfirmingSignals int        `json:"confirmingSignals"`
	Actions           []string   `json:"actions"`
	Timestamp         time.Time  `json:"timestamp"`
}

// ── Position Sizing ───────────────────────────────────────────────────────

// SizeMultipliers breaks down the multiplier chain applied to a trade size.
type SizeMultipliers struct {
	SellPremium          float64 `json:"sellPremium"`
	BuyPremium           float64 `json:"buyPremium"`
	VVIXAdjustment       float64 `json:"vvixAdjustment"`
	ConfidenceAdjustment float64 `json:"confidenceAdjustment"`
	FinalSell            float64 `json:"finalSell"`
	FinalBuy             float64 `json:"finalBuy"`
}

// PositionSizeResult is the output of the position sizer.
type PositionSizeResult struct {
	PremiumBudget      float64           `json:"premiumBudget"`
	SizeMultiplier     float64           `json:"sizeMultiplier"`
	MultiplierBreakdown SizeMultipliers  `json:"multiplierBreakdown"`
	RiskLimitBreaches  []string          `json:"riskLimitBreaches"`
	WithinLimits       bool              `json:"withinLimits"`
}

// RiskLimits are the portfolio-level risk limits checked during sizing.
type RiskLimits struct {
	MaxPortfolioVega       float64
	MaxPortfolioDelta      float64
	MaxPortfolioGammaT7    float64
	MaxSingleNamePct       float64
	MaxSectorPct           float64
	MaxCorrelatedPositions int
	DailyPnLStop           float64
	WeeklyPnLStop          float64
	CashReserveMin         float64
}

// DefaultRiskLimits returns the standing portfolio risk limits.
func DefaultRiskLimits() RiskLimits {
	return RiskLimits{
		MaxPortfolioVega:       0.005,
		MaxPortfolioDelta:      0.20,
		MaxPortfolioGammaT7:    0.003,
		MaxSingleNamePct:       0.05,
		MaxSectorPct:           0.20,
		MaxCorrelatedPositions: 3,
		DailyPnLStop:           0.015,
		WeeklyPnLStop:          0.030,
		CashReserveMin:         0.20,
	}
}

// ── Strategy Templates ────────────────────────────────────────────────────

// StrategyTemplate is a single entry in the strategy universe catalog.
//
// BaseDelta/BaseDTE/ProfitTarget/StopLoss are modeled as strings in the
// source to allow either a number or a descriptive/event-linked value
// (e.g. "event_dte", "realized > 1.5x implied"). Here BaseDelta is split
// into BaseDelta (single-leg) and BaseDeltas (multi-leg, keyed by leg
// name) since Go has no tagged int|dict union; exactly one is populated.
type StrategyTemplate struct {
	Name            string
	Family          StrategyFamily
	Objective       StrategyObjective
	Legs            int
	BaseDelta       int
	BaseDeltas      map[string]int
	BaseDTE         int
	BaseDTEIsSymbolic bool // true when BaseDTE is event-linked, not numeric
	WidthPct        float64
	ProfitTarget    string
	StopLoss        string
	RollDTE         int
	HasRollDTE      bool
	WinRate         float64
	HasWinRate      bool
	SharpeHist      float64
	HasSharpeHist   bool
	RegimeAllowed   []string
	RegimeExcluded  []string
	EventBlock      bool
	EventRequired   bool
	IVRankMin       int
	HasIVRankMin    bool
	IVRankMax       int
	HasIVRankMax    bool
	VIXMax          float64
	HasVIXMax       bool
	Structure       string
	Cost            string
	CostBudget      float64
	HasCostBudget   bool
	Description     string
}

// ── Selector Output ───────────────────────────────────────────────────────

// StrategyScore is the six-dimension score produced for each candidate.
type StrategyScore struct {
	Total      float64 `json:"total"`
	Edge       float64 `json:"edge"`
	CarryFit   float64 `json:"carryFit"`
	TailRisk   float64 `json:"tailRisk"`
	Robustness float64 `json:"robustness"`
	Liquidity  float64 `json:"liquidity"`
	Complexity float64 `json:"complexity"`
}

// StrategyParams are the execution-ready parameters for a candidate.
type StrategyParams struct {
	Delta          int
	HasDelta       bool
	Deltas         map[string]int
	DTE            int
	SizeMultiplier float64
	ProfitTarget   string
	StopLoss       string
	RollDTE        int
	HasRollDTE     bool
}

// GateCheckResult is the outcome of a single entry-gate check.
type GateCheckResult struct {
	GateName string `json:"gateName"`
	Passed   bool   `json:"passed"`
	Reason   string `json:"reason"`
}

// StrategyCandidate is a scored, parameterized strategy candidate.
type StrategyCandidate struct {
	Name     string            `json:"name"`
	Template StrategyTemplate  `json:"template"`
	Scores   StrategyScore     `json:"scores"`
	Params   StrategyParams    `json:"params"`
	Gates    []GateCheckResult `json:"gates"`
}

// StrategyRecommendation is the final output of the strategy selector.
type StrategyRecommendation struct {
	Recommendation RecommendationType   `json:"recommendation"`
	Strategies     []StrategyCandidate  `json:"strategies"`
	Regime         RegimeResult         `json:"regime"`
	Note           string               `json:"note"`
	Timestamp      time.Time            `json:"timestamp"`
}

// ── Adjustment / Exit Rules ───────────────────────────────────────────────

// AdjustmentRule is a standing definition of one of the A1-A9 rules.
type AdjustmentRule struct {
	RuleID    string
	Name      string
	Trigger   string
	Action    string
	Rationale string
	Priority  RulePriority
}

// ExitRule is a standing definition of one of the X1-X7 rules.
type ExitRule struct {
	RuleID    string
	Name      string
	Trigger   string
	Action    string
	Rationale string
	AppliesTo string
}

// RuleEvaluation is the result of evaluating a single rule against a position.
type RuleEvaluation struct {
	RuleID   string       `json:"ruleId"`
	RuleName string       `json:"ruleName"`
	Triggered bool        `json:"triggered"`
	Priority RulePriority `json:"priority"`
	Action   string       `json:"action"`
	Details  string       `json:"details"`
}

// ── Event Playbooks ───────────────────────────────────────────────────────

// PlaybookPhaseDetail is one phase of an event playbook's timeline.
type PlaybookPhaseDetail struct {
	Phase      PlaybookPhase `json:"phase"`
	Timing     string        `json:"timing"`
	IVBehavior string        `json:"ivBehavior"`
	Strategy   string        `json:"strategy"`
	Sizing     string        `json:"sizing"`
	Notes      []string      `json:"notes"`
}

// EventPlaybook is a complete playbook for one event type.
type EventPlaybook struct {
	EventType EventType             `json:"eventType"`
	Phases    []PlaybookPhaseDetail `json:"phases"`
	Notes     []string              `json:"notes"`
	KeyRules  []string              `json:"keyRules"`
}

// ZeroDTEDayInfo is the 0DTE recommendation for a single day of the week.
type ZeroDTEDayInfo struct {
	Day            DayOfWeek `json:"day"`
	Premium        string    `json:"premium"`
	Bias           string    `json:"bias"`
	GammaImbalance string    `json:"gammaImbalance"`
}

// ZeroDTEPlaybook is the full 0DTE trading playbook.
type ZeroDTEPlaybook struct {
	Characteristics map[string]any   `json:"characteristics"`
	Days            []ZeroDTEDayInfo `json:"days"`
	EntryRule       string           `json:"entryRule"`
	EventBlock      string           `json:"eventBlock"`
}

// ── Tail Risk ─────────────────────────────────────────────────────────────

// HedgeInstrument is a single instrument allocation within the standing hedge.
type HedgeInstrument struct {
	Name       string  `json:"name"`
	Allocation float64 `json:"allocation"`
	Structure  string  `json:"structure"`
	Tenor      string  `json:"tenor"`
	Rationale  string  `json:"rationale"`
}

// HedgeAllocation is the standing portfolio hedge allocation.
type HedgeAllocation struct {
	AnnualBudgetPct float64           `json:"annualBudgetPct"`
	Instruments     []HedgeInstrument `json:"instruments"`
}

// EarlyWarningSignal is one of the tail-risk early warning checks.
type EarlyWarningSignal struct {
	Signal       string  `json:"signal"`
	Action       string  `json:"action"`
	LeadTime     string  `json:"leadTime"`
	Triggered    bool    `json:"triggered"`
	CurrentValue float64 `json:"currentValue"`
	Threshold    float64 `json:"threshold"`
}

// TailTradingStatus is the status of the 3-pillar tail trading signal.
type TailTradingStatus struct {
	SignalActive       bool    `json:"signalActive"`
	TSValue            float64 `json:"tsValue"`
	DeltaPillarActive  bool    `json:"deltaPillarActive"`
	GammaPillarActive  bool    `json:"gammaPillarActive"`
	VegaPillarActive   bool    `json:"vegaPillarActive"`
}

// TailRiskAssessment is the full output of the tail-risk manager.
type TailRiskAssessment struct {
	HedgeAllocation     HedgeAllocation      `json:"hedgeAllocation"`
	EarlyWarnings       []EarlyWarningSignal `json:"earlyWarnings"`
	ActiveWarningsCount int                  `json:"activeWarningsCount"`
	CrisisProtocolActive bool                `json:"crisisProtocolActive"`
	CrisisActions       []string             `json:"crisisActions"`
	TailTrading         TailTradingStatus    `json:"tailTrading"`
	Timestamp           time.Time            `json:"timestamp"`
}

// ── Conflict Resolution ───────────────────────────────────────────────────

// ConflictScenario is one entry in the conflict resolution matrix.
type ConflictScenario struct {
	ConflictID  string `json:"conflictId"`
	Description string `json:"description"`
	SignalA     string `json:"signalA"`
	SignalB     string `json:"signalB"`
	Resolution  string `json:"resolution"`
	Detected    bool   `json:"detected"`
}

// ── Reference Table Rows ──────────────────────────────────────────────────

// PutSellingPerformance is one delta row of the put-selling study.
type PutSellingPerformance struct {
	Delta      int     `json:"delta"`
	AnnReturn  float64 `json:"annReturn"`
	Sharpe     float64 `json:"sharpe"`
	StdDev     float64 `json:"stdDev"`
	WinRate    float64 `json:"winRate"`
	AvgPremium float64 `json:"avgPremium"`
}

// OverwritingPerformance is one FCF-quintile row of the overwriting study.
type OverwritingPerformance struct {
	FCFQuintile string  `json:"fcfQuintile"`
	AnnReturn   float64 `json:"annReturn"`
	Sharpe      float64 `json:"sharpe"`
	StdDev      float64 `json:"stdDev"`
}

// HedgingComparison is one strategy row of the hedging comparison study.
type HedgingComparison struct {
	Strategy  string  `json:"strategy"`
	AnnReturn float64 `json:"annReturn"`
	Vol       float64 `json:"vol"`
	Sharpe    float64 `json:"sharpe"`
	MaxDD     float64 `json:"maxDd"`
}

// SectorEventSensitivity is one sector row of the macro-event sensitivity study.
type SectorEventSensitivity struct {
	Sector     string  `json:"sector"`
	Activity   float64 `json:"activity"`
	Credit     float64 `json:"credit"`
	Employment float64 `json:"employment"`
	Housing    float64 `json:"housing"`
	Oil        float64 `json:"oil"`
	Policy     float64 `json:"policy"`
	Prices     float64 `json:"prices"`
}

// GlobalVolLevel is one index row of the global vol-level table.
type GlobalVolLevel struct {
	Index           string  `json:"index"`
	IV1M            float64 `json:"iv1m"`
	Pctile1M5Y      float64 `json:"pctile1m5y"`
	IV3M            float64 `json:"iv3m"`
	Pctile3M5Y      float64 `json:"pctile3m5y"`
	VarianceBasis1M float64 `json:"varianceBasis1m"`
}

// ZeroDTEVolPremium is one day-of-week row of the 0DTE vol premium table.
type ZeroDTEVolPremium struct {
	Day            string `json:"day"`
	NDXPremium     string `json:"ndxPremium"`
	GammaImbalance string `json:"gammaImbalance"`
	Bias           string `json:"bias"`
}

// VolRiskPremium is one tenor row of the vol risk premium matrix.
type VolRiskPremium struct {
	Tenor  string  `json:"tenor"`
	ATM    float64 `json:"atm"`
	OTM25D float64 `json:"otm25d"`
	OTM10D float64 `json:"otm10d"`
	OTM5D  float64 `json:"otm5d"`
}

// TailTradingPerformance is one configuration row of the tail-trading study.
type TailTradingPerformance struct {
	Configuration string   `json:"configuration"`
	AnnReturn     float64  `json:"annReturn"`
	Vol           *float64 `json:"vol,omitempty"`
	Sharpe        *float64 `json:"sharpe,omitempty"`
	MaxDD         *float64 `json:"maxDd,omitempty"`
}

// ── Position Health / Full Analysis ───────────────────────────────────────

// PositionHealthCheck is the health report for a single position.
type PositionHealthCheck struct {
	PositionID        string           `json:"positionId"`
	AdjustmentRules   []RuleEvaluation `json:"adjustmentRules"`
	ExitRules         []RuleEvaluation `json:"exitRules"`
	TriggeredCount    int              `json:"triggeredCount"`
	CriticalCount     int              `json:"criticalCount"`
	RecommendedAction string           `json:"recommendedAction"`
}

// FullAnalysisResult is the complete decision engine output.
type FullAnalysisResult struct {
	Regime         RegimeResult           `json:"regime"`
	Recommendation StrategyRecommendation `json:"recommendation"`
	TailRisk       TailRiskAssessment     `json:"tailRisk"`
	Conflicts      []ConflictScenario     `json:"conflicts"`
	ActivePlaybook *EventPlaybook         `json:"activePlaybook,omitempty"`
	PositionHealth []PositionHealthCheck  `json:"positionHealth"`
	MarketInputs   MarketInputs           `json:"marketInputs"`
	Timestamp      time.Time              `json:"timestamp"`
}

// PositionView is the explicit, typed substitute for the source's free-form
// position dict consumed by the adjustment and exit rule evaluators.
// Every field is optional; a zero value means "not supplied" and follows
// the documented default (see each field's comment) so that partial
// position data degrades rule coverage rather than erroring.
type PositionView struct {
	ID                 string
	DTE                int     // defaults to 999 (never rolls/closes on time) when unset; see HasDTE
	HasDTE             bool
	Strategy           string
	Is0DTE             bool
	CurrentDelta       float64
	InitialDelta       float64 // defaults to 15 when unset
	HasInitialDelta    bool
	TestedBreachStd    float64
	PortfolioDeltaPct  float64
	IsCoveredCall      bool
	UnderlyingSymbol   string
	IsDispersion       bool
	Family             string // "short_premium" | "long_premium"
	UnrealizedPnL      float64
	MaxProfit          float64
	PremiumPaid        float64
	PremiumReceived    float64
	RegimeAllowed      []string
	DailyPnL           float64
}

// EffectiveDTE returns the position's DTE, defaulting to 999 when unset.
func (p PositionView) EffectiveDTE() int {
	if p.HasDTE {
		return p.DTE
	}
	return 999
}

// EffectiveInitialDelta returns the position's initial delta, defaulting to 15.
func (p PositionView) EffectiveInitialDelta() float64 {
	if p.HasInitialDelta {
		return p.InitialDelta
	}
	return 15
}
