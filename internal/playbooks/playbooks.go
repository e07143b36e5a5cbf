// Package playbooks holds the standing event-specific trading playbooks
// (FOMC, CPI, NFP, Earnings, and 0DTE) with their pre/eve/post-event
// timing, IV behavior, and strategy guidance.
package playbooks

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/enginemodels"
)

var fomc = enginemodels.EventPlaybook{
	EventType: enginemodels.EventTypeFOMC,
	Phases: []enginemodels.PlaybookPhaseDetail{
		{
			Phase:      enginemodels.PhasePreEvent,
			Timing:     "T-5 to T-3",
			IVBehavior: "Front-end IV expansion begins [GS Trading Events 15yr]",
			Strategy:   "Buy calendar spreads (sell front-week, buy front+30 DTE)",
			Sizing:     "Standard",
		},
		{
			Phase:      enginemodels.PhaseEventEve,
			Timing:     "T-1",
			IVBehavior: "IV peaks. Premium richest.",
			Strategy:   "Initiate short front-end vol (straddle sell or calendar) if comfortable",
			Sizing:     "50% of standard (gap risk)",
		},
		{
			Phase:      enginemodels.PhasePostEvent,
			Timing:     "T+0 to T+1",
			IVBehavior: "30-60% of front-end excess IV evaporates within 24hrs [GS Trading Events]",
			Strategy:   "Close calendars. If directional view, enter cheap debit spreads.",
			Sizing:     "Standard (post-crush, vol cheap)",
		},
	},
	Notes: []string{
		"FOMC produces largest implied moves of all macro events [GS 15yr]",
		"Multi-event weeks (FOMC + CPI): IV premium rises ~40% above baseline",
		"Fed rate decisions show most persistent significance [GS Trading Events]",
	},
}

var earnings = enginemodels.EventPlaybook{
	EventType: enginemodels.EventTypeEarnings,
	Phases: []enginemodels.PlaybookPhaseDetail{
		{
			Phase:      enginemodels.PhasePreEvent,
			Timing:     "T-5 to T-3",
			IVBehavior: "20-40% above normal IV [JPM Earnings & Options]",
			Strategy: "VIX-conditional: <20 = calendars; 20-35 = iron condors at implied move; " +
				"35-45 = call buying (+37% avg ROP); >45 = short strangles (+8% ROP)",
			Sizing: "Standard",
		},
		{
			Phase:      enginemodels.PhaseEventEve,
			Timing:     "T-1",
			IVBehavior: "Peak IV expansion",
			Strategy:   "Position per VIX-conditional matrix above; no adjustments day-of",
			Sizing:     "50% if first earnings play",
		},
		{
			Phase:      enginemodels.PhasePostEvent,
			Timing:     "T+0 to T+1",
			IVBehavior: "IV crush of 30-60%",
			Strategy:   "Close all event-specific positions within 24 hours post-report",
			Sizing:     "N/A - closing only",
		},
	},
	KeyRules: []string{
		"Avg S&P stock moves +/-4.3% on earnings (18yr avg) [GS Earnings 18yr]",
		"Options market prices +/-5.6% (systematically overestimates) [GS Earnings 18yr]",
		"Sticker shock: stocks >$100 have underpriced earnings moves [GS Earnings 18yr]",
		"Call buying profitable 15/15 years, +13% avg ROP [GS Earnings Vol]",
		"Tech implied moves 1.5-2.0x realized [JPM Earnings & Options]",
		"Financials implied ~1.1-1.2x realized [JPM Earnings & Options]",
	},
}

var cpi = enginemodels.EventPlaybook{
	EventType: enginemodels.EventTypeCPI,
	Phases: []enginemodels.PlaybookPhaseDetail{
		{
			Phase:      enginemodels.PhasePreEvent,
			Timing:     "T-3 to T-1",
			IVBehavior: "Front-end IV expansion, less than FOMC [GS Trading Events]",
			Strategy:   "Calendar spreads or short front-end straddles",
			Sizing:     "75% of standard",
		},
		{
			Phase:      enginemodels.PhaseEventEve,
			Timing:     "T-1",
			IVBehavior: "IV peaks pre-release",
			Strategy:   "Short front-end vol if IV expansion > 20% above normal",
			Sizing:     "50% of standard",
		},
		{
			Phase:      enginemodels.PhasePostEvent,
			Timing:     "T+0",
			IVBehavior: "Quick IV crush, often completes within hours",
			Strategy:   "Close event trades. Directional entries if view formed.",
			Sizing:     "Standard post-event",
		},
	},
	Notes: []string{
		"CPI second-most impactful after FOMC [GS Trading Events 15yr]",
		"Multi-event weeks add ~40% IV premium",
	},
}

var nfp = enginemodels.EventPlaybook{
	EventType: enginemodels.EventTypeNFP,
	Phases: []enginemodels.PlaybookPhaseDetail{
		{
			Phase:      enginemodels.PhasePreEvent,
			Timing:     "T-3 to T-1",
			IVBehavior: "Moderate front-end IV expansion [GS Trading Events]",
			Strategy:   "Calendar spreads if IV premium > 15% above normal",
			Sizing:     "75% of standard",
		},
		{
			Phase:      enginemodels.PhaseEventEve,
			Timing:     "T-1 (Thursday before)",
			IVBehavior: "IV plateaus",
			Strategy:   "Short front-end straddle if premium rich, or wait",
			Sizing:     "50% of standard",
		},
		{
			Phase:      enginemodels.PhasePostEvent,
			Timing:     "T+0 (Friday)",
			IVBehavior: "IV normalizes",
			Strategy:   "Close event positions",
			Sizing:     "Standard post-event",
		},
	},
	Notes: []string{
		"NFP less impactful than FOMC/CPI but still material [GS Trading Events]",
		"Often coincides with Friday 0DTE elevated premium",
	},
}

var zeroDTE = enginemodels.ZeroDTEPlaybook{
	Characteristics: map[string]any{
		"theta":               "100% decays in single day [JPM Same-day Options]",
		"gamma":               "Extreme - binary-like instruments",
		"sizing":              "0.1-0.25% of NAV per trade (max)",
		"ndxVolCorrelation":   0.88,
		"ndxMarketShare":      "~60% of Nasdaq 100 option volume [JPM]",
	},
	Days: []enginemodels.ZeroDTEDayInfo{
		{Day: enginemodels.Monday, Premium: "HIGH (3.2-4.5%)", Bias: "SELL straddles at 10am", GammaImbalance: "-175 to -125bps"},
		{Day: enginemodels.Tuesday, Premium: "HIGH", Bias: "SELL straddles at 10am", GammaImbalance: "-125 to -100bps"},
		{Day: enginemodels.Wednesday, Premium: "LOW (2.2-2.5%)", Bias: "AVOID or buy premium", GammaImbalance: "-50bps"},
		{Day: enginemodels.Thursday, Premium: "LOW", Bias: "Selective selling only", GammaImbalance: "-75bps"},
		{Day: enginemodels.Friday, Premium: "ELEVATED", Bias: "SELL if no weekend event risk", GammaImbalance: "-150bps"},
	},
	EntryRule:  "Theta must exceed 2x expected intraday move [JPM P&L Attribution]",
	EventBlock: "No 0DTE on FOMC/CPI/NFP days [JPM Same-day Options]",
}

var catalog = map[enginemodels.EventType]enginemodels.EventPlaybook{
	enginemodels.EventTypeFOMC:     fomc,
	enginemodels.EventTypeEarnings: earnings,
	enginemodels.EventTypeCPI:      cpi,
	enginemodels.EventTypeNFP:      nfp,
}

// Library provides lookups into the standing event playbook catalog.
type Library struct {
	logger *zap.Logger
}

// NewLibrary creates a playbook Library. logger may be nil.
func NewLibrary(logger *zap.Logger) *Library {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Library{logger: logger}
}

// GetPlaybook returns the standing playbook for an event type.
func (l *Library) GetPlaybook(eventType enginemodels.EventType) (enginemodels.EventPlaybook, error) {
	pb, ok := catalog[eventType]
	if !ok {
		return enginemodels.EventPlaybook{}, fmt.Errorf("no playbook for event type %q", eventType)
	}
	return pb, nil
}

// GetZeroDTE returns the 0DTE playbook.
func (l *Library) GetZeroDTE() enginemodels.ZeroDTEPlaybook {
	return zeroDTE
}

// GetZeroDTEDay returns the 0DTE recommendation for a specific weekday.
func (l *Library) GetZeroDTEDay(day enginemodels.DayOfWeek) (enginemodels.ZeroDTEDayInfo, error) {
	for _, d := range zeroDTE.Days {
		if d.Day == day {
			return d, nil
		}
	}
	return enginemodels.ZeroDTEDayInfo{}, fmt.Errorf("no 0DTE data for %q", day)
}
