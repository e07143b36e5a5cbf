package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/atlas-desktop/trading-backend/internal/enginemodels"
)

func (s *Server) registerEngineRoutes() {
	s.router.HandleFunc("/engine/regime", s.handleGetRegime).Methods("GET")
	s.router.HandleFunc("/engine/recommend", s.handleRecommend).Methods("POST")
	s.router.HandleFunc("/engine/analysis", s.handleFullAnalysis).Methods("POST")
	s.router.HandleFunc("/engine/strategies", s.handleListStrategies).Methods("GET")
	s.router.HandleFunc("/engine/strategies/{family}", s.handleListStrategies).Methods("GET")
	s.router.HandleFunc("/engine/tail-risk", s.handleTailRisk).Methods("GET")
	s.router.HandleFunc("/engine/conflicts", s.handleConflicts).Methods("GET")
	s.router.HandleFunc("/engine/conflicts/active", s.handleActiveConflicts).Methods("GET")
	s.router.HandleFunc("/engine/positions/evaluate", s.handleEvaluatePosition).Methods("POST")
	s.router.HandleFunc("/engine/playbook/0dte/info", s.handleZeroDTEInfo).Methods("GET")
	s.router.HandleFunc("/engine/playbook/0dte/{day}", s.handleZeroDTEDay).Methods("GET")
	s.router.HandleFunc("/engine/playbook/{event_type}", s.handlePlaybook).Methods("GET")
	s.router.HandleFunc("/engine/reference", s.handleListReferenceTables).Methods("GET")
	s.router.HandleFunc("/engine/reference/{name}", s.handleReferenceTable).Methods("GET")
}

func (s *Server) handleGetRegime(w http.ResponseWriter, r *http.Request) {
	regimeResult, err := s.engine.GetRegime(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, regimeResult)
}

// recommendRequest is the body of POST /engine/recommend and the
// analysisRequest below share the same nav/objective fields.
type recommendRequest struct {
	NAV       float64 `json:"nav"`
	Objective string  `json:"objective"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	recommendation, err := s.engine.GetRecommendations(r.Context(), req.NAV, req.Objective)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, recommendation)
}

// analysisRequest is the body of POST /engine/analysis. Position is the
// JSON-friendly shape of enginemodels.PositionView, which itself carries
// no JSON tags since it is an internal pipeline type.
type analysisRequest struct {
	NAV       float64           `json:"nav"`
	Objective string            `json:"objective"`
	Positions []positionRequest `json:"positions"`
}

type positionRequest struct {
	ID                string   `json:"id"`
	DTE               *int     `json:"dte"`
	Strategy          string   `json:"strategy"`
	Is0DTE            bool     `json:"is_0dte"`
	CurrentDelta      float64  `json:"current_delta"`
	InitialDelta      *float64 `json:"initial_delta"`
	TestedBreachStd   float64  `json:"tested_breach_std"`
	PortfolioDeltaPct float64  `json:"portfolio_delta_pct"`
	IsCoveredCall     bool     `json:"is_covered_call"`
	UnderlyingSymbol  string   `json:"underlying_symbol"`
	IsDispersion      bool     `json:"is_dispersion"`
	Family            string   `json:"family"`
	UnrealizedPnL     float64  `json:"unrealized_pnl"`
	MaxProfit         float64  `json:"max_profit"`
	PremiumPaid       float64  `json:"premium_paid"`
	PremiumReceived   float64  `json:"premium_received"`
	RegimeAllowed     []string `json:"regime_allowed"`
	DailyPnL          float64  `json:"daily_pnl"`
}

func (p positionRequest) toPositionView() enginemodels.PositionView {
	v := enginemodels.PositionView{
		ID:                p.ID,
		Strategy:          p.Strategy,
		Is0DTE:            p.Is0DTE,
		CurrentDelta:      p.CurrentDelta,
		TestedBreachStd:   p.TestedBreachStd,
		PortfolioDeltaPct: p.PortfolioDeltaPct,
		IsCoveredCall:     p.IsCoveredCall,
		UnderlyingSymbol:  p.UnderlyingSymbol,
		IsDispersion:      p.IsDispersion,
		Family:            p.Family,
		UnrealizedPnL:     p.UnrealizedPnL,
		MaxProfit:         p.MaxProfit,
		PremiumPaid:       p.PremiumPaid,
		PremiumReceived:   p.PremiumReceived,
		RegimeAllowed:     p.RegimeAllowed,
		DailyPnL:          p.DailyPnL,
	}
	if p.DTE != nil {
		v.DTE = *p.DTE
		v.HasDTE = true
	}
	if p.InitialDelta != nil {
		v.InitialDelta = *p.InitialDelta
		v.HasInitialDelta = true
	}
	return v
}

func (s *Server) handleFullAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	positions := make([]enginemodels.PositionView, 0, len(req.Positions))
	for _, p := range req.Positions {
		positions = append(positions, p.toPositionView())
	}
	result, err := s.engine.FullAnalysis(r.Context(), req.NAV, req.Objective, positions)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListStrategies(w http.ResponseWriter, r *http.Request) {
	family := mux.Vars(r)["family"]
	if family == "" {
		writeJSON(w, http.StatusOK, s.engine.GetStrategyUniverse())
		return
	}
	writeJSON(w, http.StatusOK, s.engine.GetStrategiesByFamily(family))
}

func (s *Server) handleTailRisk(w http.ResponseWriter, r *http.Request) {
	assessment, err := s.engine.GetTailRisk(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

func (s *Server) handleConflicts(w http.ResponseWriter, r *http.Request) {
	scenarios, err := s.engine.GetAllConflicts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scenarios)
}

func (s *Server) handleActiveConflicts(w http.ResponseWriter, r *http.Request) {
	scenarios, err := s.engine.GetConflicts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scenarios)
}

func (s *Server) handleEvaluatePosition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NAV      float64         `json:"nav"`
		Position positionRequest `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	health, err := s.engine.EvaluatePosition(r.Context(), req.Position.toPositionView(), req.NAV)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, health)
}

// handlePlaybook looks up a catalog entry by name: an unrecognized event
// type is a malformed request, not a missing entity, so it is a 400.
func (s *Server) handlePlaybook(w http.ResponseWriter, r *http.Request) {
	eventType := mux.Vars(r)["event_type"]
	playbook, err := s.engine.GetPlaybook(eventType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, playbook)
}

func (s *Server) handleZeroDTEInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.GetZeroDTEPlaybook())
}

// handleZeroDTEDay looks up a catalog entry by day-of-week: an invalid
// day is a malformed enum value, not a missing entity, so it is a 400.
func (s *Server) handleZeroDTEDay(w http.ResponseWriter, r *http.Request) {
	day := mux.Vars(r)["day"]
	info, err := s.engine.GetZeroDTEDay(day)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleListReferenceTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.ListReferenceTables())
}

// handleReferenceTable looks up a catalog entry by name: an unknown
// table is a malformed request, not a missing entity, so it is a 400.
func (s *Server) handleReferenceTable(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	table, err := s.engine.GetReferenceTable(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, table)
}
