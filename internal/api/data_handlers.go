package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/data/provider"
	"github.com/atlas-desktop/trading-backend/internal/workers"
)

// workersTaskFunc adapts a plain func() error to workers.Task without
// every call site importing the workers package directly.
func workersTaskFunc(fn func() error) workers.Task { return workers.TaskFunc(fn) }

func (s *Server) registerDataRoutes() {
	if s.provider == nil {
		return
	}
	s.router.HandleFunc("/quote/{symbol}", s.handleQuote).Methods("GET")
	s.router.HandleFunc("/options/{symbol}", s.handleOptionChain).Methods("GET")
	s.router.HandleFunc("/volatility/{symbol}", s.handleIVAnalysis).Methods("GET")
	s.router.HandleFunc("/history/{symbol}", s.handlePriceHistory).Methods("GET")
	s.router.HandleFunc("/sentiment/{symbol}", s.handleMarketSentiment).Methods("GET")
	s.router.HandleFunc("/quotes/batch", s.handleQuotesBatch).Methods("POST")
	s.router.HandleFunc("/iv-analysis/batch", s.handleIVAnalysisBatch).Methods("POST")
}

func marketFromQuery(r *http.Request) provider.Market {
	m := r.URL.Query().Get("market")
	if m == "" {
		return provider.MarketUS
	}
	return provider.Market(m)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	quote, err := s.provider.GetQuote(r.Context(), symbol, marketFromQuery(r))
	if err != nil {
		writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s *Server) handleOptionChain(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	chain, err := s.provider.GetOptionChain(r.Context(), symbol, marketFromQuery(r))
	if err != nil {
		writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chain)
}

func (s *Server) handleIVAnalysis(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	analysis, err := s.provider.GetIVAnalysis(r.Context(), symbol, marketFromQuery(r))
	if err != nil {
		writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handlePriceHistory(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	limit := 30
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	history, err := s.provider.GetPriceHistory(r.Context(), symbol, marketFromQuery(r), limit)
	if err != nil {
		writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleMarketSentiment(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	sentiment, err := s.provider.GetMarketSentiment(r.Context(), symbol, marketFromQuery(r))
	if err != nil {
		writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sentiment)
}

type batchRequest struct {
	Symbols []string        `json:"symbols"`
	Market  provider.Market `json:"market"`
}

func (s *Server) handleQuotesBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	market := req.Market
	if market == "" {
		market = provider.MarketUS
	}

	results := fanOutBatch(s, req.Symbols, func(symbol string) (any, error) {
		return s.provider.GetQuote(r.Context(), symbol, market)
	})
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleIVAnalysisBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	market := req.Market
	if market == "" {
		market = provider.MarketUS
	}

	results := fanOutBatch(s, req.Symbols, func(symbol string) (any, error) {
		return s.provider.GetIVAnalysis(r.Context(), symbol, market)
	})
	writeJSON(w, http.StatusOK, results)
}

// fanOutBatch runs fetch for every symbol concurrently on the server's
// worker pool and collects the results keyed by symbol. A per-symbol
// failure is recorded as an error entry rather than failing the whole
// batch.
func fanOutBatch(s *Server, symbols []string, fetch func(symbol string) (any, error)) map[string]any {
	results := make(map[string]any, len(symbols))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, symbol := range symbols {
		wg.Add(1)
		sym := symbol
		go func() {
			defer wg.Done()
			err := s.batchPool.SubmitWait(workersTaskFunc(func() error {
				value, fetchErr := fetch(sym)
				mu.Lock()
				defer mu.Unlock()
				if fetchErr != nil {
					results[sym] = map[string]string{"error": fetchErr.Error()}
					return nil
				}
				results[sym] = value
				return nil
			}))
			if err != nil {
				mu.Lock()
				results[sym] = map[string]string{"error": err.Error()}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	stats := s.batchPool.Stats()
	s.logger.Debug("batch fetch complete",
		zap.Int("symbols", len(symbols)),
		zap.Int64("pool_tasks_completed", stats.TasksCompleted),
		zap.Int64("pool_tasks_failed", stats.TasksFailed),
		zap.Duration("pool_p99_latency", stats.P99Latency),
	)
	return results
}

// writeProviderError maps ErrNotSupported to 501 and any other provider
// failure to 500, per the unhandled-provider-error status contract.
func writeProviderError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, provider.ErrNotSupported) {
		status = http.StatusNotImplemented
	}
	writeError(w, status, err.Error())
}
