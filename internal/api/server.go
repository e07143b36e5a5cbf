// Package api provides the HTTP surface over the decision engine and the
// market-data layer.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/config"
	"github.com/atlas-desktop/trading-backend/internal/data/provider"
	"github.com/atlas-desktop/trading-backend/internal/engine"
	"github.com/atlas-desktop/trading-backend/internal/workers"
)

// Server is the HTTP API server fronting a DecisionEngine and a market
// data provider. There is no WebSocket push channel: spec.md's Non-goals
// exclude real-time streaming, so regime change is observed by polling
// GET /engine/regime instead.
//
// DecisionEngine's "previous regime" slot follows last-writer-wins under
// concurrent requests by design (spec.md section 5): it is advisory
// state read only by regime-change rules, so the server does not
// serialize calls into it.
type Server struct {
	logger     *zap.Logger
	config     config.ServerConfig
	router     *mux.Router
	httpServer *http.Server
	engine     *engine.DecisionEngine
	provider   provider.Provider
	batchPool  *workers.Pool
	metrics    *metricsRegistry
}

// NewServer creates a Server. provider may be nil if no data endpoints
// are needed.
func NewServer(logger *zap.Logger, cfg config.ServerConfig, decisionEngine *engine.DecisionEngine, dataProvider provider.Provider) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	var batchPool *workers.Pool
	if dataProvider != nil {
		batchPool = workers.NewPool(logger, workers.DefaultPoolConfig("data-batch"))
		batchPool.Start()
	}

	s := &Server{
		logger:    logger,
		config:    cfg,
		router:    mux.NewRouter(),
		engine:    decisionEngine,
		provider:  dataProvider,
		batchPool: batchPool,
	}
	if cfg.EnableMetrics {
		s.metrics = newMetricsRegistry()
	}
	s.setupRoutes()
	return s
}

// Router exposes the underlying router, mainly for tests.
func (s *Server) Router() *mux.Router { return s.router }

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.handler()).Methods("GET")
	}
	s.registerEngineRoutes()
	s.registerDataRoutes()
}

// Start runs the HTTP server until Stop is called or it errors.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var handler http.Handler = s.router
	if s.metrics != nil {
		handler = s.metrics.middleware(handler)
	}
	handler = cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(handler)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("starting API server", zap.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts the HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.batchPool != nil {
		if err := s.batchPool.Stop(); err != nil {
			s.logger.Warn("error stopping batch worker pool", zap.Error(err))
		}
	}
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
