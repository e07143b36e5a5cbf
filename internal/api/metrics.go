package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metricsRegistry holds the request counters/histograms exposed at
// GET /metrics when config.ServerConfig.EnableMetrics is set.
type metricsRegistry struct {
	registry     *prometheus.Registry
	requestCount *prometheus.CounterVec
	requestDur   *prometheus.HistogramVec
}

func newMetricsRegistry() *metricsRegistry {
	registry := prometheus.NewRegistry()
	requestCount := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_api_requests_total",
		Help: "Total HTTP requests handled, by route and status code.",
	}, []string{"route", "method", "status"})
	requestDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "atlas_api_request_duration_seconds",
		Help:    "HTTP request duration in seconds, by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	registry.MustRegister(requestCount, requestDur)
	return &metricsRegistry{registry: registry, requestCount: requestCount, requestDur: requestDur}
}

// middleware instruments every request with its matched route template
// (not the raw path, to keep label cardinality bounded).
func (m *metricsRegistry) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		route := "unmatched"
		if match := mux.CurrentRoute(r); match != nil {
			if tmpl, err := match.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		m.requestCount.WithLabelValues(route, r.Method, strconv.Itoa(recorder.status)).Inc()
		m.requestDur.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

func (m *metricsRegistry) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
