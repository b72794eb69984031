package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics. A nil *Metrics is a valid no-op
// receiver so tests and optional wiring can skip registration entirely.
type Metrics struct {
	probeCacheHits    prometheus.Counter
	probeCacheMisses  prometheus.Counter
	registrarCalls    prometheus.Counter
	registrarErrors   *prometheus.CounterVec
	breakerOpen       prometheus.Gauge
	searchRounds      prometheus.Histogram
	suggestionsServed prometheus.Counter
	searchesThrottled prometheus.Counter
	responseCacheHits prometheus.Counter
}

// New creates and registers the metrics on the default registry. Call it
// once per process.
func New() *Metrics {
	return &Metrics{
		probeCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namescout_probe_cache_hits_total",
			Help: "Availability probes served from the TTL cache",
		}),
		probeCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namescout_probe_cache_misses_total",
			Help: "Availability probes that required a live lookup",
		}),
		registrarCalls: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namescout_registrar_calls_total",
			Help: "Bulk availability calls issued to the registrar",
		}),
		registrarErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "namescout_registrar_errors_total",
			Help: "Registrar call failures by error class",
		}, []string{"class"}),
		breakerOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "namescout_breaker_open",
			Help: "Whether the registrar circuit breaker is currently open",
		}),
		searchRounds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "namescout_search_rounds",
			Help:    "Rounds used per suggestion search",
			Buckets: []float64{1, 2, 3, 4, 5},
		}),
		suggestionsServed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namescout_suggestions_served_total",
			Help: "Accepted available suggestions returned to callers",
		}),
		searchesThrottled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namescout_searches_throttled_total",
			Help: "Searches rejected by the per-client throttle",
		}),
		responseCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namescout_response_cache_hits_total",
			Help: "Suggestion responses served from the query cache",
		}),
	}
}

// ProbeCacheHit records availability results served from cache.
func (m *Metrics) ProbeCacheHit(n int) {
	if m == nil {
		return
	}
	m.probeCacheHits.Add(float64(n))
}

// ProbeCacheMiss records availability results that needed a live lookup.
func (m *Metrics) ProbeCacheMiss(n int) {
	if m == nil {
		return
	}
	m.probeCacheMisses.Add(float64(n))
}

// RegistrarCall records one bulk registrar call.
func (m *Metrics) RegistrarCall() {
	if m == nil {
		return
	}
	m.registrarCalls.Inc()
}

// RegistrarError records a registrar failure by class.
func (m *Metrics) RegistrarError(class string) {
	if m == nil {
		return
	}
	m.registrarErrors.WithLabelValues(class).Inc()
}

// BreakerOpen publishes the breaker state.
func (m *Metrics) BreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.breakerOpen.Set(1)
	} else {
		m.breakerOpen.Set(0)
	}
}

// SearchCompleted records a finished search.
func (m *Metrics) SearchCompleted(rounds, suggestions int) {
	if m == nil {
		return
	}
	m.searchRounds.Observe(float64(rounds))
	m.suggestionsServed.Add(float64(suggestions))
}

// SearchThrottled records a search denied by the client throttle.
func (m *Metrics) SearchThrottled() {
	if m == nil {
		return
	}
	m.searchesThrottled.Inc()
}

// ResponseCacheHit records a search served from the response cache.
func (m *Metrics) ResponseCacheHit() {
	if m == nil {
		return
	}
	m.responseCacheHits.Inc()
}
