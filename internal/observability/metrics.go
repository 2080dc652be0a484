package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// API client metrics.
	APIRequests *prometheus.CounterVec   // labels: endpoint={fires,scenario,ask}, outcome={success,transport,status,decode,timeout}
	APIDuration *prometheus.HistogramVec // labels: endpoint
	AnswerCache *prometheus.CounterVec   // labels: result={hit,miss}

	// Pipeline metrics.
	Fallbacks       *prometheus.CounterVec // labels: source={catalog,scenario}
	ScenarioLoads   prometheus.Counter
	StaleDropped    prometheus.Counter
	DebouncedFires  *prometheus.CounterVec // labels: debouncer={scenario,suggest}
	ResolveDuration prometheus.Histogram
	LayerRedraws    *prometheus.CounterVec // labels: layer
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.APIRequests,
		m.APIDuration,
		m.AnswerCache,
		m.Fallbacks,
		m.ScenarioLoads,
		m.StaleDropped,
		m.DebouncedFires,
		m.ResolveDuration,
		m.LayerRedraws,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "terranova",
			Name:      "api_requests_total",
			Help:      "TerraNova API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		APIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "terranova",
			Name:      "api_request_duration_seconds",
			Help:      "TerraNova API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),
		AnswerCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "terranova",
			Name:      "answer_cache_total",
			Help:      "Q&A answer cache lookups by result.",
		}, []string{"result"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "terranova",
			Name:      "fallbacks_total",
			Help:      "Times bundled fallback data replaced a failed fetch.",
		}, []string{"source"}),
		ScenarioLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "terranova",
			Name:      "scenario_loads_total",
			Help:      "Scenario fetch/merge/render cycles started.",
		}),
		StaleDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "terranova",
			Name:      "stale_scenarios_dropped_total",
			Help:      "Resolved scenarios discarded because a newer request was issued.",
		}),
		DebouncedFires: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "terranova",
			Name:      "debounce_fires_total",
			Help:      "Debounced callbacks that ran after their quiet window.",
		}, []string{"debouncer"}),
		ResolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "terranova",
			Name:      "scenario_resolve_duration_seconds",
			Help:      "Duration of fetch plus merge for one scenario.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		LayerRedraws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "terranova",
			Name:      "layer_redraws_total",
			Help:      "Overlay layer clear-and-redraw passes by layer.",
		}, []string{"layer"}),
	}
}
