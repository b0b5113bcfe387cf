package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the instruments for background work against external APIs.
type Metrics struct {
	generationCalls *prometheus.CounterVec
	generationRetry *prometheus.CounterVec
	designRuns      *prometheus.CounterVec
	videoRuns       *prometheus.CounterVec
	goldFetches     *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
}

// New registers the instruments on registerer. A nil registerer uses the
// default prometheus registry.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		generationCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jewelry_generation_calls_total",
			Help: "Image generation calls by shot kind and outcome.",
		}, []string{"kind", "outcome"}),
		generationRetry: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jewelry_generation_rate_limited_total",
			Help: "Rate-limited generation attempts that were retried or given up.",
		}, []string{"action"}),
		designRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jewelry_design_runs_total",
			Help: "Generation orchestrator runs by terminal outcome.",
		}, []string{"outcome"}),
		videoRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jewelry_video_runs_total",
			Help: "Video orchestrator runs by terminal outcome.",
		}, []string{"outcome"}),
		goldFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jewelry_gold_price_fetches_total",
			Help: "Gold price fetches by outcome.",
		}, []string{"outcome"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jewelry_run_duration_seconds",
			Help:    "Background run latency by job.",
			Buckets: []float64{1, 5, 10, 20, 30, 60, 120, 180, 300, 600},
		}, []string{"job"}),
	}

	registerer.MustRegister(
		m.generationCalls,
		m.generationRetry,
		m.designRuns,
		m.videoRuns,
		m.goldFetches,
		m.runDuration,
	)

	return m
}

func (m *Metrics) GenerationCall(kind, outcome string) {
	if m == nil {
		return
	}
	m.generationCalls.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) RateLimited(action string) {
	if m == nil {
		return
	}
	m.generationRetry.WithLabelValues(action).Inc()
}

func (m *Metrics) DesignRun(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.designRuns.WithLabelValues(outcome).Inc()
	m.runDuration.WithLabelValues("generation").Observe(seconds)
}

func (m *Metrics) VideoRun(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.videoRuns.WithLabelValues(outcome).Inc()
	m.runDuration.WithLabelValues("video").Observe(seconds)
}

func (m *Metrics) GoldFetch(outcome string) {
	if m == nil {
		return
	}
	m.goldFetches.WithLabelValues(outcome).Inc()
}
