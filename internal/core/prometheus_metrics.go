package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Compile-time contract assertion.
var _ MetricsRecorder = (*PrometheusMetricsRecorder)(nil)

// PrometheusMetricsRecorder fulfills MetricsRecorder by exporting load
// observations to a Prometheus registry.
type PrometheusMetricsRecorder struct {
	loadDuration *prometheus.HistogramVec
	loadResults  *prometheus.CounterVec
	activeDepth  prometheus.Gauge
	leakedStates prometheus.Counter
}

// NewPrometheusMetricsRecorder constructs a recorder and registers its
// collectors with reg. A nil registerer falls back to the default registry.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) (*PrometheusMetricsRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &PrometheusMetricsRecorder{
		loadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hydracore",
			Name:      "load_duration_seconds",
			Help:      "Duration of entity load operations.",
		}, []string{"entity"}),
		loadResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hydracore",
			Name:      "load_results_total",
			Help:      "Load operation outcomes by entity and status.",
		}, []string{"entity", "status"}),
		activeDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hydracore",
			Name:      "active_load_depth",
			Help:      "Current depth of the load-context stack.",
		}),
		leakedStates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hydracore",
			Name:      "leaked_states_total",
			Help:      "Processing states discarded by failsafe cleanup.",
		}),
	}
	for _, c := range []prometheus.Collector{r.loadDuration, r.loadResults, r.activeDepth, r.leakedStates} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveLoad records one load operation outcome.
func (r *PrometheusMetricsRecorder) ObserveLoad(entity string, success bool, duration time.Duration) {
	if entity == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.loadDuration.WithLabelValues(entity).Observe(duration.Seconds())
	r.loadResults.WithLabelValues(entity, status).Inc()
}

// SetActiveLoadDepth records the current load-context stack depth.
func (r *PrometheusMetricsRecorder) SetActiveLoadDepth(depth int) {
	r.activeDepth.Set(float64(depth))
}

// AddLeakedStates counts processing states discarded by failsafe cleanup.
func (r *PrometheusMetricsRecorder) AddLeakedStates(n int) {
	r.leakedStates.Add(float64(n))
}
