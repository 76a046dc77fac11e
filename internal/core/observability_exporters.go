package core

import (
	"expvar"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var expvarSeq uint64

// Compile-time contract assertion.
var _ MetricsRecorder = (*ExpvarMetricsRecorder)(nil)

// ExpvarMetricsRecorder publishes aggregate load timings and counters via
// expvar. It fulfills MetricsRecorder for deployments that prefer
// process-local metrics without external dependencies. Durations are
// aggregated in milliseconds per entity name alongside success/error counts.
type ExpvarMetricsRecorder struct {
	name      string
	mu        sync.Mutex
	durations map[string]float64
	results   map[string]map[string]int64
	depth     int
	leaked    int64
}

// ExpvarMetricsSnapshot captures a read-only view of the recorded metrics.
type ExpvarMetricsSnapshot struct {
	DurationsMS     map[string]float64          `json:"durations_ms_total"`
	Results         map[string]map[string]int64 `json:"results_total"`
	ActiveLoadDepth int                         `json:"active_load_depth"`
	LeakedStates    int64                       `json:"leaked_states_total"`
	RecordedAt      time.Time                   `json:"recorded_at"`
}

// NewExpvarMetricsRecorder constructs an expvar-backed recorder and publishes
// it under the supplied name. When name is empty, a unique identifier is
// generated.
func NewExpvarMetricsRecorder(name string) *ExpvarMetricsRecorder {
	if name == "" {
		id := atomic.AddUint64(&expvarSeq, 1)
		name = fmt.Sprintf("load_engine_metrics_%d", id)
	}
	rec := &ExpvarMetricsRecorder{
		name:      name,
		durations: make(map[string]float64),
		results:   make(map[string]map[string]int64),
	}
	expvar.Publish(name, expvar.Func(func() any {
		return rec.Snapshot()
	}))
	return rec
}

// Name returns the expvar export name associated with the recorder.
func (r *ExpvarMetricsRecorder) Name() string {
	return r.name
}

// Snapshot returns an immutable copy of the aggregated metrics.
func (r *ExpvarMetricsRecorder) Snapshot() ExpvarMetricsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	durations := make(map[string]float64, len(r.durations))
	for entity, total := range r.durations {
		durations[entity] = total
	}

	results := make(map[string]map[string]int64, len(r.results))
	for entity, statusCounts := range r.results {
		cpy := make(map[string]int64, len(statusCounts))
		for status, count := range statusCounts {
			cpy[status] = count
		}
		results[entity] = cpy
	}

	return ExpvarMetricsSnapshot{
		DurationsMS:     durations,
		Results:         results,
		ActiveLoadDepth: r.depth,
		LeakedStates:    r.leaked,
		RecordedAt:      time.Now().UTC(),
	}
}

// ObserveLoad records one load operation outcome.
func (r *ExpvarMetricsRecorder) ObserveLoad(entity string, success bool, duration time.Duration) {
	if entity == "" {
		return
	}
	ms := float64(duration) / float64(time.Millisecond)
	status := "error"
	if success {
		status = "success"
	}

	r.mu.Lock()
	r.durations[entity] += ms
	if _, ok := r.results[entity]; !ok {
		r.results[entity] = make(map[string]int64, 2)
	}
	r.results[entity][status]++
	r.mu.Unlock()
}

// SetActiveLoadDepth records the current load-context stack depth.
func (r *ExpvarMetricsRecorder) SetActiveLoadDepth(depth int) {
	r.mu.Lock()
	r.depth = depth
	r.mu.Unlock()
}

// AddLeakedStates counts processing states discarded by failsafe cleanup.
func (r *ExpvarMetricsRecorder) AddLeakedStates(n int) {
	r.mu.Lock()
	r.leaked += int64(n)
	r.mu.Unlock()
}
