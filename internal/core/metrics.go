package core

import "time"

// MetricsRecorder aggregates load-pipeline observations. Implementations
// must be safe for concurrent use; several sessions may share one recorder.
type MetricsRecorder interface {
	// ObserveLoad records one completed top-level or nested load operation.
	ObserveLoad(entity string, success bool, duration time.Duration)
	// SetActiveLoadDepth records the current load-context stack depth.
	SetActiveLoadDepth(depth int)
	// AddLeakedStates counts processing states discarded by failsafe cleanup.
	AddLeakedStates(n int)
}

// NopMetricsRecorder discards all observations. It is the default when
// callers supply no recorder.
type NopMetricsRecorder struct{}

// ObserveLoad discards the observation.
func (NopMetricsRecorder) ObserveLoad(string, bool, time.Duration) {}

// SetActiveLoadDepth discards the observation.
func (NopMetricsRecorder) SetActiveLoadDepth(int) {}

// AddLeakedStates discards the observation.
func (NopMetricsRecorder) AddLeakedStates(int) {}
