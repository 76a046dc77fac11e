// Package core implements the load engine: sessions, the persistence
// context, nested load-context tracking, metrics, and backend selection.
package core

import (
	"fmt"

	"hydracore/pkg/domain"
)

// ErrIllegalNesting reports a Deregister call whose processing state is not
// the innermost registered state. It indicates unbalanced register/deregister
// pairing in load orchestration; stack integrity cannot be trusted past it,
// so callers must propagate rather than recover.
type ErrIllegalNesting struct {
	// Depth is the stack depth observed at the failed call.
	Depth int
}

func (e ErrIllegalNesting) Error() string {
	if e.Depth == 0 {
		return "deregister of processing state on empty load-context stack"
	}
	return fmt.Sprintf("deregister of processing state out of nesting order (depth %d)", e.Depth)
}

// LoadContexts tracks the stack of processing states for in-flight load
// operations. Nested loads register above their parent; lookups walk from
// the innermost state outward so the currently executing load's records
// shadow records held by still-active outer loads.
//
// A LoadContexts is bound to exactly one owning PersistenceContext for its
// whole lifetime and is not safe for concurrent mutation: one session drives
// one coordinated load pipeline at a time.
type LoadContexts struct {
	persistenceContext *PersistenceContext
	log                domain.Logger
	metrics            MetricsRecorder
	states             stack[domain.ProcessingState]
}

// NewLoadContexts constructs a tracker bound to the given persistence
// context. A nil logger or recorder falls back to a no-op implementation.
func NewLoadContexts(pc *PersistenceContext, log domain.Logger, metrics MetricsRecorder) *LoadContexts {
	if log == nil {
		log = domain.NopLogger{}
	}
	if metrics == nil {
		metrics = NopMetricsRecorder{}
	}
	return &LoadContexts{persistenceContext: pc, log: log, metrics: metrics}
}

// Register pushes a processing state as the new innermost load operation.
func (lc *LoadContexts) Register(state domain.ProcessingState) {
	lc.states.push(state)
	lc.metrics.SetActiveLoadDepth(lc.states.depth())
}

// Deregister removes the innermost processing state after verifying that it
// is the one the caller finished with. A mismatch, including deregistering
// against an empty stack, leaves the stack untouched and returns
// ErrIllegalNesting.
func (lc *LoadContexts) Deregister(state domain.ProcessingState) error {
	current, ok := lc.states.top()
	if !ok || current != state {
		return ErrIllegalNesting{Depth: lc.states.depth()}
	}
	lc.states.pop()
	lc.metrics.SetActiveLoadDepth(lc.states.depth())
	return nil
}

// FindLoadingEntityEntry searches active processing states from innermost to
// outermost for an in-flight entity record matching key. It returns nil when
// no active state holds a match.
func (lc *LoadContexts) FindLoadingEntityEntry(key domain.EntityKey) *domain.LoadingEntityEntry {
	return findCurrentFirst(&lc.states, func(state domain.ProcessingState) *domain.LoadingEntityEntry {
		return state.FindLoadingEntityLocally(key)
	})
}

// FindLoadingCollectionEntry searches active processing states from innermost
// to outermost for an in-flight collection record matching key.
func (lc *LoadContexts) FindLoadingCollectionEntry(key domain.CollectionKey) *domain.LoadingCollectionEntry {
	return findCurrentFirst(&lc.states, func(state domain.ProcessingState) *domain.LoadingCollectionEntry {
		return state.FindLoadingCollectionLocally(key)
	})
}

// Cleanup releases every tracked registration unconditionally. Leftover
// states mean some load never deregistered; that is logged and counted but
// never fails, since failsafe teardown must not block the owning context's
// destruction.
func (lc *LoadContexts) Cleanup() {
	if leaked := lc.states.depth(); leaked > 0 {
		lc.log.Warn("load contexts still contained processing state registrations on cleanup", "leaked", leaked)
		lc.metrics.AddLeakedStates(leaked)
	}
	lc.states.clear()
	lc.metrics.SetActiveLoadDepth(0)
}

// IsEmpty reports whether no load operations are currently tracked.
func (lc *LoadContexts) IsEmpty() bool {
	return lc.states.isEmpty()
}

// Depth returns the number of currently tracked load operations.
func (lc *LoadContexts) Depth() int {
	return lc.states.depth()
}

// PersistenceContext returns the owning context this tracker is bound to.
func (lc *LoadContexts) PersistenceContext() *PersistenceContext {
	return lc.persistenceContext
}
