package core

import "hydracore/pkg/domain"

// PersistenceContext is the session-scoped first-level cache of fully loaded
// entities and collections. It exclusively owns one LoadContexts tracker
// created at construction and destroyed with it.
type PersistenceContext struct {
	log          domain.Logger
	entities     map[domain.EntityKey]*domain.Entity
	collections  map[domain.CollectionKey][]*domain.Entity
	loadContexts *LoadContexts
}

// NewPersistenceContext constructs an empty context. A nil logger or
// recorder falls back to a no-op implementation.
func NewPersistenceContext(log domain.Logger, metrics MetricsRecorder) *PersistenceContext {
	if log == nil {
		log = domain.NopLogger{}
	}
	pc := &PersistenceContext{
		log:         log,
		entities:    make(map[domain.EntityKey]*domain.Entity),
		collections: make(map[domain.CollectionKey][]*domain.Entity),
	}
	pc.loadContexts = NewLoadContexts(pc, log, metrics)
	return pc
}

// LoadContexts returns the tracker owned by this context.
func (pc *PersistenceContext) LoadContexts() *LoadContexts {
	return pc.loadContexts
}

// AddEntity records a fully materialized instance in the first-level cache.
func (pc *PersistenceContext) AddEntity(entity *domain.Entity) {
	pc.entities[entity.Key] = entity
}

// Entity returns the cached instance for key, if present.
func (pc *PersistenceContext) Entity(key domain.EntityKey) (*domain.Entity, bool) {
	e, ok := pc.entities[key]
	return e, ok
}

// AddCollection records a fully materialized collection.
func (pc *PersistenceContext) AddCollection(key domain.CollectionKey, elements []*domain.Entity) {
	pc.collections[key] = elements
}

// Collection returns the cached elements for key, if present.
func (pc *PersistenceContext) Collection(key domain.CollectionKey) ([]*domain.Entity, bool) {
	els, ok := pc.collections[key]
	return els, ok
}

// EntityCount returns the number of cached entity instances.
func (pc *PersistenceContext) EntityCount() int {
	return len(pc.entities)
}

// Clear discards all cached state and runs load-context failsafe cleanup.
// It is called when the owning session is discarded.
func (pc *PersistenceContext) Clear() {
	pc.loadContexts.Cleanup()
	pc.entities = make(map[domain.EntityKey]*domain.Entity)
	pc.collections = make(map[domain.CollectionKey][]*domain.Entity)
}
