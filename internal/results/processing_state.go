// Package results implements result-set processing: per-scan processing
// states and the loader that materializes entities and nested collections.
package results

import (
	"github.com/google/uuid"

	"hydracore/internal/core"
	"hydracore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.ProcessingState = (*ProcessingState)(nil)

// ProcessingState tracks the entity and collection records materializing
// from one scan of query results. It lives exactly as long as it is
// registered with the session's load contexts; the session owns it only
// through stack bookkeeping.
type ProcessingState struct {
	id                 uuid.UUID
	session            *core.Session
	loadingEntities    map[domain.EntityKey]*domain.LoadingEntityEntry
	entityOrder        []domain.EntityKey
	loadingCollections map[domain.CollectionKey]*domain.LoadingCollectionEntry
	collectionOrder    []domain.CollectionKey
}

// NewProcessingState constructs an empty state bound to the session.
func NewProcessingState(session *core.Session) *ProcessingState {
	return &ProcessingState{
		id:                 uuid.New(),
		session:            session,
		loadingEntities:    make(map[domain.EntityKey]*domain.LoadingEntityEntry),
		loadingCollections: make(map[domain.CollectionKey]*domain.LoadingCollectionEntry),
	}
}

// ID returns the state identifier used in diagnostics.
func (ps *ProcessingState) ID() uuid.UUID {
	return ps.id
}

// FindLoadingEntityLocally returns this state's in-flight record for key,
// or nil. It never consults other states.
func (ps *ProcessingState) FindLoadingEntityLocally(key domain.EntityKey) *domain.LoadingEntityEntry {
	return ps.loadingEntities[key]
}

// FindLoadingCollectionLocally returns this state's in-flight collection
// record for key, or nil.
func (ps *ProcessingState) FindLoadingCollectionLocally(key domain.CollectionKey) *domain.LoadingCollectionEntry {
	return ps.loadingCollections[key]
}

// RegisterLoadingEntity records that this scan is materializing key from
// row. Registering an already-tracked key returns the existing entry.
func (ps *ProcessingState) RegisterLoadingEntity(key domain.EntityKey, row domain.Row) *domain.LoadingEntityEntry {
	if entry, ok := ps.loadingEntities[key]; ok {
		return entry
	}
	entry := &domain.LoadingEntityEntry{
		Key:      key,
		Row:      row,
		Instance: domain.NewEntity(key),
	}
	ps.loadingEntities[key] = entry
	ps.entityOrder = append(ps.entityOrder, key)
	return entry
}

// RegisterLoadingCollection records that this scan is materializing the
// collection identified by key, attached to owner on finish.
func (ps *ProcessingState) RegisterLoadingCollection(key domain.CollectionKey, owner *domain.Entity) *domain.LoadingCollectionEntry {
	if entry, ok := ps.loadingCollections[key]; ok {
		return entry
	}
	entry := &domain.LoadingCollectionEntry{
		Key:   key,
		Owner: owner,
	}
	ps.loadingCollections[key] = entry
	ps.collectionOrder = append(ps.collectionOrder, key)
	return entry
}

// FinishUp flushes every record this scan completed into the session's
// persistence context: entities enter the first-level cache, collections
// attach to their owners. Called once the scan has fully processed, while
// the state is still registered.
func (ps *ProcessingState) FinishUp() {
	pc := ps.session.PersistenceContext()
	for _, key := range ps.entityOrder {
		entry := ps.loadingEntities[key]
		entry.Finished = true
		pc.AddEntity(entry.Instance)
	}
	for _, key := range ps.collectionOrder {
		entry := ps.loadingCollections[key]
		entry.Finished = true
		entry.Owner.Collections[key.Role] = entry.Elements
		pc.AddCollection(key, entry.Elements)
	}
}
