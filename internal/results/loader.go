package results

import (
	"context"
	"fmt"
	"time"

	"hydracore/internal/core"
	"hydracore/pkg/domain"
)

// Loader orchestrates hierarchical entity loads for one session. Each load
// registers a processing state with the session's load contexts, so nested
// collection loads stack above their parent and lookups resolve
// innermost-first. Loads are synchronous; nesting arises from recursive
// sub-loads on the same call chain.
type Loader struct {
	session *core.Session
}

// NewLoader constructs a loader bound to the session.
func NewLoader(session *core.Session) *Loader {
	return &Loader{session: session}
}

// LoadEntity materializes the entity with the given mapped name and
// identifier. Resolution order: first-level cache, then in-flight records of
// any active load (which may return a not-yet-finished instance; this is how
// reference cycles resolve), then a fresh scan against the result source.
func (l *Loader) LoadEntity(ctx context.Context, entity, id string) (*domain.Entity, error) {
	mapping, ok := l.session.Mapping(entity)
	if !ok {
		return nil, domain.ErrMappingNotFound{Entity: entity}
	}
	key := domain.EntityKey{Entity: mapping.Name, ID: id}
	pc := l.session.PersistenceContext()
	if instance, ok := pc.Entity(key); ok {
		return instance, nil
	}
	if entry := pc.LoadContexts().FindLoadingEntityEntry(key); entry != nil {
		return entry.Instance, nil
	}

	start := time.Now()
	instance, err := l.loadFresh(ctx, mapping, key)
	l.session.Metrics().ObserveLoad(mapping.Name, err == nil, time.Since(start))
	return instance, err
}

// loadFresh runs one scan: query, register a processing state, materialize,
// flush, deregister. A nesting violation from Deregister is returned as-is;
// it signals corrupted load orchestration and must reach the caller.
func (l *Loader) loadFresh(ctx context.Context, mapping domain.EntityMapping, key domain.EntityKey) (*domain.Entity, error) {
	rows, err := l.session.Source().QueryEntityRows(ctx, mapping, key.ID)
	if err != nil {
		return nil, fmt.Errorf("query entity %s: %w", key, err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrEntityNotFound{Key: key}
	}

	lc := l.session.PersistenceContext().LoadContexts()
	state := NewProcessingState(l.session)
	lc.Register(state)
	l.session.Logger().Debug("registered processing state", "state", state.ID(), "entity", key.Entity, "depth", lc.Depth())

	instance, procErr := l.processRows(ctx, state, mapping, key, rows)
	if procErr == nil {
		state.FinishUp()
	}
	if err := lc.Deregister(state); err != nil {
		return nil, err
	}
	if procErr != nil {
		return nil, procErr
	}
	return instance, nil
}

// processRows materializes the entity row and triggers nested loads for its
// mapped collections. Entities are keyed by identifier, so only the first
// row carries entity columns; link tables produce any further rows.
func (l *Loader) processRows(ctx context.Context, state *ProcessingState, mapping domain.EntityMapping, key domain.EntityKey, rows []domain.Row) (*domain.Entity, error) {
	row := rows[0]
	entry := state.RegisterLoadingEntity(key, row)
	for _, col := range mapping.Columns {
		entry.Instance.Values[col] = row[col]
	}

	lc := l.session.PersistenceContext().LoadContexts()
	for _, cm := range mapping.Collections {
		ckey := domain.CollectionKey{Role: cm.Role, OwnerID: key.ID}
		if existing := lc.FindLoadingCollectionEntry(ckey); existing != nil {
			// Already materializing in an active load; the owning state
			// attaches it on finish.
			continue
		}
		if elements, ok := l.session.PersistenceContext().Collection(ckey); ok {
			entry.Instance.Collections[cm.Role] = elements
			continue
		}
		if err := l.loadCollection(ctx, state, cm, ckey, entry.Instance); err != nil {
			return nil, err
		}
	}
	return entry.Instance, nil
}

// loadCollection registers the collection with the state scanning its owner,
// then loads each element through the normal entity path. Element loads are
// fresh scans with their own processing states stacked above this one.
func (l *Loader) loadCollection(ctx context.Context, state *ProcessingState, cm domain.CollectionMapping, key domain.CollectionKey, owner *domain.Entity) error {
	entry := state.RegisterLoadingCollection(key, owner)
	linkRows, err := l.session.Source().QueryCollectionRows(ctx, cm, key.OwnerID)
	if err != nil {
		return fmt.Errorf("query collection %s: %w", key, err)
	}
	for _, link := range linkRows {
		elementID, err := stringValue(link[cm.ElementColumn])
		if err != nil {
			return fmt.Errorf("collection %s: %w", key, err)
		}
		element, err := l.LoadEntity(ctx, cm.Element, elementID)
		if err != nil {
			return fmt.Errorf("load element of %s: %w", key, err)
		}
		entry.Elements = append(entry.Elements, element)
	}
	return nil
}

func stringValue(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case nil:
		return "", fmt.Errorf("missing element identifier")
	default:
		return fmt.Sprintf("%v", t), nil
	}
}
