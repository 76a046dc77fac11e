package results

import (
	"context"
	"testing"

	"hydracore/internal/core"
	"hydracore/pkg/domain"
)

type nullSource struct{}

func (nullSource) QueryEntityRows(context.Context, domain.EntityMapping, string) ([]domain.Row, error) {
	return nil, nil
}

func (nullSource) QueryCollectionRows(context.Context, domain.CollectionMapping, string) ([]domain.Row, error) {
	return nil, nil
}

func (nullSource) Close() error { return nil }

func newTestSession(t *testing.T) *core.Session {
	t.Helper()
	session, err := core.NewSession(nullSource{}, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return session
}

func TestProcessingStateLocalLookups(t *testing.T) {
	state := NewProcessingState(newTestSession(t))
	ekey := domain.EntityKey{Entity: "order", ID: "1"}
	ckey := domain.CollectionKey{Role: "lines", OwnerID: "1"}

	if state.FindLoadingEntityLocally(ekey) != nil {
		t.Fatalf("fresh state should hold no entity records")
	}
	if state.FindLoadingCollectionLocally(ckey) != nil {
		t.Fatalf("fresh state should hold no collection records")
	}

	entry := state.RegisterLoadingEntity(ekey, domain.Row{"id": "1"})
	if entry == nil || entry.Instance == nil {
		t.Fatalf("registration should create an entry with an instance")
	}
	if got := state.FindLoadingEntityLocally(ekey); got != entry {
		t.Fatalf("local entity lookup = %v, want registered entry", got)
	}
	if got := state.FindLoadingEntityLocally(domain.EntityKey{Entity: "order", ID: "2"}); got != nil {
		t.Fatalf("lookup of unknown key = %v, want nil", got)
	}

	owner := entry.Instance
	centry := state.RegisterLoadingCollection(ckey, owner)
	if got := state.FindLoadingCollectionLocally(ckey); got != centry {
		t.Fatalf("local collection lookup = %v, want registered entry", got)
	}
}

func TestProcessingStateRegisterIsIdempotentPerKey(t *testing.T) {
	state := NewProcessingState(newTestSession(t))
	ekey := domain.EntityKey{Entity: "order", ID: "1"}
	first := state.RegisterLoadingEntity(ekey, domain.Row{"id": "1"})
	second := state.RegisterLoadingEntity(ekey, domain.Row{"id": "1", "dup": true})
	if first != second {
		t.Fatalf("re-registering the same key should return the existing entry")
	}

	ckey := domain.CollectionKey{Role: "lines", OwnerID: "1"}
	c1 := state.RegisterLoadingCollection(ckey, first.Instance)
	c2 := state.RegisterLoadingCollection(ckey, first.Instance)
	if c1 != c2 {
		t.Fatalf("re-registering the same collection key should return the existing entry")
	}
}

func TestProcessingStateFinishUpFlushesToPersistenceContext(t *testing.T) {
	session := newTestSession(t)
	state := NewProcessingState(session)
	ekey := domain.EntityKey{Entity: "order", ID: "1"}
	entry := state.RegisterLoadingEntity(ekey, domain.Row{"id": "1"})
	ckey := domain.CollectionKey{Role: "lines", OwnerID: "1"}
	centry := state.RegisterLoadingCollection(ckey, entry.Instance)
	element := domain.NewEntity(domain.EntityKey{Entity: "line", ID: "a"})
	centry.Elements = append(centry.Elements, element)

	state.FinishUp()

	pc := session.PersistenceContext()
	cached, ok := pc.Entity(ekey)
	if !ok || cached != entry.Instance {
		t.Fatalf("FinishUp should cache the instance, got %v (%v)", cached, ok)
	}
	if !entry.Finished || !centry.Finished {
		t.Fatalf("FinishUp should mark entries finished")
	}
	elements, ok := pc.Collection(ckey)
	if !ok || len(elements) != 1 || elements[0] != element {
		t.Fatalf("FinishUp should cache collection elements, got %v (%v)", elements, ok)
	}
	attached := entry.Instance.Collections["lines"]
	if len(attached) != 1 || attached[0] != element {
		t.Fatalf("FinishUp should attach the collection to its owner, got %v", attached)
	}
}

func TestProcessingStateIDsAreUnique(t *testing.T) {
	session := newTestSession(t)
	a := NewProcessingState(session)
	b := NewProcessingState(session)
	if a.ID() == b.ID() {
		t.Fatalf("processing state IDs should be unique")
	}
}
