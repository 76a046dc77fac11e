package domain

// Entity is one materialized instance produced by a load pipeline. Values
// holds the column values read from the backing row; Collections holds
// resolved collection elements keyed by role.
type Entity struct {
	Key         EntityKey
	Values      map[string]any
	Collections map[string][]*Entity
}

// NewEntity constructs an empty instance for the given key.
func NewEntity(key EntityKey) *Entity {
	return &Entity{
		Key:         key,
		Values:      make(map[string]any),
		Collections: make(map[string][]*Entity),
	}
}

// LoadingEntityEntry is the in-progress bookkeeping record for one entity
// being materialized within a single processing state. The Instance pointer
// is shared with any nested load that resolves the same key while the entry
// is still active, which is how reference cycles resolve without re-reading.
type LoadingEntityEntry struct {
	Key      EntityKey
	Row      Row
	Instance *Entity
	Finished bool
}

// LoadingCollectionEntry is the in-progress bookkeeping record for one
// collection being materialized. Elements accumulate as the nested element
// scan proceeds; Owner is the instance the finished collection attaches to.
type LoadingCollectionEntry struct {
	Key      CollectionKey
	Owner    *Entity
	Elements []*Entity
	Finished bool
}

// ProcessingState is the capability contract for one active load operation
// bound to a source of query results. The load-context tracker stacks these
// and consults the two local finders during innermost-first lookups. Both
// finders must be side-effect-free and return nil when the state holds no
// matching record.
type ProcessingState interface {
	FindLoadingEntityLocally(key EntityKey) *LoadingEntityEntry
	FindLoadingCollectionLocally(key CollectionKey) *LoadingCollectionEntry
}
