package domain

import (
	"context"
	"fmt"
)

// Row is one row of query results keyed by column name.
type Row map[string]any

// ResultSource is the minimal abstraction over persistence backends that
// load pipelines read from. Implementations must be safe for sequential use
// within one session; they do not participate in load-context tracking.
type ResultSource interface {
	// QueryEntityRows returns the rows backing the entity with the given
	// identifier. An empty slice means the entity does not exist.
	QueryEntityRows(ctx context.Context, mapping EntityMapping, id string) ([]Row, error)
	// QueryCollectionRows returns the link rows for one owner's collection.
	// Each row carries at least the mapping's element column.
	QueryCollectionRows(ctx context.Context, mapping CollectionMapping, ownerID string) ([]Row, error)
	// Close releases backend resources.
	Close() error
}

// ErrMappingNotFound reports a load request for an entity name the session
// has no mapping for.
type ErrMappingNotFound struct {
	Entity string
}

func (e ErrMappingNotFound) Error() string {
	return fmt.Sprintf("no entity mapping registered for %q", e.Entity)
}

// ErrEntityNotFound reports a load request whose backing rows are absent.
type ErrEntityNotFound struct {
	Key EntityKey
}

func (e ErrEntityNotFound) Error() string {
	return fmt.Sprintf("entity %s not found", e.Key)
}
