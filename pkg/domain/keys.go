// Package domain defines the shared value types, mapping metadata, and
// capability contracts used by the hydracore load engine.
package domain

import "fmt"

// EntityKey uniquely identifies one entity instance within a session:
// the mapped entity name plus its identifier value.
type EntityKey struct {
	Entity string
	ID     string
}

// String renders the key in "entity#id" form for diagnostics.
func (k EntityKey) String() string {
	return fmt.Sprintf("%s#%s", k.Entity, k.ID)
}

// CollectionKey uniquely identifies one mapped collection instance:
// the collection role plus the identifier of the owning entity.
type CollectionKey struct {
	Role    string
	OwnerID string
}

// String renders the key in "role#owner" form for diagnostics.
func (k CollectionKey) String() string {
	return fmt.Sprintf("%s#%s", k.Role, k.OwnerID)
}
