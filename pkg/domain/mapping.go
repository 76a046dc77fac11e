package domain

import "fmt"

// EntityMapping describes how one entity name maps onto a backing table.
type EntityMapping struct {
	// Name is the logical entity name used in EntityKey values.
	Name string `json:"name"`
	// Table is the backing table queried by result sources.
	Table string `json:"table"`
	// IDColumn names the identifier column within Table.
	IDColumn string `json:"id_column"`
	// Columns lists the non-identifier columns materialized into Values.
	Columns []string `json:"columns"`
	// Collections lists the mapped collections owned by this entity.
	Collections []CollectionMapping `json:"collections,omitempty"`
}

// CollectionMapping describes a link table joining an owning entity to the
// entities that make up one of its collections.
type CollectionMapping struct {
	// Role is the logical collection name used in CollectionKey values.
	Role string `json:"role"`
	// Table is the link table queried for the owner's element identifiers.
	Table string `json:"table"`
	// OwnerColumn names the link-table column holding the owner identifier.
	OwnerColumn string `json:"owner_column"`
	// ElementColumn names the link-table column holding element identifiers.
	ElementColumn string `json:"element_column"`
	// Element is the mapped entity name of the collection elements.
	Element string `json:"element"`
}

// Validate checks the mapping for the fields every result source requires.
func (m EntityMapping) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("entity mapping: name is required")
	}
	if m.Table == "" {
		return fmt.Errorf("entity mapping %s: table is required", m.Name)
	}
	if m.IDColumn == "" {
		return fmt.Errorf("entity mapping %s: id column is required", m.Name)
	}
	for _, c := range m.Collections {
		if err := c.validate(m.Name); err != nil {
			return err
		}
	}
	return nil
}

func (c CollectionMapping) validate(owner string) error {
	switch {
	case c.Role == "":
		return fmt.Errorf("collection mapping on %s: role is required", owner)
	case c.Table == "":
		return fmt.Errorf("collection mapping %s.%s: table is required", owner, c.Role)
	case c.OwnerColumn == "" || c.ElementColumn == "":
		return fmt.Errorf("collection mapping %s.%s: owner and element columns are required", owner, c.Role)
	case c.Element == "":
		return fmt.Errorf("collection mapping %s.%s: element entity is required", owner, c.Role)
	}
	return nil
}
