// Package memory provides an in-memory result source used for tests and
// ephemeral environments.
package memory

import (
	"context"
	"sync"

	"hydracore/pkg/domain"
)

// Compile-time contract assertion ensuring the source satisfies the domain interface.
var _ domain.ResultSource = (*Source)(nil)

// Source serves seeded rows from process memory. Seeding is guarded by a
// mutex so tests may populate a source while sessions read from it.
type Source struct {
	mu       sync.RWMutex
	entities map[string]map[string]domain.Row
	links    map[string]map[string][]domain.Row
	failWith error
}

// NewSource constructs an empty source.
func NewSource() *Source {
	return &Source{
		entities: make(map[string]map[string]domain.Row),
		links:    make(map[string]map[string][]domain.Row),
	}
}

// SeedEntity stores one entity row under table/id, replacing any previous
// row. The supplied row is copied.
func (s *Source) SeedEntity(table, id string, row domain.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID, ok := s.entities[table]
	if !ok {
		byID = make(map[string]domain.Row)
		s.entities[table] = byID
	}
	byID[id] = cloneRow(row)
}

// SeedLink appends link rows joining ownerID to each element identifier in a
// collection link table.
func (s *Source) SeedLink(mapping domain.CollectionMapping, ownerID string, elementIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byOwner, ok := s.links[mapping.Table]
	if !ok {
		byOwner = make(map[string][]domain.Row)
		s.links[mapping.Table] = byOwner
	}
	for _, elem := range elementIDs {
		byOwner[ownerID] = append(byOwner[ownerID], domain.Row{
			mapping.OwnerColumn:   ownerID,
			mapping.ElementColumn: elem,
		})
	}
}

// FailWith makes every subsequent query return err. Passing nil restores
// normal operation. Used by tests exercising pipeline error paths.
func (s *Source) FailWith(err error) {
	s.mu.Lock()
	s.failWith = err
	s.mu.Unlock()
}

// QueryEntityRows returns the seeded row for the mapped table and id.
func (s *Source) QueryEntityRows(ctx context.Context, mapping domain.EntityMapping, id string) ([]domain.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	row, ok := s.entities[mapping.Table][id]
	if !ok {
		return nil, nil
	}
	return []domain.Row{cloneRow(row)}, nil
}

// QueryCollectionRows returns the seeded link rows for one owner.
func (s *Source) QueryCollectionRows(ctx context.Context, mapping domain.CollectionMapping, ownerID string) ([]domain.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	rows := s.links[mapping.Table][ownerID]
	out := make([]domain.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, cloneRow(r))
	}
	return out, nil
}

// Close releases nothing; the source is purely in-process.
func (s *Source) Close() error {
	return nil
}

func cloneRow(row domain.Row) domain.Row {
	cpy := make(domain.Row, len(row))
	for k, v := range row {
		cpy[k] = v
	}
	return cpy
}
