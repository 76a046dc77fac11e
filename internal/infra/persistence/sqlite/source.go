// Package sqlite provides an embedded sqlite-backed result source.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"hydracore/pkg/domain"
)

// Compile-time contract assertion ensuring the source satisfies the domain interface.
var _ domain.ResultSource = (*Source)(nil)

// Source reads entity and collection rows from an embedded sqlite database.
// Table layout is bootstrapped from the supplied mappings on open.
type Source struct {
	db   *sql.DB
	path string
}

// NewSource opens (creating if necessary) the sqlite file at path and
// ensures every mapped table exists.
func NewSource(path string, mappings []domain.EntityMapping) (*Source, error) {
	if path == "" {
		path = "hydracore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &Source{db: db, path: path}
	if err := s.bootstrap(mappings); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// DB exposes the underlying sql.DB for seeding and integration test hooks.
func (s *Source) DB() *sql.DB {
	return s.db
}

func (s *Source) bootstrap(mappings []domain.EntityMapping) error {
	for _, m := range mappings {
		cols := make([]string, 0, len(m.Columns)+1)
		cols = append(cols, quoteIdent(m.IDColumn)+" TEXT PRIMARY KEY")
		for _, c := range m.Columns {
			cols = append(cols, quoteIdent(c)+" TEXT")
		}
		ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(m.Table), strings.Join(cols, ", "))
		if _, err := s.db.Exec(ddl); err != nil {
			return fmt.Errorf("create table %s: %w", m.Table, err)
		}
		for _, c := range m.Collections {
			ddl := fmt.Sprintf(
				"CREATE TABLE IF NOT EXISTS %s (%s TEXT NOT NULL, %s TEXT NOT NULL)",
				quoteIdent(c.Table), quoteIdent(c.OwnerColumn), quoteIdent(c.ElementColumn),
			)
			if _, err := s.db.Exec(ddl); err != nil {
				return fmt.Errorf("create link table %s: %w", c.Table, err)
			}
		}
	}
	return nil
}

// QueryEntityRows selects the mapped columns for one identifier.
func (s *Source) QueryEntityRows(ctx context.Context, mapping domain.EntityMapping, id string) ([]domain.Row, error) {
	cols := append([]string{mapping.IDColumn}, mapping.Columns...)
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = ?",
		joinIdents(cols), quoteIdent(mapping.Table), quoteIdent(mapping.IDColumn),
	)
	return s.queryRows(ctx, query, id)
}

// QueryCollectionRows selects the link rows for one owner, ordered by
// element identifier for deterministic materialization.
func (s *Source) QueryCollectionRows(ctx context.Context, mapping domain.CollectionMapping, ownerID string) ([]domain.Row, error) {
	query := fmt.Sprintf(
		"SELECT %s, %s FROM %s WHERE %s = ? ORDER BY %s",
		quoteIdent(mapping.OwnerColumn), quoteIdent(mapping.ElementColumn),
		quoteIdent(mapping.Table), quoteIdent(mapping.OwnerColumn), quoteIdent(mapping.ElementColumn),
	)
	return s.queryRows(ctx, query, ownerID)
}

func (s *Source) queryRows(ctx context.Context, query string, args ...any) ([]domain.Row, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanRows(rows)
}

// Close closes the underlying database handle.
func (s *Source) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}

func scanRows(rows *sql.Rows) ([]domain.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	var out []domain.Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		row := make(domain.Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func joinIdents(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}
