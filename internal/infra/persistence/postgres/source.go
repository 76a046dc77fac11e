// Package postgres provides a PostgreSQL-backed result source using the pgx
// driver through database/sql.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"hydracore/pkg/domain"
)

// Compile-time contract assertion ensuring the source satisfies the domain interface.
var _ domain.ResultSource = (*Source)(nil)

const (
	defaultDriver = "pgx"
	// Default DSN keeps parity with OpenResultSource defaults while allowing overrides via env.
	defaultDSN = "postgres://localhost/hydracore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	prev := sqlOpen
	sqlOpen = fn
	openMu.Unlock()
	return func() {
		openMu.Lock()
		sqlOpen = prev
		openMu.Unlock()
	}
}

// Source reads entity and collection rows from a PostgreSQL server. Unlike
// the sqlite source it does not bootstrap tables; mapped schemas are
// expected to be provisioned by the owning application.
type Source struct {
	db *sql.DB
}

// NewSource opens a connection pool for the given DSN (falls back to
// defaultDSN) and verifies connectivity. Mappings are validated so later
// query construction can assume them well formed.
func NewSource(dsn string, mappings []domain.EntityMapping) (*Source, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	for _, m := range mappings {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("postgres source mappings: %w", err)
		}
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Source{db: db}, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Source) DB() *sql.DB {
	return s.db
}

// QueryEntityRows selects the mapped columns for one identifier.
func (s *Source) QueryEntityRows(ctx context.Context, mapping domain.EntityMapping, id string) ([]domain.Row, error) {
	cols := append([]string{mapping.IDColumn}, mapping.Columns...)
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		joinIdents(cols), quoteIdent(mapping.Table), quoteIdent(mapping.IDColumn),
	)
	return s.queryRows(ctx, query, id)
}

// QueryCollectionRows selects the link rows for one owner, ordered by
// element identifier for deterministic materialization.
func (s *Source) QueryCollectionRows(ctx context.Context, mapping domain.CollectionMapping, ownerID string) ([]domain.Row, error) {
	query := fmt.Sprintf(
		"SELECT %s, %s FROM %s WHERE %s = $1 ORDER BY %s",
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

// Close closes the underlying connection pool.
func (s *Source) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close postgres: %w", err)
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
