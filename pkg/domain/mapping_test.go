package domain

import (
	"strings"
	"testing"
)

func orderMapping() EntityMapping {
	return EntityMapping{
		Name:     "order",
		Table:    "orders",
		IDColumn: "id",
		Columns:  []string{"status", "total"},
		Collections: []CollectionMapping{{
			Role:          "lines",
			Table:         "order_lines",
			OwnerColumn:   "order_id",
			ElementColumn: "line_id",
			Element:       "line",
		}},
	}
}

func TestEntityMappingValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*EntityMapping)
		wantErr string
	}{
		{"valid", func(*EntityMapping) {}, ""},
		{"missing name", func(m *EntityMapping) { m.Name = "" }, "name is required"},
		{"missing table", func(m *EntityMapping) { m.Table = "" }, "table is required"},
		{"missing id column", func(m *EntityMapping) { m.IDColumn = "" }, "id column is required"},
		{"missing role", func(m *EntityMapping) { m.Collections[0].Role = "" }, "role is required"},
		{"missing link table", func(m *EntityMapping) { m.Collections[0].Table = "" }, "table is required"},
		{"missing owner column", func(m *EntityMapping) { m.Collections[0].OwnerColumn = "" }, "columns are required"},
		{"missing element column", func(m *EntityMapping) { m.Collections[0].ElementColumn = "" }, "columns are required"},
		{"missing element entity", func(m *EntityMapping) { m.Collections[0].Element = "" }, "element entity is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := orderMapping()
			tc.mutate(&m)
			err := m.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Validate = %v, want %q", err, tc.wantErr)
			}
		})
	}
}

func TestErrorStrings(t *testing.T) {
	if got := (ErrMappingNotFound{Entity: "ghost"}).Error(); !strings.Contains(got, "ghost") {
		t.Fatalf("ErrMappingNotFound message %q should name the entity", got)
	}
	err := ErrEntityNotFound{Key: EntityKey{Entity: "order", ID: "9"}}
	if got := err.Error(); !strings.Contains(got, "order#9") {
		t.Fatalf("ErrEntityNotFound message %q should carry the key", got)
	}
}
