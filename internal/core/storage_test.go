package core

import (
	"path/filepath"
	"strings"
	"testing"

	"hydracore/internal/infra/persistence/memory"
	"hydracore/internal/infra/persistence/sqlite"
	"hydracore/pkg/domain"
)

func storageMappings() []domain.EntityMapping {
	return []domain.EntityMapping{{
		Name:     "order",
		Table:    "orders",
		IDColumn: "id",
		Columns:  []string{"status"},
	}}
}

func TestOpenResultSourceMemoryDriver(t *testing.T) {
	t.Setenv("HYDRACORE_STORAGE_DRIVER", string(StorageMemory))
	source, err := OpenResultSource(storageMappings())
	if err != nil {
		t.Fatalf("OpenResultSource: %v", err)
	}
	if _, ok := source.(*memory.Source); !ok {
		t.Fatalf("driver memory should yield *memory.Source, got %T", source)
	}
}

func TestOpenResultSourceDefaultsToSQLite(t *testing.T) {
	t.Setenv("HYDRACORE_STORAGE_DRIVER", "")
	t.Setenv("HYDRACORE_SQLITE_PATH", filepath.Join(t.TempDir(), "probe.db"))
	source, err := OpenResultSource(storageMappings())
	if err != nil {
		t.Fatalf("OpenResultSource: %v", err)
	}
	defer func() { _ = source.Close() }()
	if _, ok := source.(*sqlite.Source); !ok {
		t.Fatalf("default driver should yield *sqlite.Source, got %T", source)
	}
}

func TestOpenResultSourceUnknownDriver(t *testing.T) {
	t.Setenv("HYDRACORE_STORAGE_DRIVER", "tape")
	_, err := OpenResultSource(storageMappings())
	if err == nil || !strings.Contains(err.Error(), "unknown storage driver") {
		t.Fatalf("OpenResultSource = %v, want unknown driver error", err)
	}
}
