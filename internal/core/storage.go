package core

import (
	"fmt"
	"os"

	"hydracore/internal/infra/persistence/memory"
	"hydracore/internal/infra/persistence/postgres"
	"hydracore/internal/infra/persistence/sqlite"
	"hydracore/pkg/domain"
)

// StorageDriver identifies a concrete result-source implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenResultSource selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	HYDRACORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	HYDRACORE_SQLITE_PATH: path to sqlite file (default ./hydracore.db)
//	HYDRACORE_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenResultSource(mappings []domain.EntityMapping) (domain.ResultSource, error) {
	driver := os.Getenv("HYDRACORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewSource(), nil
	case StorageSQLite:
		path := os.Getenv("HYDRACORE_SQLITE_PATH")
		return sqlite.NewSource(path, mappings)
	case StoragePostgres:
		dsn := os.Getenv("HYDRACORE_POSTGRES_DSN")
		return postgres.NewSource(dsn, mappings)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
