package dataset

import (
	"antigenseq/internal/infra/persistence/memory"
	"antigenseq/internal/infra/persistence/postgres"
	"antigenseq/internal/infra/persistence/sqlite"
	"antigenseq/pkg/domain"
	"context"
	"fmt"
	"os"
)

// StorageDriver identifies a snapshot store implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// Environment variables read by OpenPersistentStore.
const (
	EnvStorageDriver = "ANTIGENSEQ_STORAGE_DRIVER"
	EnvSQLitePath    = "ANTIGENSEQ_SQLITE_PATH"
	EnvPostgresDSN   = "ANTIGENSEQ_POSTGRES_DSN"
)

// OpenPersistentStore selects a snapshot backend using environment variables.
//
//	ANTIGENSEQ_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	ANTIGENSEQ_SQLITE_PATH: path to sqlite file (default ./antigenseq.db)
//	ANTIGENSEQ_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenPersistentStore(ctx context.Context) (domain.PersistentStore, error) {
	driver := os.Getenv(EnvStorageDriver)
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		store, err := sqlite.NewStore(os.Getenv(EnvSQLitePath))
		if err != nil {
			return nil, err
		}
		return store, nil
	case StoragePostgres:
		store, err := postgres.NewStore(ctx, os.Getenv(EnvPostgresDSN))
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
