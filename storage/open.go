package storage

import (
	"fmt"

	"gbp-auditor/config"
)

// Open returns the Store selected by cfg.StoreBackend.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite, "":
		return NewSQLiteStore(cfg.SQLitePath)
	case config.BackendPostgres:
		return NewPostgresStore(cfg.DSN())
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.StoreBackend)
	}
}
