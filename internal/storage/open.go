package storage

import (
	"context"
	"fmt"

	"github.com/Varun5711/tasktracker/internal/config"
	"github.com/Varun5711/tasktracker/internal/database"
)

// MigrationLockKey serializes schema creation across instances sharing Redis.
const MigrationLockKey = "tasktracker:lock:migrate"

// Open builds the store selected by STORAGE_DRIVER and makes sure its schema
// exists.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := database.NewDBManager(ctx, database.Config{
			PrimaryDSN:      cfg.Database.PrimaryDSN,
			ReplicaDSNs:     cfg.Database.ReplicaDSNs,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return NewPostgresStore(db), nil

	case config.DriverSQLite:
		return NewSQLiteStore(ctx, cfg.Storage.SQLitePath)

	case config.DriverMemory:
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
