// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/refugestudios/racing-game/internal/config"
	"github.com/refugestudios/racing-game/internal/database"
	gormstorage "github.com/refugestudios/racing-game/internal/storage/gorm"
	"github.com/refugestudios/racing-game/internal/storage/memory"
	"github.com/refugestudios/racing-game/internal/storage/postgres"
	sqlitestorage "github.com/refugestudios/racing-game/internal/storage/sqlite"
)

// NewBackend creates a storage backend based on configuration.
// Type "none" returns a nil Backend and no error.
func NewBackend(cfg config.StorageConfig) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return postgres.New(database.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Username: cfg.Postgres.Username,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
		}, gormstorage.Options{BatchSize: cfg.BatchSize}), nil
	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{
			Path:     cfg.SQLite.Path,
			DumpPath: cfg.SQLite.DumpPath,
		}, gormstorage.Options{BatchSize: cfg.BatchSize}), nil
	case "memory":
		return memory.New(cfg.Memory), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
