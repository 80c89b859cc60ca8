// Package postgres implements the storage.Backend interface on a Postgres
// database. The connection is opened in Init.
package postgres

import (
	"fmt"

	"github.com/refugestudios/racing-game/internal/database"
	gormstorage "github.com/refugestudios/racing-game/internal/storage/gorm"
)

// Backend wraps the GORM backend with Postgres connection handling.
type Backend struct {
	*gormstorage.Backend
	cfg  database.PostgresConfig
	opts gormstorage.Options
}

// New creates a new Postgres storage backend.
func New(cfg database.PostgresConfig, opts gormstorage.Options) *Backend {
	return &Backend{cfg: cfg, opts: opts}
}

// Init connects to Postgres and initializes the embedded GORM backend.
func (b *Backend) Init() error {
	db, err := database.OpenPostgres(b.cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	b.Backend = gormstorage.New(db, b.opts)
	return b.Backend.Init()
}

// Close writes queued rows and closes the connection.
func (b *Backend) Close() error {
	if b.Backend == nil {
		return nil
	}
	flushErr := b.Backend.Close()
	sqlDB, err := b.DB().DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close postgres: %w", err)
	}
	return flushErr
}
