// Package sqlitestorage implements the storage.Backend interface on SQLite.
// It wraps the GORM backend via composition; the only SQLite-specific
// concerns are opening the file or in-memory database and dumping a copy to
// disk via VACUUM INTO when a session ends.
package sqlitestorage

import (
	"fmt"

	"github.com/refugestudios/racing-game/internal/database"
	"github.com/refugestudios/racing-game/pkg/core"
	gormstorage "github.com/refugestudios/racing-game/internal/storage/gorm"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	Path     string // empty keeps the database in memory
	DumpPath string // VACUUM INTO target written at the end of each session
}

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	cfg  Config
	opts gormstorage.Options
}

// New creates a new SQLite storage backend. The database is opened in Init.
func New(cfg Config, opts gormstorage.Options) *Backend {
	return &Backend{cfg: cfg, opts: opts}
}

// Init opens the database and initializes the embedded GORM backend.
func (b *Backend) Init() error {
	db, err := database.OpenSQLite(b.cfg.Path)
	if err != nil {
		return fmt.Errorf("failed to open SQLite DB: %w", err)
	}
	b.Backend = gormstorage.New(db, b.opts)
	return b.Backend.Init()
}

// EndSession finishes the session and, when configured, dumps the database.
func (b *Backend) EndSession(s *core.Session) error {
	if err := b.Backend.EndSession(s); err != nil {
		return err
	}
	if b.cfg.DumpPath == "" {
		return nil
	}
	if err := database.DumpToDisk(b.DB(), b.cfg.DumpPath); err != nil {
		return fmt.Errorf("failed to dump session database: %w", err)
	}
	return nil
}

// Close writes queued rows and closes the database.
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
		return fmt.Errorf("failed to close SQLite DB: %w", err)
	}
	return flushErr
}
