package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/refugestudios/racing-game/internal/config"
	"github.com/refugestudios/racing-game/internal/database"
	gormstorage "github.com/refugestudios/racing-game/internal/storage/gorm"
	"github.com/refugestudios/racing-game/internal/storage/memory"
)

// openSessionStore connects to the configured database backend. Only the
// sqlite and postgres storage types keep sessions that can be read back.
func openSessionStore() (*gormstorage.Backend, func(), error) {
	cfg := config.GetStorageConfig()

	var db *gorm.DB
	var err error
	switch cfg.Type {
	case "sqlite":
		path := cfg.SQLite.Path
		if path == "" {
			path = cfg.SQLite.DumpPath
		}
		if path == "" {
			return nil, nil, errors.New("sqlite storage has neither a path nor a dump path")
		}
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, nil, fmt.Errorf("no session database at %s: %w", path, statErr)
		}
		db, err = database.OpenSQLite(path)
	case "postgres":
		db, err = database.OpenPostgres(database.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Username: cfg.Postgres.Username,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
		})
	default:
		return nil, nil, fmt.Errorf("storage type %q keeps no queryable sessions", cfg.Type)
	}
	if err != nil {
		return nil, nil, err
	}

	store := gormstorage.New(db, gormstorage.Options{BatchSize: cfg.BatchSize})
	if err := store.Init(); err != nil {
		return nil, nil, err
	}
	closer := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return store, closer, nil
}

// runList prints the most recent sessions.
func runList(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(stdout)
	configDir := fs.String("config", ".", "directory containing "+config.FileName)
	limit := fs.Int("limit", 20, "maximum sessions to show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	loadConfig(*configDir, io.Discard)

	store, closeStore, err := openSessionStore()
	if err != nil {
		return err
	}
	defer closeStore()

	sessions, err := store.ListSessions(*limit)
	if err != nil {
		return err
	}
	for _, s := range sessions {
		fmt.Fprintf(stdout, "%d\t%s\t%s\t%d frames\n",
			s.ID, s.StartTime.Format("2006-01-02 15:04:05"), s.EndTime.Sub(s.StartTime).Round(time.Second), s.Frames)
	}
	return nil
}

// runExport writes each session as a JSON recording, the same format the
// memory backend produces.
func runExport(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stdout)
	configDir := fs.String("config", ".", "directory containing "+config.FileName)
	outDir := fs.String("out", ".", "output directory")
	compress := fs.Bool("gzip", false, "gzip the output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("no session IDs provided")
	}

	ids := make([]uint, 0, fs.NArg())
	for _, arg := range fs.Args() {
		id, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid session ID %q: %w", arg, err)
		}
		ids = append(ids, uint(id))
	}

	loadConfig(*configDir, io.Discard)
	store, closeStore, err := openSessionStore()
	if err != nil {
		return err
	}
	defer closeStore()

	for _, id := range ids {
		rec, err := store.LoadSession(id)
		if err != nil {
			return fmt.Errorf("loading session %d: %w", id, err)
		}
		path, err := memory.WriteExport(*outDir, memory.BuildExport(rec), *compress)
		if err != nil {
			return fmt.Errorf("exporting session %d: %w", id, err)
		}
		fmt.Fprintf(stdout, "Wrote session %d to %s\n", id, path)
	}
	return nil
}
