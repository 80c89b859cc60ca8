package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/refugestudios/racing-game/internal/config"
	"github.com/refugestudios/racing-game/internal/dispatcher"
	"github.com/refugestudios/racing-game/internal/game"
	"github.com/refugestudios/racing-game/internal/handlers"
	"github.com/refugestudios/racing-game/internal/logging"
	"github.com/refugestudios/racing-game/internal/recorder"
	"github.com/refugestudios/racing-game/internal/storage"
	"github.com/refugestudios/racing-game/internal/telemetry"
)

const influxConnectTimeout = 5 * time.Second

// runtime is everything the exported entry points share for the life of the
// loaded library. The storage connection and the telemetry client are
// released between game_shutdown and the next game_init. The log file stays
// open until the process exits.
type runtime struct {
	log     zerolog.Logger
	logFile *os.File

	backend   storage.Backend
	telemetry *telemetry.Writer
	recorder  *recorder.Recorder
	suspended bool

	game   *game.Game
	events *dispatcher.Dispatcher
}

// newRuntime loads configuration from moduleDir and wires the game with its
// logging, recording and event routing. Failures of optional components are
// logged and leave that component out.
func newRuntime(moduleDir string, console io.Writer) *runtime {
	started := time.Now()
	configErr := config.Load(moduleDir)

	r := &runtime{}
	level := config.GetString("logLevel")

	logOpts := logging.Options{Level: level, Console: console}
	logsDir := resolvePath(moduleDir, config.GetString("logsDir"))
	var fileErr error
	if config.GetBool("logToFile") {
		r.logFile, fileErr = openLogFile(logging.LogFilePath(logsDir, game.GameID, started))
		if r.logFile != nil {
			logOpts.File = r.logFile
		}
	}
	if config.GetBool("graylog.enabled") {
		logOpts.GraylogAddr = config.GetString("graylog.address")
	}

	w, gelfErr := logging.NewWriter(logOpts)
	r.log = zerolog.New(w).Level(logging.ParseLevel(level)).With().Timestamp().Logger()

	if configErr != nil {
		r.log.Warn().Err(configErr).Msg("Failed to load config, using defaults!")
	} else {
		r.log.Info().Str("dir", moduleDir).Msg("Loaded config")
	}
	if fileErr != nil {
		r.log.Error().Err(fileErr).Msg("Failed to create log file")
	} else if r.logFile != nil {
		r.log.Info().Str("path", r.logFile.Name()).Msg("Logging to file")
	}
	if gelfErr != nil {
		r.log.Warn().Err(gelfErr).Msg("Graylog disabled")
	}

	r.backend = r.openStorage(moduleDir)
	r.telemetry = r.openTelemetry(moduleDir)

	r.recorder = recorder.New(recorder.Dependencies{
		Backend:   r.backend,
		Telemetry: r.pointWriter(),
		Log:       r.log,
	})

	opts, err := game.OptionsFromConfig()
	if err != nil {
		r.log.Warn().Err(err).Msg("Invalid game settings, keeping defaults")
	}
	opts.LogWriter = w
	opts.LogLevel = logging.ParseLevel(level)
	opts.Recorder = r.recorder
	r.game = game.New(opts)

	r.events, err = dispatcher.New(logging.NewDispatcherLogger(r.log))
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to create event dispatcher")
	} else {
		handlers.NewService(r.game).Register(r.events)
	}

	r.log.Info().Str("version", game.Version).Msg("Module loaded")
	return r
}

func (r *runtime) openStorage(moduleDir string) storage.Backend {
	cfg := config.GetStorageConfig()
	cfg.Memory.OutputDir = resolvePath(moduleDir, cfg.Memory.OutputDir)
	cfg.SQLite.Path = resolvePath(moduleDir, cfg.SQLite.Path)
	cfg.SQLite.DumpPath = resolvePath(moduleDir, cfg.SQLite.DumpPath)

	backend, err := storage.NewBackend(cfg)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to create storage backend")
		return nil
	}
	if backend == nil {
		r.log.Info().Msg("Session recording disabled")
		return nil
	}
	if err := backend.Init(); err != nil {
		r.log.Error().Err(err).Str("type", cfg.Type).Msg("Failed to initialize storage backend")
		return nil
	}
	r.log.Info().Str("type", cfg.Type).Msg("Storage backend initialized")
	return backend
}

func (r *runtime) openTelemetry(moduleDir string) *telemetry.Writer {
	cfg := config.GetInfluxConfig()
	if !cfg.Enabled {
		return nil
	}
	cfg.BackupPath = resolvePath(moduleDir, cfg.BackupPath)

	w := telemetry.NewWriter(cfg, r.log)
	if err := connectTelemetry(w); err != nil {
		r.log.Error().Err(err).Msg("Failed to set up drive telemetry")
		return nil
	}
	return w
}

func connectTelemetry(w *telemetry.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), influxConnectTimeout)
	defer cancel()
	return w.Connect(ctx)
}

// pointWriter keeps a missing telemetry writer a nil interface.
func (r *runtime) pointWriter() recorder.PointWriter {
	if r.telemetry == nil {
		return nil
	}
	return r.telemetry
}

// suspend closes the storage backend and the telemetry client after the game
// has shut down.
func (r *runtime) suspend() {
	if r.suspended {
		return
	}
	r.suspended = true
	if r.backend != nil {
		if err := r.backend.Close(); err != nil {
			r.log.Warn().Err(err).Msg("Failed to close storage backend")
		}
	}
	if r.telemetry != nil {
		if err := r.telemetry.Close(); err != nil {
			r.log.Warn().Err(err).Msg("Failed to close drive telemetry")
		}
	}
	r.log.Debug().Msg("Recording sinks released")
}

// resume reopens what suspend closed. A sink that fails to reopen is dropped
// from the recorder.
func (r *runtime) resume() {
	if !r.suspended {
		return
	}
	r.suspended = false
	if r.backend != nil {
		if err := r.backend.Init(); err != nil {
			r.log.Error().Err(err).Msg("Failed to reopen storage backend")
			r.backend = nil
		}
	}
	if r.telemetry != nil {
		if err := connectTelemetry(r.telemetry); err != nil {
			r.log.Error().Err(err).Msg("Failed to reconnect drive telemetry")
			r.telemetry = nil
		}
	}
	r.recorder.Attach(r.backend, r.pointWriter())
}

// sessionEvent routes a session notification through the dispatcher and
// reports whether it changed anything.
func (r *runtime) sessionEvent(command string, clientID uint64) bool {
	if r.events == nil {
		return false
	}
	result, err := r.events.Dispatch(dispatcher.Event{Command: command, ClientID: clientID})
	if err != nil {
		r.log.Error().Err(err).Str("command", command).Uint64("clientId", clientID).Msg("Session event failed")
		return false
	}
	applied, _ := result.(bool)
	return applied
}

// close shuts the game down and releases every ambient resource, the log
// file included.
func (r *runtime) close() error {
	r.game.Shutdown()
	var errs []error
	if !r.suspended {
		if err := r.recorder.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing recorder: %w", err))
		}
		r.suspended = true
	}
	if r.logFile != nil {
		errs = append(errs, r.logFile.Close())
		r.logFile = nil
	}
	return errors.Join(errs...)
}

// openLogFile creates path, moving any previous file of the same name aside.
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating logs directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		_ = os.Rename(path, path+".old")
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	return f, nil
}

// resolvePath anchors relative config paths at the module directory. Empty
// paths stay empty.
func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
