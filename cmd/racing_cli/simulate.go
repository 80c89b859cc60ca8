package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/refugestudios/racing-game/internal/config"
	"github.com/refugestudios/racing-game/internal/game"
	"github.com/refugestudios/racing-game/internal/headless"
	"github.com/refugestudios/racing-game/internal/logging"
	"github.com/refugestudios/racing-game/internal/recorder"
	"github.com/refugestudios/racing-game/internal/storage"
)

type simulation struct {
	frames  int
	dt      float64
	clients int
	steer   string
}

// runSimulate plays a scripted session against an in-memory host: the local
// client readies, remotes join, the local car drives for the given frames,
// the remotes leave and the module shuts down. The session is recorded with
// the configured storage backend.
func runSimulate(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.SetOutput(stdout)
	configDir := fs.String("config", ".", "directory containing "+config.FileName)
	var sim simulation
	fs.IntVar(&sim.frames, "frames", 600, "number of updates to run")
	fs.Float64Var(&sim.dt, "dt", 1.0/60.0, "seconds per update")
	fs.IntVar(&sim.clients, "clients", 2, "clients in the session, including the local one")
	fs.StringVar(&sim.steer, "steer", "", "hold a steering key: left or right")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if sim.clients < 1 {
		return fmt.Errorf("need at least one client, got %d", sim.clients)
	}
	switch sim.steer {
	case "", "left", "right":
	default:
		return fmt.Errorf("unknown steer direction %q", sim.steer)
	}

	log := loadConfig(*configDir, stdout)

	backend, err := storage.NewBackend(config.GetStorageConfig())
	if err != nil {
		return err
	}
	if backend != nil {
		if err := backend.Init(); err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
	}
	rec := recorder.New(recorder.Dependencies{Backend: backend, Log: log})

	opts, err := game.OptionsFromConfig()
	if err != nil {
		log.Warn().Err(err).Msg("Invalid game settings, keeping defaults")
	}
	opts.LogWriter = stdout
	opts.LogLevel = log.GetLevel()
	opts.Recorder = rec
	g := game.New(opts)

	host := headless.New()
	host.Delta = sim.dt
	if err := g.Init(host); err != nil {
		return err
	}

	g.OnLocalReady(1)
	for id := uint64(2); id <= uint64(sim.clients); id++ {
		g.OnClientJoin(id)
	}

	host.Press(opts.Bindings.Throttle)
	switch sim.steer {
	case "left":
		host.Press(opts.Bindings.Left)
	case "right":
		host.Press(opts.Bindings.Right)
	}

	for range sim.frames {
		host.Millis += uint64(sim.dt * 1000)
		g.Update(sim.dt)
	}

	state, _ := g.DriveState(1)
	var pos mgl64.Vec3
	var yaw float64
	for _, e := range g.Entities() {
		if e.ID == 1 {
			pos, yaw = e.Position, e.Yaw
		}
	}

	for id := uint64(2); id <= uint64(sim.clients); id++ {
		g.OnClientDisconnect(id)
	}
	g.Shutdown()
	if err := rec.Close(); err != nil {
		return fmt.Errorf("closing recorder: %w", err)
	}

	stats := rec.Stats()
	fmt.Fprintf(stdout, "frames=%d speed=%.3f yaw=%.3f position=(%.3f, %.3f, %.3f)\n",
		g.Frames(), state.Speed, yaw, pos[0], pos[1], pos[2])
	fmt.Fprintf(stdout, "events=%d samples=%d errors=%d\n", stats.Events, stats.Samples, stats.Errors)
	if exp, ok := backend.(storage.Exporter); ok && exp.ExportedFilePath() != "" {
		fmt.Fprintf(stdout, "exported %s\n", exp.ExportedFilePath())
	}
	if err := host.Leaks(); err != nil {
		return fmt.Errorf("handle leak: %w", err)
	}
	return nil
}

// loadConfig reads the config file, falling back to defaults, and returns a
// console logger at the configured level.
func loadConfig(dir string, out io.Writer) zerolog.Logger {
	cfgErr := config.Load(dir)
	log, err := logging.New(logging.Options{
		Level:   config.GetString("logLevel"),
		Console: out,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Logging degraded")
	}
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Msg("Failed to load config, using defaults!")
	}
	return log
}
