// Package game holds the simulation context: one value per loaded module that
// owns the entity registry, drive states, session identity and camera, and
// drives them from the host's lifecycle calls.
package game

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/refugestudios/racing-game/internal/camera"
	"github.com/refugestudios/racing-game/internal/drive"
	"github.com/refugestudios/racing-game/internal/entity"
	"github.com/refugestudios/racing-game/internal/logging"
	"github.com/refugestudios/racing-game/internal/session"
	"github.com/refugestudios/racing-game/internal/vehicle"
	"github.com/refugestudios/racing-game/pkg/core"
	"github.com/refugestudios/racing-game/pkg/hostapi"
)

// Module metadata reported to the host.
const (
	GameID      = "racing-game"
	Name        = "Racing Game"
	Version     = "1.0.0"
	Author      = "Aidan Sanders <aidan.sanders@refugestudios.com.au>"
	Description = "Minimal racing demo"
	Homepage    = "https://oasis.refugestudios.com.au"
)

var (
	// ErrNoHost is returned by Init when no host is supplied.
	ErrNoHost = errors.New("no host capability table")
	// ErrABIMismatch is returned by Init when the host speaks another ABI version.
	ErrABIMismatch = errors.New("host ABI version mismatch")
)

var (
	skyHorizon = mgl64.Vec3{0.6, 0.8, 1.0}
	skyZenith  = mgl64.Vec3{0.2, 0.4, 0.8}
)

// Recorder receives the session history. Implementations must not fail the
// caller; the game ignores the outcome.
type Recorder interface {
	Start(s core.Session)
	RecordEvent(e core.SessionEvent)
	RecordSample(s core.DriveSample)
	End(frames uint, localID *uint64, end time.Time)
}

// Options configures a Game.
type Options struct {
	Tuning    vehicle.Tuning
	Bindings  vehicle.Bindings
	Camera    camera.Params
	Spawn     session.Spawn
	ScenePath string
	// LogInterval is the simulated time between drive log lines and samples.
	LogInterval float64

	// LogWriter receives structured logs besides the host's log channels.
	LogWriter io.Writer
	LogLevel  zerolog.Level

	Recorder Recorder
}

// DefaultOptions returns the stock racing demo setup.
func DefaultOptions() Options {
	return Options{
		Tuning:      vehicle.DefaultTuning(),
		Bindings:    vehicle.DefaultBindings(),
		Camera:      camera.DefaultParams(),
		Spawn:       session.DefaultSpawn(),
		ScenePath:   "games/racing-demo/assets/track.svdag",
		LogInterval: 0.25,
		LogLevel:    zerolog.InfoLevel,
	}
}

// Game is the simulation context. It is not safe for concurrent use: the host
// serialises every entry point on one thread.
type Game struct {
	opts Options
	now  func() time.Time

	base zerolog.Logger
	log  zerolog.Logger

	host       hostapi.Host
	entities   *entity.Registry
	drives     *drive.Store
	sessions   *session.Reconciler
	integrator *vehicle.Integrator
	follow     *camera.Controller

	cam      hostapi.CameraState
	scene    hostapi.SceneHandle
	frames   uint
	logTimer float64
	intent   vehicle.Intent

	metrics *metrics
}

// New creates an uninitialised game. Every entry point is a no-op until Init
// succeeds.
func New(opts Options) *Game {
	g := &Game{
		opts:       opts,
		now:        time.Now,
		integrator: vehicle.NewIntegrator(opts.Tuning),
		follow:     camera.NewController(opts.Camera),
		cam:        camera.NewState(opts.Camera),
	}
	if opts.LogWriter != nil {
		g.base = zerolog.New(opts.LogWriter).Level(opts.LogLevel).With().Timestamp().Logger().Hook(g.contextHook())
	} else {
		g.base = zerolog.Nop()
	}
	g.log = g.base

	m, err := newMetrics(g)
	if err != nil {
		g.base.Warn().Err(err).Msg("metrics disabled")
	}
	g.metrics = m
	return g
}

// ModuleInfo describes the module to the host.
func ModuleInfo() hostapi.Info {
	return hostapi.Info{
		ABIVersion:  hostapi.ABIVersion,
		GameID:      GameID,
		Name:        Name,
		Version:     Version,
		Author:      Author,
		Description: Description,
		Homepage:    Homepage,
	}
}

// SkyColor is the background color pushed every frame.
func SkyColor() [4]float64 {
	sky := skyHorizon.Mul(0.5).Add(skyZenith.Mul(0.5))
	return [4]float64{sky[0], sky[1], sky[2], 1}
}

// Init binds the game to host and resets all state. A live game is shut down
// first. After an error the game stays uninitialised.
func (g *Game) Init(host hostapi.Host) error {
	if g.host != nil {
		g.Shutdown()
	}
	if host == nil {
		return ErrNoHost
	}
	if v := host.ABIVersion(); v != hostapi.ABIVersion {
		g.base.Error().Uint32("host", v).Uint32("module", hostapi.ABIVersion).Msg("Refusing to initialize")
		return fmt.Errorf("%w: host %d, module %d", ErrABIMismatch, v, hostapi.ABIVersion)
	}

	g.host = host
	g.log = logging.ForHost(g.opts.LogWriter, host, g.opts.LogLevel, "localId", "entities").Hook(g.contextHook())
	g.entities = entity.NewRegistry(host)
	g.drives = drive.NewStore()
	g.sessions = session.New(g.entities, g.drives, host, g.opts.Spawn, g.log)
	g.frames = 0
	g.logTimer = 0
	g.intent = vehicle.Intent{}

	g.log.Info().Msg("Initializing Racing Demo")

	g.scene = host.LoadScene(g.opts.ScenePath)
	if !g.scene.Valid() {
		g.log.Error().Str("path", g.opts.ScenePath).Msg("Failed to load scene")
	}

	g.cam = camera.NewState(g.opts.Camera)
	host.EnableGameCamera(true)

	if g.opts.Recorder != nil {
		g.opts.Recorder.Start(core.Session{
			GameID:      GameID,
			GameVersion: Version,
			ScenePath:   g.opts.ScenePath,
			StartTime:   g.now(),
		})
	}
	return nil
}

// Update advances the simulation by dt seconds and pushes the camera.
func (g *Game) Update(dt float64) {
	if g.host == nil {
		return
	}
	g.frames++
	g.metrics.frame()

	g.host.ClearColor(SkyColor())

	car, ok := g.entities.FindLocal()
	if !ok {
		g.host.SetCameraState(g.cam)
		return
	}

	state := g.drives.FindOrCreate(car.ID)
	g.intent = vehicle.ReadIntent(g.host, g.opts.Bindings)
	motion := g.integrator.Step(car, state, g.intent, dt)

	if g.cam.Mode == hostapi.CameraModeFollow {
		g.follow.Follow(&g.cam, car.Position, motion.Forward, state.Roll, dt)
	}
	g.host.SetCameraState(g.cam)

	g.logTimer += dt
	if g.logTimer > g.opts.LogInterval {
		g.logTimer = 0
		g.host.Log(fmt.Sprintf("Speed %.2f | yaw %.2f", state.Speed, car.Yaw))
		g.base.Debug().
			Float64("speed", state.Speed).
			Float64("yaw", car.Yaw).
			Float64("roll", state.Roll).
			Msg("drive")
		g.sample(car, state)
	}
}

func (g *Game) sample(car *entity.Entity, state *drive.State) {
	if g.opts.Recorder == nil {
		return
	}
	g.opts.Recorder.RecordSample(core.DriveSample{
		Time:     g.now(),
		Frame:    g.frames,
		EntityID: car.ID,
		Position: core.Position3D{X: car.Position[0], Y: car.Position[1], Z: car.Position[2]},
		Yaw:      car.Yaw,
		Speed:    state.Speed,
		Roll:     state.Roll,
		Throttle: g.intent.Throttle,
		Brake:    g.intent.Brake,
		Steer:    g.intent.Steer,
	})
}

// Shutdown releases every model and the scene, hands the camera back and
// detaches from the host.
func (g *Game) Shutdown() {
	if g.host == nil {
		return
	}

	if g.opts.Recorder != nil {
		g.opts.Recorder.End(g.frames, g.localIDPtr(), g.now())
	}

	g.entities.Clear()
	g.drives.Clear()
	if g.scene.Valid() {
		g.host.RemoveScene(g.scene)
	}
	g.host.EnableGameCamera(false)
	g.sessions.Reset()

	g.log.Info().Uint("frames", g.frames).Msg("Racing Demo shut down")

	g.scene = 0
	g.host = nil
	g.log = g.base
}

// OnLocalReady handles the local client becoming ready.
func (g *Game) OnLocalReady(id uint64) bool {
	if g.host == nil {
		return false
	}
	applied := g.sessions.OnLocalReady(id)
	g.sessionEvent(core.EventLocalReady, id, applied)
	return applied
}

// OnClientJoin handles a remote client joining.
func (g *Game) OnClientJoin(id uint64) bool {
	if g.host == nil {
		return false
	}
	applied := g.sessions.OnClientJoin(id)
	g.sessionEvent(core.EventClientJoin, id, applied)
	return applied
}

// OnClientDisconnect handles a client leaving.
func (g *Game) OnClientDisconnect(id uint64) bool {
	if g.host == nil {
		return false
	}
	applied := g.sessions.OnClientDisconnect(id)
	g.sessionEvent(core.EventDisconnect, id, applied)
	return applied
}

func (g *Game) sessionEvent(kind core.EventKind, id uint64, applied bool) {
	g.metrics.transition(kind, applied)
	if g.opts.Recorder == nil {
		return
	}
	g.opts.Recorder.RecordEvent(core.SessionEvent{
		Time:        g.now(),
		Frame:       g.frames,
		Kind:        kind,
		ClientID:    id,
		Applied:     applied,
		EntityCount: g.entities.Len(),
		ExtraData:   map[string]any{"state": g.sessions.State(id).String()},
	})
}

// Initialized reports whether the game is bound to a host.
func (g *Game) Initialized() bool {
	return g.host != nil
}

// EntityCount returns the number of live entities.
func (g *Game) EntityCount() int {
	if g.host == nil {
		return 0
	}
	return g.entities.Len()
}

// Entities returns the live entity list. The host may edit positions and yaw
// in place; the slice is invalidated by the next session event.
func (g *Game) Entities() []entity.Entity {
	if g.host == nil {
		return nil
	}
	return g.entities.Entities()
}

// LocalID returns the local client id once assigned.
func (g *Game) LocalID() (uint64, bool) {
	if g.sessions == nil || g.host == nil {
		return 0, false
	}
	return g.sessions.LocalID()
}

// DriveState returns the drive state of id, if the car has moved yet.
func (g *Game) DriveState(id uint64) (drive.State, bool) {
	if g.host == nil {
		return drive.State{}, false
	}
	s, ok := g.drives.Get(id)
	if !ok {
		return drive.State{}, false
	}
	return *s, true
}

// Camera returns the game-owned camera state.
func (g *Game) Camera() hostapi.CameraState {
	return g.cam
}

// SetCameraMode switches the camera mode. Only Follow is driven by the game.
func (g *Game) SetCameraMode(mode hostapi.CameraMode) {
	g.cam.Mode = mode
}

// Frames returns the number of updates since Init.
func (g *Game) Frames() uint {
	return g.frames
}

func (g *Game) localIDPtr() *uint64 {
	id, ok := g.sessions.LocalID()
	if !ok {
		return nil
	}
	return &id
}

// contextHook stamps every log event with the session context.
func (g *Game) contextHook() zerolog.Hook {
	return zerolog.HookFunc(func(e *zerolog.Event, _ zerolog.Level, _ string) {
		if g.host == nil || g.sessions == nil {
			return
		}
		if id, ok := g.sessions.LocalID(); ok {
			e.Uint64("localId", id)
		}
		e.Int("entities", g.entities.Len())
	})
}
