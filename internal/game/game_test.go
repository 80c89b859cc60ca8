package game

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refugestudios/racing-game/internal/config"
	"github.com/refugestudios/racing-game/internal/headless"
	"github.com/refugestudios/racing-game/internal/recorder"
	"github.com/refugestudios/racing-game/internal/storage/memory"
	"github.com/refugestudios/racing-game/pkg/core"
	"github.com/refugestudios/racing-game/pkg/hostapi"
)

type recording struct {
	started []core.Session
	events  []core.SessionEvent
	samples []core.DriveSample
	ended   int
	frames  uint
	localID *uint64
}

func (r *recording) Start(s core.Session)            { r.started = append(r.started, s) }
func (r *recording) RecordEvent(e core.SessionEvent) { r.events = append(r.events, e) }
func (r *recording) RecordSample(s core.DriveSample) { r.samples = append(r.samples, s) }
func (r *recording) End(frames uint, localID *uint64, _ time.Time) {
	r.ended++
	r.frames = frames
	r.localID = localID
}

func speedLines(h *headless.Host) []string {
	var out []string
	for _, l := range h.LinesAt(headless.LevelLog) {
		if strings.HasPrefix(l, "Speed ") {
			out = append(out, l)
		}
	}
	return out
}

func TestFullSession(t *testing.T) {
	h := headless.New()
	rec := &recording{}
	opts := DefaultOptions()
	opts.Recorder = rec
	g := New(opts)

	require.NoError(t, g.Init(h))
	assert.Equal(t, 0, g.EntityCount())
	assert.True(t, h.GameCamera)
	assert.Equal(t, 1, h.ScenesLoaded)

	assert.True(t, g.OnLocalReady(1))
	assert.Equal(t, 1, g.EntityCount())

	assert.True(t, g.OnClientJoin(2))
	assert.Equal(t, 2, g.EntityCount())

	h.Press(hostapi.KeyW)
	for range 5 {
		g.Update(0.1)
	}
	assert.Equal(t, 2, g.EntityCount())
	assert.Equal(t, uint(5), g.Frames())

	local, ok := g.DriveState(1)
	require.True(t, ok)
	assert.Greater(t, local.Speed, 0.0)
	_, ok = g.DriveState(2)
	assert.False(t, ok, "remote cars are not simulated")

	assert.True(t, g.OnClientDisconnect(2))
	assert.Equal(t, 1, g.EntityCount())

	g.Shutdown()
	assert.Equal(t, 0, g.EntityCount())
	assert.False(t, g.Initialized())
	assert.False(t, h.GameCamera)

	require.NoError(t, h.Leaks())
	assert.Equal(t, 1, h.ScenesRemoved)
	assert.Equal(t, 2, h.ModelsRemoved)

	assert.Len(t, speedLines(h), 1)

	require.Len(t, rec.started, 1)
	assert.Equal(t, GameID, rec.started[0].GameID)
	assert.Equal(t, opts.ScenePath, rec.started[0].ScenePath)
	require.Len(t, rec.events, 3)
	assert.Equal(t, core.EventLocalReady, rec.events[0].Kind)
	assert.Equal(t, "local", rec.events[0].ExtraData["state"])
	assert.Equal(t, core.EventClientJoin, rec.events[1].Kind)
	assert.Equal(t, 2, rec.events[1].EntityCount)
	assert.Equal(t, core.EventDisconnect, rec.events[2].Kind)
	assert.Equal(t, uint(5), rec.events[2].Frame)
	assert.Len(t, rec.samples, 1)
	assert.Equal(t, uint64(1), rec.samples[0].EntityID)
	assert.Equal(t, 1.0, rec.samples[0].Throttle)

	assert.Equal(t, 1, rec.ended)
	assert.Equal(t, uint(5), rec.frames)
	require.NotNil(t, rec.localID)
	assert.Equal(t, uint64(1), *rec.localID)
}

func TestDuplicateEventsAreRecordedAsNotApplied(t *testing.T) {
	h := headless.New()
	rec := &recording{}
	opts := DefaultOptions()
	opts.Recorder = rec
	g := New(opts)
	require.NoError(t, g.Init(h))

	assert.True(t, g.OnLocalReady(1))
	assert.False(t, g.OnLocalReady(1))
	assert.False(t, g.OnClientJoin(1))
	assert.False(t, g.OnClientDisconnect(9))
	assert.Equal(t, 1, g.EntityCount())

	require.Len(t, rec.events, 4)
	for _, e := range rec.events[1:] {
		assert.False(t, e.Applied, e.Kind)
	}
	g.Shutdown()
	require.NoError(t, h.Leaks())
}

func TestABIMismatchLeavesGameInert(t *testing.T) {
	h := headless.New()
	h.Version = hostapi.ABIVersion + 1
	g := New(DefaultOptions())

	err := g.Init(h)
	require.ErrorIs(t, err, ErrABIMismatch)
	assert.False(t, g.Initialized())

	assert.False(t, g.OnLocalReady(1))
	g.Update(0.1)
	g.Shutdown()

	assert.Equal(t, 0, g.EntityCount())
	assert.Nil(t, g.Entities())
	assert.Zero(t, h.ScenesLoaded)
	assert.Zero(t, h.ModelsLoaded)
	assert.Zero(t, h.CameraPushes)
	assert.Zero(t, h.BackgroundPushes)
}

func TestNilHost(t *testing.T) {
	g := New(DefaultOptions())
	require.ErrorIs(t, g.Init(nil), ErrNoHost)
	assert.False(t, g.OnClientJoin(2))
	g.Update(0.1)
	assert.Zero(t, g.Frames())
}

func TestSceneLoadFailureContinues(t *testing.T) {
	h := headless.New()
	h.FailScenes = true
	g := New(DefaultOptions())

	require.NoError(t, g.Init(h))
	errs := h.LinesAt(headless.LevelError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Failed to load scene")

	assert.True(t, g.OnLocalReady(1))
	g.Update(0.1)
	g.Shutdown()

	assert.Zero(t, h.ScenesRemoved)
	require.NoError(t, h.Leaks())
}

func TestReinitShutsDownFirst(t *testing.T) {
	h := headless.New()
	rec := &recording{}
	opts := DefaultOptions()
	opts.Recorder = rec
	g := New(opts)

	require.NoError(t, g.Init(h))
	g.OnLocalReady(1)
	g.OnClientJoin(2)

	require.NoError(t, g.Init(h))
	assert.Equal(t, 0, g.EntityCount())
	_, ok := g.LocalID()
	assert.False(t, ok)
	assert.Equal(t, 1, h.LiveScenes())
	assert.Zero(t, h.LiveModels())
	assert.Equal(t, 1, rec.ended)
	assert.Len(t, rec.started, 2)

	assert.True(t, g.OnLocalReady(1), "local id is free again after reinit")

	g.Shutdown()
	require.NoError(t, h.Leaks())
}

func TestUpdateWithoutLocalCarPushesCamera(t *testing.T) {
	h := headless.New()
	g := New(DefaultOptions())
	require.NoError(t, g.Init(h))

	g.Update(1.0 / 60)

	assert.Equal(t, 1, h.CameraPushes)
	assert.Equal(t, 1, h.BackgroundPushes)
	assert.Equal(t, SkyColor(), h.Background)
	assert.Equal(t, g.Camera(), h.Camera)
	assert.Empty(t, speedLines(h))
	g.Shutdown()
}

func TestCameraFollowsOnlyInFollowMode(t *testing.T) {
	h := headless.New()
	g := New(DefaultOptions())
	require.NoError(t, g.Init(h))
	g.OnLocalReady(1)

	g.SetCameraMode(hostapi.CameraModeFixed)
	before := g.Camera().Position
	g.Update(0.1)
	assert.Equal(t, before, g.Camera().Position)

	g.SetCameraMode(hostapi.CameraModeFollow)
	g.Update(0.1)
	assert.NotEqual(t, before, g.Camera().Position)

	g.Shutdown()
}

func TestSkyColor(t *testing.T) {
	c := SkyColor()
	assert.InDelta(t, 0.4, c[0], 1e-9)
	assert.InDelta(t, 0.6, c[1], 1e-9)
	assert.InDelta(t, 0.9, c[2], 1e-9)
	assert.Equal(t, 1.0, c[3])
}

func TestModuleInfo(t *testing.T) {
	info := ModuleInfo()
	assert.Equal(t, "racing-game", info.GameID)
	assert.Equal(t, "Racing Game", info.Name)
	assert.True(t, info.Compatible(hostapi.ABIVersion))
}

func TestStructuredLogCarriesSessionContext(t *testing.T) {
	var buf bytes.Buffer
	h := headless.New()
	opts := DefaultOptions()
	opts.LogWriter = &buf
	opts.LogLevel = zerolog.DebugLevel
	g := New(opts)

	require.NoError(t, g.Init(h))
	g.OnLocalReady(7)
	h.Press(hostapi.KeyW)
	for range 3 {
		g.Update(0.1)
	}
	g.Shutdown()

	out := buf.String()
	assert.Contains(t, out, `"message":"drive"`)
	assert.Contains(t, out, `"localId":7`)

	for _, l := range h.Lines {
		assert.NotContains(t, l.Msg, "localId=")
		assert.NotContains(t, l.Msg, "entities=")
	}
}

func TestRecordedSessionReachesMemoryBackend(t *testing.T) {
	backend := memory.New(config.MemoryConfig{})
	rec := recorder.New(recorder.Dependencies{Backend: backend, Log: zerolog.Nop()})
	opts := DefaultOptions()
	opts.Recorder = rec
	g := New(opts)
	h := headless.New()

	require.NoError(t, g.Init(h))
	g.OnLocalReady(1)
	h.Press(hostapi.KeyW)
	for range 10 {
		g.Update(0.1)
	}
	g.Shutdown()

	sessions := backend.Sessions()
	require.Len(t, sessions, 1)
	s := sessions[0]
	assert.Equal(t, uint(10), s.Session.Frames)
	assert.Len(t, s.Events, 1)
	assert.NotEmpty(t, s.Samples)
	for _, sample := range s.Samples {
		assert.Equal(t, s.Session.ID, sample.SessionID)
	}
	assert.Equal(t, recorder.Stats{Sessions: 1, Events: 1, Samples: len(s.Samples)}, rec.Stats())
}
