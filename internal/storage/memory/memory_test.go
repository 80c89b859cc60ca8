package memory

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/refugestudios/racing-game/internal/config"
	"github.com/refugestudios/racing-game/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession() *core.Session {
	return &core.Session{
		GameID:      "racing-game",
		GameVersion: "1.0.0",
		ScenePath:   "games/racing-demo/assets/track.svdag",
		StartTime:   time.Date(2026, 4, 2, 18, 30, 0, 0, time.UTC),
	}
}

func TestRecordWithoutSession(t *testing.T) {
	b := New(config.MemoryConfig{})

	assert.ErrorIs(t, b.RecordSessionEvent(&core.SessionEvent{}), ErrNoSession)
	assert.ErrorIs(t, b.RecordDriveSample(&core.DriveSample{}), ErrNoSession)
	assert.ErrorIs(t, b.EndSession(newSession()), ErrNoSession)
}

func TestSessionLifecycle(t *testing.T) {
	b := New(config.MemoryConfig{})
	require.NoError(t, b.Init())
	defer b.Close()

	s := newSession()
	require.NoError(t, b.StartSession(s))
	assert.Equal(t, uint(1), s.ID)

	ev := &core.SessionEvent{Kind: core.EventLocalReady, ClientID: 1, Applied: true, EntityCount: 1}
	require.NoError(t, b.RecordSessionEvent(ev))
	assert.Equal(t, uint(1), ev.SessionID)

	require.NoError(t, b.RecordDriveSample(&core.DriveSample{Frame: 1, EntityID: 1, Speed: 0.05}))

	s.Frames = 5
	s.EndTime = s.StartTime.Add(time.Second)
	require.NoError(t, b.EndSession(s))

	sessions := b.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, uint(5), sessions[0].Session.Frames)
	assert.Len(t, sessions[0].Events, 1)
	assert.Len(t, sessions[0].Samples, 1)
	assert.Empty(t, b.ExportedFilePath(), "no output dir means no export")

	rec, err := b.LoadSession(1)
	require.NoError(t, err)
	assert.Equal(t, core.EventLocalReady, rec.Events[0].Kind)

	_, err = b.LoadSession(2)
	assert.Error(t, err)
}

func TestSessionIDsIncrease(t *testing.T) {
	b := New(config.MemoryConfig{})

	for want := uint(1); want <= 3; want++ {
		s := newSession()
		require.NoError(t, b.StartSession(s))
		assert.Equal(t, want, s.ID)
		require.NoError(t, b.EndSession(s))
	}
	assert.Len(t, b.Sessions(), 3)
}

func TestOnlyRecentSessionsAreRetained(t *testing.T) {
	b := New(config.MemoryConfig{})

	for range MaxRetained + 3 {
		s := newSession()
		require.NoError(t, b.StartSession(s))
		require.NoError(t, b.RecordDriveSample(&core.DriveSample{Frame: 1}))
		require.NoError(t, b.EndSession(s))
	}

	sessions := b.Sessions()
	require.Len(t, sessions, MaxRetained)
	assert.Equal(t, uint(4), sessions[0].Session.ID)
	assert.Equal(t, uint(MaxRetained+3), sessions[MaxRetained-1].Session.ID)

	_, err := b.LoadSession(3)
	assert.Error(t, err)
	rec, err := b.LoadSession(MaxRetained + 3)
	require.NoError(t, err)
	assert.Len(t, rec.Samples, 1)
}

func TestEndSessionExportsJSON(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: false})

	s := newSession()
	require.NoError(t, b.StartSession(s))
	require.NoError(t, b.RecordSessionEvent(&core.SessionEvent{Frame: 0, Kind: core.EventClientJoin, ClientID: 2, Applied: true, EntityCount: 2}))
	require.NoError(t, b.RecordDriveSample(&core.DriveSample{
		Frame:    3,
		Position: core.Position3D{X: 0, Y: -0.09, Z: 0.1},
		Speed:    0.15,
		Throttle: 1,
	}))
	s.Trail = []core.TrailPoint{{X: 0, Z: 0}, {X: 0, Z: 0.5}}
	require.NoError(t, b.EndSession(s))

	path := b.ExportedFilePath()
	assert.Equal(t, filepath.Join(dir, "session_1_20260402_183000.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var export SessionExport
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, "racing-game", export.GameID)
	assert.InDelta(t, 0.5, export.TrailLength, 1e-12)
	require.Len(t, export.Events, 1)
	assert.Equal(t, "client_join", export.Events[0][1])
	assert.Equal(t, float64(1), export.Events[0][3])
	require.Len(t, export.Samples, 1)
	assert.Equal(t, float64(3), export.Samples[0][0])
}

func TestEndSessionExportsGzip(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: true})

	s := newSession()
	require.NoError(t, b.StartSession(s))
	require.NoError(t, b.EndSession(s))

	path := b.ExportedFilePath()
	assert.Equal(t, ".gz", filepath.Ext(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)

	var export SessionExport
	require.NoError(t, json.NewDecoder(gz).Decode(&export))
	assert.Equal(t, uint(1), export.SessionID)
	assert.Empty(t, export.Events)
	assert.Empty(t, export.Trail)
}
