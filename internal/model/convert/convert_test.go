package convert

import (
	"testing"
	"time"

	"github.com/refugestudios/racing-game/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoreToSession_Trail(t *testing.T) {
	local := uint64(1)
	s := core.Session{
		ID:        3,
		GameID:    "racing-game",
		StartTime: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		Frames:    5,
		LocalID:   &local,
		Trail:     []core.TrailPoint{{X: 0, Z: 0}, {X: 0, Z: 2}},
	}

	m := CoreToSession(s)

	assert.Equal(t, uint(3), m.ID)
	assert.Equal(t, "racing-game", m.GameID)
	assert.Equal(t, uint(5), m.Frames)
	assert.InDelta(t, 2.0, m.TrailLength, 1e-12)
	assert.False(t, m.Trail.IsEmpty())

	back := SessionToCore(m)
	assert.Equal(t, s.Trail, back.Trail)
	require.NotNil(t, back.LocalID)
	assert.Equal(t, uint64(1), *back.LocalID)
}

func TestCoreToSession_ShortTrailStoredEmpty(t *testing.T) {
	m := CoreToSession(core.Session{Trail: []core.TrailPoint{{X: 1, Z: 1}}})

	assert.True(t, m.Trail.IsEmpty())
	assert.Zero(t, m.TrailLength)
	assert.Nil(t, SessionToCore(m).Trail)
}

func TestCoreToSessionEvent(t *testing.T) {
	e := core.SessionEvent{
		SessionID:   2,
		Frame:       7,
		Kind:        core.EventClientJoin,
		ClientID:    42,
		Applied:     true,
		EntityCount: 2,
		ExtraData:   map[string]any{"state": "remote"},
	}

	m := CoreToSessionEvent(e)

	assert.Equal(t, "client_join", m.Kind)
	assert.JSONEq(t, `{"state":"remote"}`, string(m.ExtraData))

	back := SessionEventToCore(m)
	assert.Equal(t, core.EventClientJoin, back.Kind)
	assert.Equal(t, uint64(42), back.ClientID)
	assert.True(t, back.Applied)
	assert.Equal(t, "remote", back.ExtraData["state"])
}

func TestCoreToSessionEvent_EmptyExtra(t *testing.T) {
	m := CoreToSessionEvent(core.SessionEvent{Kind: core.EventDisconnect})

	assert.Equal(t, "{}", string(m.ExtraData))
}

func TestCoreToDriveSample(t *testing.T) {
	s := core.DriveSample{
		SessionID: 1,
		Frame:     9,
		EntityID:  1,
		Position:  core.Position3D{X: 0.5, Y: -0.09, Z: 1.25},
		Yaw:       0.1,
		Speed:     0.3,
		Throttle:  1,
	}

	m := CoreToDriveSample(s)

	assert.Equal(t, -0.09, m.Elevation)
	xy, ok := m.Position.XY()
	require.True(t, ok)
	assert.Equal(t, 0.5, xy.X)
	assert.Equal(t, 1.25, xy.Y)

	back := DriveSampleToCore(m)
	assert.Equal(t, s.Position, back.Position)
	assert.Equal(t, s.Speed, back.Speed)
	assert.Equal(t, s.Throttle, back.Throttle)
}
