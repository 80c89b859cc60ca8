package vehicle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refugestudios/racing-game/internal/drive"
	"github.com/refugestudios/racing-game/internal/entity"
)

const frame = 1.0 / 60.0

func TestStraightLineKeepsHeading(t *testing.T) {
	ig := NewIntegrator(DefaultTuning())

	for _, dt := range []float64{0.001, frame, 0.05, 0.1} {
		e := &entity.Entity{Yaw: 0.7}
		s := &drive.State{Speed: 0.6}

		for i := 0; i < 100; i++ {
			ig.Step(e, s, Intent{Throttle: 1}, dt)
		}

		assert.Equal(t, 0.7, e.Yaw, "dt=%v", dt)
	}
}

func TestSpeedNeverExceedsMax(t *testing.T) {
	for _, tuning := range []Tuning{
		DefaultTuning(),
		{EngineForce: 100, BrakeForce: 1, MaxSpeed: 1, Drag: 2, SteerRate: 22, MaxCamRoll: 0.25, RollDamp: 4},
	} {
		ig := NewIntegrator(tuning)
		e := &entity.Entity{}
		s := &drive.State{}

		for i := 0; i < 10000; i++ {
			ig.Step(e, s, Intent{Throttle: 1}, frame)
			require.LessOrEqual(t, s.Speed, tuning.MaxSpeed)
			require.GreaterOrEqual(t, s.Speed, tuning.MinSpeed())
		}
	}
}

func TestStrongEngineSaturatesAtMax(t *testing.T) {
	tuning := DefaultTuning()
	tuning.EngineForce = 100
	ig := NewIntegrator(tuning)
	e := &entity.Entity{}
	s := &drive.State{}

	for i := 0; i < 600; i++ {
		ig.Step(e, s, Intent{Throttle: 1}, frame)
	}

	assert.Equal(t, tuning.MaxSpeed, s.Speed)
}

func TestReverseCappedAtFortyPercent(t *testing.T) {
	tuning := DefaultTuning()
	tuning.BrakeForce = 100
	ig := NewIntegrator(tuning)
	e := &entity.Entity{}
	s := &drive.State{}

	for i := 0; i < 600; i++ {
		ig.Step(e, s, Intent{Brake: 1}, frame)
	}

	assert.InDelta(t, -0.4*tuning.MaxSpeed, s.Speed, 1e-12)
}

func TestDragDecaysWithoutSignChange(t *testing.T) {
	ig := NewIntegrator(DefaultTuning())

	for _, start := range []float64{0.9, -0.35} {
		e := &entity.Entity{}
		s := &drive.State{Speed: start}
		prev := math.Abs(start)

		for i := 0; i < 2000; i++ {
			ig.Step(e, s, Intent{}, frame)
			cur := math.Abs(s.Speed)
			require.LessOrEqual(t, cur, prev)
			require.False(t, math.Signbit(s.Speed) != math.Signbit(start) && s.Speed != 0,
				"speed flipped sign at frame %d: %v", i, s.Speed)
			prev = cur
		}

		assert.InDelta(t, 0, s.Speed, 1e-6)
	}
}

func TestNoSteeringAtRest(t *testing.T) {
	ig := NewIntegrator(DefaultTuning())
	e := &entity.Entity{Yaw: 1.2}
	s := &drive.State{}

	ig.Step(e, s, Intent{Steer: 1}, frame)

	assert.Equal(t, 1.2, e.Yaw)
	assert.Equal(t, 0.0, s.Roll)
}

func TestSteeringScalesWithSpeed(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Drag = 0
	ig := NewIntegrator(tuning)

	slow := &entity.Entity{}
	ig.Step(slow, &drive.State{Speed: 0.25}, Intent{Steer: 1}, frame)

	fast := &entity.Entity{}
	ig.Step(fast, &drive.State{Speed: 1}, Intent{Steer: 1}, frame)

	assert.InDelta(t, tuning.SteerRate*0.25*frame, slow.Yaw, 1e-12)
	assert.InDelta(t, tuning.SteerRate*frame, fast.Yaw, 1e-12)
}

func TestMovementStaysOnGroundPlane(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Drag = 0
	ig := NewIntegrator(tuning)
	e := &entity.Entity{Yaw: math.Pi / 2}
	e.Position[1] = -0.09
	s := &drive.State{Speed: 1}

	m := ig.Step(e, s, Intent{}, 0.5)

	assert.InDelta(t, 0.5, e.Position[0], 1e-12)
	assert.Equal(t, -0.09, e.Position[1])
	assert.InDelta(t, 0, e.Position[2], 1e-12)
	assert.InDelta(t, 1, m.Forward.X(), 1e-12)
	assert.Equal(t, 1.0, m.SpeedFactor)
}

func TestRollDampingDoesNotOvershoot(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Drag = 0
	ig := NewIntegrator(tuning)
	e := &entity.Entity{}
	s := &drive.State{Speed: 1}

	// RollDamp*dt > 1 would overshoot without the clamp
	ig.Step(e, s, Intent{Steer: 1}, 1)

	assert.InDelta(t, -tuning.MaxCamRoll, s.Roll, 1e-12)
}

func TestRollEasesTowardTarget(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Drag = 0
	ig := NewIntegrator(tuning)
	e := &entity.Entity{}
	s := &drive.State{Speed: 1}

	ig.Step(e, s, Intent{Steer: -1}, frame)

	assert.InDelta(t, tuning.MaxCamRoll*tuning.RollDamp*frame, s.Roll, 1e-12)
}

func TestConflictingInputsSum(t *testing.T) {
	ig := NewIntegrator(DefaultTuning())
	e := &entity.Entity{}
	s := &drive.State{}

	ig.Step(e, s, Intent{Throttle: 1, Brake: 1}, 0.1)

	// 0.5*0.1 - 1.0*0.1 = -0.05, then drag: -0.05 - (-0.05*0.2) = -0.04
	assert.InDelta(t, -0.04, s.Speed, 1e-12)
}

func TestSpeedFactor(t *testing.T) {
	assert.Equal(t, 0.0, SpeedFactor(0, 1))
	assert.Equal(t, 0.5, SpeedFactor(-0.5, 1))
	assert.Equal(t, 1.0, SpeedFactor(3, 1))
	assert.Equal(t, 0.0, SpeedFactor(1, 0))
}
