// Package vehicle advances a single car by one frame. There is no
// sub-stepping: results are only stable for small, bounded dt.
package vehicle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/refugestudios/racing-game/internal/drive"
	"github.com/refugestudios/racing-game/internal/entity"
)

// Integrator applies Tuning to an entity and its drive state.
type Integrator struct {
	Tuning Tuning
}

// NewIntegrator creates an integrator with the given tuning.
func NewIntegrator(t Tuning) *Integrator {
	return &Integrator{Tuning: t}
}

// Motion summarises a step for downstream consumers such as the camera.
type Motion struct {
	Forward     mgl64.Vec3
	SpeedFactor float64
}

// Step integrates speed, heading, position and visual roll for one frame.
func (ig *Integrator) Step(e *entity.Entity, s *drive.State, in Intent, dt float64) Motion {
	t := ig.Tuning

	s.Speed += in.Throttle * t.EngineForce * dt
	s.Speed -= in.Brake * t.BrakeForce * dt
	s.Speed -= s.Speed * t.Drag * dt
	s.Speed = clamp(s.Speed, t.MinSpeed(), t.MaxSpeed)

	speedFactor := SpeedFactor(s.Speed, t.MaxSpeed)
	e.Yaw += in.Steer * t.SteerRate * speedFactor * dt

	forward := e.Forward()
	e.Position[0] += forward.X() * s.Speed * dt
	e.Position[2] += forward.Z() * s.Speed * dt

	targetRoll := -in.Steer * speedFactor * t.MaxCamRoll
	s.Roll += (targetRoll - s.Roll) * math.Min(1, t.RollDamp*dt)

	return Motion{
		Forward:     forward,
		SpeedFactor: speedFactor,
	}
}

// SpeedFactor is the steering authority: zero at rest, saturating at maxSpeed.
func SpeedFactor(speed, maxSpeed float64) float64 {
	if maxSpeed <= 0 {
		return 0
	}
	return math.Min(math.Abs(speed)/maxSpeed, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
