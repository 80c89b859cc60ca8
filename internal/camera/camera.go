// Package camera drives a trailing follow camera. Orientation is recomputed
// from positions every frame and never integrated, so errors cannot build up.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/refugestudios/racing-game/pkg/hostapi"
)

var up = mgl64.Vec3{0, 1, 0}

// Params controls where the camera sits relative to its target and how fast
// it gets there.
type Params struct {
	FollowDistance float64 `json:"followDistance" mapstructure:"followDistance"`
	FollowHeight   float64 `json:"followHeight" mapstructure:"followHeight"`
	Damping        float64 `json:"damping" mapstructure:"damping"`
}

// DefaultParams returns the racing demo chase camera.
func DefaultParams() Params {
	return Params{
		FollowDistance: 0.35,
		FollowHeight:   0.25,
		Damping:        6.0,
	}
}

// NewState returns the camera as it is set up on module init.
func NewState(p Params) hostapi.CameraState {
	return hostapi.CameraState{
		Position:       mgl64.Vec3{0, 2, 6},
		FovY:           1.0472,
		NearPlane:      0.1,
		FarPlane:       1000,
		FollowDistance: p.FollowDistance,
		FollowHeight:   p.FollowHeight,
		Mode:           hostapi.CameraModeFollow,
	}
}

// Controller moves a camera state toward its follow point.
type Controller struct {
	Params Params
}

// NewController creates a follow controller.
func NewController(p Params) *Controller {
	return &Controller{Params: p}
}

// Desired is the resting camera position behind and above target.
func (c *Controller) Desired(target, forward mgl64.Vec3) mgl64.Vec3 {
	return target.Sub(forward.Mul(c.Params.FollowDistance)).Add(up.Mul(c.Params.FollowHeight))
}

// Follow damps cam toward the follow point for one frame, then points it at
// target. roll is applied as-is; it comes from the car's visual lean, not
// from the look direction.
func (c *Controller) Follow(cam *hostapi.CameraState, target, forward mgl64.Vec3, roll, dt float64) {
	desired := c.Desired(target, forward)
	k := math.Min(1, c.Params.Damping*dt)
	for i := 0; i < 3; i++ {
		cam.Position[i] += (desired[i] - cam.Position[i]) * k
	}

	look := target.Sub(cam.Position)
	if look.Len() > 0 {
		look = look.Normalize()
		cam.Rotation[0] = math.Asin(clampUnit(look.Y()))
		cam.Rotation[1] = math.Atan2(look.X(), look.Z())
	}
	cam.Rotation[2] = roll
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(v, 1))
}
