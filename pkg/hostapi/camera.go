package hostapi

import "github.com/go-gl/mathgl/mgl64"

// CameraMode selects who drives the engine camera.
type CameraMode int32

const (
	CameraModeEngineDefault CameraMode = iota
	CameraModeFree
	CameraModeFollow
	CameraModeFixed
)

func (m CameraMode) String() string {
	switch m {
	case CameraModeEngineDefault:
		return "engine_default"
	case CameraModeFree:
		return "free"
	case CameraModeFollow:
		return "follow"
	case CameraModeFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// CameraState is the camera pose and lens the module pushes to the engine.
// Rotation holds pitch, yaw and roll in radians, in that order.
type CameraState struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3

	FovY      float64
	NearPlane float64
	FarPlane  float64

	FollowDistance float64
	FollowHeight   float64
	ShakeStrength  float64

	Mode CameraMode
}
