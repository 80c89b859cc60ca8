package entity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/refugestudios/racing-game/pkg/hostapi"
)

// Flags is the role bitset carried by an entity.
type Flags uint32

const (
	FlagNone   Flags = 0
	FlagLocal  Flags = 1 << 0
	FlagRemote Flags = 1 << 1
	FlagStatic Flags = 1 << 2
)

// Has reports whether every bit in o is set.
func (f Flags) Has(o Flags) bool {
	return f&o == o && o != FlagNone
}

// Entity is a simulated vehicle. Orientation is yaw-only: pitch and roll of
// entities are never read by the simulation.
type Entity struct {
	ID       uint64
	Model    hostapi.ModelHandle
	Position mgl64.Vec3
	Yaw      float64
	Scale    float64
	Flags    Flags
}

// Forward returns the unit heading in the ground plane.
func (e *Entity) Forward() mgl64.Vec3 {
	return Forward(e.Yaw)
}

// Forward maps a yaw angle to a ground-plane unit vector, with yaw 0 facing +Z.
func Forward(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(yaw), 0, math.Cos(yaw)}
}
