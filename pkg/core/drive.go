// pkg/core/drive.go
package core

import "time"

// DriveSample is a periodic snapshot of the locally driven car.
type DriveSample struct {
	ID        uint
	SessionID uint
	Time      time.Time
	Frame     uint
	EntityID  uint64
	Position  Position3D
	Yaw       float64
	Speed     float64
	Roll      float64
	Throttle  float64
	Brake     float64
	Steer     float64
}

// Position3D is a track-space position. Y is up.
type Position3D struct {
	X float64
	Y float64
	Z float64
}

// TrailPoint is one ground-plane vertex of the path the local car drove.
type TrailPoint struct {
	X float64
	Z float64
}
