package geo

import (
	"errors"
	"fmt"

	"github.com/refugestudios/racing-game/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// Track space is a local right-handed frame with Y up. Geometry is stored on
// the ground plane: geometry X is track X, geometry Y is track Z. Geometry is
// persisted as WKB, which both SQLite and Postgres store as a blob.

// ErrShortTrail is returned when a trail has fewer than two points.
var ErrShortTrail = errors.New("trail needs at least 2 points")

// GroundPoint projects a track-space position onto the ground plane. A
// position that fails point validation maps to the empty point.
func GroundPoint(p core.Position3D) geom.Point {
	pt, err := geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: p.X, Y: p.Z},
		Type: geom.DimXY,
	})
	if err != nil {
		return geom.Point{}
	}
	return pt
}

// PositionFromPoint reverses GroundPoint, taking the height separately.
func PositionFromPoint(pt geom.Point, elevation float64) (core.Position3D, bool) {
	xy, ok := pt.XY()
	if !ok {
		return core.Position3D{}, false
	}
	return core.Position3D{X: xy.X, Y: elevation, Z: xy.Y}, true
}

// TrailLineString builds a LineString from a driven trail.
func TrailLineString(points []core.TrailPoint) (geom.LineString, error) {
	if len(points) < 2 {
		return geom.LineString{}, fmt.Errorf("%w, got %d", ErrShortTrail, len(points))
	}
	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		flat = append(flat, p.X, p.Z)
	}
	ls, err := geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
	if err != nil {
		return geom.LineString{}, fmt.Errorf("building trail: %w", err)
	}
	return ls, nil
}

// TrailPoints unpacks a LineString back into trail points.
func TrailPoints(ls geom.LineString) []core.TrailPoint {
	seq := ls.Coordinates()
	n := seq.Length()
	points := make([]core.TrailPoint, 0, n)
	for i := 0; i < n; i++ {
		xy := seq.GetXY(i)
		points = append(points, core.TrailPoint{X: xy.X, Z: xy.Y})
	}
	return points
}

// TrailLength is the ground-plane length of a trail. Short trails have length 0.
func TrailLength(points []core.TrailPoint) float64 {
	ls, err := TrailLineString(points)
	if err != nil {
		return 0
	}
	return ls.Length()
}
