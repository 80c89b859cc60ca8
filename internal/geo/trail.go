package geo

import (
	"math"

	"github.com/refugestudios/racing-game/pkg/core"
)

// TrailBuilder accumulates a ground-plane trail, dropping points closer than
// MinSpacing to the last kept point.
type TrailBuilder struct {
	MinSpacing float64
	points     []core.TrailPoint
}

// NewTrailBuilder creates a builder with the given spacing.
func NewTrailBuilder(minSpacing float64) *TrailBuilder {
	return &TrailBuilder{MinSpacing: minSpacing}
}

// Add appends p if it is far enough from the previous point. It reports
// whether the point was kept.
func (b *TrailBuilder) Add(p core.Position3D) bool {
	pt := core.TrailPoint{X: p.X, Z: p.Z}
	if n := len(b.points); n > 0 {
		last := b.points[n-1]
		if math.Hypot(pt.X-last.X, pt.Z-last.Z) < b.MinSpacing {
			return false
		}
	}
	b.points = append(b.points, pt)
	return true
}

// Points returns a copy of the trail so far.
func (b *TrailBuilder) Points() []core.TrailPoint {
	out := make([]core.TrailPoint, len(b.points))
	copy(out, b.points)
	return out
}

// Len returns the number of kept points.
func (b *TrailBuilder) Len() int {
	return len(b.points)
}

// Reset empties the trail.
func (b *TrailBuilder) Reset() {
	b.points = b.points[:0]
}
