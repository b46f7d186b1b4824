package combat

import (
	"math"

	"github.com/palmguard/sim/internal/geom"
)

// Camera is the fixed virtual pinhole the cursor is projected through. It
// looks down -Z with +Y up. Cursor coordinates are normalized to [0,1]²
// with the origin at the top-left, matching the tracker's output.
type Camera struct {
	Position geom.Vec3
	FovYDeg  float64
	Aspect   float64
}

// DefaultCamera sits on the station looking downrange.
func DefaultCamera() Camera {
	return Camera{FovYDeg: 60, Aspect: 16.0 / 9.0}
}

func (c Camera) tanHalf() float64 {
	return math.Tan(c.FovYDeg * math.Pi / 360)
}

// Ray inverse-projects a normalized cursor into a unit world-space direction.
func (c Camera) Ray(cursor geom.Vec2) geom.Vec3 {
	th := c.tanHalf()
	ndcX := cursor.X*2 - 1
	ndcY := 1 - cursor.Y*2
	return geom.Vec3{X: ndcX * th * c.Aspect, Y: ndcY * th, Z: -1}.Normalize()
}

// Project maps a world point to normalized cursor space. ok is false for
// points at or behind the camera plane.
func (c Camera) Project(p geom.Vec3) (cursor geom.Vec2, ok bool) {
	rel := p.Sub(c.Position)
	if rel.Z >= 0 {
		return geom.Vec2{}, false
	}
	th := c.tanHalf()
	depth := -rel.Z
	ndcX := rel.X / (depth * th * c.Aspect)
	ndcY := rel.Y / (depth * th)
	return geom.Vec2{X: (ndcX + 1) / 2, Y: (1 - ndcY) / 2}, true
}
