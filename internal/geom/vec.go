package geom

import "math"

// Vec3 is a point or direction in world space.
type Vec3 struct {
	X, Y, Z float64
}

// Vec2 is a point in a normalized or planar space.
type Vec2 struct {
	X, Y float64
}

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func (a Vec3) LenSq() float64 { return a.Dot(a) }

func (a Vec3) Len() float64 { return math.Sqrt(a.LenSq()) }

func (a Vec3) DistSq(b Vec3) float64 { return a.Sub(b).LenSq() }

func (a Vec3) Dist(b Vec3) float64 { return a.Sub(b).Len() }

// XY drops the depth coordinate.
func (a Vec3) XY() Vec2 { return Vec2{a.X, a.Y} }

// Normalize returns the unit vector of a, or the zero vector when a has no length.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l == 0 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }

func (a Vec2) Dot(b Vec2) float64 { return a.X*b.X + a.Y*b.Y }

func (a Vec2) DistSq(b Vec2) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}
