package geom

// ClosestPointOnSegment returns the point on segment a→b nearest to p.
// A zero-length segment returns a.
func ClosestPointOnSegment(a, b, p Vec3) Vec3 {
	ab := b.Sub(a)
	lenSq := ab.LenSq()
	if lenSq == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / lenSq
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return a.Add(ab.Scale(t))
}

// SegmentHitsSphere reports whether the segment a→b passes within radius of
// center. A segment that starts inside the sphere always hits, regardless of
// direction; a zero-length segment degrades to a point test.
func SegmentHitsSphere(a, b, center Vec3, radius float64) bool {
	r2 := radius * radius
	if a.DistSq(center) <= r2 {
		return true
	}
	ab := b.Sub(a)
	if ab.LenSq() == 0 {
		return false
	}
	return ClosestPointOnSegment(a, b, center).DistSq(center) <= r2
}

// SegmentHitsCircle is the planar variant of SegmentHitsSphere. Only the
// X and Y coordinates take part.
func SegmentHitsCircle(a, b, center Vec2, radius float64) bool {
	r2 := radius * radius
	if a.DistSq(center) <= r2 {
		return true
	}
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return false
	}
	t := center.Sub(a).Dot(ab) / lenSq
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	closest := Vec2{a.X + ab.X*t, a.Y + ab.Y*t}
	return closest.DistSq(center) <= r2
}
