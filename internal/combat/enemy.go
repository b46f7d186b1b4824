package combat

import (
	"math"

	"github.com/palmguard/sim/internal/geom"
	"github.com/palmguard/sim/internal/spawn"
)

// Kind aliases the spawn curve's enemy kind.
type Kind = spawn.Kind

const (
	KindFast    = spawn.KindFast
	KindEvasive = spawn.KindEvasive
	KindArmored = spawn.KindArmored
	KindHeavy   = spawn.KindHeavy
	KindCount   = spawn.KindCount
)

// Enemy is one live hostile. Pos already includes any corkscrew offset;
// Vel is the base linear velocity.
type Enemy struct {
	ID        uint64
	Kind      Kind
	Pos       geom.Vec3
	Vel       geom.Vec3
	SpawnedMs float64

	// Corkscrew (evasive kinds).
	Phase     float64
	Amplitude float64
	Frequency float64

	HitPoints int
	Shield    int
	LastHitMs float64

	base      geom.Vec3
	destroyed bool
	breached  bool
}

func (e *Enemy) gone() bool { return e.destroyed || e.breached }

// corkscrewOffset is the additive XY displacement ageMs after spawn.
func (e *Enemy) corkscrewOffset(ageMs float64) geom.Vec3 {
	if e.Amplitude == 0 {
		return geom.Vec3{}
	}
	a := e.Phase + e.Frequency*ageMs/1000
	return geom.Vec3{X: math.Cos(a) * e.Amplitude, Y: math.Sin(a) * e.Amplitude}
}

// advance moves the base path by dtMs and re-applies the corkscrew for the
// enemy's age at nowMs.
func (e *Enemy) advance(dtMs, nowMs float64) {
	e.base = e.base.Add(e.Vel.Scale(dtMs / 1000))
	e.Pos = e.base.Add(e.corkscrewOffset(nowMs - e.SpawnedMs))
}

// hit applies one projectile hit at nowMs. Shields absorb hits first.
// It reports whether the enemy was destroyed.
func (e *Enemy) hit(nowMs float64) bool {
	e.LastHitMs = nowMs
	if e.Shield > 0 {
		e.Shield--
		return false
	}
	e.HitPoints--
	if e.HitPoints <= 0 {
		e.destroyed = true
	}
	return e.destroyed
}

// regenShield restores a depleted shield after a quiet period.
func (e *Enemy) regenShield(st KindStats, nowMs float64) {
	if st.ShieldRegenMs <= 0 || e.Shield >= st.Shield {
		return
	}
	if nowMs-e.LastHitMs >= st.ShieldRegenMs {
		e.Shield = st.Shield
	}
}
