package combat

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/palmguard/sim/internal/core/pool"
	"github.com/palmguard/sim/internal/geom"
	"github.com/palmguard/sim/internal/rng"
	"github.com/palmguard/sim/internal/spawn"
)

// ErrNegativeDelta is returned by Tick for a delta that cannot be a frame.
var ErrNegativeDelta = errors.New("combat: negative or non-finite delta")

// Input is the per-frame control state derived from the tracker's gesture.
type Input struct {
	Cursor  geom.Vec2 // normalized [0,1]², origin top-left
	Firing  bool
	Missile bool
}

// Projectile is a bullet or missile slot in a pool arena.
type Projectile struct {
	ID               uint64
	Pos              geom.Vec3
	Vel              geom.Vec3
	Traveled         float64
	Missile          bool
	DetonationRadius float64
	BlastRadius      float64
}

// TickResult reports what one Tick changed.
type TickResult struct {
	Spawned          []uint64
	Killed           []uint64
	Breached         []uint64
	SpawnsRejected   int
	ShotsFired       int
	MissilesLaunched int
	Detonations      int
	Hull             float64
	HullDestroyed    bool
}

// Simulation is the combat root. It owns every enemy and projectile and is
// the only thing that mutates them, inside Tick and Reset.
// Single-goroutine access only; never call Tick re-entrantly.
type Simulation struct {
	cfg   Config
	log   *zap.Logger
	src   *rng.Source
	sched *spawn.Scheduler

	enemies  []Enemy
	prev     []geom.Vec3 // pre-tick enemy positions, parallel to enemies
	bullets  *pool.Arena[Projectile]
	missiles *pool.Arena[Projectile]
	nextID   uint64

	hull            float64
	heat            HeatState
	fireTimerMs     float64
	missileCooldown float64
	evasiveCooldown float64
	elapsed         float64
	hullLost        bool

	kills            [KindCount]int
	spawns           [KindCount]int
	breaches         int
	rejected         int
	shotsFired       int
	missilesLaunched int
}

// New builds a simulation over the given spawn curve. The seed drives both
// kind selection and placement, so a fixed seed replays exactly.
func New(cfg Config, tiers []spawn.Tier, seed int64, log *zap.Logger) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	src := rng.New(seed)
	sched, err := spawn.NewScheduler(tiers, src)
	if err != nil {
		return nil, fmt.Errorf("spawn scheduler: %w", err)
	}
	s := &Simulation{
		cfg:      cfg,
		log:      log,
		src:      src,
		sched:    sched,
		enemies:  make([]Enemy, 0, cfg.MaxEnemies),
		prev:     make([]geom.Vec3, 0, cfg.MaxEnemies),
		bullets:  pool.NewArena[Projectile](cfg.BulletPoolSize),
		missiles: pool.NewArena[Projectile](cfg.Missile.PoolSize),
	}
	s.Reset()
	return s, nil
}

// Tick advances the simulation by dtMs. A negative or non-finite delta is
// rejected before anything is touched.
func (s *Simulation) Tick(dtMs float64, in Input) (TickResult, error) {
	if dtMs < 0 || math.IsNaN(dtMs) || math.IsInf(dtMs, 0) {
		return TickResult{}, ErrNegativeDelta
	}
	due, err := s.sched.Step(dtMs)
	if err != nil {
		return TickResult{}, err
	}
	s.elapsed += dtMs
	var res TickResult

	// Spawn. Enemies created this tick are placed, not moved.
	moving := len(s.enemies)
	s.evasiveCooldown = math.Max(0, s.evasiveCooldown-dtMs)
	for _, ev := range due {
		s.spawnEnemy(ev, &res)
	}

	// Kinematics.
	s.prev = s.prev[:0]
	for i := range s.enemies {
		e := &s.enemies[i]
		s.prev = append(s.prev, e.Pos)
		if i < moving {
			e.advance(dtMs, s.elapsed)
			e.regenShield(s.cfg.Kinds[e.Kind], s.elapsed)
		}
	}

	// Projectiles, swept against pre- and post-tick enemy positions.
	s.sweepBullets(dtMs)
	s.sweepMissiles(dtMs, &res)

	// Weapon heat and missile cooldown.
	wasOverheated := s.heat.Overheated
	s.heat = s.heat.Step(s.cfg.Heat, in.Firing, dtMs)
	if s.heat.Overheated != wasOverheated {
		s.log.Debug("weapon heat latch",
			zap.Bool("overheated", s.heat.Overheated),
			zap.Float64("heat", s.heat.Heat),
			zap.Float64("at_ms", s.elapsed))
	}
	s.missileCooldown = math.Max(0, s.missileCooldown-dtMs)

	// Fire.
	if in.Firing || in.Missile {
		dir := s.cfg.Camera.Ray(in.Cursor)
		if in.Firing && !s.heat.Overheated {
			s.fireTimerMs -= dtMs
			for s.fireTimerMs <= 0 {
				s.fireBullet(dir, &res)
				s.fireTimerMs += s.cfg.FireIntervalMs
			}
		} else {
			s.fireTimerMs = math.Max(0, s.fireTimerMs-dtMs)
		}
		if in.Missile && s.missileCooldown <= 0 {
			s.launchMissile(dir, &res)
		}
	} else {
		s.fireTimerMs = math.Max(0, s.fireTimerMs-dtMs)
	}

	// Station damage.
	for i := range s.enemies {
		e := &s.enemies[i]
		if e.gone() {
			continue
		}
		if e.Pos.Dist(s.cfg.Station) <= s.cfg.StationRadius || e.Pos.Z >= s.cfg.BreachZ {
			e.breached = true
			s.hull = math.Max(0, s.hull-s.cfg.Kinds[e.Kind].Damage)
			s.breaches++
			res.Breached = append(res.Breached, e.ID)
		}
	}

	s.compact(&res)

	res.Hull = s.hull
	res.HullDestroyed = s.hull <= 0
	if res.HullDestroyed && !s.hullLost {
		s.hullLost = true
		s.log.Debug("station hull destroyed", zap.Float64("at_ms", s.elapsed))
	}
	return res, nil
}

// Reset restores every counter, empties the pools and rewinds the random
// stream and spawn clock. Configuration is untouched.
func (s *Simulation) Reset() {
	s.src.Reset()
	s.sched.Reset()
	s.enemies = s.enemies[:0]
	s.prev = s.prev[:0]
	s.bullets.Clear()
	s.missiles.Clear()
	s.nextID = 0

	s.hull = s.cfg.MaxHull
	s.heat = HeatState{}
	s.fireTimerMs = 0
	s.missileCooldown = 0
	s.evasiveCooldown = 0
	s.elapsed = 0
	s.hullLost = false

	s.kills = [KindCount]int{}
	s.spawns = [KindCount]int{}
	s.breaches = 0
	s.rejected = 0
	s.shotsFired = 0
	s.missilesLaunched = 0
}

// Enemies returns a copy of the live enemies in spawn order.
func (s *Simulation) Enemies() []Enemy {
	out := make([]Enemy, len(s.enemies))
	copy(out, s.enemies)
	return out
}

// Projectiles returns a copy of every active bullet and missile.
func (s *Simulation) Projectiles() []Projectile {
	out := make([]Projectile, 0, s.bullets.Len()+s.missiles.Len())
	s.bullets.Each(func(_ int, p *Projectile) { out = append(out, *p) })
	s.missiles.Each(func(_ int, p *Projectile) { out = append(out, *p) })
	return out
}

func (s *Simulation) newID() uint64 {
	s.nextID++
	return s.nextID
}

func (s *Simulation) countKind(k Kind) int {
	n := 0
	for i := range s.enemies {
		if s.enemies[i].Kind == k {
			n++
		}
	}
	return n
}

func (s *Simulation) spawnEnemy(ev spawn.Event, res *TickResult) {
	reject := func(why string) {
		s.rejected++
		res.SpawnsRejected++
		s.log.Debug("spawn rejected",
			zap.Stringer("kind", ev.Kind),
			zap.String("reason", why),
			zap.Float64("due_ms", ev.AtMs))
	}
	if len(s.enemies) >= s.cfg.MaxEnemies {
		reject("enemy cap")
		return
	}
	if ev.Kind == KindEvasive {
		if s.countKind(KindEvasive) >= s.cfg.MaxEvasive {
			reject("evasive cap")
			return
		}
		if s.evasiveCooldown > 0 {
			reject("evasive cooldown")
			return
		}
		s.evasiveCooldown = s.cfg.EvasiveCooldownMs
	}

	e := s.place(ev.Kind)
	s.enemies = append(s.enemies, e)
	s.spawns[ev.Kind]++
	res.Spawned = append(res.Spawned, e.ID)
}

// place positions a new enemy on the spawn disc, heading for the station.
func (s *Simulation) place(kind Kind) Enemy {
	st := s.cfg.Kinds[kind]
	angle := s.src.Next() * 2 * math.Pi
	r := math.Sqrt(s.src.Next()) * s.cfg.SpawnRadius
	start := geom.Vec3{
		X: s.cfg.Station.X + math.Cos(angle)*r,
		Y: s.cfg.Station.Y + math.Sin(angle)*r,
		Z: s.cfg.Station.Z - s.cfg.SpawnDepth,
	}
	e := Enemy{
		ID:        s.newID(),
		Kind:      kind,
		Vel:       s.cfg.Station.Sub(start).Normalize().Scale(st.Speed),
		SpawnedMs: s.elapsed,
		HitPoints: st.HitPoints,
		Shield:    st.Shield,
		LastHitMs: s.elapsed,
		base:      start,
	}
	if st.corkscrew() {
		e.Phase = s.src.Next() * 2 * math.Pi
		e.Amplitude = s.src.Range(st.CorkscrewAmpMin, st.CorkscrewAmpMax)
		e.Frequency = s.src.Range(st.CorkscrewFreqMin, st.CorkscrewFreqMax)
	}
	e.Pos = start.Add(e.corkscrewOffset(0))
	return e
}

// sweepHit finds the live enemy whose sphere (inflated by extra) the
// segment from→to crosses at either its pre- or post-tick position, nearest
// to from first.
func (s *Simulation) sweepHit(from, to geom.Vec3, extra float64) (int, bool) {
	best, bestD := -1, math.Inf(1)
	for i := range s.enemies {
		e := &s.enemies[i]
		if e.gone() {
			continue
		}
		r := s.cfg.Kinds[e.Kind].Radius + extra
		if !geom.SegmentHitsSphere(from, to, s.prev[i], r) && !geom.SegmentHitsSphere(from, to, e.Pos, r) {
			continue
		}
		d := geom.ClosestPointOnSegment(from, to, e.Pos).DistSq(from)
		if d < bestD {
			best, bestD = i, d
		}
	}
	return best, best >= 0
}

func (s *Simulation) sweepBullets(dtMs float64) {
	s.bullets.Each(func(idx int, p *Projectile) {
		step := p.Vel.Scale(dtMs / 1000)
		to := p.Pos.Add(step)
		if i, ok := s.sweepHit(p.Pos, to, 0); ok {
			s.enemies[i].hit(s.elapsed)
			s.bullets.Release(idx)
			return
		}
		p.Pos = to
		p.Traveled += step.Len()
		if p.Traveled >= s.cfg.BulletRange {
			s.bullets.Release(idx)
		}
	})
}

func (s *Simulation) sweepMissiles(dtMs float64, res *TickResult) {
	s.missiles.Each(func(idx int, p *Projectile) {
		step := p.Vel.Scale(dtMs / 1000)
		to := p.Pos.Add(step)
		if i, ok := s.sweepHit(p.Pos, to, p.DetonationRadius); ok {
			s.detonate(geom.ClosestPointOnSegment(p.Pos, to, s.enemies[i].Pos), p.BlastRadius, res)
			s.missiles.Release(idx)
			return
		}
		p.Pos = to
		p.Traveled += step.Len()
		if p.Traveled >= s.cfg.Missile.Range {
			s.missiles.Release(idx)
		}
	})
}

// detonate destroys every live enemy touching the blast sphere. Blast damage
// ignores shields and hit points.
func (s *Simulation) detonate(at geom.Vec3, blastRadius float64, res *TickResult) {
	res.Detonations++
	caught := 0
	for i := range s.enemies {
		e := &s.enemies[i]
		if e.gone() {
			continue
		}
		if e.Pos.Dist(at) <= blastRadius+s.cfg.Kinds[e.Kind].Radius {
			e.destroyed = true
			caught++
		}
	}
	s.log.Debug("missile detonated",
		zap.Float64("x", at.X), zap.Float64("y", at.Y), zap.Float64("z", at.Z),
		zap.Int("caught", caught))
}

func (s *Simulation) fireBullet(dir geom.Vec3, res *TickResult) {
	idx, p, ok := s.bullets.Acquire()
	if !ok {
		return
	}
	p.ID = s.newID()
	p.Pos = s.cfg.Camera.Position
	p.Vel = dir.Scale(s.cfg.BulletSpeed)
	s.shotsFired++
	res.ShotsFired++

	// A target may already overlap the muzzle on the tick the shot exists.
	if i, hit := s.sweepHit(p.Pos, p.Pos, 0); hit {
		s.enemies[i].hit(s.elapsed)
		s.bullets.Release(idx)
	}
}

func (s *Simulation) launchMissile(dir geom.Vec3, res *TickResult) {
	idx, p, ok := s.missiles.Acquire()
	if !ok {
		return
	}
	p.ID = s.newID()
	p.Pos = s.cfg.Camera.Position
	p.Vel = dir.Scale(s.cfg.Missile.Speed)
	p.Missile = true
	p.DetonationRadius = s.cfg.Missile.DetonationRadius
	p.BlastRadius = s.cfg.Missile.BlastRadius
	s.missileCooldown = s.cfg.Missile.CooldownMs
	s.missilesLaunched++
	res.MissilesLaunched++

	if i, hit := s.sweepHit(p.Pos, p.Pos, p.DetonationRadius); hit {
		s.detonate(s.enemies[i].Pos, p.BlastRadius, res)
		s.missiles.Release(idx)
	}
}

// compact drops destroyed and breached enemies, crediting kills.
func (s *Simulation) compact(res *TickResult) {
	live := s.enemies[:0]
	for _, e := range s.enemies {
		switch {
		case e.destroyed:
			s.kills[e.Kind]++
			res.Killed = append(res.Killed, e.ID)
		case e.breached:
		default:
			live = append(live, e)
		}
	}
	s.enemies = live
}
