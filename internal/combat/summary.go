package combat

// Summary is an immutable snapshot of the combat counters.
type Summary struct {
	Hull    float64
	MaxHull float64

	Kills        int
	KillsByKind  [KindCount]int
	Spawns       int
	SpawnsByKind [KindCount]int
	Rejected     int
	Breaches     int
	Active       int
	ElapsedMs    float64

	Heat       float64
	MaxHeat    float64
	Overheated bool

	MissileReady    bool
	MissileProgress float64 // 0 just fired, 1 ready

	ShotsFired        int
	MissilesLaunched  int
	ActiveProjectiles int
}

// Summary snapshots the current counters.
func (s *Simulation) Summary() Summary {
	sum := Summary{
		Hull:              s.hull,
		MaxHull:           s.cfg.MaxHull,
		KillsByKind:       s.kills,
		SpawnsByKind:      s.spawns,
		Rejected:          s.rejected,
		Breaches:          s.breaches,
		Active:            len(s.enemies),
		ElapsedMs:         s.elapsed,
		Heat:              s.heat.Heat,
		MaxHeat:           s.cfg.Heat.Max,
		Overheated:        s.heat.Overheated,
		MissileReady:      s.missileCooldown <= 0,
		MissileProgress:   1,
		ShotsFired:        s.shotsFired,
		MissilesLaunched:  s.missilesLaunched,
		ActiveProjectiles: s.bullets.Len() + s.missiles.Len(),
	}
	for k := range s.kills {
		sum.Kills += s.kills[k]
		sum.Spawns += s.spawns[k]
	}
	if s.cfg.Missile.CooldownMs > 0 && s.missileCooldown > 0 {
		sum.MissileProgress = 1 - s.missileCooldown/s.cfg.Missile.CooldownMs
	}
	return sum
}
