package combat

import (
	"errors"
	"fmt"

	"github.com/palmguard/sim/internal/geom"
	"github.com/palmguard/sim/internal/spawn"
)

// ErrInvalidConfig wraps every construction-time configuration failure.
var ErrInvalidConfig = errors.New("combat: invalid config")

// KindStats are the per-kind tunables.
type KindStats struct {
	Radius    float64
	Speed     float64 // units/s
	Damage    float64 // hull damage on breach
	HitPoints int

	// Armored kinds.
	Shield        int
	ShieldRegenMs float64 // full shield restore after this long without a hit; 0 disables

	// Evasive kinds: corkscrew offset around the base path.
	CorkscrewAmpMin  float64
	CorkscrewAmpMax  float64
	CorkscrewFreqMin float64 // rad/s
	CorkscrewFreqMax float64
}

func (k KindStats) corkscrew() bool { return k.CorkscrewAmpMax > 0 }

// HeatConfig drives the weapon-heat hysteresis. Rates are per second.
type HeatConfig struct {
	Max              float64
	RiseRate         float64 // while firing and not overheated
	CoolRate         float64 // idle
	OverheatCoolRate float64 // while overheated, slower than CoolRate
	RecoveryAt       float64 // overheat clears at or below this, strictly below Max
}

// MissileConfig holds missile launcher tunables.
type MissileConfig struct {
	CooldownMs       float64
	Speed            float64
	DetonationRadius float64 // proximity fuse, added to the target radius
	BlastRadius      float64
	Range            float64
	PoolSize         int
}

// Config is the full combat tunable set supplied at construction.
type Config struct {
	MaxHull        float64
	FireIntervalMs float64
	BulletSpeed    float64
	BulletRange    float64
	BulletPoolSize int

	SpawnRadius   float64 // disc radius enemies appear in
	SpawnDepth    float64 // enemies appear at Station.Z - SpawnDepth
	Station       geom.Vec3
	StationRadius float64
	BreachZ       float64 // enemies at or past this depth breach the hull

	MaxEnemies        int
	MaxEvasive        int
	EvasiveCooldownMs float64

	Heat    HeatConfig
	Missile MissileConfig
	Camera  Camera
	Kinds   [spawn.KindCount]KindStats
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	cfg := Config{
		MaxHull:        100,
		FireIntervalMs: 120,
		BulletSpeed:    90,
		BulletRange:    120,
		BulletPoolSize: 64,

		SpawnRadius:   12,
		SpawnDepth:    60,
		StationRadius: 2.5,
		BreachZ:       0,

		MaxEnemies:        12,
		MaxEvasive:        3,
		EvasiveCooldownMs: 2500,

		Heat: HeatConfig{
			Max:              100,
			RiseRate:         40,
			CoolRate:         30,
			OverheatCoolRate: 18,
			RecoveryAt:       35,
		},
		Missile: MissileConfig{
			CooldownMs:       8000,
			Speed:            45,
			DetonationRadius: 1.5,
			BlastRadius:      6,
			Range:            120,
			PoolSize:         4,
		},
		Camera: DefaultCamera(),
	}
	cfg.Kinds[spawn.KindFast] = KindStats{Radius: 0.8, Speed: 9, Damage: 5, HitPoints: 1}
	cfg.Kinds[spawn.KindEvasive] = KindStats{
		Radius: 0.9, Speed: 6, Damage: 8, HitPoints: 1,
		CorkscrewAmpMin: 1.5, CorkscrewAmpMax: 3.5,
		CorkscrewFreqMin: 1.5, CorkscrewFreqMax: 3,
	}
	cfg.Kinds[spawn.KindArmored] = KindStats{
		Radius: 1.2, Speed: 4, Damage: 15, HitPoints: 1,
		Shield: 2, ShieldRegenMs: 3000,
	}
	cfg.Kinds[spawn.KindHeavy] = KindStats{Radius: 1.8, Speed: 2.5, Damage: 25, HitPoints: 4}
	return cfg
}

// Validate reports the first tunable that would break the simulation.
func (c Config) Validate() error {
	switch {
	case c.MaxHull <= 0:
		return fmt.Errorf("%w: max hull must be positive", ErrInvalidConfig)
	case c.FireIntervalMs <= 0:
		return fmt.Errorf("%w: fire interval must be positive", ErrInvalidConfig)
	case c.BulletPoolSize <= 0 || c.Missile.PoolSize <= 0:
		return fmt.Errorf("%w: projectile pools need capacity", ErrInvalidConfig)
	case c.MaxEnemies < 0 || c.MaxEvasive < 0:
		return fmt.Errorf("%w: enemy caps must not be negative", ErrInvalidConfig)
	case c.Heat.Max <= 0:
		return fmt.Errorf("%w: max heat must be positive", ErrInvalidConfig)
	case c.Heat.RecoveryAt < 0 || c.Heat.RecoveryAt >= c.Heat.Max:
		return fmt.Errorf("%w: heat recovery threshold must be in [0, max)", ErrInvalidConfig)
	case c.Heat.RiseRate < 0:
		return fmt.Errorf("%w: heat rise rate must not be negative", ErrInvalidConfig)
	case c.Heat.CoolRate <= 0:
		return fmt.Errorf("%w: heat cool rate must be positive", ErrInvalidConfig)
	case c.Heat.OverheatCoolRate <= 0 || c.Heat.OverheatCoolRate >= c.Heat.CoolRate:
		return fmt.Errorf("%w: overheat cool rate must be positive and below the idle cool rate", ErrInvalidConfig)
	case c.Camera.FovYDeg <= 0 || c.Camera.FovYDeg >= 180 || c.Camera.Aspect <= 0:
		return fmt.Errorf("%w: camera fov/aspect out of range", ErrInvalidConfig)
	}
	for k, st := range c.Kinds {
		if st.Radius <= 0 || st.HitPoints <= 0 {
			return fmt.Errorf("%w: kind %s needs radius and hit points", ErrInvalidConfig, spawn.Kind(k))
		}
		if st.Damage < 0 {
			return fmt.Errorf("%w: kind %s damage must not be negative", ErrInvalidConfig, spawn.Kind(k))
		}
	}
	return nil
}
