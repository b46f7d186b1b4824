package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/palmguard/sim/internal/combat"
	"github.com/palmguard/sim/internal/geom"
	"github.com/palmguard/sim/internal/phase"
	"github.com/palmguard/sim/internal/spawn"
)

type Config struct {
	Sim     SimConfig     `toml:"sim"`
	Logging LoggingConfig `toml:"logging"`
	Combat  CombatConfig  `toml:"combat"`
	Phase   PhaseConfig   `toml:"phase"`
	Spawn   SpawnConfig   `toml:"spawn"`
	Input   InputConfig   `toml:"input"`
}

type SimConfig struct {
	Seed        int64         `toml:"seed"`
	TickRate    time.Duration `toml:"tick_rate"`
	Realtime    bool          `toml:"realtime"`     // false = fast-forward through the replay
	MaxDuration time.Duration `toml:"max_duration"` // host stops after this much simulated time
	ReportEvery time.Duration `toml:"report_every"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type CombatConfig struct {
	MaxHull        float64       `toml:"max_hull"`
	FireInterval   time.Duration `toml:"fire_interval"`
	BulletSpeed    float64       `toml:"bullet_speed"`
	BulletRange    float64       `toml:"bullet_range"`
	BulletPoolSize int           `toml:"bullet_pool_size"`

	SpawnRadius   float64 `toml:"spawn_radius"`
	SpawnDepth    float64 `toml:"spawn_depth"`
	StationRadius float64 `toml:"station_radius"`
	BreachZ       float64 `toml:"breach_z"`

	MaxEnemies      int           `toml:"max_enemies"`
	MaxEvasive      int           `toml:"max_evasive"`
	EvasiveCooldown time.Duration `toml:"evasive_cooldown"`

	Heat    HeatConfig    `toml:"heat"`
	Missile MissileConfig `toml:"missile"`
	Camera  CameraConfig  `toml:"camera"`
	Kinds   KindsConfig   `toml:"kinds"`
}

type HeatConfig struct {
	Max              float64 `toml:"max"`
	RiseRate         float64 `toml:"rise_rate"` // per second
	CoolRate         float64 `toml:"cool_rate"`
	OverheatCoolRate float64 `toml:"overheat_cool_rate"`
	RecoveryAt       float64 `toml:"recovery_at"`
}

type MissileConfig struct {
	Cooldown         time.Duration `toml:"cooldown"`
	Speed            float64       `toml:"speed"`
	DetonationRadius float64       `toml:"detonation_radius"`
	BlastRadius      float64       `toml:"blast_radius"`
	Range            float64       `toml:"range"`
	PoolSize         int           `toml:"pool_size"`
}

type CameraConfig struct {
	FovY   float64 `toml:"fov_y"` // degrees
	Aspect float64 `toml:"aspect"`
}

// KindsConfig uses one field per kind so a file can override a single
// stat without wiping the rest of that kind's defaults.
type KindsConfig struct {
	Fast    KindConfig `toml:"fast"`
	Evasive KindConfig `toml:"evasive"`
	Armored KindConfig `toml:"armored"`
	Heavy   KindConfig `toml:"heavy"`
}

type KindConfig struct {
	Radius        float64       `toml:"radius"`
	Speed         float64       `toml:"speed"`
	Damage        float64       `toml:"damage"`
	HitPoints     int           `toml:"hit_points"`
	Shield        int           `toml:"shield"`
	ShieldRegen   time.Duration `toml:"shield_regen"`
	CorkscrewAmp  [2]float64    `toml:"corkscrew_amp"`  // [min, max]
	CorkscrewFreq [2]float64    `toml:"corkscrew_freq"` // [min, max] rad/s
}

type PhaseConfig struct {
	CalibrationStable time.Duration `toml:"calibration_stable"`
	SampleGap         time.Duration `toml:"sample_gap"`
	StartGesture      string        `toml:"start_gesture"`
	MaxStartGap       time.Duration `toml:"max_start_gap"`
	PauseGesture      string        `toml:"pause_gesture"`
	PauseHold         time.Duration `toml:"pause_hold"`
	PauseMinFrames    int           `toml:"pause_min_frames"`
	ResumeGestures    []string      `toml:"resume_gestures"`
	MaxPlay           time.Duration `toml:"max_play"`
}

type SpawnConfig struct {
	CurveFile  string `toml:"curve_file"`  // YAML tier table
	ScriptsDir string `toml:"scripts_dir"` // Lua spawn_tiers() takes precedence when defined
}

type InputConfig struct {
	ReplayFile     string `toml:"replay_file"`
	FireGesture    string `toml:"fire_gesture"`
	MissileGesture string `toml:"missile_gesture"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration, used when no file is given.
func Default() *Config {
	return defaults()
}

func defaults() *Config {
	cd := combat.DefaultConfig()
	pd := phase.DefaultConfig()
	resume := make([]string, len(pd.ResumeGestures))
	for i, g := range pd.ResumeGestures {
		resume[i] = string(g)
	}
	return &Config{
		Sim: SimConfig{
			Seed:        1,
			TickRate:    16 * time.Millisecond,
			MaxDuration: 5 * time.Minute,
			ReportEvery: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Combat: CombatConfig{
			MaxHull:         cd.MaxHull,
			FireInterval:    dur(cd.FireIntervalMs),
			BulletSpeed:     cd.BulletSpeed,
			BulletRange:     cd.BulletRange,
			BulletPoolSize:  cd.BulletPoolSize,
			SpawnRadius:     cd.SpawnRadius,
			SpawnDepth:      cd.SpawnDepth,
			StationRadius:   cd.StationRadius,
			BreachZ:         cd.BreachZ,
			MaxEnemies:      cd.MaxEnemies,
			MaxEvasive:      cd.MaxEvasive,
			EvasiveCooldown: dur(cd.EvasiveCooldownMs),
			Heat: HeatConfig{
				Max:              cd.Heat.Max,
				RiseRate:         cd.Heat.RiseRate,
				CoolRate:         cd.Heat.CoolRate,
				OverheatCoolRate: cd.Heat.OverheatCoolRate,
				RecoveryAt:       cd.Heat.RecoveryAt,
			},
			Missile: MissileConfig{
				Cooldown:         dur(cd.Missile.CooldownMs),
				Speed:            cd.Missile.Speed,
				DetonationRadius: cd.Missile.DetonationRadius,
				BlastRadius:      cd.Missile.BlastRadius,
				Range:            cd.Missile.Range,
				PoolSize:         cd.Missile.PoolSize,
			},
			Camera: CameraConfig{FovY: cd.Camera.FovYDeg, Aspect: cd.Camera.Aspect},
			Kinds: KindsConfig{
				Fast:    kindFrom(cd.Kinds[spawn.KindFast]),
				Evasive: kindFrom(cd.Kinds[spawn.KindEvasive]),
				Armored: kindFrom(cd.Kinds[spawn.KindArmored]),
				Heavy:   kindFrom(cd.Kinds[spawn.KindHeavy]),
			},
		},
		Phase: PhaseConfig{
			CalibrationStable: dur(pd.CalibrationStableMs),
			SampleGap:         dur(pd.SampleGapMs),
			StartGesture:      string(pd.StartGesture),
			MaxStartGap:       dur(pd.MaxStartGapMs),
			PauseGesture:      string(pd.PauseGesture),
			PauseHold:         dur(pd.PauseHoldMs),
			PauseMinFrames:    pd.PauseMinFrames,
			ResumeGestures:    resume,
			MaxPlay:           dur(pd.MaxPlayMs),
		},
		Input: InputConfig{
			FireGesture:    string(phase.GesturePinch),
			MissileGesture: string(phase.GestureFist),
		},
	}
}

// CombatSettings converts the [combat] section into simulation tunables.
// The camera always sits at the station.
func (c *Config) CombatSettings() (combat.Config, error) {
	cc := c.Combat
	out := combat.Config{
		MaxHull:           cc.MaxHull,
		FireIntervalMs:    ms(cc.FireInterval),
		BulletSpeed:       cc.BulletSpeed,
		BulletRange:       cc.BulletRange,
		BulletPoolSize:    cc.BulletPoolSize,
		SpawnRadius:       cc.SpawnRadius,
		SpawnDepth:        cc.SpawnDepth,
		Station:           geom.Vec3{},
		StationRadius:     cc.StationRadius,
		BreachZ:           cc.BreachZ,
		MaxEnemies:        cc.MaxEnemies,
		MaxEvasive:        cc.MaxEvasive,
		EvasiveCooldownMs: ms(cc.EvasiveCooldown),
		Heat: combat.HeatConfig{
			Max:              cc.Heat.Max,
			RiseRate:         cc.Heat.RiseRate,
			CoolRate:         cc.Heat.CoolRate,
			OverheatCoolRate: cc.Heat.OverheatCoolRate,
			RecoveryAt:       cc.Heat.RecoveryAt,
		},
		Missile: combat.MissileConfig{
			CooldownMs:       ms(cc.Missile.Cooldown),
			Speed:            cc.Missile.Speed,
			DetonationRadius: cc.Missile.DetonationRadius,
			BlastRadius:      cc.Missile.BlastRadius,
			Range:            cc.Missile.Range,
			PoolSize:         cc.Missile.PoolSize,
		},
		Camera: combat.Camera{FovYDeg: cc.Camera.FovY, Aspect: cc.Camera.Aspect},
	}
	out.Kinds[spawn.KindFast] = cc.Kinds.Fast.stats()
	out.Kinds[spawn.KindEvasive] = cc.Kinds.Evasive.stats()
	out.Kinds[spawn.KindArmored] = cc.Kinds.Armored.stats()
	out.Kinds[spawn.KindHeavy] = cc.Kinds.Heavy.stats()
	if err := out.Validate(); err != nil {
		return combat.Config{}, fmt.Errorf("combat config: %w", err)
	}
	return out, nil
}

// PhaseSettings converts the [phase] section into controller guards.
func (c *Config) PhaseSettings() (phase.Config, error) {
	pc := c.Phase
	if pc.CalibrationStable <= 0 || pc.PauseHold < 0 || pc.MaxPlay <= 0 {
		return phase.Config{}, fmt.Errorf("phase config: durations must be positive")
	}
	if pc.StartGesture == "" || pc.PauseGesture == "" {
		return phase.Config{}, fmt.Errorf("phase config: start and pause gestures are required")
	}
	resume := make([]phase.Gesture, 0, len(pc.ResumeGestures))
	for _, g := range pc.ResumeGestures {
		resume = append(resume, phase.Gesture(g))
	}
	return phase.Config{
		CalibrationStableMs: ms(pc.CalibrationStable),
		SampleGapMs:         ms(pc.SampleGap),
		StartGesture:        phase.Gesture(pc.StartGesture),
		MaxStartGapMs:       ms(pc.MaxStartGap),
		PauseGesture:        phase.Gesture(pc.PauseGesture),
		PauseHoldMs:         ms(pc.PauseHold),
		PauseMinFrames:      pc.PauseMinFrames,
		ResumeGestures:      resume,
		MaxPlayMs:           ms(pc.MaxPlay),
	}, nil
}

func (k KindConfig) stats() combat.KindStats {
	return combat.KindStats{
		Radius:           k.Radius,
		Speed:            k.Speed,
		Damage:           k.Damage,
		HitPoints:        k.HitPoints,
		Shield:           k.Shield,
		ShieldRegenMs:    ms(k.ShieldRegen),
		CorkscrewAmpMin:  k.CorkscrewAmp[0],
		CorkscrewAmpMax:  k.CorkscrewAmp[1],
		CorkscrewFreqMin: k.CorkscrewFreq[0],
		CorkscrewFreqMax: k.CorkscrewFreq[1],
	}
}

func kindFrom(s combat.KindStats) KindConfig {
	return KindConfig{
		Radius:        s.Radius,
		Speed:         s.Speed,
		Damage:        s.Damage,
		HitPoints:     s.HitPoints,
		Shield:        s.Shield,
		ShieldRegen:   dur(s.ShieldRegenMs),
		CorkscrewAmp:  [2]float64{s.CorkscrewAmpMin, s.CorkscrewAmpMax},
		CorkscrewFreq: [2]float64{s.CorkscrewFreqMin, s.CorkscrewFreqMax},
	}
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

func dur(v float64) time.Duration { return time.Duration(v * float64(time.Millisecond)) }
