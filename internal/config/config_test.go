package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palmguard/sim/internal/combat"
	"github.com/palmguard/sim/internal/phase"
	"github.com/palmguard/sim/internal/spawn"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gdsim.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_MatchesCoreDefaults(t *testing.T) {
	cfg := Default()

	cc, err := cfg.CombatSettings()
	require.NoError(t, err)
	assert.Equal(t, combat.DefaultConfig(), cc)

	pc, err := cfg.PhaseSettings()
	require.NoError(t, err)
	assert.Equal(t, phase.DefaultConfig(), pc)

	assert.Equal(t, "pinch", cfg.Input.FireGesture)
	assert.Equal(t, "fist", cfg.Input.MissileGesture)
}

func TestLoad_OverlaysFileOnDefaults(t *testing.T) {
	path := writeFile(t, `
[sim]
seed = 42
tick_rate = "20ms"
realtime = true

[logging]
level = "debug"
format = "json"

[combat]
max_enemies = 6
fire_interval = "150ms"

[combat.missile]
cooldown = "5s"

[combat.kinds.heavy]
hit_points = 6

[phase]
resume_gestures = ["open_palm", "pinch"]
max_play = "2m"

[spawn]
curve_file = "data/spawn_curve.yaml"

[input]
replay_file = "data/replay.yaml"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Sim.Seed)
	assert.Equal(t, 20*time.Millisecond, cfg.Sim.TickRate)
	assert.True(t, cfg.Sim.Realtime)
	assert.Equal(t, 5*time.Minute, cfg.Sim.MaxDuration)
	assert.Equal(t, LoggingConfig{Level: "debug", Format: "json"}, cfg.Logging)
	assert.Equal(t, "data/spawn_curve.yaml", cfg.Spawn.CurveFile)
	assert.Equal(t, "data/replay.yaml", cfg.Input.ReplayFile)

	cc, err := cfg.CombatSettings()
	require.NoError(t, err)
	def := combat.DefaultConfig()
	assert.Equal(t, 6, cc.MaxEnemies)
	assert.Equal(t, 150.0, cc.FireIntervalMs)
	assert.Equal(t, 5000.0, cc.Missile.CooldownMs)
	assert.Equal(t, def.Missile.Speed, cc.Missile.Speed)
	assert.Equal(t, 6, cc.Kinds[spawn.KindHeavy].HitPoints)
	// Untouched stats of an overridden kind keep their defaults.
	assert.Equal(t, def.Kinds[spawn.KindHeavy].Radius, cc.Kinds[spawn.KindHeavy].Radius)
	assert.Equal(t, def.Kinds[spawn.KindEvasive], cc.Kinds[spawn.KindEvasive])

	pc, err := cfg.PhaseSettings()
	require.NoError(t, err)
	assert.Equal(t, []phase.Gesture{phase.GestureOpenPalm, phase.GesturePinch}, pc.ResumeGestures)
	assert.Equal(t, 120_000.0, pc.MaxPlayMs)
	assert.Equal(t, 1500.0, pc.CalibrationStableMs)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "[sim\nseed = 1"))
	assert.ErrorContains(t, err, "parse config")
}

func TestCombatSettings_Validates(t *testing.T) {
	cfg := Default()
	cfg.Combat.Heat.RecoveryAt = cfg.Combat.Heat.Max + 1
	_, err := cfg.CombatSettings()
	assert.ErrorIs(t, err, combat.ErrInvalidConfig)
}

func TestLoad_RejectsOutOfRangeTunables(t *testing.T) {
	for name, body := range map[string]string{
		"cool rate":   "[combat.heat]\ncool_rate = -50.0\n",
		"kind damage": "[combat.kinds.fast]\ndamage = -10.0\n",
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, body))
			require.NoError(t, err)
			_, err = cfg.CombatSettings()
			assert.ErrorIs(t, err, combat.ErrInvalidConfig)
		})
	}
}

func TestPhaseSettings_Validates(t *testing.T) {
	cfg := Default()
	cfg.Phase.StartGesture = ""
	_, err := cfg.PhaseSettings()
	assert.Error(t, err)

	cfg = Default()
	cfg.Phase.MaxPlay = 0
	_, err = cfg.PhaseSettings()
	assert.Error(t, err)
}
