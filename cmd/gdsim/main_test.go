package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/palmguard/sim/internal/config"
	"github.com/palmguard/sim/internal/phase"
	"github.com/palmguard/sim/internal/spawn"
)

func TestDemoFrames_FormValidReplay(t *testing.T) {
	pc := phase.DefaultConfig()
	r, err := loadReplay("", pc)
	require.NoError(t, err)
	assert.Positive(t, r.Len())

	starts := 0
	for i := 0; i < r.Len(); i++ {
		if phase.Gesture(r.Frame(i).Gesture) == pc.StartGesture {
			starts++
		}
	}
	assert.GreaterOrEqual(t, starts, 2, "one start and one resume")
}

func TestLoadTiers_Fallbacks(t *testing.T) {
	log := zap.NewNop()

	tiers, source, err := loadTiers(config.SpawnConfig{}, log)
	require.NoError(t, err)
	assert.Equal(t, spawn.DefaultTiers(), tiers)
	assert.Equal(t, "built-in curve", source)

	dir := t.TempDir()
	curve := filepath.Join(dir, "curve.yaml")
	require.NoError(t, os.WriteFile(curve, []byte("tiers:\n  - {start_ms: 0, interval_ms: 500, weights: {heavy: 1}}\n"), 0o644))

	// A scripts dir without the hook falls through to the YAML curve.
	tiers, source, err = loadTiers(config.SpawnConfig{CurveFile: curve, ScriptsDir: dir}, log)
	require.NoError(t, err)
	assert.Equal(t, curve, source)
	require.Len(t, tiers, 1)
	assert.Equal(t, 1.0, tiers[0].Weights[spawn.KindHeavy])

	require.NoError(t, os.WriteFile(filepath.Join(dir, "curve.lua"), []byte(
		"function spawn_tiers() return { { start_ms = 0, interval_ms = 250, weights = { fast = 1 } } } end\n"), 0o644))
	tiers, _, err = loadTiers(config.SpawnConfig{CurveFile: curve, ScriptsDir: dir}, log)
	require.NoError(t, err)
	require.Len(t, tiers, 1)
	assert.Equal(t, 250.0, tiers[0].IntervalMs)
}
