package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/palmguard/sim/internal/spawn"
)

// TierEntry is one row of a spawn curve file. Weights are keyed by kind
// name (fast, evasive, armored, heavy).
type TierEntry struct {
	StartMs    float64            `yaml:"start_ms"`
	IntervalMs float64            `yaml:"interval_ms"`
	Weights    map[string]float64 `yaml:"weights"`
}

type spawnCurveFile struct {
	Tiers []TierEntry `yaml:"tiers"`
}

// LoadSpawnCurve loads a difficulty curve from YAML. Interval and ordering
// checks are left to spawn.NewScheduler.
func LoadSpawnCurve(path string) ([]spawn.Tier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawn curve: %w", err)
	}
	var f spawnCurveFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spawn curve: %w", err)
	}
	if len(f.Tiers) == 0 {
		return nil, fmt.Errorf("spawn curve %s: %w", path, spawn.ErrNoTiers)
	}
	tiers := make([]spawn.Tier, 0, len(f.Tiers))
	for i, e := range f.Tiers {
		t := spawn.Tier{
			StartMs:    e.StartMs,
			IntervalMs: e.IntervalMs,
			Weights:    make(map[spawn.Kind]float64, len(e.Weights)),
		}
		for name, w := range e.Weights {
			k, err := spawn.ParseKind(name)
			if err != nil {
				return nil, fmt.Errorf("spawn curve tier %d: %w", i, err)
			}
			if w < 0 {
				return nil, fmt.Errorf("spawn curve tier %d: negative weight for %s", i, name)
			}
			t.Weights[k] = w
		}
		tiers = append(tiers, t)
	}
	return tiers, nil
}
