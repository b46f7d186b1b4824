package spawn

// Tier governs spawning from StartMs until the next tier starts.
type Tier struct {
	StartMs    float64
	IntervalMs float64
	Weights    map[Kind]float64
}

func (t Tier) clone() Tier {
	w := make(map[Kind]float64, len(t.Weights))
	for k, v := range t.Weights {
		w[k] = v
	}
	t.Weights = w
	return t
}

// totalWeight sums the positive weights of known kinds.
func (t Tier) totalWeight() float64 {
	var total float64
	for k := Kind(0); k < KindCount; k++ {
		if w := t.Weights[k]; w > 0 {
			total += w
		}
	}
	return total
}

// DefaultTiers is the stock difficulty ramp: fast-only at first, then
// evasive, armored and heavy kinds join as the interval tightens.
func DefaultTiers() []Tier {
	return []Tier{
		{StartMs: 0, IntervalMs: 1800, Weights: map[Kind]float64{KindFast: 1}},
		{StartMs: 20_000, IntervalMs: 1400, Weights: map[Kind]float64{KindFast: 3, KindEvasive: 1}},
		{StartMs: 40_000, IntervalMs: 1100, Weights: map[Kind]float64{KindFast: 3, KindEvasive: 2, KindArmored: 1}},
		{StartMs: 60_000, IntervalMs: 900, Weights: map[Kind]float64{KindFast: 2, KindEvasive: 2, KindArmored: 2, KindHeavy: 1}},
	}
}
