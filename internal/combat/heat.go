package combat

import "math"

// HeatState is the weapon-heat value plus its overheat latch.
type HeatState struct {
	Heat       float64
	Overheated bool
}

// Step advances heat by dtMs. Heat rises only while firing and not
// overheated; otherwise it cools, more slowly while overheated. Reaching Max
// latches overheat, which clears only at or below RecoveryAt.
func (h HeatState) Step(cfg HeatConfig, firing bool, dtMs float64) HeatState {
	dt := dtMs / 1000
	switch {
	case firing && !h.Overheated:
		h.Heat += cfg.RiseRate * dt
		if h.Heat >= cfg.Max {
			h.Heat = cfg.Max
			h.Overheated = true
		}
	case h.Overheated:
		h.Heat -= cfg.OverheatCoolRate * dt
	default:
		h.Heat -= cfg.CoolRate * dt
	}
	h.Heat = math.Max(0, math.Min(h.Heat, cfg.Max))
	if h.Overheated && h.Heat <= cfg.RecoveryAt {
		h.Overheated = false
	}
	return h
}
