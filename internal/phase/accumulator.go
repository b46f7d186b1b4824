package phase

// stabilityRun tracks how long the hand has been continuously stable.
// Any unstable sample, or a gap wider than maxGap between stable samples,
// restarts the run.
type stabilityRun struct {
	accumulated float64
	lastAt      float64
	active      bool
}

func (r *stabilityRun) observe(at float64, stable bool, maxGap float64) {
	if !stable {
		r.reset()
		return
	}
	if !r.active || at-r.lastAt > maxGap || at < r.lastAt {
		r.accumulated = 0
		r.lastAt = at
		r.active = true
		return
	}
	r.accumulated += at - r.lastAt
	r.lastAt = at
}

func (r *stabilityRun) reset() { *r = stabilityRun{} }

// holdRun counts consecutive frames of one gesture and when the run began.
type holdRun struct {
	frames  int
	startAt float64
}

func (h *holdRun) observe(at float64) {
	if h.frames == 0 {
		h.startAt = at
	}
	h.frames++
}

func (h *holdRun) heldFor(at float64) float64 {
	if h.frames == 0 {
		return 0
	}
	return at - h.startAt
}

func (h *holdRun) reset() { *h = holdRun{} }
