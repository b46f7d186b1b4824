package phase

import (
	"go.uber.org/zap"
)

// Controller is the session lifecycle state machine. It is driven entirely
// by timestamped tracker samples; it owns no clock of its own.
// Single-goroutine access only.
type Controller struct {
	cfg Config
	log *zap.Logger

	phase        Phase
	stability    stabilityRun
	lastStableAt float64
	hasStable    bool
	pauseHold    holdRun
	playingSince float64 // shifted forward by time spent paused
	pausedAt     float64

	subscribers []func(Event)
}

// NewController returns a controller in the calibrating phase.
func NewController(cfg Config, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{cfg: cfg, log: log, phase: Calibrating}
}

// Subscribe registers fn for every emitted event. Subscribers run
// synchronously in registration order. The returned func detaches fn.
func (c *Controller) Subscribe(fn func(Event)) (unsubscribe func()) {
	idx := len(c.subscribers)
	c.subscribers = append(c.subscribers, fn)
	return func() { c.subscribers[idx] = nil }
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.phase }

// StableForMs returns the current continuous stability run.
func (c *Controller) StableForMs() float64 { return c.stability.accumulated }

// PlayedMs returns the play time counted toward the limit, excluding pauses.
func (c *Controller) PlayedMs(at float64) float64 {
	switch c.phase {
	case Playing:
		return at - c.playingSince
	case Paused:
		return c.pausedAt - c.playingSince
	}
	return 0
}

// Ingest applies one sample. It returns the single event the sample caused,
// if any.
func (c *Controller) Ingest(s Sample) (Event, bool) {
	if s.Stability == Stable {
		c.lastStableAt = s.At
		c.hasStable = true
	}

	switch c.phase {
	case Calibrating:
		if s.Stability != StabilityUnknown {
			c.stability.observe(s.At, s.Stability == Stable, c.cfg.SampleGapMs)
		}
		if c.stability.active && c.stability.accumulated >= c.cfg.CalibrationStableMs {
			c.stability.reset()
			return c.transition(Ready, ReasonCalibrationComplete, s.At), true
		}

	case Ready:
		if s.Gesture != c.cfg.StartGesture {
			return Event{}, false
		}
		if !c.hasStable || s.At-c.lastStableAt > c.cfg.MaxStartGapMs {
			return c.reject(Playing, ReasonStabilityGap, s.At), true
		}
		c.playingSince = s.At
		c.pauseHold.reset()
		return c.transition(Playing, ReasonStartGesture, s.At), true

	case Playing:
		if ev, ok := c.checkPlaytime(s.At); ok {
			return ev, true
		}
		switch s.Gesture {
		case GestureUnknown:
		case c.cfg.PauseGesture:
			c.pauseHold.observe(s.At)
			if c.pauseHold.frames >= c.cfg.PauseMinFrames && c.pauseHold.heldFor(s.At) >= c.cfg.PauseHoldMs {
				c.pauseHold.reset()
				c.pausedAt = s.At
				return c.transition(Paused, ReasonPauseGesture, s.At), true
			}
		default:
			c.pauseHold.reset()
		}

	case Paused:
		if c.isResume(s.Gesture) {
			c.playingSince += s.At - c.pausedAt
			return c.transition(Playing, ReasonResumeGesture, s.At), true
		}
	}
	return Event{}, false
}

// Poll checks time-based guards without a tracker sample. Hosts call it
// once per frame so the play-time limit fires even when the tracker is
// silent.
func (c *Controller) Poll(at float64) (Event, bool) {
	if c.phase != Playing {
		return Event{}, false
	}
	return c.checkPlaytime(at)
}

// End forces game over. Valid only while playing; otherwise the attempt is
// reported as a guard rejection and nothing changes.
func (c *Controller) End(reason string, at float64) Event {
	if c.phase != Playing {
		return c.reject(GameOver, ReasonEndNotPlaying, at)
	}
	return c.transition(GameOver, reason, at)
}

// Reset unconditionally returns to calibrating and clears every
// accumulator. An event is emitted only when the phase actually changes.
func (c *Controller) Reset(at float64) (Event, bool) {
	return c.resetTo(Calibrating, at)
}

// ResetToReady returns to ready, keeping the completed calibration. Used to
// replay a session without re-calibrating.
func (c *Controller) ResetToReady(at float64) (Event, bool) {
	return c.resetTo(Ready, at)
}

func (c *Controller) resetTo(target Phase, at float64) (Event, bool) {
	c.stability.reset()
	c.pauseHold.reset()
	c.lastStableAt = 0
	c.hasStable = false
	c.playingSince = 0
	c.pausedAt = 0
	if c.phase == target {
		return Event{}, false
	}
	return c.transition(target, ReasonReset, at), true
}

func (c *Controller) checkPlaytime(at float64) (Event, bool) {
	if at-c.playingSince > c.cfg.MaxPlayMs {
		return c.transition(GameOver, ReasonPlaytimeLimit, at), true
	}
	return Event{}, false
}

func (c *Controller) isResume(g Gesture) bool {
	if g == GestureUnknown {
		return false
	}
	for _, r := range c.cfg.ResumeGestures {
		if g == r {
			return true
		}
	}
	return false
}

func (c *Controller) transition(to Phase, reason string, at float64) Event {
	ev := Event{Type: EventTransition, From: c.phase, To: to, Reason: reason, At: at}
	c.phase = to
	c.log.Debug("phase transition",
		zap.String("from", string(ev.From)),
		zap.String("to", string(to)),
		zap.String("reason", reason),
		zap.Float64("at", at))
	c.notify(ev)
	return ev
}

func (c *Controller) reject(attempted Phase, reason string, at float64) Event {
	ev := Event{Type: EventGuardRejected, From: c.phase, Attempted: attempted, Reason: reason, At: at}
	c.log.Debug("phase guard rejected",
		zap.String("from", string(c.phase)),
		zap.String("attempted", string(attempted)),
		zap.String("reason", reason),
		zap.Float64("at", at))
	c.notify(ev)
	return ev
}

func (c *Controller) notify(ev Event) {
	for _, fn := range c.subscribers {
		if fn != nil {
			fn(ev)
		}
	}
}
