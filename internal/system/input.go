package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/palmguard/sim/internal/core/system"
	"github.com/palmguard/sim/internal/data"
	"github.com/palmguard/sim/internal/phase"
	"github.com/palmguard/sim/internal/world"
)

// GestureMap names the tracker gestures that drive the weapons.
type GestureMap struct {
	Fire    phase.Gesture
	Missile phase.Gesture
}

// InputSystem advances the host clock, feeds due replay frames to the phase
// controller and rebuilds the combat input. Phase 0 (Input).
type InputSystem struct {
	ws       *world.State
	replay   *data.Cursor
	gestures GestureMap
	start    phase.Gesture
	log      *zap.Logger
}

func NewInputSystem(ws *world.State, replay *data.Replay, gestures GestureMap, start phase.Gesture, log *zap.Logger) *InputSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &InputSystem{
		ws:       ws,
		replay:   replay.Cursor(),
		gestures: gestures,
		start:    start,
		log:      log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(dt time.Duration) {
	s.ws.ClockMs += durationMs(dt)

	for _, fr := range s.replay.Until(s.ws.ClockMs) {
		s.apply(&fr)
	}
	s.ws.Controller.Poll(s.ws.ClockMs)
}

// Exhausted reports whether every replay frame has been consumed.
func (s *InputSystem) Exhausted() bool { return s.replay.Done() }

func (s *InputSystem) apply(fr *data.ReplayFrame) {
	if c, ok := fr.CursorPos(); ok {
		s.ws.Input.Cursor = c
	}
	sample := fr.Sample()
	// An absent label keeps the weapons in their previous state.
	if sample.Gesture != phase.GestureUnknown {
		s.ws.Input.Firing = sample.Gesture == s.gestures.Fire
		s.ws.Input.Missile = sample.Gesture == s.gestures.Missile
	}

	ctrl := s.ws.Controller
	if ctrl.Phase() == phase.GameOver && sample.Gesture == s.start {
		// The start gesture after game over rearms the session without
		// re-calibrating; the next start gesture begins play.
		ctrl.ResetToReady(sample.At)
		return
	}
	ctrl.Ingest(sample)
}

func durationMs(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
