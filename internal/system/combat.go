package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/palmguard/sim/internal/core/event"
	coresys "github.com/palmguard/sim/internal/core/system"
	"github.com/palmguard/sim/internal/phase"
	"github.com/palmguard/sim/internal/world"
)

// ReasonHullDestroyed ends the session when the station's hull reaches zero.
const ReasonHullDestroyed = "hull-destroyed"

// CombatSystem ticks the simulation while the session is playing and ends
// the session when the hull is gone. Phase 2 (Update).
type CombatSystem struct {
	ws  *world.State
	log *zap.Logger
}

func NewCombatSystem(ws *world.State, log *zap.Logger) *CombatSystem {
	if log == nil {
		log = zap.NewNop()
	}
	s := &CombatSystem{ws: ws, log: log}
	event.Subscribe(ws.Bus, s.onPhaseChanged)
	return s
}

func (s *CombatSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *CombatSystem) Update(dt time.Duration) {
	if s.ws.Controller.Phase() != phase.Playing {
		return
	}
	res, err := s.ws.Sim.Tick(durationMs(dt), s.ws.Input)
	if err != nil {
		s.log.Error("combat tick", zap.Error(err))
		return
	}
	if len(res.Killed) > 0 {
		event.Emit(s.ws.Bus, event.EnemiesDestroyed{EnemyIDs: res.Killed, AtMs: s.ws.ClockMs})
	}
	if len(res.Breached) > 0 {
		event.Emit(s.ws.Bus, event.StationBreached{EnemyIDs: res.Breached, Hull: res.Hull, AtMs: s.ws.ClockMs})
	}
	if res.HullDestroyed {
		s.ws.Controller.End(ReasonHullDestroyed, s.ws.ClockMs)
	}
}

// onPhaseChanged rewinds the simulation whenever the session leaves play
// for calibration or a fresh start.
func (s *CombatSystem) onPhaseChanged(ev event.PhaseChanged) {
	if ev.To != phase.Calibrating && ev.To != phase.Ready {
		return
	}
	s.ws.Sim.Reset()
	s.log.Debug("simulation reset", zap.String("phase", string(ev.To)), zap.Float64("at", ev.AtMs))
}
