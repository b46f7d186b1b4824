package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/palmguard/sim/internal/combat"
	"github.com/palmguard/sim/internal/core/event"
	coresys "github.com/palmguard/sim/internal/core/system"
	"github.com/palmguard/sim/internal/phase"
	"github.com/palmguard/sim/internal/world"
)

// SessionResult is the final scoreboard of one played session.
type SessionResult struct {
	Reason  string
	EndedMs float64
	Summary combat.Summary
}

// ReportSystem logs phase activity, emits a periodic status line while
// playing and records each session's result at game over.
// Phase 3 (PostUpdate).
type ReportSystem struct {
	ws      *world.State
	every   time.Duration
	elapsed time.Duration
	results []SessionResult
	log     *zap.Logger
}

func NewReportSystem(ws *world.State, every time.Duration, log *zap.Logger) *ReportSystem {
	if log == nil {
		log = zap.NewNop()
	}
	s := &ReportSystem{ws: ws, every: every, log: log}
	event.Subscribe(ws.Bus, s.onPhaseChanged)
	event.Subscribe(ws.Bus, s.onGuardRejected)
	event.Subscribe(ws.Bus, s.onBreach)
	return s
}

func (s *ReportSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *ReportSystem) Update(dt time.Duration) {
	if s.every <= 0 || s.ws.Controller.Phase() != phase.Playing {
		return
	}
	s.elapsed += dt
	if s.elapsed < s.every {
		return
	}
	s.elapsed = 0
	sum := s.ws.Sim.Summary()
	s.log.Info("status",
		zap.Float64("clock_ms", s.ws.ClockMs),
		zap.Float64("hull", sum.Hull),
		zap.Int("kills", sum.Kills),
		zap.Int("active", sum.Active),
		zap.Float64("heat", sum.Heat),
		zap.Bool("overheated", sum.Overheated),
		zap.Bool("missile_ready", sum.MissileReady),
	)
}

// Results returns every finished session in order.
func (s *ReportSystem) Results() []SessionResult {
	out := make([]SessionResult, len(s.results))
	copy(out, s.results)
	return out
}

func (s *ReportSystem) onPhaseChanged(ev event.PhaseChanged) {
	s.log.Info("phase",
		zap.String("from", string(ev.From)),
		zap.String("to", string(ev.To)),
		zap.String("reason", ev.Reason),
		zap.Float64("at", ev.AtMs))

	switch ev.To {
	case phase.Playing:
		if ev.From == phase.Ready {
			s.elapsed = 0
		}
	case phase.GameOver:
		sum := s.ws.Sim.Summary()
		s.results = append(s.results, SessionResult{Reason: ev.Reason, EndedMs: ev.AtMs, Summary: sum})
		s.log.Info("session over",
			zap.String("reason", ev.Reason),
			zap.Int("kills", sum.Kills),
			zap.Float64("hull", sum.Hull),
			zap.Float64("played_ms", sum.ElapsedMs))
	}
}

func (s *ReportSystem) onGuardRejected(ev event.GuardRejected) {
	s.log.Warn("phase guard rejected",
		zap.String("from", string(ev.From)),
		zap.String("attempted", string(ev.Attempted)),
		zap.String("reason", ev.Reason),
		zap.Float64("at", ev.AtMs))
}

func (s *ReportSystem) onBreach(ev event.StationBreached) {
	s.log.Info("station breached",
		zap.Int("enemies", len(ev.EnemyIDs)),
		zap.Float64("hull", ev.Hull),
		zap.Float64("at", ev.AtMs))
}
