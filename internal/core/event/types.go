package event

import "github.com/palmguard/sim/internal/phase"

// PhaseChanged mirrors an accepted controller transition.
type PhaseChanged struct {
	From   phase.Phase
	To     phase.Phase
	Reason string
	AtMs   float64
}

// GuardRejected mirrors a controller guard rejection.
type GuardRejected struct {
	From      phase.Phase
	Attempted phase.Phase
	Reason    string
	AtMs      float64
}

// StationBreached is emitted for every tick in which enemies hit the hull.
type StationBreached struct {
	EnemyIDs []uint64
	Hull     float64
	AtMs     float64
}

// EnemiesDestroyed is emitted for every tick with at least one kill.
type EnemiesDestroyed struct {
	EnemyIDs []uint64
	AtMs     float64
}

// FromPhase converts a controller event into its bus form.
func FromPhase(b *Bus, ev phase.Event) {
	switch ev.Type {
	case phase.EventTransition:
		Emit(b, PhaseChanged{From: ev.From, To: ev.To, Reason: ev.Reason, AtMs: ev.At})
	case phase.EventGuardRejected:
		Emit(b, GuardRejected{From: ev.From, Attempted: ev.Attempted, Reason: ev.Reason, AtMs: ev.At})
	}
}
