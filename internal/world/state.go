package world

import (
	"go.uber.org/zap"

	"github.com/palmguard/sim/internal/combat"
	"github.com/palmguard/sim/internal/core/event"
	"github.com/palmguard/sim/internal/geom"
	"github.com/palmguard/sim/internal/phase"
	"github.com/palmguard/sim/internal/spawn"
)

// State holds the session shared by host systems: the simulation clock,
// the phase controller, the combat simulation and the latest player input.
// Accessed only from the game loop goroutine; no locks needed.
type State struct {
	ClockMs float64 // host time since start, advanced by the input system

	Controller *phase.Controller
	Sim        *combat.Simulation
	Bus        *event.Bus

	// Input is rebuilt from tracker frames and consumed by the combat tick.
	Input combat.Input
}

// NewState builds the session and forwards controller events onto the bus.
func NewState(
	combatCfg combat.Config,
	phaseCfg phase.Config,
	tiers []spawn.Tier,
	seed int64,
	log *zap.Logger,
) (*State, error) {
	if log == nil {
		log = zap.NewNop()
	}
	sim, err := combat.New(combatCfg, tiers, seed, log.Named("combat"))
	if err != nil {
		return nil, err
	}
	bus := event.NewBus()
	ctrl := phase.NewController(phaseCfg, log.Named("phase"))
	ctrl.Subscribe(func(ev phase.Event) { event.FromPhase(bus, ev) })
	return &State{
		Controller: ctrl,
		Sim:        sim,
		Bus:        bus,
		Input:      combat.Input{Cursor: geom.Vec2{X: 0.5, Y: 0.5}},
	}, nil
}
