package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: feed tracker samples to the phase controller
	PhasePreUpdate               // 1: process last tick's events
	PhaseUpdate                  // 2: combat simulation
	PhasePostUpdate              // 3: reporting
)

// System is the interface every host system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
