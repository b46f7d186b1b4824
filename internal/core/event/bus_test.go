package event

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palmguard/sim/internal/phase"
)

type ping struct{ N int }
type pong struct{ S string }

func TestBus_DoubleBuffered(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(p ping) { got = append(got, p.N) })

	Emit(b, ping{N: 1})
	Emit(b, ping{N: 2})
	assert.Equal(t, 2, b.Pending())
	b.DispatchAll()
	assert.Empty(t, got, "events are not visible before the swap")

	b.SwapBuffers()
	assert.Equal(t, 0, b.Pending())
	b.DispatchAll()
	assert.Equal(t, []int{1, 2}, got)

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []int{1, 2}, got, "front buffer is consumed by the next swap")
}

func TestBus_DispatchOrderFollowsSubscription(t *testing.T) {
	b := NewBus()
	var log []string
	Subscribe(b, func(p pong) { log = append(log, "pong:"+p.S) })
	Subscribe(b, func(p ping) { log = append(log, "ping") })
	Subscribe(b, func(p pong) { log = append(log, "pong2:"+p.S) })

	Emit(b, ping{})
	Emit(b, pong{S: "a"})
	b.SwapBuffers()
	for i := 0; i < 10; i++ {
		log = log[:0]
		b.DispatchAll()
		assert.Equal(t, []string{"pong:a", "pong2:a", "ping"}, log)
	}
}

func TestBus_EmitDuringDispatchLandsNextTick(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(p ping) {
		got = append(got, p.N)
		if p.N < 3 {
			Emit(b, ping{N: p.N + 1})
		}
	})
	Emit(b, ping{N: 1})
	for i := 0; i < 5; i++ {
		b.SwapBuffers()
		b.DispatchAll()
	}
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestFromPhase(t *testing.T) {
	b := NewBus()
	var changed []PhaseChanged
	var rejected []GuardRejected
	Subscribe(b, func(ev PhaseChanged) { changed = append(changed, ev) })
	Subscribe(b, func(ev GuardRejected) { rejected = append(rejected, ev) })

	FromPhase(b, phase.Event{Type: phase.EventTransition, From: phase.Ready, To: phase.Playing, Reason: phase.ReasonStartGesture, At: 10})
	FromPhase(b, phase.Event{Type: phase.EventGuardRejected, From: phase.Ready, Attempted: phase.GameOver, Reason: phase.ReasonEndNotPlaying, At: 20})
	b.SwapBuffers()
	b.DispatchAll()

	assert.Equal(t, []PhaseChanged{{From: phase.Ready, To: phase.Playing, Reason: phase.ReasonStartGesture, AtMs: 10}}, changed)
	assert.Equal(t, []GuardRejected{{From: phase.Ready, Attempted: phase.GameOver, Reason: phase.ReasonEndNotPlaying, AtMs: 20}}, rejected)
}
