package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palmguard/sim/internal/combat"
	"github.com/palmguard/sim/internal/core/event"
	coresys "github.com/palmguard/sim/internal/core/system"
	"github.com/palmguard/sim/internal/data"
	"github.com/palmguard/sim/internal/geom"
	"github.com/palmguard/sim/internal/phase"
	"github.com/palmguard/sim/internal/spawn"
	"github.com/palmguard/sim/internal/world"
)

const tick = 50 * time.Millisecond

var quietTiers = []spawn.Tier{{StartMs: 1e9, IntervalMs: 1e9, Weights: map[spawn.Kind]float64{spawn.KindFast: 1}}}

func testPhaseConfig() phase.Config {
	return phase.Config{
		CalibrationStableMs: 200,
		SampleGapMs:         100,
		StartGesture:        phase.GestureOpenPalm,
		MaxStartGapMs:       100,
		PauseGesture:        phase.GestureBothPalms,
		PauseHoldMs:         100,
		PauseMinFrames:      3,
		ResumeGestures:      []phase.Gesture{phase.GestureOpenPalm},
		MaxPlayMs:           60_000,
	}
}

// span returns stable frames every 50ms from..to inclusive.
func span(from, to float64, g phase.Gesture) []data.ReplayFrame {
	var out []data.ReplayFrame
	for at := from; at <= to; at += 50 {
		out = append(out, frame(at, g))
	}
	return out
}

func frame(at float64, g phase.Gesture) data.ReplayFrame {
	stable := true
	return data.ReplayFrame{At: at, Stable: &stable, Gesture: string(g)}
}

// opening calibrates by 200ms and starts play at 300ms.
func opening() []data.ReplayFrame {
	return append(span(0, 250, phase.GestureNone), frame(300, phase.GestureOpenPalm))
}

type harness struct {
	ws     *world.State
	runner *coresys.Runner
	input  *InputSystem
	report *ReportSystem
}

func newHarness(t *testing.T, cc combat.Config, pc phase.Config, tiers []spawn.Tier, frames []data.ReplayFrame) *harness {
	t.Helper()
	ws, err := world.NewState(cc, pc, tiers, 1, nil)
	require.NoError(t, err)
	replay, err := data.NewReplay(frames)
	require.NoError(t, err)

	h := &harness{ws: ws, runner: coresys.NewRunner()}
	h.input = NewInputSystem(ws, replay, GestureMap{Fire: phase.GesturePinch, Missile: phase.GestureFist}, pc.StartGesture, nil)
	h.report = NewReportSystem(ws, time.Second, nil)
	h.runner.Register(h.report)
	h.runner.Register(NewCombatSystem(ws, nil))
	h.runner.Register(NewEventDispatchSystem(ws.Bus))
	h.runner.Register(h.input)
	return h
}

func (h *harness) runUntil(clockMs float64) {
	for h.ws.ClockMs < clockMs {
		h.runner.Tick(tick)
	}
}

func TestSession_CombatTicksOnlyWhilePlaying(t *testing.T) {
	frames := append(opening(), span(350, 2000, phase.GestureNone)...)
	h := newHarness(t, combat.DefaultConfig(), testPhaseConfig(), quietTiers, frames)

	h.runUntil(250)
	assert.Equal(t, phase.Ready, h.ws.Controller.Phase())
	assert.Equal(t, 0.0, h.ws.Sim.Summary().ElapsedMs)

	h.runUntil(300)
	assert.Equal(t, phase.Playing, h.ws.Controller.Phase())
	assert.Equal(t, 50.0, h.ws.Sim.Summary().ElapsedMs)

	h.runUntil(1000)
	assert.Equal(t, 750.0, h.ws.Sim.Summary().ElapsedMs)
}

func TestSession_PauseFreezesSimulation(t *testing.T) {
	frames := opening()
	frames = append(frames, span(350, 950, phase.GestureNone)...)
	frames = append(frames, span(1000, 1200, phase.GestureBothPalms)...)
	frames = append(frames, span(1250, 1450, phase.GestureNone)...)
	frames = append(frames, frame(1500, phase.GestureOpenPalm))
	frames = append(frames, span(1550, 2000, phase.GestureNone)...)
	h := newHarness(t, combat.DefaultConfig(), testPhaseConfig(), quietTiers, frames)

	h.runUntil(1100)
	assert.Equal(t, phase.Paused, h.ws.Controller.Phase())
	assert.Equal(t, 800.0, h.ws.Sim.Summary().ElapsedMs)

	h.runUntil(1450)
	assert.Equal(t, 800.0, h.ws.Sim.Summary().ElapsedMs)

	h.runUntil(2000)
	assert.Equal(t, phase.Playing, h.ws.Controller.Phase())
	assert.Equal(t, 1350.0, h.ws.Sim.Summary().ElapsedMs)
	assert.Equal(t, 1300.0, h.ws.Controller.PlayedMs(2000))
}

func TestSession_HullDestroyedThenRestart(t *testing.T) {
	cc := combat.DefaultConfig()
	cc.MaxHull = 5
	cc.SpawnRadius = 2
	cc.SpawnDepth = 2
	tiers := []spawn.Tier{{StartMs: 0, IntervalMs: 100, Weights: map[spawn.Kind]float64{spawn.KindFast: 1}}}

	frames := opening()
	frames = append(frames, span(350, 950, phase.GestureNone)...)
	frames = append(frames, frame(1000, phase.GestureOpenPalm), frame(1050, phase.GestureOpenPalm))
	h := newHarness(t, cc, testPhaseConfig(), tiers, frames)

	var breaches []event.StationBreached
	event.Subscribe(h.ws.Bus, func(ev event.StationBreached) { breaches = append(breaches, ev) })

	h.runUntil(950)
	assert.Equal(t, phase.GameOver, h.ws.Controller.Phase())
	require.Len(t, h.report.Results(), 1)
	res := h.report.Results()[0]
	assert.Equal(t, ReasonHullDestroyed, res.Reason)
	assert.Equal(t, 0.0, res.Summary.Hull)
	assert.Positive(t, res.Summary.Breaches)
	require.NotEmpty(t, breaches)
	assert.Equal(t, 0.0, breaches[len(breaches)-1].Hull)

	// Game over keeps the scoreboard until the session is rearmed.
	assert.Equal(t, 0.0, h.ws.Sim.Summary().Hull)

	h.runUntil(1000)
	assert.Equal(t, phase.Ready, h.ws.Controller.Phase())
	sum := h.ws.Sim.Summary()
	assert.Equal(t, 5.0, sum.Hull)
	assert.Equal(t, 0.0, sum.ElapsedMs)
	assert.Equal(t, 0, sum.Spawns)

	h.runUntil(1050)
	assert.Equal(t, phase.Playing, h.ws.Controller.Phase())
	assert.Equal(t, 50.0, h.ws.Sim.Summary().ElapsedMs)
}

func TestSession_PlaytimeLimitFiresWithoutSamples(t *testing.T) {
	pc := testPhaseConfig()
	pc.MaxPlayMs = 500
	h := newHarness(t, combat.DefaultConfig(), pc, quietTiers, opening())

	h.runUntil(800)
	assert.Equal(t, phase.Playing, h.ws.Controller.Phase())
	assert.True(t, h.input.Exhausted())

	h.runUntil(850)
	assert.Equal(t, phase.GameOver, h.ws.Controller.Phase())
	h.runUntil(900)
	require.Len(t, h.report.Results(), 1)
	assert.Equal(t, phase.ReasonPlaytimeLimit, h.report.Results()[0].Reason)
}

func TestInputSystem_GestureMapping(t *testing.T) {
	frames := []data.ReplayFrame{
		{At: 0, Gesture: string(phase.GesturePinch), Cursor: []float64{0.2, 0.3}},
		{At: 50},
		{At: 100, Gesture: string(phase.GestureFist)},
		{At: 150, Gesture: string(phase.GestureNone), Cursor: []float64{0.9, 0.1}},
	}
	h := newHarness(t, combat.DefaultConfig(), testPhaseConfig(), quietTiers, frames)

	h.runner.Tick(tick)
	assert.Equal(t, combat.Input{Cursor: geom.Vec2{X: 0.2, Y: 0.3}, Firing: true}, h.ws.Input)

	h.runner.Tick(tick)
	assert.Equal(t, combat.Input{Cursor: geom.Vec2{X: 0.2, Y: 0.3}, Missile: true}, h.ws.Input)

	h.runner.Tick(tick)
	assert.Equal(t, combat.Input{Cursor: geom.Vec2{X: 0.9, Y: 0.1}}, h.ws.Input)
	assert.True(t, h.input.Exhausted())
	assert.Equal(t, phase.Calibrating, h.ws.Controller.Phase())
}

func TestReportSystem_StatusOnlyWhilePlaying(t *testing.T) {
	frames := append(opening(), span(350, 3000, phase.GestureNone)...)
	h := newHarness(t, combat.DefaultConfig(), testPhaseConfig(), quietTiers, frames)
	h.runUntil(3000)
	assert.Empty(t, h.report.Results())
	assert.Less(t, h.report.elapsed, time.Second)
}
