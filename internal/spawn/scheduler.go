package spawn

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrNoTiers       = errors.New("spawn: tier list is empty")
	ErrBadInterval   = errors.New("spawn: tier interval must be positive")
	ErrNegativeDelta = errors.New("spawn: negative or non-finite delta")
)

// Random is the draw source used for kind selection.
type Random interface {
	Next() float64
}

// Event is one due spawn.
type Event struct {
	AtMs float64
	Kind Kind
	Tier int // index into the sorted tier list
}

// Scheduler advances a session clock against a tiered spawn curve.
// The tier list is immutable after construction; only the clock and the
// next-due cursor move.
type Scheduler struct {
	tiers   []Tier
	src     Random
	elapsed float64
	nextDue float64
}

// NewScheduler copies and sorts tiers by StartMs. An empty list or a
// non-positive interval is rejected.
func NewScheduler(tiers []Tier, src Random) (*Scheduler, error) {
	if len(tiers) == 0 {
		return nil, ErrNoTiers
	}
	sorted := make([]Tier, len(tiers))
	for i, t := range tiers {
		if !(t.IntervalMs > 0) || math.IsInf(t.IntervalMs, 1) {
			return nil, fmt.Errorf("tier %d (start %.0fms): %w", i, t.StartMs, ErrBadInterval)
		}
		sorted[i] = t.clone()
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartMs < sorted[j].StartMs
	})
	s := &Scheduler{tiers: sorted, src: src}
	s.Reset()
	return s, nil
}

// Step advances the clock by deltaMs and returns every spawn that fell due,
// in timestamp order. A negative or non-finite delta is rejected without mutation.
func (s *Scheduler) Step(deltaMs float64) ([]Event, error) {
	if deltaMs < 0 || math.IsNaN(deltaMs) || math.IsInf(deltaMs, 0) {
		return nil, ErrNegativeDelta
	}
	s.elapsed += deltaMs

	var events []Event
	for s.nextDue <= s.elapsed {
		at := s.nextDue
		idx := s.tierIndex(at)
		events = append(events, Event{AtMs: at, Kind: s.pick(s.tiers[idx]), Tier: idx})

		// The interval comes from whichever tier owns the next slot, so a
		// boundary crossing adopts the new cadence immediately.
		nextIdx := s.tierIndex(at + s.tiers[idx].IntervalMs)
		s.nextDue = at + s.tiers[nextIdx].IntervalMs
	}
	return events, nil
}

// Reset rewinds the clock and cursor. Configuration is untouched.
func (s *Scheduler) Reset() {
	s.elapsed = 0
	s.nextDue = s.tiers[0].StartMs + s.tiers[0].IntervalMs
}

// Elapsed returns the session clock in milliseconds.
func (s *Scheduler) Elapsed() float64 { return s.elapsed }

// NextDueMs returns the timestamp of the next spawn.
func (s *Scheduler) NextDueMs() float64 { return s.nextDue }

// ActiveTier returns the tier governing atMs.
func (s *Scheduler) ActiveTier(atMs float64) Tier {
	return s.tiers[s.tierIndex(atMs)].clone()
}

// Tiers returns a copy of the sorted tier list.
func (s *Scheduler) Tiers() []Tier {
	out := make([]Tier, len(s.tiers))
	for i, t := range s.tiers {
		out[i] = t.clone()
	}
	return out
}

// tierIndex returns the last tier with StartMs <= atMs. Instants before the
// first tier belong to the first tier.
func (s *Scheduler) tierIndex(atMs float64) int {
	idx := 0
	for i := 1; i < len(s.tiers); i++ {
		if s.tiers[i].StartMs > atMs {
			break
		}
		idx = i
	}
	return idx
}

// pick draws a kind by cumulative weight in fixed kind order.
func (s *Scheduler) pick(t Tier) Kind {
	total := t.totalWeight()
	if total <= 0 {
		return DefaultKind
	}
	r := s.src.Next() * total
	var acc float64
	last := DefaultKind
	for k := Kind(0); k < KindCount; k++ {
		w := t.Weights[k]
		if w <= 0 {
			continue
		}
		acc += w
		last = k
		if r < acc {
			return k
		}
	}
	return last
}
