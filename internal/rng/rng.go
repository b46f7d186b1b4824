package rng

// LCG constants (Numerical Recipes). All arithmetic wraps at 2^32 so the
// stream is bit-identical on every platform.
const (
	lcgMul uint32 = 1664525
	lcgAdd uint32 = 1013904223
	lcgMod        = 4294967296.0 // 2^32
)

// Source is a seeded pseudo-random generator producing a reproducible
// [0,1) stream. Single-goroutine use only.
type Source struct {
	seed  uint32
	state uint32
}

// New returns a Source seeded with seed. Only the low 32 bits are used.
func New(seed int64) *Source {
	s := uint32(seed)
	return &Source{seed: s, state: s}
}

// Next advances the state and returns a value in [0,1).
func (s *Source) Next() float64 {
	s.state = s.state*lcgMul + lcgAdd
	return float64(s.state) / lcgMod
}

// Range returns a value in [lo,hi).
func (s *Source) Range(lo, hi float64) float64 {
	return lo + s.Next()*(hi-lo)
}

// Seed returns the construction seed.
func (s *Source) Seed() uint32 { return s.seed }

// Reset rewinds the stream to its seed.
func (s *Source) Reset() { s.state = s.seed }
