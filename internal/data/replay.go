package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/palmguard/sim/internal/geom"
	"github.com/palmguard/sim/internal/phase"
)

// ReplayFrame is one recorded tracker sample. Stable is omitted when the
// tracker had no opinion; Cursor is omitted when no hand was visible.
type ReplayFrame struct {
	At      float64   `yaml:"at"` // ms since session start
	Stable  *bool     `yaml:"stable"`
	Gesture string    `yaml:"gesture"`
	Cursor  []float64 `yaml:"cursor"` // [x, y] normalized

	cursor *geom.Vec2
}

// Sample converts the frame into controller input.
func (f *ReplayFrame) Sample() phase.Sample {
	s := phase.Sample{At: f.At, Gesture: phase.Gesture(f.Gesture)}
	switch {
	case f.Stable == nil:
		s.Stability = phase.StabilityUnknown
	case *f.Stable:
		s.Stability = phase.Stable
	default:
		s.Stability = phase.Unstable
	}
	return s
}

// CursorPos returns the normalized cursor, if the frame carries one.
func (f *ReplayFrame) CursorPos() (geom.Vec2, bool) {
	if f.cursor == nil {
		return geom.Vec2{}, false
	}
	return *f.cursor, true
}

type replayFile struct {
	Frames []ReplayFrame `yaml:"frames"`
}

// Replay is a recorded tracker stream ordered by timestamp.
type Replay struct {
	frames []ReplayFrame
}

// LoadReplay loads a tracker recording from YAML.
func LoadReplay(path string) (*Replay, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay: %w", err)
	}
	var f replayFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse replay: %w", err)
	}
	return NewReplay(f.Frames)
}

// NewReplay validates frames and wraps them. Timestamps must not decrease
// and cursors must be two components inside the unit square.
func NewReplay(frames []ReplayFrame) (*Replay, error) {
	out := make([]ReplayFrame, len(frames))
	for i := range frames {
		fr := frames[i]
		if i > 0 && fr.At < frames[i-1].At {
			return nil, fmt.Errorf("replay frame %d: timestamp %.0f goes backwards", i, fr.At)
		}
		if fr.Cursor != nil {
			if len(fr.Cursor) != 2 {
				return nil, fmt.Errorf("replay frame %d: cursor needs 2 components, got %d", i, len(fr.Cursor))
			}
			c := geom.Vec2{X: fr.Cursor[0], Y: fr.Cursor[1]}
			if c.X < 0 || c.X > 1 || c.Y < 0 || c.Y > 1 {
				return nil, fmt.Errorf("replay frame %d: cursor %v outside [0,1]", i, fr.Cursor)
			}
			fr.cursor = &c
		}
		out[i] = fr
	}
	return &Replay{frames: out}, nil
}

// Len returns the number of frames.
func (r *Replay) Len() int { return len(r.frames) }

// Frame returns frame i.
func (r *Replay) Frame(i int) *ReplayFrame { return &r.frames[i] }

// DurationMs is the timestamp of the last frame.
func (r *Replay) DurationMs() float64 {
	if len(r.frames) == 0 {
		return 0
	}
	return r.frames[len(r.frames)-1].At
}

// Cursor walks a replay in timestamp order.
type Cursor struct {
	r    *Replay
	next int
}

// Cursor returns a reader positioned at the first frame.
func (r *Replay) Cursor() *Cursor { return &Cursor{r: r} }

// Until returns every frame with At <= at not yet returned.
func (c *Cursor) Until(at float64) []ReplayFrame {
	start := c.next
	for c.next < len(c.r.frames) && c.r.frames[c.next].At <= at {
		c.next++
	}
	return c.r.frames[start:c.next]
}

// Done reports whether every frame has been returned.
func (c *Cursor) Done() bool { return c.next >= len(c.r.frames) }

// Rewind moves back to the first frame.
func (c *Cursor) Rewind() { c.next = 0 }
