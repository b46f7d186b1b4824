package phase

// Phase is a session lifecycle state.
type Phase string

const (
	Calibrating Phase = "calibrating"
	Ready       Phase = "ready"
	Playing     Phase = "playing"
	Paused      Phase = "paused"
	GameOver    Phase = "gameover"
)

// Gesture is a discrete label from the hand tracker. The empty label means
// the sample carried no gesture information at all.
type Gesture string

const (
	GestureUnknown   Gesture = ""
	GestureNone      Gesture = "none"
	GesturePinch     Gesture = "pinch"
	GestureFist      Gesture = "fist"
	GestureOpenPalm  Gesture = "open_palm"
	GestureBothPalms Gesture = "both_palms"
)

// Stability is the tracker's optional hand-stability flag.
type Stability int8

const (
	StabilityUnknown Stability = iota
	Stable
	Unstable
)

// Sample is one timestamped tracker reading.
type Sample struct {
	At        float64 // ms, monotonic
	Stability Stability
	Gesture   Gesture
}

// EventType distinguishes accepted transitions from guard rejections.
type EventType string

const (
	EventTransition    EventType = "transition"
	EventGuardRejected EventType = "guard_rejected"
)

// Transition and guard reasons.
const (
	ReasonCalibrationComplete = "calibration-complete"
	ReasonStartGesture        = "start-gesture"
	ReasonPauseGesture        = "pause-gesture"
	ReasonResumeGesture       = "resume-gesture"
	ReasonPlaytimeLimit       = "playtime-limit"
	ReasonReset               = "reset"

	ReasonStabilityGap  = "stability gap exceeded before start"
	ReasonEndNotPlaying = "cannot end when not playing"
)

// Event reports a transition (From→To) or a rejected attempt (From, Attempted).
type Event struct {
	Type      EventType
	From      Phase
	To        Phase
	Attempted Phase
	Reason    string
	At        float64
}

// Config holds the phase-guard tunables. All durations are milliseconds.
type Config struct {
	CalibrationStableMs float64
	SampleGapMs         float64 // stable samples further apart restart the stability run
	StartGesture        Gesture
	MaxStartGapMs       float64
	PauseGesture        Gesture
	PauseHoldMs         float64
	PauseMinFrames      int
	ResumeGestures      []Gesture
	MaxPlayMs           float64
}

// DefaultConfig returns the stock guard tunables.
func DefaultConfig() Config {
	return Config{
		CalibrationStableMs: 1500,
		SampleGapMs:         500,
		StartGesture:        GestureOpenPalm,
		MaxStartGapMs:       750,
		PauseGesture:        GestureBothPalms,
		PauseHoldMs:         800,
		PauseMinFrames:      8,
		ResumeGestures:      []Gesture{GestureOpenPalm},
		MaxPlayMs:           180_000,
	}
}
