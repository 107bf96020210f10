package effect

import (
	"math"

	"audiocore"
	"audiocore/track"
)

// DefaultGateThreshold and DefaultGateHold mirror the teacher's
// block-based noise gate defaults (~-40 dBFS, 200ms hold), adapted here
// to continuous time since the renderer processes one Frame at a time
// rather than a fixed-size block.
const (
	DefaultGateThreshold = float32(0.01)
	DefaultGateHold      = 0.2 // seconds

	// emaCoeff sets how quickly the gate's level estimate responds to a
	// new frame; chosen to behave like a short RMS window rather than
	// reacting to every single sample swing.
	emaCoeff = 0.05
)

// Gate is a hard noise gate adapted from a block-based RMS gate to a
// streaming per-Frame form: an exponential moving average stands in for
// the windowed RMS a fixed-size block would otherwise provide.
type Gate struct {
	threshold float32
	hold      float64
	remaining float64
	enabled   bool
	open      bool
	level     float32
}

// NewGate returns a Gate with the default threshold and hold, enabled.
func NewGate() *Gate {
	return &Gate{threshold: DefaultGateThreshold, hold: DefaultGateHold, enabled: true}
}

// SetEnabled enables or disables the gate. While disabled, Process is a
// pass-through.
func (g *Gate) SetEnabled(enabled bool) {
	g.enabled = enabled
	if !enabled {
		g.remaining = 0
		g.open = false
	}
}

// Enabled reports whether the gate is currently enabled.
func (g *Gate) Enabled() bool { return g.enabled }

// SetThreshold sets the RMS-equivalent amplitude below which the gate
// closes.
func (g *Gate) SetThreshold(threshold float32) { g.threshold = threshold }

// IsOpen reports whether the gate is currently passing audio.
func (g *Gate) IsOpen() bool { return g.open }

// Init is a no-op; Gate has no sample-rate-dependent state.
func (g *Gate) Init(deviceSampleRate int) {}

// OnChangeSampleRate is a no-op for the same reason.
func (g *Gate) OnChangeSampleRate(newSampleRate int) {}

// Process updates the gate's level estimate from the frame's
// instantaneous amplitude and either passes the frame through or zeroes
// it, per the teacher's own hold-then-zero gate shape.
func (g *Gate) Process(in audiocore.Frame, dt float64, info track.Info) audiocore.Frame {
	amplitude := float32(math.Sqrt(float64(in.Left*in.Left+in.Right*in.Right) / 2))
	g.level += emaCoeff * (amplitude - g.level)

	if !g.enabled {
		g.open = true
		return in
	}

	if g.level >= g.threshold {
		g.remaining = g.hold
		g.open = true
		return in
	}

	if g.remaining > 0 {
		g.remaining -= dt
		g.open = true
		return in
	}

	g.open = false
	return audiocore.Silence
}
