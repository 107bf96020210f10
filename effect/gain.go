// Package effect provides Effect implementations that plug into a
// track's effect chain (spec §3, §4.4).
package effect

import (
	"audiocore"
	"audiocore/tween"
	"audiocore/track"
)

// MinGain and MaxGain bound Gain's tween target, mirroring the clamp the
// teacher's automatic gain processor applies to its own internal gain
// multiplier.
const (
	MinGain = 0.1
	MaxGain = 10.0
)

// Gain is a tween-driven linear gain stage: a user sets a target
// amplitude and duration, and the effect smoothly ramps toward it. It is
// the user-controlled counterpart of an automatic gain processor, with
// the automatic feedback loop removed.
type Gain struct {
	gain *tween.Tween
}

// NewGain returns a Gain effect at unity.
func NewGain() *Gain {
	return &Gain{gain: tween.NewIdle(1.0)}
}

// SetGain tweens the gain to target (clamped to [MinGain, MaxGain]) over
// duration seconds.
func (g *Gain) SetGain(target float64, duration float64, easing tween.Easing) {
	if target < MinGain {
		target = MinGain
	}
	if target > MaxGain {
		target = MaxGain
	}
	g.gain.Start(target, duration, easing)
}

// Init is a no-op; Gain has no sample-rate-dependent state.
func (g *Gain) Init(deviceSampleRate int) {}

// OnChangeSampleRate is a no-op for the same reason.
func (g *Gain) OnChangeSampleRate(newSampleRate int) {}

// Process scales the input frame by the current tweened gain and clamps
// the result, matching the teacher's own post-gain clamp.
func (g *Gain) Process(in audiocore.Frame, dt float64, info track.Info) audiocore.Frame {
	g.gain.Advance(dt)
	return in.Scale(float32(g.gain.Value())).Clamp()
}
