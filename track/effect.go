// Package track implements the mixer's Track and EffectSlot types (spec
// §3, §4.4): input accumulation, an ordered effect chain, volume/pan, and
// routing to a parent track.
package track

import (
	"audiocore"
	"audiocore/tween"
)

// Info is the read-only snapshot surfaced to every Effect on each call to
// Process, carrying the timing context an effect needs without letting it
// reach into the renderer.
type Info struct {
	DT               float64
	DeviceSampleRate int
}

// Effect is the hot-path interface every in-track effect implements. Init
// and OnChangeSampleRate run on the renderer thread, same as Process, and
// must not allocate or block.
type Effect interface {
	Init(deviceSampleRate int)
	OnChangeSampleRate(newSampleRate int)
	Process(input audiocore.Frame, dt float64, info Info) audiocore.Frame
}

// EffectSlot carries an Effect plus the enable flag and mix tween that
// gate how much of its output reaches the track (spec §3: "EffectSlot").
type EffectSlot struct {
	Effect  Effect
	Enabled bool
	Mix     *tween.Tween
}

// NewEffectSlot wraps effect in a slot at full mix, enabled.
func NewEffectSlot(effect Effect) *EffectSlot {
	return &EffectSlot{Effect: effect, Enabled: true, Mix: tween.NewIdle(1.0)}
}

// process applies the slot's effect (if enabled) and blends the result
// against the dry input using the slot's mix tween, per spec §4.4 step 2:
// mixed = lerp(input, effect.process(input, dt, info), mix_value).
func (s *EffectSlot) process(input audiocore.Frame, dt float64, info Info) audiocore.Frame {
	if !s.Enabled {
		return input
	}
	wet := s.Effect.Process(input, dt, info)
	mix := float32(s.Mix.Value())
	return audiocore.Lerp(input, wet, mix)
}
