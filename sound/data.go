// Package sound implements the sound playback state machine (spec §3,
// §4.3): sample-accurate positioning, looping, reversal, cubic
// interpolation, and fade management for an in-memory PCM source.
package sound

import (
	"audiocore"
	"audiocore/clock"
	"audiocore/track"
)

// FrameBuffer is an immutable, shared sequence of frames at a fixed
// sample rate, with an optional slice window. It is never mutated after
// construction and may be referenced by arbitrarily many Sound
// instances — ordinary Go pointer sharing plus the GC is sufficient for
// memory safety here (spec §3's refcounting concern is about *when* the
// underlying storage is freed relative to the audio thread, addressed by
// routing Sound instances themselves through DeferredDrop rather than by
// hand-rolling a refcount).
type FrameBuffer struct {
	SampleRate int
	Frames     []audiocore.Frame
	// Slice, if non-nil, restricts playback to [Slice.Start, Slice.End)
	// frames of Frames. A nil Slice means the whole buffer is in play.
	Slice *audiocore.FrameRegion
}

// NewFrameBuffer wraps decoded frames at sampleRate. The frames are
// assumed already stereo (loader-side channel reduction/expansion has
// already happened, per spec §6).
func NewFrameBuffer(sampleRate int, frames []audiocore.Frame) *FrameBuffer {
	return &FrameBuffer{SampleRate: sampleRate, Frames: frames}
}

// WithSlice returns a shallow copy of the buffer windowed to region,
// clamped to the buffer's own length.
func (b *FrameBuffer) WithSlice(region audiocore.Region) *FrameBuffer {
	total := len(b.Frames)
	resolved := audiocore.ResolveSeconds(region, b.SampleRate, total)
	cp := *b
	cp.Slice = &resolved
	return &cp
}

// EffectiveLen returns the window length (or full buffer length if no
// slice is set) — spec §3: "the effective length of a sound is window
// length or buffer length".
func (b *FrameBuffer) EffectiveLen() int {
	if b.Slice != nil {
		return b.Slice.Len()
	}
	return len(b.Frames)
}

// sliceOffset returns the start index of the effective window within the
// raw Frames slice.
func (b *FrameBuffer) sliceOffset() int {
	if b.Slice != nil {
		return b.Slice.Start
	}
	return 0
}

// at returns the frame at the given index within the effective window,
// or silence if index is out of [0, EffectiveLen()) — used by the cubic
// interpolation neighbor lookups, which deliberately allow
// out-of-range reads (spec §4.3 step 3: "Out-of-bounds neighbors ...
// contribute silence").
func (b *FrameBuffer) at(index int) audiocore.Frame {
	if index < 0 || index >= b.EffectiveLen() {
		return audiocore.Silence
	}
	return b.Frames[b.sliceOffset()+index]
}

// StaticSoundSettings configures a StaticSoundData before it is split
// into a renderer-owned instance and a control-side handle.
type StaticSoundSettings struct {
	StartTime      clock.StartGate
	StartPosition  float64 // seconds, within the effective window
	Reverse        bool
	LoopRegion     *audiocore.Region
	Volume         audiocore.Volume
	PlaybackRate   audiocore.PlaybackRate
	Panning        audiocore.Panning
	FadeInDuration float64 // seconds; 0 disables fade-in
	Cooldown       *float64
	Route          track.TrackIndex // which track's accumulator receives this sound's output
}

// DefaultStaticSoundSettings returns settings matching the teacher's own
// SetVolume/pan defaults: unity volume, centered pan, forward playback at
// the asset's native rate, immediate start, no loop, no fade, routed to
// the main track.
func DefaultStaticSoundSettings() StaticSoundSettings {
	return StaticSoundSettings{
		StartTime:    clock.Immediate(),
		Volume:       audiocore.LinearVolume(1.0),
		PlaybackRate: audiocore.LinearRate(1.0),
		Panning:      audiocore.Center,
		Route:        track.MainTrackIndex(),
	}
}

// StaticSoundData is a piece of audio loaded into memory all at once,
// cheaply shareable across many Sound instances (the FrameBuffer is
// shared; only Settings and a Cooldown gate are per-data).
type StaticSoundData struct {
	Buffer   *FrameBuffer
	Settings StaticSoundSettings
	cooldown *Cooldown
}

// NewStaticSoundData pairs a FrameBuffer with settings and, if
// settings.Cooldown is set, a fresh Cooldown gate.
func NewStaticSoundData(buf *FrameBuffer, settings StaticSoundSettings) *StaticSoundData {
	d := &StaticSoundData{Buffer: buf, Settings: settings}
	if settings.Cooldown != nil {
		d.cooldown = NewCooldown(*settings.Cooldown)
	}
	return d
}

// Cooldown returns the data's cooldown gate, or nil if none was
// configured.
func (d *StaticSoundData) Cooldown() *Cooldown { return d.cooldown }
