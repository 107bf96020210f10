package sound

import (
	"math"
	"sync/atomic"

	"audiocore"
	"audiocore/clock"
	"audiocore/track"
	"audiocore/tween"
)

// PlaybackState is the Sound lifecycle state (spec §4.3).
type PlaybackState int32

const (
	Queued PlaybackState = iota
	Playing
	Paused
	Stopping
	Stopped
)

func (s PlaybackState) String() string {
	switch s {
	case Queued:
		return "Queued"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case Stopping:
		return "Stopping"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// defaultFadeOutSeconds is used for a natural (non-forced) stop reaching
// the end of a non-looping sound, or a stop command with no explicit
// fade-out tween.
const defaultFadeOutSeconds = 0.01

// SharedState is the cross-thread telemetry block written by the renderer
// with release semantics and read by handles with acquire semantics
// (spec §5). sync/atomic gives us exactly that on a single word each.
type SharedState struct {
	positionBits atomic.Uint64 // math.Float64bits(seconds)
	state        atomic.Int32
}

func (s *SharedState) store(position float64, state PlaybackState) {
	s.positionBits.Store(math.Float64bits(position))
	s.state.Store(int32(state))
}

// Position returns the last-published playback position, in seconds.
func (s *SharedState) Position() float64 {
	return math.Float64frombits(s.positionBits.Load())
}

// State returns the last-published lifecycle state.
func (s *SharedState) State() PlaybackState {
	return PlaybackState(s.state.Load())
}

// StaticSound is a renderer-owned playback instance over a shared
// FrameBuffer (spec §3, §4.3). It is never touched by the control thread
// directly — only through the command channels created alongside it.
type StaticSound struct {
	data *StaticSoundData

	cursor    float64 // frame index within the effective window
	rate      *tween.Tween
	volume    *tween.Tween
	panning   *tween.Tween
	fadeIn    *tween.Tween
	fadeOut   *tween.Tween // only meaningful while Stopping
	loop      *audiocore.FrameRegion

	startGate   clock.StartGate
	state       PlaybackState
	deviceRate  int

	readers commandReaders
	shared  *SharedState
}

// split constructs a renderer-owned StaticSound and its control-side
// command writers + shared telemetry block, mirroring the original
// implementation's StaticSoundData::split.
func split(data *StaticSoundData, deviceSampleRate int) (*StaticSound, *StaticSoundHandle) {
	writers, readers := newCommandChannels()
	shared := &SharedState{}
	shared.store(data.Settings.StartPosition, Queued)

	s := &StaticSound{
		data:       data,
		cursor:     data.Settings.StartPosition * float64(data.Buffer.SampleRate),
		rate:       tween.NewIdle(data.Settings.PlaybackRate.Factor()),
		volume:     tween.NewIdle(data.Settings.Volume.Amplitude()),
		panning:    tween.NewIdle(float64(data.Settings.Panning)),
		fadeIn:     tween.NewIdle(1.0),
		fadeOut:    tween.NewIdle(1.0),
		startGate:  data.Settings.StartTime,
		state:      Queued,
		deviceRate: deviceSampleRate,
		readers:    readers,
		shared:     shared,
	}
	if data.Settings.Reverse {
		s.rate.Set(-data.Settings.PlaybackRate.Factor())
	}
	if data.Settings.LoopRegion != nil {
		region := audiocore.ResolveSeconds(*data.Settings.LoopRegion, data.Buffer.SampleRate, data.Buffer.EffectiveLen())
		s.loop = &region
	}
	if data.Settings.FadeInDuration > 0 {
		s.fadeIn.Set(0.0)
		s.fadeIn.Start(1.0, data.Settings.FadeInDuration, tween.Linear)
	}

	return s, &StaticSoundHandle{writers: writers, shared: shared, dataSampleRate: data.Buffer.SampleRate}
}

// NewInstance builds a live StaticSound + handle from shareable data,
// bypassing any cooldown gate (spec §4.3: "sound instances created
// directly bypass cooldown").
func NewInstance(data *StaticSoundData, deviceSampleRate int) (*StaticSound, *StaticSoundHandle) {
	return split(data, deviceSampleRate)
}

// OnChangeSampleRate rescales the instance's notion of the device sample
// rate, per spec §6 ("propagated to every effect and sound instance").
func (s *StaticSound) OnChangeSampleRate(newSampleRate int) {
	s.deviceRate = newSampleRate
}

// Finished reports whether the instance is Stopped and eligible for
// DeferredDrop reclamation.
func (s *StaticSound) Finished() bool { return s.state == Stopped }

// State returns the instance's current lifecycle state.
func (s *StaticSound) State() PlaybackState { return s.state }

// Route returns the track this instance's output should be added into
// (spec §4.3 step 5).
func (s *StaticSound) Route() track.TrackIndex { return s.data.Settings.Route }

// Cooldown returns this instance's underlying asset's cooldown gate, or
// nil if its data was never configured with one. Exposed so the renderer
// can register the gate to be ticked once per render step independent of
// any one instance's lifetime (spec §4.3).
func (s *StaticSound) Cooldown() *Cooldown { return s.data.Cooldown() }

// applyCommands drains every pending command in the fixed order spec
// §4.2 mandates: start time (checked by the caller's Process, not here)
// → pause/resume/stop → seek → playback region → loop region → tweened
// scalars (volume, panning, rate) → fade-in tween.
func (s *StaticSound) applyCommands() {
	if _, ok := s.readers.pause.Read(); ok {
		if s.state == Playing {
			s.state = Paused
		}
	}
	if _, ok := s.readers.resume.Read(); ok {
		if s.state == Paused {
			s.state = Playing
		}
	}
	if cmd, ok := s.readers.stop.Read(); ok {
		if s.state == Paused {
			s.state = Stopped
		} else if s.state != Stopped {
			if cmd.immediate {
				s.state = Stopped
			} else {
				s.beginStopping(cmd.fadeOut)
			}
		}
	}

	if cmd, ok := s.readers.seekTo.Read(); ok {
		s.cursor = cmd.seconds * float64(s.data.Buffer.SampleRate)
		s.clampCursorToSlice()
	}
	if cmd, ok := s.readers.seekBy.Read(); ok {
		s.cursor += cmd.seconds * float64(s.data.Buffer.SampleRate)
		s.clampCursorToSlice()
	}

	if cmd, ok := s.readers.playbackRegion.Read(); ok {
		s.data.Buffer = s.data.Buffer.WithSlice(cmd.region)
		s.clampCursorToSlice()
	}

	if cmd, ok := s.readers.loopRegion.Read(); ok {
		if cmd.region == nil {
			s.loop = nil
		} else {
			region := audiocore.ResolveSeconds(*cmd.region, s.data.Buffer.SampleRate, s.data.Buffer.EffectiveLen())
			s.loop = &region
		}
	}

	if cmd, ok := s.readers.volume.Read(); ok {
		s.volume.Start(cmd.target.Amplitude(), cmd.params.Duration, cmd.params.Easing)
	}
	if cmd, ok := s.readers.panning.Read(); ok {
		s.panning.Start(float64(cmd.target), cmd.params.Duration, cmd.params.Easing)
	}
	if cmd, ok := s.readers.rate.Read(); ok {
		sign := 1.0
		if s.data.Settings.Reverse {
			sign = -1.0
		}
		s.rate.Start(sign*cmd.target.Factor(), cmd.params.Duration, cmd.params.Easing)
	}

	if cmd, ok := s.readers.fadeIn.Read(); ok {
		s.fadeIn.Set(0.0)
		s.fadeIn.Start(1.0, cmd.params.Duration, cmd.params.Easing)
	}
}

func (s *StaticSound) beginStopping(fade TweenParams) {
	s.state = Stopping
	dur := fade.Duration
	if dur <= 0 {
		dur = defaultFadeOutSeconds
	}
	s.fadeOut.Set(1.0)
	s.fadeOut.Start(0.0, dur, fade.Easing)
}

func (s *StaticSound) clampCursorToSlice() {
	effectiveLen := float64(s.data.Buffer.EffectiveLen())
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor > effectiveLen {
		s.cursor = effectiveLen
	}
}

// Process advances the instance by one device frame (dt = 1/deviceRate)
// and returns the Frame it should contribute to its Track, per spec
// §4.3. Call exactly once per device frame; each call first drains any
// pending commands via applyCommands.
func (s *StaticSound) Process(dt float64) audiocore.Frame {
	s.applyCommands()

	if s.state == Queued {
		if s.startGate.Satisfied() {
			s.state = Playing
		} else {
			s.publish()
			return audiocore.Silence
		}
	}

	if s.state == Paused || s.state == Stopped {
		s.publish()
		return audiocore.Silence
	}

	// Playing or Stopping: advance the tweens and the cursor.
	s.rate.Advance(dt)
	s.volume.Advance(dt)
	s.panning.Advance(dt)
	s.fadeIn.Advance(dt)
	if s.state == Stopping {
		s.fadeOut.Advance(dt)
	}

	assetRate := float64(s.data.Buffer.SampleRate)
	deviceRate := float64(s.deviceRate)
	if deviceRate <= 0 {
		deviceRate = assetRate
	}
	effectiveRate := s.rate.Value() * (deviceRate / assetRate)
	s.cursor += effectiveRate

	s.resolveBoundary(effectiveRate)

	out := s.sampleAt(s.cursor)

	volumeMul := float32(s.volume.Value() * s.fadeIn.Value())
	if s.state == Stopping {
		volumeMul *= float32(s.fadeOut.Value())
	}
	left, right := audiocore.Panning(s.panning.Value()).Gains()
	out = out.Scale(volumeMul).Panned(left, right)

	if s.state == Stopping && s.fadeOut.Idle() && s.fadeOut.Value() == 0 {
		s.state = Stopped
	}

	s.publish()
	return out
}

// resolveBoundary handles loop wraparound and end-of-audio transition to
// Stopping, per spec §4.3 step 2.
func (s *StaticSound) resolveBoundary(rate float64) {
	effectiveLen := float64(s.data.Buffer.EffectiveLen())

	if s.loop != nil {
		start := float64(s.loop.Start)
		end := float64(s.loop.End)
		span := end - start
		if span <= 0 {
			return
		}
		if rate >= 0 {
			for s.cursor >= end {
				s.cursor -= span
			}
		} else {
			for s.cursor < start {
				s.cursor += span
			}
		}
		return
	}

	if rate >= 0 {
		if s.cursor >= effectiveLen && s.state == Playing {
			s.beginStopping(TweenParams{})
		}
	} else {
		if s.cursor < 0 && s.state == Playing {
			s.beginStopping(TweenParams{})
		}
	}
}

// sampleAt computes the (possibly fractional) sample at cursor using
// 4-point cubic Hermite interpolation, per spec §4.3 step 3. The
// coefficients are carried over verbatim from the original
// implementation's Sound::get_sample_at_position.
func (s *StaticSound) sampleAt(cursor float64) audiocore.Frame {
	base := math.Floor(cursor)
	x := float32(cursor - base)
	i := int(base)

	y0 := s.data.Buffer.at(i - 1)
	y1 := s.data.Buffer.at(i)
	y2 := s.data.Buffer.at(i + 1)
	y3 := s.data.Buffer.at(i + 2)

	c0 := y1
	c1 := y2.Sub(y0).Scale(0.5)
	c2 := y0.Sub(y1.Scale(2.5)).Add(y2.Scale(2.0)).Sub(y3.Scale(0.5))
	c3 := y3.Sub(y0).Scale(0.5).Add(y1.Sub(y2).Scale(1.5))

	return c3.Scale(x).Add(c2).Scale(x).Add(c1).Scale(x).Add(c0)
}

func (s *StaticSound) publish() {
	s.shared.store(s.cursor/float64(s.data.Buffer.SampleRate), s.state)
}
