package render

import (
	"sync/atomic"
	"time"

	"audiocore"
	"audiocore/clock"
	"audiocore/command"
	"audiocore/sound"
	"audiocore/track"
)

// CommandKind identifies the variant carried by a Command.
type CommandKind int

const (
	AddSound CommandKind = iota
	AddSubTrack
	RemoveSubTrack
	AddEffect
	RemoveEffect
	AddClock
	RemoveClock
)

// Command is the renderer's control-plane command, covering every
// structural (not tweened) change to the render graph: adding/removing
// sounds, sub-tracks, effects, and clocks. Grounded on the original
// implementation's MixerCommand enum, extended with the sound- and
// clock-level variants spec.md adds beyond the mixer alone.
type Command struct {
	Kind CommandKind

	Sound *sound.StaticSound // AddSound

	Track         track.TrackIndex    // AddEffect, RemoveEffect, RemoveSubTrack target
	NewTrackID    track.TrackID       // AddSubTrack
	TrackSettings track.TrackSettings // AddSubTrack
	EffectID      track.EffectID      // AddEffect, RemoveEffect
	EffectSlot    *track.EffectSlot   // AddEffect

	Clock *clock.Clock // AddClock, RemoveClock
}

// Renderer orchestrates one device callback's worth of audio: draining
// structural commands, ticking clocks, advancing sounds, processing the
// mixer graph, and writing interleaved output (spec §4.6). It is driven
// exclusively from the audio device thread.
type Renderer struct {
	mixer *Mixer

	sounds    []*sound.StaticSound
	soundDrop *DeferredDrop[*sound.StaticSound]

	// cooldowns holds one entry per distinct asset cooldown gate seen so
	// far, ticked once per render step for as long as the renderer lives
	// — not just while one of its instances is in r.sounds — so a gate
	// keeps counting down after its triggering sound finishes and is
	// reaped (spec §4.3, §8.5).
	cooldowns []*sound.Cooldown

	effectDrop *DeferredDrop[*track.EffectSlot]

	clocks []*clock.Clock

	deviceSampleRate int
	cpu              *CPUUsage

	commands command.EventReader[Command]

	lastErr atomic.Pointer[audiocore.EngineError]
}

// NewRenderer returns a Renderer reading structural commands from
// commands and rendering at deviceSampleRate until told otherwise by
// OnChangeSampleRate.
func NewRenderer(deviceSampleRate int, commands command.EventReader[Command]) *Renderer {
	trackDrop := NewDeferredDrop[*track.Track](32)
	return &Renderer{
		mixer:            NewMixer(trackDrop),
		soundDrop:        NewDeferredDrop[*sound.StaticSound](deferredDropRingCapacity),
		effectDrop:       NewDeferredDrop[*track.EffectSlot](32),
		deviceSampleRate: deviceSampleRate,
		cpu:              NewCPUUsage(),
		commands:         commands,
	}
}

// CPUUsage returns the renderer's CPU-usage telemetry ring.
func (r *Renderer) CPUUsage() *CPUUsage { return r.cpu }

// LastError returns the most recent audio-thread anomaly, if any, for the
// control thread to poll and log (spec §7: the audio thread never logs or
// panics, it sets a flag). Reading does not clear it; a fresh anomaly
// simply overwrites the previous one.
func (r *Renderer) LastError() *audiocore.EngineError { return r.lastErr.Load() }

// RetiredSounds drains sounds that have reached Stopped and were removed
// from the render graph, for control-thread reclamation.
func (r *Renderer) RetiredSounds() []*sound.StaticSound { return r.soundDrop.Drain() }

// RetiredTracks drains sub-tracks removed from the render graph.
func (r *Renderer) RetiredTracks() []*track.Track { return r.mixer.drop.Drain() }

// RetiredEffects drains effect slots removed from the render graph.
func (r *Renderer) RetiredEffects() []*track.EffectSlot { return r.effectDrop.Drain() }

// OnChangeSampleRate propagates a device sample rate change to the
// mixer's effect chains and every live sound instance (spec §6).
func (r *Renderer) OnChangeSampleRate(newSampleRate int) {
	r.deviceSampleRate = newSampleRate
	r.mixer.OnChangeSampleRate(newSampleRate)
	for _, s := range r.sounds {
		s.OnChangeSampleRate(newSampleRate)
	}
}

func (r *Renderer) applyCommands() {
	for {
		cmd, ok := r.commands.Read()
		if !ok {
			return
		}
		switch cmd.Kind {
		case AddSound:
			r.sounds = append(r.sounds, cmd.Sound)
			r.registerCooldown(cmd.Sound.Cooldown())
		case AddSubTrack:
			r.mixer.AddSubTrack(cmd.NewTrackID, cmd.TrackSettings)
		case RemoveSubTrack:
			id, ok := cmd.Track.SubID()
			if !ok || !r.mixer.RemoveSubTrack(id) {
				r.lastErr.Store(audiocore.NewError(audiocore.UnknownTrackID, "remove sub-track"))
			}
		case AddEffect:
			cmd.EffectSlot.Effect.Init(r.deviceSampleRate)
			r.mixer.resolve(cmd.Track).AddEffect(cmd.EffectID, cmd.EffectSlot)
		case RemoveEffect:
			if slot, ok := r.mixer.resolve(cmd.Track).RemoveEffect(cmd.EffectID); ok {
				r.effectDrop.Retire(slot)
			} else {
				r.lastErr.Store(audiocore.NewError(audiocore.UnknownEffectID, "remove effect"))
			}
		case AddClock:
			r.clocks = append(r.clocks, cmd.Clock)
		case RemoveClock:
			for i, c := range r.clocks {
				if c == cmd.Clock {
					r.clocks = append(r.clocks[:i], r.clocks[i+1:]...)
					break
				}
			}
		}
	}
}

// registerCooldown starts tracking cd, if non-nil and not already
// tracked, so Process ticks it once per render step regardless of which
// (if any) live sound instances currently reference its asset.
func (r *Renderer) registerCooldown(cd *sound.Cooldown) {
	if cd == nil {
		return
	}
	for _, existing := range r.cooldowns {
		if existing == cd {
			return
		}
	}
	r.cooldowns = append(r.cooldowns, cd)
}

// reapFinishedSounds removes every Stopped sound from the render graph
// and hands it off via DeferredDrop, once per Process call rather than
// mid-buffer (spec §4.7).
func (r *Renderer) reapFinishedSounds() {
	live := r.sounds[:0]
	for _, s := range r.sounds {
		if s.Finished() {
			r.soundDrop.Retire(s)
			continue
		}
		live = append(live, s)
	}
	r.sounds = live
}

// channelsForFrame fills a device frame's channels from a stereo Frame,
// per spec §4.6 step 2d: the first two channels carry left/right; a
// channel count of four or more duplicates the stereo pair into the next
// two channels, and any channels beyond that are silenced.
func channelsForFrame(out []float32, stride int, frame audiocore.Frame, numChannels int) {
	for ch := 0; ch < numChannels; ch++ {
		var v float32
		switch {
		case ch == 0:
			v = frame.Left
		case ch == 1:
			v = frame.Right
		case ch == 2 && numChannels >= 4:
			v = frame.Left
		case ch == 3 && numChannels >= 4:
			v = frame.Right
		}
		out[stride+ch] = v
	}
}

// Process renders one device callback's worth of audio into outBuf,
// interleaved at numChannels per frame (spec §4.6).
func (r *Renderer) Process(outBuf []float32, numChannels int) {
	start := time.Now()

	r.applyCommands()

	frames := len(outBuf) / numChannels
	dt := 1.0 / float64(r.deviceSampleRate)
	info := track.Info{DT: dt, DeviceSampleRate: r.deviceSampleRate}

	for i := 0; i < frames; i++ {
		for _, c := range r.clocks {
			c.Tick(dt)
		}

		for _, cd := range r.cooldowns {
			cd.Update(dt)
		}

		for _, s := range r.sounds {
			out := s.Process(dt)
			r.mixer.AddInput(s.Route(), out)
		}

		final := r.mixer.Process(dt, info).Clamp()
		channelsForFrame(outBuf, i*numChannels, final, numChannels)
	}

	r.reapFinishedSounds()

	allotted := float32(frames) / float32(r.deviceSampleRate)
	if allotted > 0 {
		elapsed := float32(time.Since(start).Seconds())
		r.cpu.push(elapsed / allotted)
	}
}
