package sound

import "audiocore"

// StaticSoundHandle is the control-side reference to a playing Sound
// instance (spec §4.3, §5). Every setter is non-blocking: it writes a
// "latest wins" command and returns immediately, safe to call from any
// goroutine.
type StaticSoundHandle struct {
	writers        commandWriters
	shared         *SharedState
	dataSampleRate int
}

// Position returns the most recently published playback position, in
// seconds.
func (h *StaticSoundHandle) Position() float64 { return h.shared.Position() }

// State returns the most recently published lifecycle state.
func (h *StaticSoundHandle) State() PlaybackState { return h.shared.State() }

// SetVolume tweens the instance's volume to target using params.
func (h *StaticSoundHandle) SetVolume(target audiocore.Volume, params TweenParams) {
	h.writers.volume.Write(volumeCmd{target: target, params: params})
}

// SetPanning tweens the instance's stereo panning.
func (h *StaticSoundHandle) SetPanning(target audiocore.Panning, params TweenParams) {
	h.writers.panning.Write(panningCmd{target: target, params: params})
}

// SetPlaybackRate tweens the instance's playback rate. The sign of the
// instance's original Reverse setting is preserved automatically.
func (h *StaticSoundHandle) SetPlaybackRate(target audiocore.PlaybackRate, params TweenParams) {
	h.writers.rate.Write(rateCmd{target: target, params: params})
}

// SetLoopRegion changes or clears (region == nil) the instance's loop
// region.
func (h *StaticSoundHandle) SetLoopRegion(region *audiocore.Region) {
	h.writers.loopRegion.Write(loopRegionCmd{region: region})
}

// SetPlaybackRegion re-windows the instance's underlying buffer.
func (h *StaticSoundHandle) SetPlaybackRegion(region audiocore.Region) {
	h.writers.playbackRegion.Write(playbackRegionCmd{region: region})
}

// Pause transitions a Playing instance to Paused on the next render.
func (h *StaticSoundHandle) Pause() { h.writers.pause.Write(struct{}{}) }

// Resume transitions a Paused instance back to Playing on the next
// render.
func (h *StaticSoundHandle) Resume() { h.writers.resume.Write(struct{}{}) }

// Stop begins the Stopping fade-out using fade, or stops immediately if
// immediate is true. A Paused instance stops immediately regardless of
// immediate, per spec §4.3 (no fade-out audio is rendered while paused).
func (h *StaticSoundHandle) Stop(fade TweenParams, immediate bool) {
	h.writers.stop.Write(stopCmd{fadeOut: fade, immediate: immediate})
}

// SeekTo moves the playback cursor to an absolute position, in seconds
// within the effective window.
func (h *StaticSoundHandle) SeekTo(seconds float64) {
	h.writers.seekTo.Write(seekToCmd{seconds: seconds})
}

// SeekBy moves the playback cursor by a relative offset, in seconds.
func (h *StaticSoundHandle) SeekBy(seconds float64) {
	h.writers.seekBy.Write(seekByCmd{seconds: seconds})
}

// FadeIn restarts the instance's fade-in tween from silence.
func (h *StaticSoundHandle) FadeIn(params TweenParams) {
	h.writers.fadeIn.Write(fadeInCmd{params: params})
}
