// Package engine hosts Manager, the control-side facade tying a Backend,
// the render.Renderer it drives, and opaque track/effect/clock handles
// together (spec §3, §5). It is kept out of the audiocore root package
// to avoid a cycle: sound and track both import audiocore for Frame,
// Volume, and friends, so anything that imports sound/track/render must
// live above audiocore, not inside it.
package engine

import (
	"log"
	"sync"

	"audiocore"
	"audiocore/backend"
	"audiocore/clock"
	"audiocore/command"
	"audiocore/backend/portaudio"
	"audiocore/render"
	"audiocore/sound"
	"audiocore/track"
)

// commandQueueCapacity sizes the structural command ring between the
// control thread and the renderer; history matters here (spec §4.2), so
// it is an EventChannel rather than a latest-wins one.
const commandQueueCapacity = 64

// Manager is the control-side facade over a Backend and the Renderer it
// drives: it mints opaque track/effect ids, enforces per-asset cooldowns,
// and turns every structural change into a render.Command pushed across
// the command queue. Grounded on the teacher's AudioEngine (a struct of
// atomic flags plus a mutex-guarded settings block, with a Start/Stop
// lifecycle and device enumeration), generalized from "one mic and one
// speaker" to "N sounds routed through N tracks".
type Manager struct {
	mu sync.Mutex

	be       backend.Backend
	renderer *render.Renderer
	commands command.EventWriter[render.Command]

	deviceSampleRate int
	numChannels      int
	running          bool

	// routes mirrors the live routing table so WouldCreateCycle can be
	// answered on the control thread without touching the renderer's
	// Mixer, which only the audio thread may read or write.
	routes map[track.TrackID]track.TrackIndex

	clocks map[*clock.Clock]struct{}

	// listDevices/selectDevice are wired in by NewPortAudioManager; a
	// Manager built directly from NewManager with a different Backend
	// leaves these nil, and ListOutputDevices/SetOutputDevice become
	// no-ops rather than panicking.
	listDevices  func() ([]portaudio.Device, error)
	selectDevice func(id int)
}

// NewManager returns a Manager driving be. The backend is not yet set up
// or started; call Start.
func NewManager(be backend.Backend) *Manager {
	return &Manager{
		be:     be,
		routes: make(map[track.TrackID]track.TrackIndex),
		clocks: make(map[*clock.Clock]struct{}),
	}
}

// Start sets up the backend at settings, builds a fresh Renderer sized to
// the device's actual sample rate, and begins rendering.
func (m *Manager) Start(settings backend.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	actualRate, err := m.be.Setup(settings)
	if err != nil {
		return audiocore.WrapError(audiocore.DeviceUnavailable, err)
	}

	writer, reader := command.NewEventChannel[render.Command](commandQueueCapacity)
	m.commands = writer
	m.renderer = render.NewRenderer(actualRate, reader)
	m.deviceSampleRate = actualRate
	m.numChannels = settings.NumChannels

	m.be.OnSampleRateChange(func(newRate int) {
		m.mu.Lock()
		m.deviceSampleRate = newRate
		m.mu.Unlock()
		m.renderer.OnChangeSampleRate(newRate)
	})

	if err := m.be.Start(m.renderer.Process); err != nil {
		return audiocore.WrapError(audiocore.DeviceUnavailable, err)
	}
	m.running = true
	return nil
}

// Stop halts the backend; nothing further renders. The Renderer and the
// sounds/tracks/effects it owns stay referenced (LastError, PopCPUUsage
// and ReapRetired still reach it) until the next Start replaces it.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}
	if err := m.be.Stop(); err != nil {
		return audiocore.WrapError(audiocore.DeviceUnavailable, err)
	}
	m.running = false
	return nil
}

// LastError returns the most recent audio-thread anomaly, or nil. The
// control thread is expected to poll this on its own schedule and log
// it, mirroring the teacher's DroppedFrames()-style drained counters.
func (m *Manager) LastError() error {
	m.mu.Lock()
	r := m.renderer
	m.mu.Unlock()
	if r == nil {
		return nil
	}
	if err := r.LastError(); err != nil {
		return err
	}
	return nil
}

// PopCPUUsage returns the oldest pending CPU-usage sample (elapsed over
// allotted render time), or false if none is pending.
func (m *Manager) PopCPUUsage() (float32, bool) {
	m.mu.Lock()
	r := m.renderer
	m.mu.Unlock()
	if r == nil {
		return 0, false
	}
	return r.CPUUsage().Pop()
}

// ReapRetired drains every sound/track/effect the renderer has finished
// with since the last call, for control-side bookkeeping (closing
// resources, freeing large buffers). It is safe to call on any schedule;
// nothing is lost if a call is skipped, since DeferredDrop buffers until
// drained.
func (m *Manager) ReapRetired() (sounds []*sound.StaticSound, tracks []*track.Track, effects []*track.EffectSlot) {
	m.mu.Lock()
	r := m.renderer
	m.mu.Unlock()
	if r == nil {
		return nil, nil, nil
	}
	return r.RetiredSounds(), r.RetiredTracks(), r.RetiredEffects()
}

// wouldCreateCycle mirrors render.Mixer.WouldCreateCycle against the
// control thread's own routing table (spec §3: cycles are rejected
// before a structural command is ever enqueued).
func (m *Manager) wouldCreateCycle(id track.TrackID, route track.TrackIndex) bool {
	visited := map[track.TrackID]bool{id: true}
	current := route
	for {
		if current.IsMain() {
			return false
		}
		sub, _ := current.SubID()
		if visited[sub] {
			return true
		}
		visited[sub] = true
		next, ok := m.routes[sub]
		if !ok {
			return false
		}
		current = next
	}
}

// AddSubTrack creates a new sub-track routed per settings and returns its
// opaque id. Rejected with RoutingCycleDetected if settings.Route would
// close a cycle in the routing DAG.
func (m *Manager) AddSubTrack(settings track.TrackSettings) (track.TrackID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := track.NewTrackID()
	if m.wouldCreateCycle(id, settings.Route) {
		return track.TrackID{}, audiocore.NewError(audiocore.RoutingCycleDetected, "add sub-track")
	}
	if !m.commands.TryWrite(render.Command{Kind: render.AddSubTrack, NewTrackID: id, TrackSettings: settings}) {
		return track.TrackID{}, audiocore.NewError(audiocore.CommandQueueFull, "add sub-track")
	}
	m.routes[id] = settings.Route
	return id, nil
}

// RemoveSubTrack removes a sub-track from the render graph, retiring it
// via DeferredDrop for the control thread to reclaim through ReapRetired.
func (m *Manager) RemoveSubTrack(id track.TrackID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.routes[id]; !ok {
		return audiocore.NewError(audiocore.UnknownTrackID, "remove sub-track")
	}
	if !m.commands.TryWrite(render.Command{Kind: render.RemoveSubTrack, Track: track.SubTrackIndex(id)}) {
		return audiocore.NewError(audiocore.CommandQueueFull, "remove sub-track")
	}
	delete(m.routes, id)
	return nil
}

// AddEffect appends effect to the chain of the track addressed by route
// and returns its opaque id.
func (m *Manager) AddEffect(route track.TrackIndex, effect track.Effect) (track.EffectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := track.NewEffectID()
	slot := track.NewEffectSlot(effect)
	if !m.commands.TryWrite(render.Command{Kind: render.AddEffect, Track: route, EffectID: id, EffectSlot: slot}) {
		return track.EffectID{}, audiocore.NewError(audiocore.CommandQueueFull, "add effect")
	}
	return id, nil
}

// RemoveEffect removes an effect slot from the track addressed by route.
func (m *Manager) RemoveEffect(route track.TrackIndex, id track.EffectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.commands.TryWrite(render.Command{Kind: render.RemoveEffect, Track: route, EffectID: id}) {
		return audiocore.NewError(audiocore.CommandQueueFull, "remove effect")
	}
	return nil
}

// AddClock registers a new Clock ticking at ticksPerSecond and returns it
// stopped; callers must call Start() on the returned Clock themselves,
// matching clock.New's own zero-value-is-stopped convention.
func (m *Manager) AddClock(ticksPerSecond float64) (*clock.Clock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := clock.New(ticksPerSecond)
	if !m.commands.TryWrite(render.Command{Kind: render.AddClock, Clock: c}) {
		return nil, audiocore.NewError(audiocore.CommandQueueFull, "add clock")
	}
	m.clocks[c] = struct{}{}
	return c, nil
}

// RemoveClock unregisters a clock previously returned by AddClock.
func (m *Manager) RemoveClock(c *clock.Clock) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clocks[c]; !ok {
		return audiocore.NewError(audiocore.UnknownTrackID, "remove clock")
	}
	if !m.commands.TryWrite(render.Command{Kind: render.RemoveClock, Clock: c}) {
		return audiocore.NewError(audiocore.CommandQueueFull, "remove clock")
	}
	delete(m.clocks, c)
	return nil
}

// Play constructs a new playing instance of data and enqueues it into the
// render graph, honoring data's per-asset Cooldown if one was configured:
// a request arriving before the cooldown elapses is rejected with
// StillCoolingDown rather than queued (spec §4.3).
func (m *Manager) Play(data *sound.StaticSoundData) (*sound.StaticSoundHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cd := data.Cooldown(); cd != nil {
		if cd.CoolingDown() {
			return nil, audiocore.NewError(audiocore.StillCoolingDown, "play")
		}
		cd.Start()
	}
	return m.enqueueInstance(data)
}

// PlayInstance behaves like Play but bypasses data's cooldown entirely,
// for callers that construct and manage instances directly rather than
// going through the one-shot trigger API (spec §4.3).
func (m *Manager) PlayInstance(data *sound.StaticSoundData) (*sound.StaticSoundHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.enqueueInstance(data)
}

func (m *Manager) enqueueInstance(data *sound.StaticSoundData) (*sound.StaticSoundHandle, error) {
	if m.renderer == nil {
		return nil, audiocore.NewError(audiocore.DeviceUnavailable, "play: manager not started")
	}
	instance, handle := sound.NewInstance(data, m.deviceSampleRate)
	if !m.commands.TryWrite(render.Command{Kind: render.AddSound, Sound: instance}) {
		return nil, audiocore.NewError(audiocore.CommandQueueFull, "play")
	}
	return handle, nil
}

// LogLastError polls LastError and logs it via the standard log package
// if one is pending, mirroring the teacher's own [audio]-prefixed
// recoverable-anomaly logging. The audio thread itself never logs (§5);
// this is purely a control-thread convenience for callers that don't
// want to poll LastError themselves.
func (m *Manager) LogLastError() {
	if err := m.LastError(); err != nil {
		log.Printf("[audiocore] %v", err)
	}
}
