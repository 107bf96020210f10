package render

import (
	"audiocore"
	"audiocore/track"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Mixer owns the main track plus every sub-track, and processes them
// leaves-first each render step, forwarding each sub-track's output to its
// own routing target — another sub-track or the main track — rather than
// flattening every sub-track straight into main. Grounded on the original
// implementation's Mixer::process and its routing DAG (§3, §4.4).
type Mixer struct {
	main      *track.Track
	subTracks *orderedmap.OrderedMap[track.TrackID, *track.Track]
	drop      *DeferredDrop[*track.Track]
}

// NewMixer returns a Mixer with a default main track and no sub-tracks.
func NewMixer(drop *DeferredDrop[*track.Track]) *Mixer {
	return &Mixer{
		main:      track.NewTrack(track.TrackID{}, track.TrackSettings{Volume: audiocore.LinearVolume(1.0), Panning: audiocore.Center}),
		subTracks: orderedmap.New[track.TrackID, *track.Track](),
		drop:      drop,
	}
}

// Main returns the mixer's main track.
func (m *Mixer) Main() *track.Track { return m.main }

// resolve returns the track addressed by index, or the main track if the
// index names a sub-track that no longer exists.
func (m *Mixer) resolve(index track.TrackIndex) *track.Track {
	if index.IsMain() {
		return m.main
	}
	id, _ := index.SubID()
	if t, ok := m.subTracks.Get(id); ok {
		return t
	}
	return m.main
}

// AddInput routes a frame into the accumulator of the track addressed by
// index.
func (m *Mixer) AddInput(index track.TrackIndex, f audiocore.Frame) {
	m.resolve(index).AddInput(f)
}

// WouldCreateCycle reports whether routing the sub-track id to route
// would create a cycle in the routing DAG (spec §3: "routing a sub-track
// to a descendant is rejected at the control side"). The control side
// (engine.Manager) runs the same walk over its own mirror of the routing
// table before enqueuing AddSubTrack, since it never reads the Mixer.
func (m *Mixer) WouldCreateCycle(id track.TrackID, route track.TrackIndex) bool {
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
		t, ok := m.subTracks.Get(sub)
		if !ok {
			return false
		}
		current = t.Route
	}
}

// AddSubTrack inserts a new sub-track. The caller must have already
// checked WouldCreateCycle.
func (m *Mixer) AddSubTrack(id track.TrackID, settings track.TrackSettings) *track.Track {
	t := track.NewTrack(id, settings)
	m.subTracks.Set(id, t)
	return t
}

// RemoveSubTrack removes a sub-track and retires it via DeferredDrop,
// grounded on the original implementation's
// MixerCommand::RemoveSubTrack.
func (m *Mixer) RemoveSubTrack(id track.TrackID) bool {
	t, ok := m.subTracks.Delete(id)
	if !ok {
		return false
	}
	m.drop.Retire(t)
	return true
}

// SubTrack returns the sub-track with the given ID, if it exists.
func (m *Mixer) SubTrack(id track.TrackID) (*track.Track, bool) {
	return m.subTracks.Get(id)
}

// OnChangeSampleRate propagates a device sample rate change to every
// track's effect chain (spec §6).
func (m *Mixer) OnChangeSampleRate(newSampleRate int) {
	m.main.OnChangeSampleRate(newSampleRate)
	for pair := m.subTracks.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.OnChangeSampleRate(newSampleRate)
	}
}

// Process walks the sub-track routing DAG leaves-first — a sub-track is
// only processed once every sub-track routed to it has already run and
// contributed its output — and forwards each processed sub-track's
// output to its actual Route target (another sub-track's accumulator, or
// main's), then processes main last (spec §4.4). Uses Kahn's algorithm
// over the child-count each sub-track's Route implies, since the routing
// table is exactly the DAG WouldCreateCycle guards at the control side.
func (m *Mixer) Process(dt float64, info track.Info) audiocore.Frame {
	pending := make(map[track.TrackID]int, m.subTracks.Len())
	for pair := m.subTracks.Oldest(); pair != nil; pair = pair.Next() {
		if id, ok := pair.Value.Route.SubID(); ok {
			pending[id]++
		}
	}

	var ready []*track.Track
	for pair := m.subTracks.Oldest(); pair != nil; pair = pair.Next() {
		if pending[pair.Value.ID] == 0 {
			ready = append(ready, pair.Value)
		}
	}

	for len(ready) > 0 {
		t := ready[0]
		ready = ready[1:]
		out := t.Process(dt, info)

		id, isSub := t.Route.SubID()
		if !isSub {
			m.main.AddInput(out)
			continue
		}
		target, ok := m.subTracks.Get(id)
		if !ok {
			continue // routed to a sub-track removed this render step
		}
		target.AddInput(out)
		pending[id]--
		if pending[id] == 0 {
			ready = append(ready, target)
		}
	}

	return m.main.Process(dt, info)
}
