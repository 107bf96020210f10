package track

import (
	"audiocore"
	"audiocore/tween"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// TrackID opaquely identifies a sub-track. The main track has no ID — it
// is addressed through TrackIndex.IsMain instead.
type TrackID = uuid.UUID

// EffectID opaquely identifies an effect slot within a track.
type EffectID = uuid.UUID

// TrackIndex names either the main track or a sub-track, used as a
// routing target and as a command addressing scheme (spec §3, §4.4).
type TrackIndex struct {
	main bool
	sub  TrackID
}

// MainTrackIndex addresses the mixer's main track.
func MainTrackIndex() TrackIndex { return TrackIndex{main: true} }

// SubTrackIndex addresses a specific sub-track by ID.
func SubTrackIndex(id TrackID) TrackIndex { return TrackIndex{sub: id} }

// IsMain reports whether the index addresses the main track.
func (t TrackIndex) IsMain() bool { return t.main }

// SubID returns the addressed sub-track's ID, and false if the index
// addresses the main track.
func (t TrackIndex) SubID() (TrackID, bool) { return t.sub, !t.main }

// TrackSettings configures a Track at construction time.
type TrackSettings struct {
	Volume  audiocore.Volume
	Panning audiocore.Panning
	Route   TrackIndex // ignored for the main track, which has no route
}

// DefaultTrackSettings returns unity volume, centered panning, routed to
// the main track.
func DefaultTrackSettings() TrackSettings {
	return TrackSettings{
		Volume:  audiocore.LinearVolume(1.0),
		Panning: audiocore.Center,
		Route:   MainTrackIndex(),
	}
}

// Track accumulates input from sounds and other tracks, runs it through
// an ordered effect chain, applies volume/panning, and forwards the
// result to its routing target (spec §3, §4.4). The renderer exclusively
// owns Track instances while they are live in the graph.
type Track struct {
	ID TrackID

	input   audiocore.Frame
	effects *orderedmap.OrderedMap[EffectID, *EffectSlot]

	Volume  *tween.Tween
	Panning *tween.Tween
	Route   TrackIndex
}

// NewTrack constructs a Track with the given settings, no effects.
func NewTrack(id TrackID, settings TrackSettings) *Track {
	return &Track{
		ID:      id,
		effects: orderedmap.New[EffectID, *EffectSlot](),
		Volume:  tween.NewIdle(settings.Volume.Amplitude()),
		Panning: tween.NewIdle(float64(settings.Panning)),
		Route:   settings.Route,
	}
}

// AddInput accumulates a frame into the track's input, per spec §4.4
// step 1 ("accumulator `input: Frame`").
func (t *Track) AddInput(f audiocore.Frame) {
	t.input = t.input.Add(f)
}

// AddEffect inserts an effect slot at the end of the chain (or replaces
// the slot at id if already present, in place, preserving its position).
func (t *Track) AddEffect(id EffectID, slot *EffectSlot) {
	t.effects.Set(id, slot)
}

// RemoveEffect removes and returns the effect slot at id, for routing to
// DeferredDrop. Removal leaves no gap in the remaining chain's iteration
// order (spec §4.4: "removes leave no gaps in iteration").
func (t *Track) RemoveEffect(id EffectID) (*EffectSlot, bool) {
	return t.effects.Delete(id)
}

// EffectCount returns the number of effect slots currently in the chain.
func (t *Track) EffectCount() int { return t.effects.Len() }

// OnChangeSampleRate propagates a device sample rate change to every
// effect in the chain (spec §6).
func (t *Track) OnChangeSampleRate(newSampleRate int) {
	for pair := t.effects.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.Effect.OnChangeSampleRate(newSampleRate)
	}
}

// SetVolume starts a tween of the track's volume.
func (t *Track) SetVolume(target audiocore.Volume, duration float64, easing tween.Easing) {
	t.Volume.Start(target.Amplitude(), duration, easing)
}

// SetPanning starts a tween of the track's panning.
func (t *Track) SetPanning(target audiocore.Panning, duration float64, easing tween.Easing) {
	t.Panning.Start(float64(target), duration, easing)
}

// Process runs the track's per-render-step pipeline (spec §4.4):
// drain the accumulator, fold it through the enabled effect chain in
// insertion order, apply volume and panning, and return the result for
// the caller to forward to this track's routing target.
func (t *Track) Process(dt float64, info Info) audiocore.Frame {
	in := t.input
	t.input = audiocore.Silence

	t.Volume.Advance(dt)
	t.Panning.Advance(dt)

	for pair := t.effects.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.Mix.Advance(dt)
		in = pair.Value.process(in, dt, info)
	}

	volume := float32(t.Volume.Value())
	left, right := audiocore.Panning(t.Panning.Value()).Gains()
	return in.Scale(volume).Panned(left, right)
}
