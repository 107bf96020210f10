package render

import "audiocore/internal/ringbuf"

// deferredDropRingCapacity bounds how many retired sounds may be queued
// for control-thread reclamation before the renderer starts dropping the
// oldest, same policy as CPUUsage (spec §4.7). Retired tracks and effect
// slots use queues of 32 each.
const deferredDropRingCapacity = 64

// DeferredDrop is a ring-backed return channel: the renderer pushes
// retired Sounds, Tracks, and EffectSlots onto it instead of letting
// them go out of scope on the audio thread, and the control thread
// drains it whenever convenient. Grounded on the original
// implementation's tracks_to_unload_sender / effect_slots_to_unload_sender
// and send_on_drop.rs — Go's GC makes a literal destructor-driven
// send-on-drop unnecessary, but the discipline of never letting a
// potentially expensive free happen inline on the render callback still
// matters, so retired instances are still explicitly handed off here.
type DeferredDrop[T any] struct {
	ring *ringbuf.Ring[T]
}

// NewDeferredDrop returns a DeferredDrop with the given capacity.
func NewDeferredDrop[T any](capacity int) *DeferredDrop[T] {
	return &DeferredDrop[T]{ring: ringbuf.New[T](capacity)}
}

// Retire hands v off for control-thread reclamation. If the ring is
// full, the oldest retired instance is dropped to make room — acceptable
// here because nothing more than a GC collection is being deferred.
func (d *DeferredDrop[T]) Retire(v T) {
	if !d.ring.TryPush(v) {
		d.ring.TryPop()
		d.ring.TryPush(v)
	}
}

// Drain pops every instance currently queued for reclamation. Call from
// the control thread.
func (d *DeferredDrop[T]) Drain() []T {
	var out []T
	for {
		v, ok := d.ring.TryPop()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}
