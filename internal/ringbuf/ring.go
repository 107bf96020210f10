// Package ringbuf implements a single-producer/single-consumer
// fixed-capacity ring buffer with no locks and no allocation after
// construction. It is the primitive that every command channel and
// telemetry channel between the control thread and the audio thread is
// built on (spec §4.1).
//
// Capacity is rounded up to the next power of two so index wrapping can
// use a mask instead of a modulo. Only one goroutine may call TryPush;
// only one goroutine (possibly a different one) may call TryPop.
package ringbuf

import "sync/atomic"

// Ring is an SPSC ring buffer of capacity-many elements of type T.
type Ring[T any] struct {
	mask uint64
	buf  []T
	head atomic.Uint64 // next slot to write (producer-owned)
	tail atomic.Uint64 // next slot to read (consumer-owned)
}

// New returns a Ring with at least the requested capacity, rounded up to
// the next power of two. A capacity of 0 is treated as 1.
func New[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	n := nextPowerOfTwo(capacity)
	return &Ring[T]{
		mask: uint64(n - 1),
		buf:  make([]T, n),
	}
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Cap returns the usable capacity (after power-of-two rounding).
func (r *Ring[T]) Cap() int { return int(r.mask) + 1 }

// Len returns the number of buffered elements. Safe to call from either
// side; the result may be stale by the time the caller acts on it.
func (r *Ring[T]) Len() int {
	return int(r.head.Load() - r.tail.Load())
}

// TryPush attempts to push v. It returns false, without blocking or
// allocating, if the ring is full.
//
// Only the producer goroutine may call this. The store of buf[idx] happens
// before the release-store of head, so TryPop's acquire-load of head
// guarantees the consumer observes the write.
func (r *Ring[T]) TryPush(v T) bool {
	head := r.head.Load()
	tail := r.tail.Load()
	if head-tail >= uint64(r.Cap()) {
		return false
	}
	r.buf[head&r.mask] = v
	r.head.Store(head + 1)
	return true
}

// TryPop attempts to pop the oldest element. It returns (zero, false),
// without blocking or allocating, if the ring is empty.
//
// Only the consumer goroutine may call this.
func (r *Ring[T]) TryPop() (T, bool) {
	tail := r.tail.Load()
	head := r.head.Load()
	if tail == head {
		var zero T
		return zero, false
	}
	v := r.buf[tail&r.mask]
	var zero T
	r.buf[tail&r.mask] = zero // drop the reference so GC can reclaim it
	r.tail.Store(tail + 1)
	return v, true
}
