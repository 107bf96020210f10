package render

import "audiocore/internal/ringbuf"

// SendOnDrop wraps a value so that it can be recovered from outside a
// function that took ownership of it and then panicked or returned
// early, without a destructor. Grounded on the original implementation's
// SendOnDrop<T>, whose Rust Drop impl pushes the wrapped value onto a
// ring when it goes out of scope; Go has no equivalent of Drop, so the
// owner must call Close explicitly (typically via `defer sd.Close()`)
// around the risky call.
type SendOnDrop[T any] struct {
	data T
	sent bool
	ring *ringbuf.Ring[T]
}

// NewSendOnDrop wraps data and returns the wrapper plus a recovery
// function the original owner (not the one taking temporary ownership)
// can call afterward to retrieve data once Close has run.
func NewSendOnDrop[T any](data T) (*SendOnDrop[T], func() (T, bool)) {
	ring := ringbuf.New[T](1)
	sd := &SendOnDrop[T]{data: data, ring: ring}
	return sd, ring.TryPop
}

// Get returns the wrapped value.
func (s *SendOnDrop[T]) Get() T { return s.data }

// Set replaces the wrapped value.
func (s *SendOnDrop[T]) Set(v T) { s.data = v }

// Close sends the wrapped value back through the recovery channel. Safe
// to call more than once; only the first call has an effect.
func (s *SendOnDrop[T]) Close() {
	if s.sent {
		return
	}
	s.sent = true
	s.ring.TryPush(s.data)
}
