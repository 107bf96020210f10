package command

import "testing"

func TestLatestWins(t *testing.T) {
	w, r := NewChannel[float64]()
	w.Write(1.0)
	w.Write(2.0)
	w.Write(3.0)

	v, ok := r.Read()
	if !ok || v != 3.0 {
		t.Fatalf("Read() = (%v, %v), want (3.0, true)", v, ok)
	}
	if _, ok := r.Read(); ok {
		t.Fatalf("expected only one pending value")
	}
}

func TestReadEmptyChannel(t *testing.T) {
	_, r := NewChannel[int]()
	if _, ok := r.Read(); ok {
		t.Fatalf("expected no pending value on a fresh channel")
	}
}

func TestEventChannelPreservesFIFOWithinOneRing(t *testing.T) {
	w, r := NewEventChannel[int](4)
	for i := 0; i < 4; i++ {
		if !w.TryWrite(i) {
			t.Fatalf("TryWrite(%d) failed", i)
		}
	}
	if w.TryWrite(99) {
		t.Fatalf("expected TryWrite to fail on a full event ring")
	}
	for i := 0; i < 4; i++ {
		v, ok := r.Read()
		if !ok || v != i {
			t.Fatalf("Read() = (%d, %v), want (%d, true)", v, ok, i)
		}
	}
}
