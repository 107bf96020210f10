package ringbuf

import (
	"sync"
	"testing"
)

func TestNewRoundsCapacityToPowerOfTwo(t *testing.T) {
	r := New[int](5)
	if got := r.Cap(); got != 8 {
		t.Errorf("Cap() = %d, want 8", got)
	}
}

func TestPushPopOrder(t *testing.T) {
	r := New[int](4)
	for i := 0; i < 4; i++ {
		if !r.TryPush(i) {
			t.Fatalf("TryPush(%d) failed unexpectedly", i)
		}
	}
	if r.TryPush(99) {
		t.Fatalf("TryPush succeeded on a full ring")
	}
	for i := 0; i < 4; i++ {
		v, ok := r.TryPop()
		if !ok || v != i {
			t.Fatalf("TryPop() = (%d, %v), want (%d, true)", v, ok, i)
		}
	}
	if _, ok := r.TryPop(); ok {
		t.Fatalf("TryPop succeeded on an empty ring")
	}
}

func TestCapacityOneLatestWins(t *testing.T) {
	r := New[int](1)
	r.TryPush(1)
	if r.TryPush(2) {
		t.Fatalf("expected TryPush to report full at capacity 1")
	}
	// Single-slot command channels implement "latest wins" by popping the
	// stale value before pushing the new one (see command.Writer).
	r.TryPop()
	if !r.TryPush(2) {
		t.Fatalf("TryPush after TryPop should succeed")
	}
	v, ok := r.TryPop()
	if !ok || v != 2 {
		t.Fatalf("TryPop() = (%d, %v), want (2, true)", v, ok)
	}
}

func TestConcurrentSPSC(t *testing.T) {
	r := New[int](64)
	const n = 100000
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			for !r.TryPush(i) {
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			var v int
			var ok bool
			for {
				v, ok = r.TryPop()
				if ok {
					break
				}
			}
			if v != i {
				t.Errorf("TryPop() = %d, want %d", v, i)
			}
		}
	}()

	wg.Wait()
}
