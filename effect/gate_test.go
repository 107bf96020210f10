package effect

import (
	"testing"

	"audiocore"
	"audiocore/track"
)

func TestGateOpensForLoudSignal(t *testing.T) {
	g := NewGate()
	var out audiocore.Frame
	for i := 0; i < 50; i++ {
		out = g.Process(audiocore.Mono(0.8), 0.01, track.Info{})
	}
	if !g.IsOpen() {
		t.Fatalf("expected gate to open for a sustained loud signal")
	}
	if out.Left == 0 {
		t.Fatalf("expected gate to pass a loud signal through")
	}
}

func TestGateClosesAfterHoldExpiresOnSilence(t *testing.T) {
	g := NewGate()
	g.hold = 0.05 // shrink hold for a fast test

	for i := 0; i < 50; i++ {
		g.Process(audiocore.Mono(0.8), 0.01, track.Info{})
	}
	if !g.IsOpen() {
		t.Fatalf("expected gate open after loud input")
	}

	// Force the level estimate back under threshold, as if the EMA had
	// already decayed, so this test isn't at the mercy of emaCoeff's
	// exact decay rate.
	g.level = g.threshold / 2

	var out audiocore.Frame
	for i := 0; i < 50; i++ {
		out = g.Process(audiocore.Silence, 0.01, track.Info{})
	}
	if g.IsOpen() {
		t.Fatalf("expected gate to close after hold expires on silence")
	}
	if out != audiocore.Silence {
		t.Fatalf("expected closed gate to output silence, got %v", out)
	}
}

func TestDisabledGateAlwaysPassesThrough(t *testing.T) {
	g := NewGate()
	g.SetEnabled(false)
	out := g.Process(audiocore.Silence, 0.01, track.Info{})
	if !g.IsOpen() {
		t.Fatalf("expected disabled gate to report open")
	}
	if out != audiocore.Silence {
		t.Fatalf("expected pass-through of silence to remain silence")
	}
}
