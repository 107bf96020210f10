package sound

import (
	"testing"

	"audiocore"
)

func TestFrameBufferAtReturnsSilenceOutOfBounds(t *testing.T) {
	buf := NewFrameBuffer(8, []audiocore.Frame{audiocore.Mono(1), audiocore.Mono(2), audiocore.Mono(3)})

	if got := buf.at(-1); got != audiocore.Silence {
		t.Fatalf("at(-1) = %v, want silence", got)
	}
	if got := buf.at(3); got != audiocore.Silence {
		t.Fatalf("at(len) = %v, want silence", got)
	}
	if got := buf.at(1); got != audiocore.Mono(2) {
		t.Fatalf("at(1) = %v, want Mono(2)", got)
	}
}

func TestFrameBufferWithSliceRestrictsEffectiveLen(t *testing.T) {
	frames := make([]audiocore.Frame, 10)
	for i := range frames {
		frames[i] = audiocore.Mono(float32(i))
	}
	buf := NewFrameBuffer(8, frames)

	region := audiocore.Region{Start: 2.0 / 8.0, End: audiocore.CustomEnd(5.0 / 8.0)}
	sliced := buf.WithSlice(region)

	if sliced.EffectiveLen() != 3 {
		t.Fatalf("EffectiveLen() = %d, want 3", sliced.EffectiveLen())
	}
	if got := sliced.at(0); got != audiocore.Mono(2) {
		t.Fatalf("at(0) within slice = %v, want Mono(2)", got)
	}
	if got := sliced.at(3); got != audiocore.Silence {
		t.Fatalf("at(3) past slice end = %v, want silence", got)
	}
	// The original buffer must be unaffected by WithSlice.
	if buf.EffectiveLen() != 10 {
		t.Fatalf("original buffer EffectiveLen() mutated: %d", buf.EffectiveLen())
	}
}

func TestStaticSoundDataCooldownOptional(t *testing.T) {
	buf := NewFrameBuffer(8, []audiocore.Frame{audiocore.Silence})
	noCooldown := NewStaticSoundData(buf, DefaultStaticSoundSettings())
	if noCooldown.Cooldown() != nil {
		t.Fatalf("expected nil Cooldown when Settings.Cooldown is nil")
	}

	settings := DefaultStaticSoundSettings()
	d := 0.25
	settings.Cooldown = &d
	withCooldown := NewStaticSoundData(buf, settings)
	if withCooldown.Cooldown() == nil {
		t.Fatalf("expected non-nil Cooldown when Settings.Cooldown is set")
	}
}
