package render

import (
	"testing"

	"audiocore"
	"audiocore/clock"
	"audiocore/command"
	"audiocore/sound"
)

func monoConstant(sampleRate, frames int) *sound.FrameBuffer {
	out := make([]audiocore.Frame, frames)
	for i := range out {
		out[i] = audiocore.Mono(1.0)
	}
	return sound.NewFrameBuffer(sampleRate, out)
}

func TestRendererProducesSilenceWithNoSounds(t *testing.T) {
	_, reader := command.NewEventChannel[Command](8)
	r := NewRenderer(8, reader)

	buf := make([]float32, 16) // 8 stereo frames
	r.Process(buf, 2)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected silence at index %d, got %v", i, v)
		}
	}
}

func TestRendererMixesSoundIntoOutput(t *testing.T) {
	writer, reader := command.NewEventChannel[Command](8)
	r := NewRenderer(8, reader)

	data := sound.NewStaticSoundData(monoConstant(8, 100), sound.DefaultStaticSoundSettings())
	s, _ := sound.NewInstance(data, 8)
	if !writer.TryWrite(Command{Kind: AddSound, Sound: s}) {
		t.Fatalf("expected to enqueue AddSound command")
	}

	buf := make([]float32, 16) // 8 stereo frames
	r.Process(buf, 2)

	nonZero := false
	for _, v := range buf {
		if v != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Fatalf("expected non-silent output once a sound is mixed in")
	}
}

func TestRendererTicksRegisteredClocks(t *testing.T) {
	writer, reader := command.NewEventChannel[Command](8)
	r := NewRenderer(8, reader)

	c := clock.New(8.0) // 8 ticks per second, matches device rate
	c.Start()
	if !writer.TryWrite(Command{Kind: AddClock, Clock: c}) {
		t.Fatalf("expected to enqueue AddClock command")
	}

	buf := make([]float32, 16) // 8 stereo frames == 1 second of ticks
	r.Process(buf, 2)

	if c.Ticks() != 8 {
		t.Fatalf("expected clock to have ticked 8 times, got %d", c.Ticks())
	}
}

func TestRendererReapsFinishedSounds(t *testing.T) {
	writer, reader := command.NewEventChannel[Command](8)
	r := NewRenderer(8, reader)

	data := sound.NewStaticSoundData(monoConstant(8, 4), sound.DefaultStaticSoundSettings())
	s, _ := sound.NewInstance(data, 8)
	writer.TryWrite(Command{Kind: AddSound, Sound: s})

	buf := make([]float32, 200) // 100 stereo frames, plenty to run off the end
	r.Process(buf, 2)

	if len(r.sounds) != 0 {
		t.Fatalf("expected the finished sound to be removed from the render graph, got %d remaining", len(r.sounds))
	}
	if len(r.RetiredSounds()) != 1 {
		t.Fatalf("expected the finished sound to be retired via DeferredDrop")
	}
}

func TestRendererTicksCooldownIndependentOfSoundLifetime(t *testing.T) {
	writer, reader := command.NewEventChannel[Command](8)
	r := NewRenderer(8, reader) // dt = 0.125s per device frame

	settings := sound.DefaultStaticSoundSettings()
	dur := 1.0
	settings.Cooldown = &dur
	data := sound.NewStaticSoundData(monoConstant(8, 2), settings)
	s, _ := sound.NewInstance(data, 8)
	data.Cooldown().Start()
	if !writer.TryWrite(Command{Kind: AddSound, Sound: s}) {
		t.Fatalf("expected to enqueue AddSound command")
	}

	buf := make([]float32, 4) // 2 device frames == 0.25s per Process call

	reaped := false
	for i := 0; i < 4; i++ {
		r.Process(buf, 2)
		if len(r.sounds) == 0 {
			reaped = true
			break
		}
	}
	if !reaped {
		t.Fatalf("expected the short sound to finish and be reaped within a few render calls")
	}
	if !data.Cooldown().CoolingDown() {
		t.Fatalf("expected cooldown to still be active shortly after its triggering sound was reaped")
	}

	// No live instance of this asset remains in the render graph at all
	// from here on; the cooldown must still count down to zero.
	for i := 0; i < 10 && data.Cooldown().CoolingDown(); i++ {
		r.Process(buf, 2)
	}
	if data.Cooldown().CoolingDown() {
		t.Fatalf("expected cooldown to expire via Process ticking even with no live instance of its asset")
	}
}

func TestChannelsForFrameDuplicatesStereoPairAndSilencesRest(t *testing.T) {
	out := make([]float32, 6)
	channelsForFrame(out, 0, audiocore.Frame{Left: 1, Right: -1}, 6)
	want := []float32{1, -1, 1, -1, 0, 0}
	for i, w := range want {
		if out[i] != w {
			t.Fatalf("channel %d = %v, want %v", i, out[i], w)
		}
	}
}
