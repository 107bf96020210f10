package sound

import (
	"math"
	"testing"

	"audiocore"
	"audiocore/clock"
)

// rampBuffer returns a mono FrameBuffer whose Left/Right channels both
// equal the frame index, as a float. Cubic Hermite interpolation of a
// linear ramp reproduces the ramp exactly, which makes it a convenient
// fixture for checking cursor/interpolation arithmetic without rounding
// slop.
func rampBuffer(sampleRate, frames int) *FrameBuffer {
	out := make([]audiocore.Frame, frames)
	for i := range out {
		out[i] = audiocore.Mono(float32(i))
	}
	return NewFrameBuffer(sampleRate, out)
}

func TestMonoPlaybackAdvancesLinearly(t *testing.T) {
	buf := rampBuffer(8, 100)
	settings := DefaultStaticSoundSettings()
	data := NewStaticSoundData(buf, settings)

	s, _ := NewInstance(data, 8)

	for i := 0; i < 10; i++ {
		want := float32(i + 1) // cursor advances before sampling each frame
		got := s.Process(1.0 / 8.0)
		if math.Abs(float64(got.Left-want)) > 1e-3 {
			t.Fatalf("frame %d: got %v, want ~%v", i, got.Left, want)
		}
	}
	if s.State() != Playing {
		t.Fatalf("expected Playing, got %v", s.State())
	}
}

func TestReversePlaybackMovesCursorBackward(t *testing.T) {
	buf := rampBuffer(8, 100)
	settings := DefaultStaticSoundSettings()
	settings.Reverse = true
	settings.StartPosition = 50.0 / 8.0 // seconds -> frame 50
	data := NewStaticSoundData(buf, settings)

	s, _ := NewInstance(data, 8)

	prev := s.cursor
	for i := 0; i < 5; i++ {
		s.Process(1.0 / 8.0)
		if s.cursor >= prev {
			t.Fatalf("expected cursor to decrease in reverse playback: prev=%v cur=%v", prev, s.cursor)
		}
		prev = s.cursor
	}
}

func TestLoopRegionWrapsAround(t *testing.T) {
	buf := rampBuffer(8, 100)
	settings := DefaultStaticSoundSettings()
	region := audiocore.Region{Start: 10.0 / 8.0, End: audiocore.CustomEnd(20.0 / 8.0)}
	settings.LoopRegion = &region
	data := NewStaticSoundData(buf, settings)

	s, _ := NewInstance(data, 8)
	s.cursor = 10 // start inside the loop window directly

	for i := 0; i < 200; i++ {
		s.Process(1.0 / 8.0)
		if s.cursor < 10 || s.cursor >= 20 {
			t.Fatalf("cursor escaped loop region at iteration %d: %v", i, s.cursor)
		}
	}
	if s.State() != Playing {
		t.Fatalf("looping sound should remain Playing, got %v", s.State())
	}
}

func TestHalfDeviceRateHalvesCursorAdvance(t *testing.T) {
	buf := rampBuffer(8, 100)
	settings := DefaultStaticSoundSettings()
	data := NewStaticSoundData(buf, settings)

	s, _ := NewInstance(data, 4) // device runs at half the asset's rate

	startCursor := s.cursor
	s.Process(1.0 / 4.0)
	advance := s.cursor - startCursor
	if math.Abs(advance-0.5) > 1e-9 {
		t.Fatalf("expected cursor to advance by 0.5 frames at half device rate, got %v", advance)
	}
}

func TestPauseHaltsCursorAndResumeContinues(t *testing.T) {
	buf := rampBuffer(8, 100)
	data := NewStaticSoundData(buf, DefaultStaticSoundSettings())
	s, handle := NewInstance(data, 8)

	s.Process(1.0 / 8.0)
	handle.Pause()
	s.Process(1.0 / 8.0) // command applied this frame -> Paused
	paused := s.cursor
	for i := 0; i < 5; i++ {
		s.Process(1.0 / 8.0)
	}
	if s.cursor != paused {
		t.Fatalf("expected cursor frozen while paused: %v != %v", s.cursor, paused)
	}
	if s.State() != Paused {
		t.Fatalf("expected Paused, got %v", s.State())
	}

	handle.Resume()
	s.Process(1.0 / 8.0)
	if s.cursor == paused {
		t.Fatalf("expected cursor to advance after resume")
	}
	if s.State() != Playing {
		t.Fatalf("expected Playing after resume, got %v", s.State())
	}
}

func TestStopWithFadeTransitionsThroughStopping(t *testing.T) {
	buf := rampBuffer(8, 100)
	data := NewStaticSoundData(buf, DefaultStaticSoundSettings())
	s, handle := NewInstance(data, 8)

	handle.Stop(TweenParams{Duration: 0.25}, false)
	s.Process(1.0 / 8.0) // command applies -> Stopping begins
	if s.State() != Stopping {
		t.Fatalf("expected Stopping immediately after stop command, got %v", s.State())
	}

	for i := 0; i < 10 && s.State() == Stopping; i++ {
		s.Process(1.0 / 8.0)
	}
	if s.State() != Stopped {
		t.Fatalf("expected Stopped once fade-out completes, got %v", s.State())
	}
}

func TestImmediateStopSkipsStopping(t *testing.T) {
	buf := rampBuffer(8, 100)
	data := NewStaticSoundData(buf, DefaultStaticSoundSettings())
	s, handle := NewInstance(data, 8)

	handle.Stop(TweenParams{}, true)
	s.Process(1.0 / 8.0)
	if s.State() != Stopped {
		t.Fatalf("expected immediate Stop to skip Stopping, got %v", s.State())
	}
	if !s.Finished() {
		t.Fatalf("expected Finished() once Stopped")
	}
}

func TestNonLoopingSoundStopsAtEndOfBuffer(t *testing.T) {
	buf := rampBuffer(8, 4)
	data := NewStaticSoundData(buf, DefaultStaticSoundSettings())
	s, _ := NewInstance(data, 8)

	for i := 0; i < 50 && s.State() != Stopped; i++ {
		s.Process(1.0 / 8.0)
	}
	if s.State() != Stopped {
		t.Fatalf("expected sound to reach Stopped after running off the end, got %v", s.State())
	}
}

func TestQueuedSoundWaitsForStartGate(t *testing.T) {
	c := clock.New(1.0)
	c.Start()

	buf := rampBuffer(8, 100)
	settings := DefaultStaticSoundSettings()
	settings.StartTime = clock.AtClockTick(c, 2, 0)
	data := NewStaticSoundData(buf, settings)

	s, _ := NewInstance(data, 8)
	out := s.Process(1.0 / 8.0)
	if s.State() != Queued {
		t.Fatalf("expected sound to remain Queued before its start gate, got %v", s.State())
	}
	if out != audiocore.Silence {
		t.Fatalf("expected silence while Queued, got %v", out)
	}

	c.Tick(2.0)
	s.Process(1.0 / 8.0)
	if s.State() != Playing {
		t.Fatalf("expected sound to start Playing once its gate is satisfied, got %v", s.State())
	}
}

func TestSeekToMovesCursorToAbsolutePosition(t *testing.T) {
	buf := rampBuffer(8, 100)
	data := NewStaticSoundData(buf, DefaultStaticSoundSettings())
	s, handle := NewInstance(data, 8)

	handle.SeekTo(5.0)
	s.Process(1.0 / 8.0)
	if math.Abs(s.cursor-40) > 2.0 {
		t.Fatalf("expected cursor near frame 40 after SeekTo(5.0) at 8Hz, got %v", s.cursor)
	}
}
