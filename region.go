package audiocore

// EndPosition marks the end of a Region, either a custom frame count/time
// or the distinguished "end of the effective length" terminator.
type EndPosition struct {
	custom       float64
	endOfAudio   bool
}

// EndOfAudio is the terminator meaning "end of the underlying effective
// length" of whatever buffer the Region is applied to.
func EndOfAudio() EndPosition { return EndPosition{endOfAudio: true} }

// CustomEnd builds an explicit end position, in the same units (seconds or
// frames) as the Region it belongs to.
func CustomEnd(v float64) EndPosition { return EndPosition{custom: v} }

// Region is a half-open interval [Start, End) in seconds or frames.
type Region struct {
	Start float64
	End   EndPosition
}

// resolveEndFrames converts the Region's end to an absolute frame index
// given the sample rate and the effective length (in frames) of the
// buffer it applies to. The result is clamped to [0, effectiveLen].
func (r Region) resolveEndFrames(sampleRate int, effectiveLen int, inFrames bool) int {
	var end int
	if r.End.endOfAudio {
		end = effectiveLen
	} else if inFrames {
		end = int(r.End.custom)
	} else {
		end = int(r.End.custom * float64(sampleRate))
	}
	if end > effectiveLen {
		end = effectiveLen
	}
	if end < 0 {
		end = 0
	}
	return end
}

func (r Region) resolveStartFrames(sampleRate int, effectiveLen int, inFrames bool) int {
	var start int
	if inFrames {
		start = int(r.Start)
	} else {
		start = int(r.Start * float64(sampleRate))
	}
	if start > effectiveLen {
		start = effectiveLen
	}
	if start < 0 {
		start = 0
	}
	return start
}

// FrameRegion is a Region already resolved to absolute frame indices
// within a buffer's effective length: [Start, End).
type FrameRegion struct {
	Start, End int
}

// Contains reports whether the half-open region contains frame index i.
func (r FrameRegion) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// Len returns the number of frames spanned by the region.
func (r FrameRegion) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// ResolveSeconds resolves a Region expressed in seconds against a sample
// rate and effective length (in frames).
func ResolveSeconds(r Region, sampleRate int, effectiveLenFrames int) FrameRegion {
	return FrameRegion{
		Start: r.resolveStartFrames(sampleRate, effectiveLenFrames, false),
		End:   r.resolveEndFrames(sampleRate, effectiveLenFrames, false),
	}
}

// ResolveFrames resolves a Region already expressed in frames, clamping to
// the effective length.
func ResolveFrames(r Region, effectiveLenFrames int) FrameRegion {
	return FrameRegion{
		Start: r.resolveStartFrames(0, effectiveLenFrames, true),
		End:   r.resolveEndFrames(0, effectiveLenFrames, true),
	}
}
