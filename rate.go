package audiocore

import "math"

// PlaybackRate is either a linear speed factor or a pitch shift in
// semitones. A negative linear factor (or the semitone equivalent) plays
// the sound in reverse.
type PlaybackRate struct {
	isSemitones bool
	value       float64
}

// LinearRate constructs a PlaybackRate from a linear speed factor.
// Negative values mean reverse playback.
func LinearRate(factor float64) PlaybackRate {
	return PlaybackRate{value: factor}
}

// SemitonesRate constructs a PlaybackRate from a pitch shift in semitones.
func SemitonesRate(semitones float64) PlaybackRate {
	return PlaybackRate{isSemitones: true, value: semitones}
}

// Factor returns the linear speed factor represented by this PlaybackRate.
func (r PlaybackRate) Factor() float64 {
	if !r.isSemitones {
		return r.value
	}
	return math.Pow(2, r.value/12)
}
