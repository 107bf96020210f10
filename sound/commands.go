package sound

import (
	"audiocore"
	"audiocore/command"
	"audiocore/tween"
)

// TweenParams bundles a target value with the duration/easing used to
// reach it — the payload shape for every tweened command (volume,
// panning, playback rate).
type TweenParams struct {
	Duration float64
	Easing   tween.Easing
}

type volumeCmd struct {
	target audiocore.Volume
	params TweenParams
}

type panningCmd struct {
	target audiocore.Panning
	params TweenParams
}

type rateCmd struct {
	target audiocore.PlaybackRate
	params TweenParams
}

type loopRegionCmd struct {
	region *audiocore.Region // nil disables looping
}

type playbackRegionCmd struct {
	region audiocore.Region
}

type stopCmd struct {
	fadeOut  TweenParams
	immediate bool
}

type seekToCmd struct{ seconds float64 }
type seekByCmd struct{ seconds float64 }

type fadeInCmd struct {
	params TweenParams
}

// commandWriters holds the control-thread side of every command channel
// for a single Sound instance.
type commandWriters struct {
	volume         command.Writer[volumeCmd]
	panning        command.Writer[panningCmd]
	rate           command.Writer[rateCmd]
	loopRegion     command.Writer[loopRegionCmd]
	playbackRegion command.Writer[playbackRegionCmd]
	pause          command.Writer[struct{}]
	resume         command.Writer[struct{}]
	stop           command.Writer[stopCmd]
	seekTo         command.Writer[seekToCmd]
	seekBy         command.Writer[seekByCmd]
	fadeIn         command.Writer[fadeInCmd]
}

// commandReaders holds the audio-thread side of every command channel for
// a single Sound instance.
type commandReaders struct {
	volume         command.Reader[volumeCmd]
	panning        command.Reader[panningCmd]
	rate           command.Reader[rateCmd]
	loopRegion     command.Reader[loopRegionCmd]
	playbackRegion command.Reader[playbackRegionCmd]
	pause          command.Reader[struct{}]
	resume         command.Reader[struct{}]
	stop           command.Reader[stopCmd]
	seekTo         command.Reader[seekToCmd]
	seekBy         command.Reader[seekByCmd]
	fadeIn         command.Reader[fadeInCmd]
}

func newCommandChannels() (commandWriters, commandReaders) {
	vw, vr := command.NewChannel[volumeCmd]()
	pw, pr := command.NewChannel[panningCmd]()
	rw, rr := command.NewChannel[rateCmd]()
	lw, lr := command.NewChannel[loopRegionCmd]()
	prw, prr := command.NewChannel[playbackRegionCmd]()
	pausew, pauser := command.NewChannel[struct{}]()
	resumew, resumer := command.NewChannel[struct{}]()
	sw, sr := command.NewChannel[stopCmd]()
	stw, str := command.NewChannel[seekToCmd]()
	sbw, sbr := command.NewChannel[seekByCmd]()
	fw, fr := command.NewChannel[fadeInCmd]()

	return commandWriters{
			volume: vw, panning: pw, rate: rw, loopRegion: lw,
			playbackRegion: prw, pause: pausew, resume: resumew,
			stop: sw, seekTo: stw, seekBy: sbw, fadeIn: fw,
		}, commandReaders{
			volume: vr, panning: pr, rate: rr, loopRegion: lr,
			playbackRegion: prr, pause: pauser, resume: resumer,
			stop: sr, seekTo: str, seekBy: sbr, fadeIn: fr,
		}
}
