// Package clock implements the cooperative scheduling clock (spec §3,
// §4.5): shared logical time advanced once per frame, driving tweens,
// loop region evaluation, and effect parameter modulation.
package clock

import (
	"math"
	"sync/atomic"
)

// Clock is a logical time source ticked once per render frame. Any number
// of clocks may exist; each is tied to zero or more sounds via a
// StartGate. The renderer is the sole mutator; Ticks/Frac/Ticking are
// safe to read from the control thread via atomic loads.
type Clock struct {
	ticking        atomic.Bool
	ticks          atomic.Uint64
	fracBits       atomic.Uint64 // math.Float64bits(frac)
	ticksPerSecBit atomic.Uint64 // math.Float64bits(ticksPerSecond)
}

// New returns a stopped Clock advancing at ticksPerSecond once started.
func New(ticksPerSecond float64) *Clock {
	c := &Clock{}
	c.ticksPerSecBit.Store(math.Float64bits(ticksPerSecond))
	return c
}

// Start begins advancing the clock on subsequent Tick calls.
func (c *Clock) Start() { c.ticking.Store(true) }

// Pause stops advancing the clock; Ticks/Frac are preserved.
func (c *Clock) Pause() { c.ticking.Store(false) }

// Stop halts the clock and resets it to tick 0.
func (c *Clock) Stop() {
	c.ticking.Store(false)
	c.ticks.Store(0)
	c.fracBits.Store(0)
}

// SetTicksPerSecond changes the clock's rate.
func (c *Clock) SetTicksPerSecond(v float64) {
	c.ticksPerSecBit.Store(math.Float64bits(v))
}

// TicksPerSecond returns the clock's current rate.
func (c *Clock) TicksPerSecond() float64 {
	return math.Float64frombits(c.ticksPerSecBit.Load())
}

// Ticking reports whether the clock is currently advancing.
func (c *Clock) Ticking() bool { return c.ticking.Load() }

// Ticks returns the current integer tick count.
func (c *Clock) Ticks() uint64 { return c.ticks.Load() }

// Frac returns the fractional accumulator in [0, 1).
func (c *Clock) Frac() float64 { return math.Float64frombits(c.fracBits.Load()) }

// Tick advances the clock by dt seconds, per spec §4.5:
//
//	if ticking: frac += dt * ticksPerSecond
//	while frac >= 1.0: frac -= 1.0; ticks += 1
func (c *Clock) Tick(dt float64) {
	if !c.ticking.Load() {
		return
	}
	frac := c.Frac() + dt*c.TicksPerSecond()
	ticks := c.ticks.Load()
	for frac >= 1.0 {
		frac -= 1.0
		ticks++
	}
	c.fracBits.Store(math.Float64bits(frac))
	c.ticks.Store(ticks)
}

// StartGate describes when a Sound should begin playing: either
// immediately, or when a given Clock reaches a tick count (with an
// optional sub-tick offset).
type StartGate struct {
	immediate bool
	clock     *Clock
	tick      uint64
	offset    float64
}

// Immediate returns a StartGate satisfied on the very next render frame.
func Immediate() StartGate { return StartGate{immediate: true} }

// AtClockTick returns a StartGate satisfied once clock reaches tick
// (optionally plus a sub-tick fractional offset).
func AtClockTick(c *Clock, tick uint64, offset float64) StartGate {
	return StartGate{clock: c, tick: tick, offset: offset}
}

// Satisfied reports whether the gate condition currently holds.
func (g StartGate) Satisfied() bool {
	if g.immediate {
		return true
	}
	if g.clock == nil {
		return true
	}
	if g.clock.Ticks() > g.tick {
		return true
	}
	if g.clock.Ticks() == g.tick {
		return g.clock.Frac() >= g.offset
	}
	return false
}
