package sound

// Cooldown is a per-asset minimum spacing between triggerings, grounded
// verbatim on the original implementation's sound.rs cooldown fields and
// methods. Only the one-shot "play" API consults a Cooldown; sound
// instances created directly bypass it (spec §4.3).
type Cooldown struct {
	duration float64
	timer    float64
}

// NewCooldown returns a Cooldown with the given duration in seconds and
// no pending timer.
func NewCooldown(duration float64) *Cooldown {
	return &Cooldown{duration: duration}
}

// Start sets the cooldown timer, called after a sound using this asset is
// emitted.
func (c *Cooldown) Start() {
	c.timer = c.duration
}

// Update ticks the cooldown timer down by dt once per render, never
// below zero.
func (c *Cooldown) Update(dt float64) {
	if c.timer > 0 {
		c.timer -= dt
		if c.timer < 0 {
			c.timer = 0
		}
	}
}

// CoolingDown reports whether a subsequent play request for this asset
// should be rejected with StillCoolingDown.
func (c *Cooldown) CoolingDown() bool {
	return c.timer > 0
}
