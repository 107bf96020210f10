// Package render implements the mixer graph and the per-callback
// renderer orchestration (spec §3, §4.4, §4.6).
package render

import "audiocore/internal/ringbuf"

// cpuUsageRingCapacity matches the original implementation's
// CPU_USAGE_RINGBUFFER_CAPACITY. The ring rounds it up to the next power
// of two, so the ring actually holds 128 observations.
const cpuUsageRingCapacity = 100

// CPUUsage is a ring of elapsed/allotted ratios (128 slots), one pushed
// per renderer callback (spec §4.6 step 3). A full ring silently drops
// the oldest observation, matching the original's try_push().ok().
type CPUUsage struct {
	ring *ringbuf.Ring[float32]
}

// NewCPUUsage returns an empty CPU usage ring.
func NewCPUUsage() *CPUUsage {
	return &CPUUsage{ring: ringbuf.New[float32](cpuUsageRingCapacity)}
}

// push records one elapsed/allotted ratio, dropping the oldest
// observation if the ring is full.
func (c *CPUUsage) push(ratio float32) {
	if !c.ring.TryPush(ratio) {
		c.ring.TryPop()
		c.ring.TryPush(ratio)
	}
}

// Pop returns the oldest recorded ratio, if any, per the teacher's
// pop_cpu_usage naming.
func (c *CPUUsage) Pop() (float32, bool) {
	return c.ring.TryPop()
}
