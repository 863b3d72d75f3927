// SPDX-License-Identifier: GPL-2.0-or-later

package sim

import (
	"stride/cvars"
	"stride/math"
	"stride/simlog"
)

// maxFrameTime truncates a single wall-clock delta. Longer gaps come
// from suspends or debugger stops, not gameplay.
const maxFrameTime = 1.0

// Clock converts wall time into fixed simulation steps. The step
// length follows host_tickrate at the moment it is read.
type Clock struct {
	tick  uint64
	time  float64
	accum float64
}

func (c *Clock) Tick() uint64  { return c.tick }
func (c *Clock) Time() float64 { return c.time }

// Dt returns the fixed step length in seconds.
func (c *Clock) Dt() float32 {
	return float32(c.dt())
}

func (c *Clock) dt() float64 {
	rate := math.Clamp(1, float64(cvars.HostTickRate.Value()), 240)
	return 1 / rate
}

// Advance adds elapsed wall seconds and returns how many fixed steps
// are due, at most host_maxticks. Backlog beyond the cap is dropped so
// a stall cannot start a catch-up spiral.
func (c *Clock) Advance(elapsed float64) int {
	c.accum += math.Clamp(0, elapsed, maxFrameTime)
	dt := c.dt()
	steps := int(c.accum / dt)
	limit := int(cvars.HostMaxTicks.Value())
	if limit < 1 {
		limit = 1
	}
	if steps > limit {
		simlog.Printf("clock: dropped %.0fms of backlog", (c.accum-float64(limit)*dt)*1000)
		steps = limit
		c.accum = 0
	} else {
		c.accum -= float64(steps) * dt
	}
	return steps
}

// Step records one completed fixed step.
func (c *Clock) Step() {
	c.tick++
	c.time += c.dt()
}

// Resume continues counting from a stored tick and time.
func (c *Clock) Resume(tick uint64, time float64) {
	c.tick = tick
	c.time = time
	c.accum = 0
}
