// SPDX-License-Identifier: GPL-2.0-or-later

// Package mover implements the kinematic character controller. Movement is
// position-driven: horizontal displacement comes straight from input each
// tick, only the vertical axis carries velocity between ticks. Tuning is
// read from cvars on every call so live config changes apply immediately.
package mover

import (
	"github.com/chewxy/math32"

	"stride/collide"
	"stride/cvars"
	"stride/ent"
	"stride/math"
	"stride/math/vec"
	"stride/terrain"
	"stride/world"
)

// GroundMask selects what counts as ground for the downward check.
var GroundMask = collide.Mask(collide.Environment) | collide.Mask(collide.Terrain)

// slope angles this close to the limit still count as walkable, so an
// exactly-at-limit ramp does not flicker on float noise
const slopeEpsilon = 1e-4

// Controller moves bodies through a world set and over a terrain. It keeps
// a scratch buffer between calls and is not safe for concurrent use; run
// one controller per worker.
type Controller struct {
	set *world.Set
	ter *terrain.Terrain
	buf []ent.ID
}

func New(s *world.Set, ter *terrain.Terrain) *Controller {
	return &Controller{set: s, ter: ter}
}

// Move advances one entity by one tick of input and writes the resolved
// position back through the set. Unlinked ids report false and change
// nothing.
func (c *Controller) Move(id ent.ID, st *State, in Input, dt float32) bool {
	b, ok := c.set.Get(id)
	if !ok {
		return false
	}
	if dt <= 0 {
		return true
	}

	maxSpeed := cvars.ServerMaxSpeed.Value()
	airControl := cvars.ServerAirControl.Value()
	gravity := cvars.ServerGravity.Value()
	maxFall := cvars.ServerMaxFall.Value()
	jumpVel := cvars.ServerJump.Value()
	slopeLimit := math.Radians(cvars.ServerSlopeLimit.Value())
	stepHeight := cvars.ServerStepHeight.Value()
	snapTol := cvars.ServerSnapTolerance.Value()
	skin := cvars.ServerSkinWidth.Value()

	pos := b.Pos

	// horizontal intent, analog below unit length
	dir := in.Move.Flat()
	if l2 := dir.LengthSqr(); l2 > 1 {
		dir = dir.Scale(1 / math32.Sqrt(l2))
	}
	speed := maxSpeed
	if !st.Grounded {
		speed *= airControl
	}
	disp := dir.Scale(speed * dt)

	// standing on too-steep ground refuses the climbing component but keeps
	// sideways and downhill movement
	if st.Grounded && !walkable(st.GroundNormal, slopeLimit) {
		disp = clipUphill(disp, st.GroundNormal)
	}

	if disp.LengthSqr() > 0 {
		target := vec.Add(pos, disp)
		switch {
		case c.terrainBlocks(b, target, stepHeight, slopeLimit):
			target = pos
		case c.blockedAt(b, target, skin):
			raised := target
			raised.Y += stepHeight
			if stepHeight > 0 && !c.blockedAt(b, raised, skin) {
				target = raised
			} else {
				target = pos
			}
		}
		pos = target
	}

	// jump only from the ground; the ascent starts this same tick
	if in.Jump && st.Grounded {
		st.VerticalVel = jumpVel
		st.Grounded = false
		st.Jump = Jumping
	}

	st.VerticalVel -= gravity * dt
	if st.VerticalVel < -maxFall {
		st.VerticalVel = -maxFall
	}
	drop := -st.VerticalVel * dt
	pos.Y += st.VerticalVel * dt

	// ground check: cast down across the span this tick descended, plus the
	// snap tolerance. Rising entities skip it so a jump cannot snap back.
	grounded := false
	if cvars.ServerGroundCheck.Bool() && st.VerticalVel <= 0 {
		feetOff := pos.Y - b.Shape().AABB(pos).Min.Y
		lift := skin
		if drop > 0 {
			lift += drop
		}
		origin := vec.Vec3{X: pos.X, Y: pos.Y - feetOff + lift, Z: pos.Z}
		ray := collide.Ray{Origin: origin, Dir: vec.Vec3{Y: -1}}
		if h, ok := world.Cast(c.set, c.ter, ray, lift+snapTol, GroundMask); ok {
			ground := h.Point.Y
			if h.Ent == ent.None && c.ter != nil {
				// vertical ray, so the surface height at (x,z) is exact even
				// when the cast started below it
				ground = c.ter.HeightAt(pos.X, pos.Z)
			}
			pos.Y = ground + feetOff
			st.VerticalVel = 0
			st.GroundNormal = h.Normal
			grounded = true
		}
	}

	if grounded {
		st.Grounded = true
		st.SinceGround = 0
		st.Jump = Idle
	} else {
		st.Grounded = false
		st.SinceGround += dt
		if st.VerticalVel <= 0 {
			st.Jump = Falling
		}
	}

	c.set.MoveTo(id, pos)
	return true
}

// walkable reports whether ground with this contact normal is within the
// slope limit. The limit itself is walkable.
func walkable(normal vec.Vec3, limit float32) bool {
	if normal.Y <= 0 {
		return false
	}
	angle := math32.Acos(math.Clamp(-1, normal.Y, 1))
	return angle <= limit+slopeEpsilon
}

// clipUphill removes the component of disp that climbs the slope described
// by normal. Movement across or down the slope passes through.
func clipUphill(disp, normal vec.Vec3) vec.Vec3 {
	downhill := normal.Flat()
	if downhill.LengthSqr() < 1e-12 {
		return disp
	}
	uphill := downhill.Normalize().Scale(-1)
	climb := vec.Dot(disp, uphill)
	if climb <= 0 {
		return disp
	}
	return vec.Sub(disp, uphill.Scale(climb))
}

// terrainBlocks reports whether moving to at would require climbing more
// than the step height on ground steeper than the slope limit. Walkable
// rises of any size pass, the ground snap carries the body up them.
func (c *Controller) terrainBlocks(b *world.Body, at vec.Vec3, stepHeight, slopeLimit float32) bool {
	if c.ter == nil {
		return false
	}
	feet := b.Shape().AABB(at).Min.Y
	rise := c.ter.HeightAt(at.X, at.Z) - feet
	if rise <= stepHeight {
		return false
	}
	return !walkable(c.ter.NormalAt(at.X, at.Z), slopeLimit)
}

// blockedAt reports whether the body overlaps solid environment geometry
// at the candidate position. The test shape is shrunk by the skin width so
// resting contact does not read as blocked.
func (c *Controller) blockedAt(b *world.Body, at vec.Vec3, skin float32) bool {
	shape := shrink(b.Shape(), skin)
	g := c.set.Grid()
	c.buf = g.QueryRegionBuf(b.Shape().AABB(at), c.buf[:0])
	for _, id := range c.buf {
		if id == b.Ent {
			continue
		}
		o, ok := c.set.Get(id)
		if !ok || o.Col.Layer != collide.Environment || o.Col.Trigger {
			continue
		}
		if !b.Col.CanCollide(o.Col) {
			continue
		}
		if collide.Overlap(shape, at, o.Shape(), o.Pos) {
			return true
		}
	}
	return false
}

// shrink contracts a shape by the skin width, keeping a sliver so the
// overlap test stays meaningful for tiny shapes.
func shrink(s collide.Shape, skin float32) collide.Shape {
	const sliver = 1e-3
	switch s.Kind {
	case collide.KindBox:
		s.Half.X = math32.Max(s.Half.X-skin, sliver)
		s.Half.Y = math32.Max(s.Half.Y-skin, sliver)
		s.Half.Z = math32.Max(s.Half.Z-skin, sliver)
	case collide.KindSphere, collide.KindCapsule:
		s.Radius = math32.Max(s.Radius-skin, sliver)
	}
	return s
}
