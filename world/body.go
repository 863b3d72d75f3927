// SPDX-License-Identifier: GPL-2.0-or-later

// Package world ties entities, colliders and the broad-phase grid together.
// A Set owns the link between an entity and its body; the Detector diffs
// overlap pairs across ticks; Cast resolves rays against linked bodies and
// the terrain.
package world

import (
	"stride/collide"
	"stride/ent"
	"stride/grid"
	"stride/math/vec"
)

// Body is the physical state of a linked entity. Pos is the shape center.
// Mutate only through Set so the grid stays in sync.
type Body struct {
	Ent   ent.ID
	Col   collide.Collider
	Pos   vec.Vec3
	Scale vec.Vec3
}

// Shape returns the collider shape with the body scale applied.
func (b *Body) Shape() collide.Shape {
	return b.Col.Shape.Scaled(b.Scale)
}

// AABB returns the world-space bounds of the scaled shape at Pos.
func (b *Body) AABB() collide.AABB {
	return b.Shape().AABB(b.Pos)
}

// Set is the registry of linked bodies, kept in sync with a broad-phase
// grid. Operations on ids that were never linked, or were unlinked, are
// no-ops; lookups report absence instead of failing.
type Set struct {
	grid   *grid.Grid
	bodies map[ent.ID]*Body
}

func NewSet(g *grid.Grid) *Set {
	return &Set{
		grid:   g,
		bodies: make(map[ent.ID]*Body),
	}
}

// Link registers a body for id and inserts it into the grid. Linking an id
// twice replaces the previous body.
func (s *Set) Link(id ent.ID, col collide.Collider, pos vec.Vec3) *Body {
	b := &Body{
		Ent:   id,
		Col:   col,
		Pos:   pos,
		Scale: vec.Vec3{X: 1, Y: 1, Z: 1},
	}
	s.bodies[id] = b
	s.grid.Insert(id, b.AABB())
	return b
}

// Unlink removes id from the set and the grid.
func (s *Set) Unlink(id ent.ID) {
	if _, ok := s.bodies[id]; !ok {
		return
	}
	delete(s.bodies, id)
	s.grid.Remove(id)
}

// Get returns the body linked to id.
func (s *Set) Get(id ent.ID) (*Body, bool) {
	b, ok := s.bodies[id]
	return b, ok
}

// MoveTo relocates id and refreshes its grid registration. Reports whether
// id was linked.
func (s *Set) MoveTo(id ent.ID, pos vec.Vec3) bool {
	b, ok := s.bodies[id]
	if !ok {
		return false
	}
	old := b.AABB()
	b.Pos = pos
	s.grid.Update(id, old, b.AABB())
	return true
}

// SetScale rescales id's shape and refreshes its grid registration.
func (s *Set) SetScale(id ent.ID, scale vec.Vec3) bool {
	b, ok := s.bodies[id]
	if !ok {
		return false
	}
	old := b.AABB()
	b.Scale = scale
	s.grid.Update(id, old, b.AABB())
	return true
}

// Each visits every linked body. Order is unspecified.
func (s *Set) Each(fn func(*Body)) {
	for _, b := range s.bodies {
		fn(b)
	}
}

func (s *Set) Len() int {
	return len(s.bodies)
}

// Grid returns the broad-phase grid the set maintains.
func (s *Set) Grid() *grid.Grid {
	return s.grid
}
