// SPDX-License-Identifier: GPL-2.0-or-later

package world

import (
	"github.com/chewxy/math32"

	"stride/collide"
	"stride/ent"
	"stride/grid"
	"stride/math/vec"
	"stride/terrain"
)

// Hit is a ray hit against a body or the terrain. Ent is ent.None for
// terrain hits.
type Hit struct {
	collide.Hit
	Ent ent.ID
}

// Cast resolves the closest hit along r within max against linked bodies
// whose layer is in mask, and against ter when mask includes the Terrain
// layer. ter may be nil. A degenerate ray or non-positive max never hits.
func Cast(s *Set, ter *terrain.Terrain, r collide.Ray, max float32, mask collide.Mask) (Hit, bool) {
	var best Hit
	found := false
	if r.Dir.LengthSqr() >= collide.DirEpsilon && max > 0 {
		g := s.Grid()
		visited := make(map[ent.ID]struct{})
		g.WalkRay(r, max, func(c grid.Cell) bool {
			if found {
				// cells past the best hit cannot hold a closer one
				if entry, ok := collide.RayAABB(r, g.CellBounds(c), math32.MaxFloat32); ok && entry.Dist > best.Dist {
					return false
				}
			}
			g.EachIn(c, func(id ent.ID) {
				if _, done := visited[id]; done {
					return
				}
				visited[id] = struct{}{}
				b, ok := s.Get(id)
				if !ok || !mask.Has(b.Col.Layer) {
					return
				}
				h, ok := collide.RayShape(r, b.Shape(), b.Pos, max)
				if !ok {
					return
				}
				if !found || h.Dist < best.Dist ||
					(h.Dist == best.Dist && id < best.Ent) {
					best = Hit{Hit: h, Ent: id}
					found = true
				}
			})
			return true
		})
	}

	if ter != nil && mask.Has(collide.Terrain) {
		if h, ok := ter.Raycast(r, max); ok && (!found || h.Dist < best.Dist) {
			best = Hit{Hit: h, Ent: ent.None}
			found = true
		}
	}
	return best, found
}

// LineOfSight reports whether the segment from a to b is clear of bodies
// on the blockers mask and, when the mask includes Terrain, of the terrain.
// Coincident endpoints always see each other.
func LineOfSight(s *Set, ter *terrain.Terrain, a, b vec.Vec3, blockers collide.Mask) bool {
	d := vec.Sub(b, a)
	r, ok := collide.NewRay(a, d)
	if !ok {
		return true
	}
	_, blocked := Cast(s, ter, r, d.Length(), blockers)
	return !blocked
}
