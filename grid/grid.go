// Package grid implements the uniform spatial hash used for broad-phase
// entity lookup. An entity is registered in every cell its AABB overlaps;
// queries union the membership of the covered cells. Mutation must complete
// before queries begin for a tick, queries themselves share no state and
// may run in parallel.
package grid

import (
	"errors"

	"github.com/chewxy/math32"

	"stride/collide"
	"stride/ent"
	"stride/math/vec"
)

var ErrBadCellSize = errors.New("cell size must be positive")

// DefaultCellSize suits character-scale entities; cells should exceed the
// typical entity bounding diameter. Entities far larger than a cell degrade
// to a scan of their multi-cell footprint, a documented limitation.
const DefaultCellSize = 10.0

// Cell is an integer cell coordinate.
type Cell struct {
	X, Y, Z int32
}

type span struct {
	min, max Cell
}

type entry struct {
	span span
	box  collide.AABB
}

// Grid maps cells to the set of entities whose AABB overlaps them. The
// cell size is fixed for the grid's lifetime.
type Grid struct {
	size  float32
	cells map[Cell]map[ent.ID]struct{}
	ents  map[ent.ID]entry
}

func New(size float32) (*Grid, error) {
	if size <= 0 {
		return nil, ErrBadCellSize
	}
	return &Grid{
		size:  size,
		cells: make(map[Cell]map[ent.ID]struct{}),
		ents:  make(map[ent.ID]entry),
	}, nil
}

func (g *Grid) CellSize() float32 {
	return g.size
}

// CellAt returns the cell containing p.
func (g *Grid) CellAt(p vec.Vec3) Cell {
	return Cell{
		X: int32(math32.Floor(p.X / g.size)),
		Y: int32(math32.Floor(p.Y / g.size)),
		Z: int32(math32.Floor(p.Z / g.size)),
	}
}

func (g *Grid) spanOf(box collide.AABB) span {
	return span{min: g.CellAt(box.Min), max: g.CellAt(box.Max)}
}

// Insert registers id for every cell its box overlaps. Inserting an id that
// is already present relocates it.
func (g *Grid) Insert(id ent.ID, box collide.AABB) {
	if e, ok := g.ents[id]; ok {
		g.removeSpan(id, e.span)
	}
	g.insertSpan(id, entry{span: g.spanOf(box), box: box})
}

// Update re-registers id for its new bounds. The old bounds serve the
// common case: when both resolve to the same cell span the cell maps are
// left untouched.
func (g *Grid) Update(id ent.ID, old, new collide.AABB) {
	ns := g.spanOf(new)
	e, ok := g.ents[id]
	if !ok {
		g.insertSpan(id, entry{span: ns, box: new})
		return
	}
	if g.spanOf(old) == ns && e.span == ns {
		g.ents[id] = entry{span: ns, box: new}
		return
	}
	g.removeSpan(id, e.span)
	g.insertSpan(id, entry{span: ns, box: new})
}

// Remove drops id from the grid. Unknown ids are ignored.
func (g *Grid) Remove(id ent.ID) {
	e, ok := g.ents[id]
	if !ok {
		return
	}
	g.removeSpan(id, e.span)
	delete(g.ents, id)
}

func (g *Grid) insertSpan(id ent.ID, e entry) {
	for x := e.span.min.X; x <= e.span.max.X; x++ {
		for y := e.span.min.Y; y <= e.span.max.Y; y++ {
			for z := e.span.min.Z; z <= e.span.max.Z; z++ {
				c := Cell{X: x, Y: y, Z: z}
				set := g.cells[c]
				if set == nil {
					set = make(map[ent.ID]struct{})
					g.cells[c] = set
				}
				set[id] = struct{}{}
			}
		}
	}
	g.ents[id] = e
}

func (g *Grid) removeSpan(id ent.ID, s span) {
	for x := s.min.X; x <= s.max.X; x++ {
		for y := s.min.Y; y <= s.max.Y; y++ {
			for z := s.min.Z; z <= s.max.Z; z++ {
				c := Cell{X: x, Y: y, Z: z}
				set := g.cells[c]
				delete(set, id)
				if len(set) == 0 {
					delete(g.cells, c)
				}
			}
		}
	}
}

// QueryRegion returns every tracked entity whose AABB overlaps box.
// Results are deduplicated candidates for a narrow phase, not exact hits.
func (g *Grid) QueryRegion(box collide.AABB) []ent.ID {
	return g.QueryRegionBuf(box, nil)
}

// QueryRegionBuf appends results to buf and returns it.
func (g *Grid) QueryRegionBuf(box collide.AABB, buf []ent.ID) []ent.ID {
	s := g.spanOf(box)
	seen := make(map[ent.ID]struct{})
	for x := s.min.X; x <= s.max.X; x++ {
		for y := s.min.Y; y <= s.max.Y; y++ {
			for z := s.min.Z; z <= s.max.Z; z++ {
				for id := range g.cells[Cell{X: x, Y: y, Z: z}] {
					if _, dup := seen[id]; dup {
						continue
					}
					seen[id] = struct{}{}
					if g.ents[id].box.Overlaps(box) {
						buf = append(buf, id)
					}
				}
			}
		}
	}
	return buf
}

// QueryRadius returns candidates overlapping the sphere's bounding box.
func (g *Grid) QueryRadius(center vec.Vec3, radius float32) []ent.ID {
	return g.QueryRadiusBuf(center, radius, nil)
}

func (g *Grid) QueryRadiusBuf(center vec.Vec3, radius float32, buf []ent.ID) []ent.ID {
	return g.QueryRegionBuf(collide.FromSphere(center, radius), buf)
}

// EachIn calls fn for every entity registered in cell c.
func (g *Grid) EachIn(c Cell, fn func(ent.ID)) {
	for id := range g.cells[c] {
		fn(id)
	}
}

// CellBounds returns the world-space box of cell c.
func (g *Grid) CellBounds(c Cell) collide.AABB {
	min := vec.Vec3{
		X: float32(c.X) * g.size,
		Y: float32(c.Y) * g.size,
		Z: float32(c.Z) * g.size,
	}
	return collide.AABB{
		Min: min,
		Max: vec.Add(min, vec.Vec3{X: g.size, Y: g.size, Z: g.size}),
	}
}

// Box returns the stored bounds for id.
func (g *Grid) Box(id ent.ID) (collide.AABB, bool) {
	e, ok := g.ents[id]
	return e.box, ok
}

// WalkRay visits the cells the ray pierces in order up to max distance,
// stopping early when visit returns false.
func (g *Grid) WalkRay(r collide.Ray, max float32, visit func(Cell) bool) {
	c := g.CellAt(r.Origin)

	stepX, tMaxX, tDeltaX := g.axisWalk(r.Origin.X, r.Dir.X, c.X)
	stepY, tMaxY, tDeltaY := g.axisWalk(r.Origin.Y, r.Dir.Y, c.Y)
	stepZ, tMaxZ, tDeltaZ := g.axisWalk(r.Origin.Z, r.Dir.Z, c.Z)

	for {
		if !visit(c) {
			return
		}
		switch {
		case tMaxX <= tMaxY && tMaxX <= tMaxZ:
			if tMaxX > max {
				return
			}
			c.X += stepX
			tMaxX += tDeltaX
		case tMaxY <= tMaxZ:
			if tMaxY > max {
				return
			}
			c.Y += stepY
			tMaxY += tDeltaY
		default:
			if tMaxZ > max {
				return
			}
			c.Z += stepZ
			tMaxZ += tDeltaZ
		}
	}
}

func (g *Grid) axisWalk(origin, dir float32, cell int32) (step int32, tMax, tDelta float32) {
	if dir > 1e-8 {
		return 1, (float32(cell+1)*g.size - origin) / dir, g.size / dir
	}
	if dir < -1e-8 {
		return -1, (float32(cell)*g.size - origin) / dir, -g.size / dir
	}
	return 0, math32.MaxFloat32, math32.MaxFloat32
}

// Len returns the number of tracked entities.
func (g *Grid) Len() int {
	return len(g.ents)
}

type Stats struct {
	Entities   int
	Cells      int
	MaxPerCell int
}

func (g *Grid) Stats() Stats {
	st := Stats{Entities: len(g.ents), Cells: len(g.cells)}
	for _, set := range g.cells {
		if len(set) > st.MaxPerCell {
			st.MaxPerCell = len(set)
		}
	}
	return st
}
