// SPDX-License-Identifier: GPL-2.0-or-later

// Package terrain implements the heightmap collider. Height lookups are
// bilinear over a regular sample lattice and clamp at the edges, so hot
// queries never fail. The terrain is one large surface for layer purposes
// and never enters the entity grid.
package terrain

import (
	"errors"

	"stride/collide"
	"stride/math/vec"

	"github.com/chewxy/math32"
)

var (
	ErrBadDimensions = errors.New("terrain needs at least 2x2 samples and positive spacing")
	ErrBadHeights    = errors.New("height count does not match terrain dimensions")
)

// Terrain is a width x depth lattice of height samples, spacing world units
// apart, anchored at origin. Heights are relative to origin.Y. Immutable
// after construction.
type Terrain struct {
	width, depth int
	spacing      float32
	origin       vec.Vec3
	heights      []float32
}

func New(width, depth int, spacing float32, origin vec.Vec3, heights []float32) (*Terrain, error) {
	if width < 2 || depth < 2 || spacing <= 0 {
		return nil, ErrBadDimensions
	}
	if len(heights) != width*depth {
		return nil, ErrBadHeights
	}
	return &Terrain{
		width:   width,
		depth:   depth,
		spacing: spacing,
		origin:  origin,
		heights: heights,
	}, nil
}

// Flat returns a constant-height terrain. Panics on invalid dimensions,
// intended for fixtures and generated worlds with known-good parameters.
func Flat(width, depth int, spacing float32, origin vec.Vec3, height float32) *Terrain {
	heights := make([]float32, width*depth)
	for i := range heights {
		heights[i] = height
	}
	t, err := New(width, depth, spacing, origin, heights)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Terrain) Width() int       { return t.width }
func (t *Terrain) Depth() int       { return t.depth }
func (t *Terrain) Spacing() float32 { return t.spacing }
func (t *Terrain) Origin() vec.Vec3 { return t.origin }

// Bounds returns the world-space box of the terrain surface.
func (t *Terrain) Bounds() collide.AABB {
	min := t.origin
	max := vec.Vec3{
		X: t.origin.X + float32(t.width-1)*t.spacing,
		Z: t.origin.Z + float32(t.depth-1)*t.spacing,
	}
	lo, hi := t.heights[0], t.heights[0]
	for _, h := range t.heights {
		if h < lo {
			lo = h
		}
		if h > hi {
			hi = h
		}
	}
	min.Y = t.origin.Y + lo
	max.Y = t.origin.Y + hi
	return collide.AABB{Min: min, Max: max}
}

func (t *Terrain) sample(ix, iz int) float32 {
	return t.heights[ix+iz*t.width]
}

// HeightAt samples the surface height at world (x, z). Coordinates outside
// the lattice clamp to the edge, never extrapolate, never fail.
func (t *Terrain) HeightAt(x, z float32) float32 {
	lx := (x - t.origin.X) / t.spacing
	lz := (z - t.origin.Z) / t.spacing

	lx = math32.Min(math32.Max(lx, 0), float32(t.width-1))
	lz = math32.Min(math32.Max(lz, 0), float32(t.depth-1))

	ix := int(lx)
	if ix > t.width-2 {
		ix = t.width - 2
	}
	iz := int(lz)
	if iz > t.depth-2 {
		iz = t.depth - 2
	}
	fx := lx - float32(ix)
	fz := lz - float32(iz)

	h00 := t.sample(ix, iz)
	h10 := t.sample(ix+1, iz)
	h01 := t.sample(ix, iz+1)
	h11 := t.sample(ix+1, iz+1)

	h0 := h00 + (h10-h00)*fx
	h1 := h01 + (h11-h01)*fx
	return t.origin.Y + h0 + (h1-h0)*fz
}

// NormalAt estimates the surface normal by central differences at half a
// cell's offset.
func (t *Terrain) NormalAt(x, z float32) vec.Vec3 {
	eps := t.spacing * 0.5
	hl := t.HeightAt(x-eps, z)
	hr := t.HeightAt(x+eps, z)
	hd := t.HeightAt(x, z-eps)
	hu := t.HeightAt(x, z+eps)
	n := vec.Vec3{X: hl - hr, Y: 2 * eps, Z: hd - hu}
	return n.Normalize()
}

// raycast marching step relative to the sample spacing, and the bisection
// tolerance on the crossing distance
const (
	marchFactor    = 0.5
	crossTolerance = 1e-3
)

// Raycast marches along the ray to the first point below the surface, then
// bisects the bracket to tolerance. A ray starting at or below the surface
// hits at distance zero.
func (t *Terrain) Raycast(r collide.Ray, max float32) (collide.Hit, bool) {
	if r.Dir.LengthSqr() < collide.DirEpsilon || max <= 0 {
		return collide.Hit{}, false
	}

	diff := func(at float32) float32 {
		p := r.At(at)
		return p.Y - t.HeightAt(p.X, p.Z)
	}

	d0 := diff(0)
	if d0 <= 0 {
		return collide.Hit{
			Point:  r.Origin,
			Normal: t.NormalAt(r.Origin.X, r.Origin.Z),
			Dist:   0,
		}, true
	}

	step := t.spacing * marchFactor
	lo, dlo := float32(0), d0
	hi := float32(-1)
	var dhi float32
	for at := step; ; at += step {
		if at > max {
			at = max
		}
		d := diff(at)
		if d <= 0 {
			hi, dhi = at, d
			break
		}
		lo, dlo = at, d
		if at >= max {
			return collide.Hit{}, false
		}
	}

	for hi-lo > crossTolerance {
		mid := (lo + hi) / 2
		if d := diff(mid); d > 0 {
			lo, dlo = mid, d
		} else {
			hi, dhi = mid, d
		}
	}
	at := hi
	// one secant step sharpens the crossing on near-linear surfaces
	if denom := dlo - dhi; denom > 0 {
		at = lo + (hi-lo)*dlo/denom
	}

	p := r.At(at)
	return collide.Hit{
		Point:  p,
		Normal: t.NormalAt(p.X, p.Z),
		Dist:   at,
	}, true
}
