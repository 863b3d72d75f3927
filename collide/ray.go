// SPDX-License-Identifier: GPL-2.0-or-later

package collide

import (
	"github.com/chewxy/math32"

	"stride/math/vec"
)

// DirEpsilon is the squared direction length below which a ray counts as
// degenerate and can never hit.
const DirEpsilon = 1e-8

// Ray has a normalized direction; Dist on a Hit is measured in world units
// along it. Build rays with NewRay unless the direction is known unit.
type Ray struct {
	Origin, Dir vec.Vec3
}

// NewRay normalizes dir. Degenerate directions report false.
func NewRay(origin, dir vec.Vec3) (Ray, bool) {
	if dir.LengthSqr() < DirEpsilon {
		return Ray{}, false
	}
	return Ray{Origin: origin, Dir: dir.Normalize()}, true
}

func (r Ray) At(t float32) vec.Vec3 {
	return vec.Add(r.Origin, r.Dir.Scale(t))
}

type Hit struct {
	Point  vec.Vec3
	Normal vec.Vec3
	Dist   float32
}

// insideHit is the shared policy for rays starting inside a shape: report a
// hit at distance zero, facing back along the ray.
func insideHit(r Ray) Hit {
	return Hit{Point: r.Origin, Normal: r.Dir.Scale(-1), Dist: 0}
}

// RayAABB is the slab test. A ray starting inside hits at distance zero.
func RayAABB(r Ray, b AABB, max float32) (Hit, bool) {
	if b.Contains(r.Origin) {
		return insideHit(r), true
	}
	o := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	d := [3]float32{r.Dir.X, r.Dir.Y, r.Dir.Z}
	bmin := [3]float32{b.Min.X, b.Min.Y, b.Min.Z}
	bmax := [3]float32{b.Max.X, b.Max.Y, b.Max.Z}

	tmin := float32(0)
	tmax := max
	axis := -1
	flip := false
	for i := 0; i < 3; i++ {
		if d[i] > -1e-8 && d[i] < 1e-8 {
			// parallel to the slab, either always inside it or never
			if o[i] < bmin[i] || o[i] > bmax[i] {
				return Hit{}, false
			}
			continue
		}
		inv := 1 / d[i]
		t1 := (bmin[i] - o[i]) * inv
		t2 := (bmax[i] - o[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
			axis = i
			flip = d[i] > 0
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return Hit{}, false
		}
	}
	if axis < 0 {
		return Hit{}, false
	}
	var normal vec.Vec3
	switch axis {
	case 0:
		normal = vec.Vec3{X: 1}
	case 1:
		normal = vec.Vec3{Y: 1}
	case 2:
		normal = vec.Vec3{Z: 1}
	}
	if flip {
		normal = normal.Scale(-1)
	}
	return Hit{Point: r.At(tmin), Normal: normal, Dist: tmin}, true
}

// RaySphere solves the quadratic for the nearer crossing.
func RaySphere(r Ray, center vec.Vec3, radius, max float32) (Hit, bool) {
	oc := vec.Sub(r.Origin, center)
	c := oc.LengthSqr() - radius*radius
	if c < 0 {
		return insideHit(r), true
	}
	b := vec.Dot(oc, r.Dir)
	disc := b*b - c
	if disc < 0 {
		return Hit{}, false
	}
	t := -b - math32.Sqrt(disc)
	if t < 0 || t > max {
		return Hit{}, false
	}
	p := r.At(t)
	return Hit{
		Point:  p,
		Normal: vec.Sub(p, center).Scale(1 / radius),
		Dist:   t,
	}, true
}

// RayCapsule tests the cylinder wall clipped to the core segment plus the
// two cap spheres, keeping the nearest hit.
func RayCapsule(r Ray, center vec.Vec3, radius, halfHeight, max float32) (Hit, bool) {
	bottom := center
	bottom.Y -= halfHeight
	top := center
	top.Y += halfHeight

	if vec.DistSqr(r.Origin, closestOnSegment(r.Origin, bottom, top)) < radius*radius {
		return insideHit(r), true
	}

	best := Hit{Dist: max}
	found := false

	// wall: quadratic in the XZ plane, hit kept only between the caps
	ox := r.Origin.X - center.X
	oz := r.Origin.Z - center.Z
	a := r.Dir.X*r.Dir.X + r.Dir.Z*r.Dir.Z
	if a > 1e-8 {
		b := ox*r.Dir.X + oz*r.Dir.Z
		c := ox*ox + oz*oz - radius*radius
		disc := b*b - a*c
		if disc >= 0 {
			t := (-b - math32.Sqrt(disc)) / a
			if t >= 0 && t <= best.Dist {
				p := r.At(t)
				if p.Y >= bottom.Y && p.Y <= top.Y {
					axis := vec.Vec3{X: center.X, Y: p.Y, Z: center.Z}
					best = Hit{
						Point:  p,
						Normal: vec.Sub(p, axis).Scale(1 / radius),
						Dist:   t,
					}
					found = true
				}
			}
		}
	}

	if h, ok := RaySphere(r, top, radius, best.Dist); ok {
		best = h
		found = true
	}
	if h, ok := RaySphere(r, bottom, radius, best.Dist); ok {
		best = h
		found = true
	}
	if !found {
		return Hit{}, false
	}
	return best, true
}

// RayShape dispatches on the shape kind.
func RayShape(r Ray, s Shape, pos vec.Vec3, max float32) (Hit, bool) {
	switch s.Kind {
	case KindBox:
		return RayAABB(r, s.AABB(pos), max)
	case KindSphere:
		return RaySphere(r, pos, s.Radius, max)
	case KindCapsule:
		return RayCapsule(r, pos, s.Radius, s.HalfHeight, max)
	}
	return Hit{}, false
}
