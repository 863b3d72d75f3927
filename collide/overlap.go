// SPDX-License-Identifier: GPL-2.0-or-later

package collide

import (
	"stride/math"
	"stride/math/vec"
)

// Overlap reports whether two shapes at the given positions intersect.
// The dispatch is a closed table over the shape kinds; arguments are
// normalized by kind first so the test is exactly symmetric.
func Overlap(a Shape, apos vec.Vec3, b Shape, bpos vec.Vec3) bool {
	if a.Kind > b.Kind {
		a, b = b, a
		apos, bpos = bpos, apos
	}
	switch {
	case a.Kind == KindBox && b.Kind == KindBox:
		return a.AABB(apos).Overlaps(b.AABB(bpos))
	case a.Kind == KindBox && b.Kind == KindSphere:
		return boxSphere(a.AABB(apos), bpos, b.Radius)
	case a.Kind == KindBox && b.Kind == KindCapsule:
		return boxCapsule(a.AABB(apos), b, bpos)
	case a.Kind == KindSphere && b.Kind == KindSphere:
		return sphereSphere(apos, a.Radius, bpos, b.Radius)
	case a.Kind == KindSphere && b.Kind == KindCapsule:
		c1, c2 := b.segment(bpos)
		c := closestOnSegment(apos, c1, c2)
		return sphereSphere(apos, a.Radius, c, b.Radius)
	case a.Kind == KindCapsule && b.Kind == KindCapsule:
		a1, a2 := a.segment(apos)
		b1, b2 := b.segment(bpos)
		p, q := closestSegSeg(a1, a2, b1, b2)
		return sphereSphere(p, a.Radius, q, b.Radius)
	}
	return false
}

func sphereSphere(a vec.Vec3, ra float32, b vec.Vec3, rb float32) bool {
	r := ra + rb
	return vec.DistSqr(a, b) <= r*r
}

func boxSphere(box AABB, center vec.Vec3, radius float32) bool {
	q := box.ClosestPoint(center)
	return vec.DistSqr(q, center) <= radius*radius
}

// boxCapsule reduces to a closest-point-on-box vs capsule-radius check:
// find the segment point nearest the box, clamp it to the box, and measure
// back to the segment.
func boxCapsule(box AABB, cps Shape, cpos vec.Vec3) bool {
	a, b := cps.segment(cpos)
	c := closestOnSegment(box.Center(), a, b)
	q := box.ClosestPoint(c)
	p := closestOnSegment(q, a, b)
	return vec.DistSqr(p, q) <= cps.Radius*cps.Radius
}

func closestOnSegment(p, a, b vec.Vec3) vec.Vec3 {
	ab := vec.Sub(b, a)
	denom := vec.Dot(ab, ab)
	if denom == 0 {
		return a
	}
	t := math.Clamp(0, vec.Dot(vec.Sub(p, a), ab)/denom, 1)
	return vec.Add(a, ab.Scale(t))
}

// closestSegSeg returns the closest pair of points between two segments.
func closestSegSeg(p1, q1, p2, q2 vec.Vec3) (vec.Vec3, vec.Vec3) {
	const eps = 1e-8
	d1 := vec.Sub(q1, p1)
	d2 := vec.Sub(q2, p2)
	r := vec.Sub(p1, p2)
	a := vec.Dot(d1, d1)
	e := vec.Dot(d2, d2)
	f := vec.Dot(d2, r)

	var s, t float32
	switch {
	case a <= eps && e <= eps:
		return p1, p2
	case a <= eps:
		t = math.Clamp(0, f/e, 1)
	case e <= eps:
		c := vec.Dot(d1, r)
		s = math.Clamp(0, -c/a, 1)
	default:
		c := vec.Dot(d1, r)
		b := vec.Dot(d1, d2)
		denom := a*e - b*b
		if denom != 0 {
			s = math.Clamp(0, (b*f-c*e)/denom, 1)
		}
		t = (b*s + f) / e
		if t < 0 {
			t = 0
			s = math.Clamp(0, -c/a, 1)
		} else if t > 1 {
			t = 1
			s = math.Clamp(0, (b-c)/a, 1)
		}
	}
	return vec.Add(p1, d1.Scale(s)), vec.Add(p2, d2.Scale(t))
}
