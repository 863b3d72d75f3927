package collide

import (
	"stride/math/vec"
)

// AABB is an axis-aligned box given by its corners. Bounds are inclusive,
// touching boxes overlap.
type AABB struct {
	Min, Max vec.Vec3
}

func FromCenter(center, half vec.Vec3) AABB {
	return AABB{
		Min: vec.Sub(center, half),
		Max: vec.Add(center, half),
	}
}

func FromCorners(a, b vec.Vec3) AABB {
	min, max := vec.MinMax(a, b)
	return AABB{Min: min, Max: max}
}

func FromSphere(center vec.Vec3, radius float32) AABB {
	return FromCenter(center, vec.Vec3{X: radius, Y: radius, Z: radius})
}

func (b AABB) Center() vec.Vec3 {
	return vec.Add(b.Min, b.Max).Scale(0.5)
}

func (b AABB) Half() vec.Vec3 {
	return vec.Sub(b.Max, b.Min).Scale(0.5)
}

func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

func (b AABB) Contains(p vec.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Expand grows the box by d on all sides.
func (b AABB) Expand(d float32) AABB {
	e := vec.Vec3{X: d, Y: d, Z: d}
	return AABB{Min: vec.Sub(b.Min, e), Max: vec.Add(b.Max, e)}
}

func (b AABB) Union(o AABB) AABB {
	return AABB{Min: vec.Min(b.Min, o.Min), Max: vec.Max(b.Max, o.Max)}
}

// ClosestPoint clamps p to the box.
func (b AABB) ClosestPoint(p vec.Vec3) vec.Vec3 {
	return vec.Min(vec.Max(p, b.Min), b.Max)
}
