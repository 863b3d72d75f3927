// SPDX-License-Identifier: GPL-2.0-or-later

package collide

import (
	"errors"
	"fmt"

	"stride/math/vec"
)

// ErrInvalidShape is returned for non-positive radii or extents. Shapes are
// validated at construction so malformed parameters never reach the grid.
var ErrInvalidShape = errors.New("invalid shape parameters")

type Kind uint8

const (
	KindBox Kind = iota
	KindSphere
	KindCapsule
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindSphere:
		return "sphere"
	case KindCapsule:
		return "capsule"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Shape is a closed tagged variant. Boxes are axis-aligned, capsules stand
// on the Y axis; this layer has no rotation.
type Shape struct {
	Kind       Kind
	Half       vec.Vec3 // box half extents
	Radius     float32  // sphere and capsule
	HalfHeight float32  // capsule cylinder half height, caps excluded
}

func Box(half vec.Vec3) (Shape, error) {
	if half.X <= 0 || half.Y <= 0 || half.Z <= 0 {
		return Shape{}, fmt.Errorf("box half extents %v: %w", half, ErrInvalidShape)
	}
	return Shape{Kind: KindBox, Half: half}, nil
}

func Sphere(radius float32) (Shape, error) {
	if radius <= 0 {
		return Shape{}, fmt.Errorf("sphere radius %v: %w", radius, ErrInvalidShape)
	}
	return Shape{Kind: KindSphere, Radius: radius}, nil
}

// Capsule allows a zero half height, which degenerates to a sphere.
func Capsule(radius, halfHeight float32) (Shape, error) {
	if radius <= 0 || halfHeight < 0 {
		return Shape{}, fmt.Errorf("capsule radius %v half height %v: %w",
			radius, halfHeight, ErrInvalidShape)
	}
	return Shape{Kind: KindCapsule, Radius: radius, HalfHeight: halfHeight}, nil
}

func MustBox(half vec.Vec3) Shape {
	s, err := Box(half)
	if err != nil {
		panic(err)
	}
	return s
}

func MustSphere(radius float32) Shape {
	s, err := Sphere(radius)
	if err != nil {
		panic(err)
	}
	return s
}

func MustCapsule(radius, halfHeight float32) Shape {
	s, err := Capsule(radius, halfHeight)
	if err != nil {
		panic(err)
	}
	return s
}

// Scaled applies a transform scale to the shape parameters. Radii scale by
// the largest component, a conservative bound for non-uniform scales.
func (s Shape) Scaled(scale vec.Vec3) Shape {
	switch s.Kind {
	case KindBox:
		s.Half = vec.Mul(s.Half, scale)
	case KindSphere:
		s.Radius *= scale.MaxElem()
	case KindCapsule:
		s.Radius *= scale.MaxElem()
		s.HalfHeight *= scale.Y
	}
	return s
}

// AABB returns the world-space bounds of the shape at pos.
func (s Shape) AABB(pos vec.Vec3) AABB {
	switch s.Kind {
	case KindBox:
		return FromCenter(pos, s.Half)
	case KindSphere:
		return FromSphere(pos, s.Radius)
	case KindCapsule:
		half := vec.Vec3{
			X: s.Radius,
			Y: s.HalfHeight + s.Radius,
			Z: s.Radius,
		}
		return FromCenter(pos, half)
	}
	return AABB{Min: pos, Max: pos}
}

// segment returns the capsule core segment endpoints. For other kinds both
// ends equal pos.
func (s Shape) segment(pos vec.Vec3) (vec.Vec3, vec.Vec3) {
	if s.Kind != KindCapsule {
		return pos, pos
	}
	a := pos
	a.Y -= s.HalfHeight
	b := pos
	b.Y += s.HalfHeight
	return a, b
}

// Collider attaches filtering and trigger semantics to a shape. One
// collider per entity; compound shapes are out of scope.
type Collider struct {
	Shape   Shape
	Layer   Layer
	Mask    Mask
	Trigger bool
}

// CanCollide reports whether the pair passes both colliders' masks. The
// check is symmetric: each mask must include the other's layer.
func (c Collider) CanCollide(o Collider) bool {
	return c.Mask.Has(o.Layer) && o.Mask.Has(c.Layer)
}
