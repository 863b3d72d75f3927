package vec

import (
	"github.com/chewxy/math32"
)

type Vec3 struct {
	X, Y, Z float32
}

// Length returns the length of the vector
func (v Vec3) Length() float32 {
	return math32.Sqrt(Dot(v, v))
}

// LengthSqr returns the squared length of the vector
func (v Vec3) LengthSqr() float32 {
	return Dot(v, v)
}

// Add returns a + b
func Add(a, b Vec3) Vec3 {
	return Vec3{
		X: a.X + b.X,
		Y: a.Y + b.Y,
		Z: a.Z + b.Z,
	}
}

// Sub returns a - b
func Sub(a, b Vec3) Vec3 {
	return Vec3{
		X: a.X - b.X,
		Y: a.Y - b.Y,
		Z: a.Z - b.Z,
	}
}

// Mul returns the component-wise product of a and b
func Mul(a, b Vec3) Vec3 {
	return Vec3{
		X: a.X * b.X,
		Y: a.Y * b.Y,
		Z: a.Z * b.Z,
	}
}

// Scale returns the vector multiplied by the skalar s
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{
		X: v.X * s,
		Y: v.Y * s,
		Z: v.Z * s,
	}
}

// Normalize returns the normalized vector
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Flat returns the vector with its Y component zeroed
func (v Vec3) Flat() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

// WithY returns the vector with its Y component replaced by y
func (v Vec3) WithY(y float32) Vec3 {
	return Vec3{X: v.X, Y: y, Z: v.Z}
}

// MaxElem returns the largest of the three components
func (v Vec3) MaxElem() float32 {
	m := v.X
	if v.Y > m {
		m = v.Y
	}
	if v.Z > m {
		m = v.Z
	}
	return m
}

// Dot returns a dot b
func Dot(a, b Vec3) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns a cross b
func Cross(a, b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Lerp computes a weighted average between two points
func Lerp(a, b Vec3, frac float32) Vec3 {
	fi := 1 - frac
	return Vec3{
		fi*a.X + frac*b.X,
		fi*a.Y + frac*b.Y,
		fi*a.Z + frac*b.Z,
	}
}

// Dist returns the distance between the points a and b
func Dist(a, b Vec3) float32 {
	return Sub(a, b).Length()
}

// DistSqr returns the squared distance between the points a and b
func DistSqr(a, b Vec3) float32 {
	return Sub(a, b).LengthSqr()
}

func minmax(a, b float32) (float32, float32) {
	if a < b {
		return a, b
	}
	return b, a
}

func MinMax(a, b Vec3) (Vec3, Vec3) {
	var r, s Vec3
	r.X, s.X = minmax(a.X, b.X)
	r.Y, s.Y = minmax(a.Y, b.Y)
	r.Z, s.Z = minmax(a.Z, b.Z)
	return r, s
}

// Min returns the component-wise minimum of a and b
func Min(a, b Vec3) Vec3 {
	return Vec3{
		math32.Min(a.X, b.X),
		math32.Min(a.Y, b.Y),
		math32.Min(a.Z, b.Z),
	}
}

// Max returns the component-wise maximum of a and b
func Max(a, b Vec3) Vec3 {
	return Vec3{
		math32.Max(a.X, b.X),
		math32.Max(a.Y, b.Y),
		math32.Max(a.Z, b.Z),
	}
}
