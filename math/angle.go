package math

import "math"

// Radians converts an angle in degrees to radians
func Radians(deg float32) float32 {
	return deg * math.Pi / 180
}

// Degrees converts an angle in radians to degrees
func Degrees(rad float32) float32 {
	return rad * 180 / math.Pi
}
