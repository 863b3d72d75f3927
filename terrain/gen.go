package terrain

import (
	"stride/math/vec"
	"stride/rand"
)

// Generate builds a rolling heightmap from seeded value noise. The same
// seed and dimensions produce the same terrain on every machine. amplitude
// scales the height range, feature the horizontal size of hills in cells.
func Generate(width, depth int, spacing float32, origin vec.Vec3, seed uint32, amplitude, feature float32) (*Terrain, error) {
	if feature <= 0 {
		feature = 8
	}
	heights := make([]float32, 0, width*depth)
	for z := 0; z < depth; z++ {
		for x := 0; x < width; x++ {
			n := rand.FBM2(seed, float32(x)/feature, float32(z)/feature, 4)
			heights = append(heights, n*amplitude)
		}
	}
	return New(width, depth, spacing, origin, heights)
}
