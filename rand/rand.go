// SPDX-License-Identifier: GPL-2.0-or-later

// Package rand provides a deterministic noise-hash generator. The same
// seed always yields the same sequence and the same 2D lattice, which
// keeps generated terrains reproducible across runs and machines.
package rand

const (
	noise1 = 0xB5297A4D
	noise2 = 0x68E31DA4
	noise3 = 0x1B56C4E9
	prime2 = 0xBD4BCB5
)

type Generator struct {
	idx  uint32
	seed uint32
}

func New(seed uint32) Generator {
	return Generator{idx: 0, seed: seed}
}

func noise(p uint32, s uint32) uint32 {
	m := p
	m *= noise1
	m += s
	m ^= (m >> 8)
	m *= noise2
	m ^= (m << 8)
	m *= noise3
	m ^= (m >> 8)
	return m
}

func (g *Generator) rand() uint32 {
	g.idx++
	return noise(g.idx, g.seed)
}

func (g *Generator) NewSeed(s uint32) {
	g.seed = s
}

func (g *Generator) Uint32n(n uint32) uint32 {
	return g.rand() % n
}

func (g *Generator) Intn(n int) int {
	return int(g.Uint32n(uint32(n)))
}

func (g *Generator) Float32() float32 {
	return float32(g.Uint32n(1<<26)) / (1 << 26)
}

// Float32Range returns a value in [lo, hi).
func (g *Generator) Float32Range(lo, hi float32) float32 {
	return lo + g.Float32()*(hi-lo)
}

// Lattice2 hashes an integer lattice point to [0, 1).
func Lattice2(seed uint32, x, y int32) float32 {
	h := noise(uint32(x)+uint32(y)*prime2, seed)
	return float32(h&(1<<26-1)) / (1 << 26)
}

// Smooth2 bilinearly blends the four lattice corners around (x, y).
func Smooth2(seed uint32, x, y float32) float32 {
	ix, fx := lattice(x)
	iy, fy := lattice(y)
	v00 := Lattice2(seed, ix, iy)
	v10 := Lattice2(seed, ix+1, iy)
	v01 := Lattice2(seed, ix, iy+1)
	v11 := Lattice2(seed, ix+1, iy+1)
	v0 := v00 + (v10-v00)*fx
	v1 := v01 + (v11-v01)*fx
	return v0 + (v1-v0)*fy
}

// FBM2 stacks octaves of Smooth2, halving amplitude and doubling frequency
// per octave. The result stays in [0, 1).
func FBM2(seed uint32, x, y float32, octaves int) float32 {
	var sum, norm float32
	amp := float32(1)
	freq := float32(1)
	for o := 0; o < octaves; o++ {
		sum += Smooth2(seed+uint32(o), x*freq, y*freq) * amp
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

func lattice(v float32) (int32, float32) {
	i := int32(v)
	if v < 0 && v != float32(i) {
		i--
	}
	return i, v - float32(i)
}
