// SPDX-License-Identifier: GPL-2.0-or-later

package collide

import "math/bits"

// Layer classifies a collider. Each collider carries exactly one layer bit;
// masks and the interaction matrix are sets of layer bits.
type Layer uint32

const (
	Default Layer = 1 << iota
	Player
	NPC
	Environment
	Trigger
	Projectile
	Item
	Terrain
)

func (l Layer) index() int {
	return bits.TrailingZeros32(uint32(l))
}

// Mask is the set of layers a collider interacts with.
type Mask uint32

const (
	MaskNone Mask = 0
	MaskAll  Mask = ^MaskNone
)

func (m Mask) Has(l Layer) bool {
	return uint32(m)&uint32(l) != 0
}

func (m Mask) With(l Layer) Mask {
	return m | Mask(l)
}

func (m Mask) Without(l Layer) Mask {
	return m &^ Mask(l)
}

// Matrix is the symmetric layer interaction matrix. A pair of colliders is
// eligible for narrow-phase testing only if the matrix allows their layers.
type Matrix struct {
	rows [32]Mask
}

// AllowAll returns a matrix with every layer pair enabled.
func AllowAll() Matrix {
	var m Matrix
	for i := range m.rows {
		m.rows[i] = MaskAll
	}
	return m
}

func (m *Matrix) Allow(a, b Layer) {
	m.rows[a.index()] = m.rows[a.index()].With(b)
	m.rows[b.index()] = m.rows[b.index()].With(a)
}

func (m *Matrix) Forbid(a, b Layer) {
	m.rows[a.index()] = m.rows[a.index()].Without(b)
	m.rows[b.index()] = m.rows[b.index()].Without(a)
}

func (m *Matrix) Allows(a, b Layer) bool {
	return m.rows[a.index()].Has(b)
}
