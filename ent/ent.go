// SPDX-License-Identifier: GPL-2.0-or-later

// Package ent provides weak entity handles. The simulation indexes all
// spatial and collision state by ID and defers liveness to the allocator,
// so a despawned entity can never alias a live one.
package ent

import "fmt"

// ID is an opaque entity handle. The low 32 bit are the slot index, the
// high 32 bit the slot generation. The zero ID is never allocated.
type ID uint64

const None = ID(0)

func Make(index, gen uint32) ID {
	return ID(uint64(gen)<<32 | uint64(index))
}

func (id ID) Index() uint32 {
	return uint32(id)
}

func (id ID) Gen() uint32 {
	return uint32(id >> 32)
}

func (id ID) Valid() bool {
	return id != None
}

func (id ID) String() string {
	return fmt.Sprintf("%d:%d", id.Index(), id.Gen())
}

// Allocator hands out IDs and recycles slot indexes. Freeing a slot bumps
// its generation, invalidating every ID previously issued for that slot.
type Allocator struct {
	gens []uint32
	free []uint32
	live int
}

func NewAllocator() *Allocator {
	// slot 0 stays unused so the zero ID is never live
	return &Allocator{gens: []uint32{0}}
}

func (a *Allocator) Alloc() ID {
	a.live++
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		return Make(idx, a.gens[idx])
	}
	idx := uint32(len(a.gens))
	a.gens = append(a.gens, 1)
	return Make(idx, 1)
}

// Free releases the id's slot. Freeing a stale or never-allocated id
// reports false and changes nothing.
func (a *Allocator) Free(id ID) bool {
	if !a.Alive(id) {
		return false
	}
	idx := id.Index()
	a.gens[idx]++
	a.free = append(a.free, idx)
	a.live--
	return true
}

func (a *Allocator) Alive(id ID) bool {
	idx := id.Index()
	if !id.Valid() || idx == 0 || int(idx) >= len(a.gens) {
		return false
	}
	return a.gens[idx] == id.Gen()
}

func (a *Allocator) Len() int {
	return a.live
}
