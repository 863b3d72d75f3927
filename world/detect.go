// SPDX-License-Identifier: GPL-2.0-or-later

package world

import (
	"fmt"
	"sort"

	"stride/collide"
	"stride/ent"
)

// Pair is an unordered entity pair, stored with the smaller id first so a
// pair has one canonical form.
type Pair struct {
	A, B ent.ID
}

func MakePair(a, b ent.ID) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

type Phase uint8

const (
	Entered Phase = iota
	Staying
	Exited
)

func (p Phase) String() string {
	switch p {
	case Entered:
		return "entered"
	case Staying:
		return "staying"
	case Exited:
		return "exited"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// Event reports a change in the overlap state of a pair. Trigger is set
// when either collider is a trigger volume.
type Event struct {
	Pair
	Phase   Phase
	Trigger bool
}

// Detector diffs the overlapping pair set between consecutive ticks.
// Entered and Exited events always fire; Staying events only when
// EmitStaying is set, since most callers only care about transitions.
type Detector struct {
	Matrix      collide.Matrix
	EmitStaying bool

	prev, cur map[Pair]bool
	buf       []ent.ID
}

func NewDetector(m collide.Matrix) *Detector {
	return &Detector{
		Matrix: m,
		prev:   make(map[Pair]bool),
		cur:    make(map[Pair]bool),
	}
}

// Step computes the current overlap set from the set's grid, emits events
// against the previous tick and retains the new set for the next call.
// Events are sorted by pair so the stream is deterministic.
func (d *Detector) Step(s *Set) []Event {
	g := s.Grid()
	for _, a := range s.bodies {
		d.buf = g.QueryRegionBuf(a.AABB(), d.buf[:0])
		for _, id := range d.buf {
			if id <= a.Ent {
				continue
			}
			b, ok := s.Get(id)
			if !ok {
				continue
			}
			if !d.Matrix.Allows(a.Col.Layer, b.Col.Layer) {
				continue
			}
			if !a.Col.CanCollide(b.Col) {
				continue
			}
			if !collide.Overlap(a.Shape(), a.Pos, b.Shape(), b.Pos) {
				continue
			}
			d.cur[MakePair(a.Ent, b.Ent)] = a.Col.Trigger || b.Col.Trigger
		}
	}

	var events []Event
	for p, trig := range d.cur {
		if _, was := d.prev[p]; was {
			if d.EmitStaying {
				events = append(events, Event{Pair: p, Phase: Staying, Trigger: trig})
			}
		} else {
			events = append(events, Event{Pair: p, Phase: Entered, Trigger: trig})
		}
	}
	for p, trig := range d.prev {
		if _, is := d.cur[p]; !is {
			events = append(events, Event{Pair: p, Phase: Exited, Trigger: trig})
		}
	}
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.A != b.A {
			return a.A < b.A
		}
		if a.B != b.B {
			return a.B < b.B
		}
		return a.Phase < b.Phase
	})

	d.prev, d.cur = d.cur, d.prev
	clear(d.cur)
	return events
}

// Overlapping reports whether the pair overlapped on the last Step.
func (d *Detector) Overlapping(a, b ent.ID) bool {
	_, ok := d.prev[MakePair(a, b)]
	return ok
}

// Reset forgets all tracked pairs without emitting Exited events.
func (d *Detector) Reset() {
	clear(d.prev)
	clear(d.cur)
}
