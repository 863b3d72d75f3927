// Package snapshot records per-tick entity state for replication and
// persistence. A History keeps a sliding window of recent ticks and can
// interpolate between them for consumers running behind the simulation.
package snapshot

import (
	"stride/ent"
	"stride/math"
	"stride/math/vec"
	"stride/mover"
)

type EntityState struct {
	Ent         ent.ID   `msgpack:"e"`
	Pos         vec.Vec3 `msgpack:"p"`
	VerticalVel float32  `msgpack:"v"`
	Grounded    bool     `msgpack:"g"`
	Jump        uint8    `msgpack:"j"`
}

type TickSnapshot struct {
	Tick uint64        `msgpack:"t"`
	Time float64       `msgpack:"w"`
	Ents []EntityState `msgpack:"s"`
}

// Capture builds an entity state from a resolved body position and
// controller state.
func Capture(id ent.ID, pos vec.Vec3, st mover.State) EntityState {
	return EntityState{
		Ent:         id,
		Pos:         pos,
		VerticalVel: st.VerticalVel,
		Grounded:    st.Grounded,
		Jump:        uint8(st.Jump),
	}
}

// History is a fixed-window ring of snapshots in tick order.
type History struct {
	window int
	snaps  []TickSnapshot
}

func NewHistory(window int) *History {
	if window < 1 {
		window = 1
	}
	return &History{window: window}
}

func (h *History) Len() int {
	return len(h.snaps)
}

// Push appends a snapshot, evicting the oldest past the window.
func (h *History) Push(s TickSnapshot) {
	h.snaps = append(h.snaps, s)
	if len(h.snaps) > h.window {
		n := copy(h.snaps, h.snaps[len(h.snaps)-h.window:])
		h.snaps = h.snaps[:n]
	}
}

func (h *History) Latest() (TickSnapshot, bool) {
	if len(h.snaps) == 0 {
		return TickSnapshot{}, false
	}
	return h.snaps[len(h.snaps)-1], true
}

// At returns the snapshot for an exact tick still inside the window.
func (h *History) At(tick uint64) (TickSnapshot, bool) {
	for i := len(h.snaps) - 1; i >= 0; i-- {
		if h.snaps[i].Tick == tick {
			return h.snaps[i], true
		}
		if h.snaps[i].Tick < tick {
			break
		}
	}
	return TickSnapshot{}, false
}

// Interpolate resolves entity positions at a simulation time between two
// retained ticks, blending positions linearly. Times outside the window
// clamp to the nearest retained snapshot.
func (h *History) Interpolate(at float64) (TickSnapshot, bool) {
	n := len(h.snaps)
	if n == 0 {
		return TickSnapshot{}, false
	}
	if at <= h.snaps[0].Time || n == 1 {
		return h.snaps[0], true
	}
	last := h.snaps[n-1]
	if at >= last.Time {
		return last, true
	}
	hi := 1
	for h.snaps[hi].Time < at {
		hi++
	}
	a, b := h.snaps[hi-1], h.snaps[hi]
	span := b.Time - a.Time
	if span <= 0 {
		return b, true
	}
	frac := float32((at - a.Time) / span)

	out := TickSnapshot{Tick: a.Tick, Time: at, Ents: make([]EntityState, 0, len(b.Ents))}
	prev := make(map[ent.ID]EntityState, len(a.Ents))
	for _, e := range a.Ents {
		prev[e.Ent] = e
	}
	for _, e := range b.Ents {
		p, ok := prev[e.Ent]
		if !ok {
			// spawned between the two ticks, hold the newer state
			out.Ents = append(out.Ents, e)
			continue
		}
		blended := e
		blended.Pos = vec.Lerp(p.Pos, e.Pos, frac)
		blended.VerticalVel = math.Lerp(p.VerticalVel, e.VerticalVel, frac)
		out.Ents = append(out.Ents, blended)
	}
	return out, true
}
