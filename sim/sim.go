// SPDX-License-Identifier: GPL-2.0-or-later

// Package sim drives the fixed-timestep world loop: movement, contact
// detection, event dispatch, snapshot capture and persistence.
package sim

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"stride/collide"
	"stride/cvars"
	"stride/ent"
	"stride/grid"
	"stride/math/vec"
	"stride/mover"
	"stride/simlog"
	"stride/snapshot"
	"stride/terrain"
	"stride/world"
)

// historyWindow is how many ticks of snapshots the sim keeps for
// interpolation, about three seconds at the default tick rate.
const historyWindow = 64

// Persister receives snapshots on the host_persistevery cadence.
// *store.Store satisfies it.
type Persister interface {
	SaveSnapshot(session string, snap snapshot.TickSnapshot) error
}

type record struct {
	state      mover.State
	input      mover.Input
	controlled bool
}

// Sim owns the entities of one running world.
type Sim struct {
	Session uuid.UUID

	alloc    *ent.Allocator
	set      *world.Set
	ter      *terrain.Terrain
	det      *world.Detector
	ctl      *mover.Controller
	clock    Clock
	ents     map[ent.ID]*record
	handlers []func(world.Event)
	events   []world.Event
	history  *snapshot.History
	persist  Persister
}

// New builds a sim over ter, which may be nil for a bottomless world.
// The grid cell size is read from sv_cellsize once, here.
func New(ter *terrain.Terrain, m collide.Matrix) (*Sim, error) {
	g, err := grid.New(cvars.ServerCellSize.Value())
	if err != nil {
		return nil, errors.Wrap(err, "sim grid")
	}
	set := world.NewSet(g)
	return &Sim{
		Session: uuid.New(),
		alloc:   ent.NewAllocator(),
		set:     set,
		ter:     ter,
		det:     world.NewDetector(m),
		ctl:     mover.New(set, ter),
		ents:    make(map[ent.ID]*record),
		history: snapshot.NewHistory(historyWindow),
	}, nil
}

// Persist routes snapshots to p on the host_persistevery cadence.
func (s *Sim) Persist(p Persister) { s.persist = p }

// Spawn links a new entity into the world. Controlled entities are
// driven by the mover each tick; others are scenery.
func (s *Sim) Spawn(col collide.Collider, pos vec.Vec3, controlled bool) ent.ID {
	id := s.alloc.Alloc()
	s.set.Link(id, col, pos)
	s.ents[id] = &record{state: mover.NewState(), controlled: controlled}
	return id
}

// Despawn unlinks an entity. Contacts it was part of report Exited on
// the next step.
func (s *Sim) Despawn(id ent.ID) bool {
	if _, ok := s.ents[id]; !ok {
		return false
	}
	delete(s.ents, id)
	s.set.Unlink(id)
	s.alloc.Free(id)
	return true
}

// SetInput stores the movement command an entity uses on following
// ticks until replaced. Non-finite or oversized moves are dropped.
func (s *Sim) SetInput(id ent.ID, in mover.Input) bool {
	r, ok := s.ents[id]
	if !ok || !r.controlled {
		return false
	}
	if !finite(in.Move) {
		simlog.Printf("sim: dropped non-finite input for entity %v", id)
		return false
	}
	if in.Move.LengthSqr() > 1.01 {
		simlog.Printf("sim: dropped oversized input for entity %v (len2 %.2f)", id, in.Move.LengthSqr())
		return false
	}
	r.input = in
	return true
}

// Step runs one fixed tick: move controlled entities, detect contacts,
// dispatch events, record a snapshot.
func (s *Sim) Step() {
	dt := s.clock.Dt()
	maxDelta := cvars.ServerMaxSpeed.Value() * dt * 1.1

	for _, id := range s.sortedIDs(true) {
		r := s.ents[id]
		b, ok := s.set.Get(id)
		if !ok {
			continue
		}
		prev := b.Pos
		if !s.ctl.Move(id, &r.state, r.input, dt) {
			continue
		}
		if d := vec.Sub(b.Pos, prev).Flat().Length(); d > maxDelta {
			simlog.Printf("sim: entity %v moved %.3f in one tick (cap %.3f)", id, d, maxDelta)
		}
	}

	s.events = s.det.Step(s.set)
	for _, ev := range s.events {
		for _, h := range s.handlers {
			h(ev)
		}
	}

	s.clock.Step()

	snap := s.capture()
	s.history.Push(snap)

	if every := uint64(cvars.HostPersistEvery.Value()); every > 0 && s.persist != nil {
		if snap.Tick%every == 0 {
			if err := s.persist.SaveSnapshot(s.Session.String(), snap); err != nil {
				simlog.Printf("sim: persist tick %d: %v", snap.Tick, err)
			}
		}
	}
}

// Advance converts elapsed wall seconds into fixed steps and runs
// them. Returns the number of steps taken.
func (s *Sim) Advance(elapsed float64) int {
	n := s.clock.Advance(elapsed)
	for i := 0; i < n; i++ {
		s.Step()
	}
	return n
}

// OnEvent registers a handler to run for every contact event, in
// event order, during Step.
func (s *Sim) OnEvent(fn func(world.Event)) {
	s.handlers = append(s.handlers, fn)
}

// Events returns the contact events of the most recent step.
func (s *Sim) Events() []world.Event { return s.events }

func (s *Sim) Tick() uint64              { return s.clock.Tick() }
func (s *Sim) Time() float64             { return s.clock.Time() }
func (s *Sim) Set() *world.Set           { return s.set }
func (s *Sim) Terrain() *terrain.Terrain { return s.ter }
func (s *Sim) Len() int                  { return len(s.ents) }

// State returns a copy of an entity's movement state.
func (s *Sim) State(id ent.ID) (mover.State, bool) {
	r, ok := s.ents[id]
	if !ok {
		return mover.State{}, false
	}
	return r.state, true
}

// History exposes the recent snapshot ring.
func (s *Sim) History() *snapshot.History { return s.history }

// Restore applies a stored snapshot to entities that still exist and
// resumes the clock at its tick. Spawn order decides entity ids, so a
// host must rebuild the same layout before restoring.
func (s *Sim) Restore(snap snapshot.TickSnapshot) int {
	n := 0
	for _, es := range snap.Ents {
		r, ok := s.ents[es.Ent]
		if !ok {
			continue
		}
		s.set.MoveTo(es.Ent, es.Pos)
		r.state.VerticalVel = es.VerticalVel
		r.state.Grounded = es.Grounded
		r.state.Jump = mover.JumpState(es.Jump)
		n++
	}
	s.clock.Resume(snap.Tick, snap.Time)
	return n
}

func (s *Sim) sortedIDs(controlledOnly bool) []ent.ID {
	ids := make([]ent.ID, 0, len(s.ents))
	for id, r := range s.ents {
		if controlledOnly && !r.controlled {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Sim) capture() snapshot.TickSnapshot {
	snap := snapshot.TickSnapshot{
		Tick: s.clock.Tick(),
		Time: s.clock.Time(),
		Ents: make([]snapshot.EntityState, 0, len(s.ents)),
	}
	for _, id := range s.sortedIDs(false) {
		b, ok := s.set.Get(id)
		if !ok {
			continue
		}
		snap.Ents = append(snap.Ents, snapshot.Capture(id, b.Pos, s.ents[id].state))
	}
	return snap
}

func finite(v vec.Vec3) bool {
	for _, f := range [3]float32{v.X, v.Y, v.Z} {
		if math32.IsNaN(f) || math32.IsInf(f, 0) {
			return false
		}
	}
	return true
}
