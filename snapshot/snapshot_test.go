package snapshot

import (
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"stride/ent"
	"stride/math/vec"
	"stride/mover"
)

func snapAt(tick uint64, time float64, x float32) TickSnapshot {
	return TickSnapshot{
		Tick: tick,
		Time: time,
		Ents: []EntityState{{Ent: ent.Make(1, 1), Pos: vec.Vec3{X: x}}},
	}
}

func TestHistoryWindow(t *testing.T) {
	h := NewHistory(3)
	for i := uint64(1); i <= 5; i++ {
		h.Push(snapAt(i, float64(i), 0))
	}
	if h.Len() != 3 {
		t.Fatalf("Len = %d want 3", h.Len())
	}
	if _, ok := h.At(2); ok {
		t.Errorf("tick 2 still present after eviction")
	}
	if s, ok := h.At(4); !ok || s.Tick != 4 {
		t.Errorf("At(4) = %v %v want the retained tick", s.Tick, ok)
	}
	if s, ok := h.Latest(); !ok || s.Tick != 5 {
		t.Errorf("Latest = %v %v want tick 5", s.Tick, ok)
	}
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory(4)
	if _, ok := h.Latest(); ok {
		t.Errorf("Latest on empty history")
	}
	if _, ok := h.Interpolate(1); ok {
		t.Errorf("Interpolate on empty history")
	}
}

func TestInterpolateMidpoint(t *testing.T) {
	h := NewHistory(8)
	h.Push(snapAt(1, 1.0, 10))
	h.Push(snapAt(2, 2.0, 20))

	s, ok := h.Interpolate(1.5)
	if !ok || len(s.Ents) != 1 {
		t.Fatalf("Interpolate = %+v %v", s, ok)
	}
	if got := s.Ents[0].Pos.X; got != 15 {
		t.Errorf("midpoint x = %v want 15", got)
	}
}

func TestInterpolateClamps(t *testing.T) {
	h := NewHistory(8)
	h.Push(snapAt(1, 1.0, 10))
	h.Push(snapAt(2, 2.0, 20))

	if s, _ := h.Interpolate(0.5); s.Ents[0].Pos.X != 10 {
		t.Errorf("before-window x = %v want the oldest", s.Ents[0].Pos.X)
	}
	if s, _ := h.Interpolate(9); s.Ents[0].Pos.X != 20 {
		t.Errorf("after-window x = %v want the newest", s.Ents[0].Pos.X)
	}
}

func TestInterpolateNewEntity(t *testing.T) {
	h := NewHistory(8)
	h.Push(snapAt(1, 1.0, 10))
	later := snapAt(2, 2.0, 20)
	later.Ents = append(later.Ents, EntityState{Ent: ent.Make(2, 1), Pos: vec.Vec3{X: 99}})
	h.Push(later)

	s, _ := h.Interpolate(1.5)
	if len(s.Ents) != 2 {
		t.Fatalf("ents = %d want 2", len(s.Ents))
	}
	for _, e := range s.Ents {
		if e.Ent == ent.Make(2, 1) && e.Pos.X != 99 {
			t.Errorf("fresh entity blended to %v want held at 99", e.Pos.X)
		}
	}
}

func TestCodecRoundtrip(t *testing.T) {
	in := TickSnapshot{
		Tick: 1234,
		Time: 61.7,
		Ents: []EntityState{
			{
				Ent:         ent.Make(3, 2),
				Pos:         vec.Vec3{X: 1.5, Y: -2.25, Z: 300},
				VerticalVel: -9.5,
				Grounded:    true,
				Jump:        uint8(mover.Idle),
			},
			{
				Ent:         ent.Make(4, 1),
				Pos:         vec.Vec3{Y: 0.5},
				VerticalVel: 3,
				Jump:        uint8(mover.Jumping),
			},
		},
	}
	out, err := Decode(Encode(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Tick != in.Tick || out.Time != in.Time {
		t.Errorf("header %d %v want %d %v", out.Tick, out.Time, in.Tick, in.Time)
	}
	if len(out.Ents) != len(in.Ents) {
		t.Fatalf("ents = %d want %d", len(out.Ents), len(in.Ents))
	}
	for i := range in.Ents {
		if out.Ents[i] != in.Ents[i] {
			t.Errorf("ent %d = %+v want %+v", i, out.Ents[i], in.Ents[i])
		}
	}
}

func TestDecodeSkipsUnknownFields(t *testing.T) {
	b := Encode(snapAt(7, 7.5, 1))
	// a future field this version does not know
	b = protowire.AppendTag(b, 99, protowire.VarintType)
	b = protowire.AppendVarint(b, 42)

	out, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode with unknown field: %v", err)
	}
	if out.Tick != 7 || len(out.Ents) != 1 {
		t.Errorf("decoded %+v want tick 7 with one entity", out)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode([]byte{0xff, 0xff, 0xff}); err == nil {
		t.Errorf("garbage decoded without error")
	}
}

func TestCaptureMapsState(t *testing.T) {
	st := mover.State{Grounded: true, VerticalVel: -1, Jump: mover.Falling}
	e := Capture(ent.Make(9, 1), vec.Vec3{X: 2}, st)
	if e.Ent != ent.Make(9, 1) || !e.Grounded || e.VerticalVel != -1 || e.Jump != uint8(mover.Falling) {
		t.Errorf("Capture = %+v", e)
	}
}
