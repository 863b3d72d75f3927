package grid

import (
	"testing"

	"stride/collide"
	"stride/ent"
	"stride/math/vec"
)

func testGrid(t *testing.T, size float32) *Grid {
	t.Helper()
	g, err := New(size)
	if err != nil {
		t.Fatalf("New(%v): %v", size, err)
	}
	return g
}

func sphereBox(x, y, z, r float32) collide.AABB {
	return collide.FromSphere(vec.Vec3{X: x, Y: y, Z: z}, r)
}

func contains(ids []ent.ID, id ent.ID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func TestNewRejectsBadSize(t *testing.T) {
	if _, err := New(0); err != ErrBadCellSize {
		t.Errorf("New(0) err = %v want ErrBadCellSize", err)
	}
	if _, err := New(-5); err != ErrBadCellSize {
		t.Errorf("New(-5) err = %v want ErrBadCellSize", err)
	}
}

func TestCellAt(t *testing.T) {
	g := testGrid(t, 10)
	got := g.CellAt(vec.Vec3{X: 15, Y: 25, Z: 35})
	if want := (Cell{X: 1, Y: 2, Z: 3}); got != want {
		t.Errorf("CellAt(15,25,35) = %v want %v", got, want)
	}
	got = g.CellAt(vec.Vec3{X: -15, Y: -25, Z: -35})
	if want := (Cell{X: -2, Y: -3, Z: -4}); got != want {
		t.Errorf("CellAt(-15,-25,-35) = %v want %v", got, want)
	}
	got = g.CellAt(vec.Vec3{})
	if want := (Cell{}); got != want {
		t.Errorf("CellAt(0,0,0) = %v want %v", got, want)
	}
}

func TestInsertQueryRegion(t *testing.T) {
	g := testGrid(t, 10)
	a := ent.Make(1, 1)
	box := sphereBox(3, 4, 5, 1)
	g.Insert(a, box)

	got := g.QueryRegion(box)
	if !contains(got, a) {
		t.Errorf("QueryRegion over the inserted box misses the entity")
	}
	if g.Len() != 1 {
		t.Errorf("Len() = %v want 1", g.Len())
	}
}

func TestQueryRadiusScenario(t *testing.T) {
	g := testGrid(t, 10)
	a := ent.Make(1, 1)
	b := ent.Make(2, 1)
	g.Insert(a, sphereBox(0, 0, 0, 1))
	g.Insert(b, sphereBox(5, 0, 0, 1))

	got := g.QueryRadius(vec.Vec3{}, 6)
	if !contains(got, a) || !contains(got, b) {
		t.Errorf("QueryRadius(origin, 6) = %v want both entities", got)
	}

	g.Update(b, sphereBox(5, 0, 0, 1), sphereBox(50, 0, 0, 1))
	got = g.QueryRadius(vec.Vec3{}, 6)
	if !contains(got, a) {
		t.Errorf("QueryRadius after move lost entity a")
	}
	if contains(got, b) {
		t.Errorf("QueryRadius after move still returns the moved entity")
	}
}

func TestUpdateWithinCell(t *testing.T) {
	g := testGrid(t, 10)
	a := ent.Make(1, 1)
	old := sphereBox(2, 2, 2, 1)
	g.Insert(a, old)

	// small in-place move, same cell span
	moved := sphereBox(2.5, 2, 2, 1)
	g.Update(a, old, moved)
	if !contains(g.QueryRegion(moved), a) {
		t.Errorf("entity lost after in-cell update")
	}
	// the stored bounds must follow the move even without a span change
	if got := g.QueryRegion(sphereBox(1.2, 2, 2, 0.01)); contains(got, a) {
		t.Errorf("query at the old bounds still returns the entity")
	}
	if !contains(g.QueryRegion(sphereBox(3.3, 2, 2, 0.01)), a) {
		t.Errorf("query at the new bounds misses the entity")
	}
}

func TestUpdateUnknownInserts(t *testing.T) {
	g := testGrid(t, 10)
	a := ent.Make(9, 2)
	box := sphereBox(1, 1, 1, 1)
	g.Update(a, box, box)
	if !contains(g.QueryRegion(box), a) {
		t.Errorf("Update of an untracked id did not register it")
	}
}

func TestRemove(t *testing.T) {
	g := testGrid(t, 10)
	a := ent.Make(1, 1)
	box := sphereBox(0, 0, 0, 1)
	g.Insert(a, box)
	g.Remove(a)
	if got := g.QueryRegion(box); len(got) != 0 {
		t.Errorf("QueryRegion after Remove = %v want empty", got)
	}
	if g.Len() != 0 {
		t.Errorf("Len() after Remove = %v want 0", g.Len())
	}
	// removing an unknown id is a no-op
	g.Remove(ent.Make(7, 7))
}

func TestSpanningEntity(t *testing.T) {
	g := testGrid(t, 10)
	a := ent.Make(1, 1)
	// box straddles the cell boundary at x=10
	g.Insert(a, collide.FromCorners(vec.Vec3{X: 8}, vec.Vec3{X: 12, Y: 2, Z: 2}))

	if !contains(g.QueryRegion(sphereBox(9, 1, 1, 0.5)), a) {
		t.Errorf("entity missing from its low cell")
	}
	if !contains(g.QueryRegion(sphereBox(11, 1, 1, 0.5)), a) {
		t.Errorf("entity missing from its high cell")
	}
	// deduplicated even though both cells are covered
	got := g.QueryRegion(sphereBox(10, 1, 1, 5))
	n := 0
	for _, id := range got {
		if id == a {
			n++
		}
	}
	if n != 1 {
		t.Errorf("entity returned %d times want 1", n)
	}
}

func TestQueryScaling(t *testing.T) {
	g := testGrid(t, 10)
	// uniform 10-apart lattice over a 100^3 region
	idx := uint32(1)
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			for z := 0; z < 10; z++ {
				id := ent.Make(idx, 1)
				idx++
				g.Insert(id, sphereBox(float32(x*10), float32(y*10), float32(z*10), 1))
			}
		}
	}
	got := g.QueryRadius(vec.Vec3{X: 45, Y: 45, Z: 45}, 15)
	if len(got) == 0 {
		t.Fatalf("local query returned nothing")
	}
	// bounded by local density, far below the 1000 inserted
	if len(got) > 100 {
		t.Errorf("local query returned %d of 1000, not O(k)", len(got))
	}
}

func TestWalkRay(t *testing.T) {
	g := testGrid(t, 10)
	r, _ := collide.NewRay(vec.Vec3{X: 5, Y: 5, Z: 5}, vec.Vec3{X: 1})

	var cells []Cell
	g.WalkRay(r, 34, func(c Cell) bool {
		cells = append(cells, c)
		return true
	})
	want := []Cell{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}
	if len(cells) != len(want) {
		t.Fatalf("visited %v want %v", cells, want)
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("cell %d = %v want %v", i, cells[i], want[i])
		}
	}

	// early stop
	n := 0
	g.WalkRay(r, 34, func(Cell) bool {
		n++
		return false
	})
	if n != 1 {
		t.Errorf("early stop visited %d cells", n)
	}
}

func TestWalkRayNegative(t *testing.T) {
	g := testGrid(t, 10)
	r, _ := collide.NewRay(vec.Vec3{X: -5, Y: 5, Z: 5}, vec.Vec3{X: -1})
	var cells []Cell
	g.WalkRay(r, 14, func(c Cell) bool {
		cells = append(cells, c)
		return true
	})
	want := []Cell{{-1, 0, 0}, {-2, 0, 0}}
	if len(cells) != len(want) {
		t.Fatalf("visited %v want %v", cells, want)
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("cell %d = %v want %v", i, cells[i], want[i])
		}
	}
}

func TestStats(t *testing.T) {
	g := testGrid(t, 10)
	g.Insert(ent.Make(1, 1), sphereBox(0, 0, 0, 1))
	g.Insert(ent.Make(2, 1), sphereBox(1, 1, 1, 1))
	st := g.Stats()
	if st.Entities != 2 {
		t.Errorf("Entities = %v want 2", st.Entities)
	}
	if st.Cells == 0 || st.MaxPerCell != 2 {
		t.Errorf("Cells = %v MaxPerCell = %v", st.Cells, st.MaxPerCell)
	}
}
