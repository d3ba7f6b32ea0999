package world

import (
	"context"
	"math/rand"
	"testing"

	"github.com/samdwyer/overworld/internal/terrain"
)

func newTestMap(t *testing.T, width, height int, seed int64) *Map {
	t.Helper()
	rules := terrain.MustLoadRuleset()
	return NewMap(width, height, rules, rand.New(rand.NewSource(seed)))
}

func TestGenerateReproducibility(t *testing.T) {
	// Generating two maps with the same seed yields identical layouts.
	m1 := newTestMap(t, DefaultWidth, DefaultHeight, 12345)
	m2 := newTestMap(t, DefaultWidth, DefaultHeight, 12345)

	ctx := context.Background()
	m1.Generate(ctx)
	m2.Generate(ctx)

	if len(m1.Rooms) != len(m2.Rooms) {
		t.Fatalf("Room count mismatch: %d != %d", len(m1.Rooms), len(m2.Rooms))
	}

	for i := range m1.Rooms {
		r1, r2 := m1.Rooms[i], m2.Rooms[i]
		if r1.X != r2.X || r1.Y != r2.Y || r1.Width != r2.Width || r1.Height != r2.Height {
			t.Errorf("Room %d mismatch: (%d,%d,%d,%d) != (%d,%d,%d,%d)",
				i, r1.X, r1.Y, r1.Width, r1.Height,
				r2.X, r2.Y, r2.Width, r2.Height)
		}
	}

	for y := 0; y < m1.Height; y++ {
		for x := 0; x < m1.Width; x++ {
			if m1.CellAt(x, y) != m2.CellAt(x, y) {
				t.Errorf("Cell mismatch at (%d,%d): %v != %v", x, y, m1.CellAt(x, y), m2.CellAt(x, y))
			}
		}
	}
}

func TestGenerateDifferentSeeds(t *testing.T) {
	m1 := newTestMap(t, DefaultWidth, DefaultHeight, 12345)
	m2 := newTestMap(t, DefaultWidth, DefaultHeight, 54321)

	ctx := context.Background()
	m1.Generate(ctx)
	m2.Generate(ctx)

	identical := len(m1.Rooms) == len(m2.Rooms)
	if identical {
		for i := range m1.Rooms {
			r1, r2 := m1.Rooms[i], m2.Rooms[i]
			if r1.X != r2.X || r1.Y != r2.Y {
				identical = false
				break
			}
		}
	}

	if identical {
		t.Error("Maps with different seeds should not be identical")
	}
}

func TestGenerateKeepsBorderWalls(t *testing.T) {
	m := newTestMap(t, DefaultWidth, DefaultHeight, 7)
	m.Generate(context.Background())

	for x := 0; x < m.Width; x++ {
		if m.CellAt(x, 0).Class != terrain.ClassWall || m.CellAt(x, m.Height-1).Class != terrain.ClassWall {
			t.Fatalf("border cell in column %d is not a wall", x)
		}
	}
	for y := 0; y < m.Height; y++ {
		if m.CellAt(0, y).Class != terrain.ClassWall || m.CellAt(m.Width-1, y).Class != terrain.ClassWall {
			t.Fatalf("border cell in row %d is not a wall", y)
		}
	}
}

func TestCellAtOutOfRangeFailsSafe(t *testing.T) {
	m := newTestMap(t, 10, 10, 1)

	cell := m.CellAt(-1, 5)
	if cell.Class != terrain.ClassWall || cell.Transparent {
		t.Errorf("out-of-range cell should be an opaque wall, got %+v", cell)
	}
	if m.Transparent(10, 0) {
		t.Error("out-of-range cells must be opaque")
	}
	if _, ok := m.StepCost(5, 99, terrain.ModeFly); ok {
		t.Error("out-of-range cells must be impassable")
	}
}

func TestSetTerrain(t *testing.T) {
	m := newTestMap(t, 10, 10, 1)

	if !m.SetTerrain(3, 3, terrain.ClassWater) {
		t.Fatal("SetTerrain in range should succeed")
	}
	if m.CellAt(3, 3).Class != terrain.ClassWater {
		t.Error("SetTerrain did not change the cell class")
	}
	if !m.Transparent(3, 3) {
		t.Error("water cells should be transparent")
	}
	if m.SetTerrain(-1, 3, terrain.ClassWater) {
		t.Error("SetTerrain out of range should fail")
	}
}

func TestOccupancyLifecycle(t *testing.T) {
	m := newTestMap(t, 10, 10, 1)

	if err := m.PlaceOccupant("a", 2, 2); err != nil {
		t.Fatalf("PlaceOccupant: %v", err)
	}
	if m.OccupantAt(2, 2) != "a" {
		t.Error("occupant not recorded")
	}
	if p, ok := m.PositionOf("a"); !ok || p != (Point{2, 2}) {
		t.Errorf("PositionOf = %v, %v", p, ok)
	}

	if err := m.PlaceOccupant("b", 2, 2); err == nil {
		t.Error("placing a second occupant on the same cell should fail")
	}
	if err := m.PlaceOccupant("a", 3, 3); err == nil {
		t.Error("placing an already-placed ID again should fail")
	}
	if err := m.PlaceOccupant("c", -1, 0); err == nil {
		t.Error("placing off-map should fail")
	}

	m.RelocateOccupant("a", 4, 4)
	if m.OccupantAt(2, 2) != "" || m.OccupantAt(4, 4) != "a" {
		t.Error("RelocateOccupant did not move the record atomically")
	}

	m.RemoveOccupant("a")
	if m.OccupantAt(4, 4) != "" {
		t.Error("RemoveOccupant did not free the cell")
	}
	if _, ok := m.PositionOf("a"); ok {
		t.Error("RemoveOccupant did not delete the position record")
	}
	m.RemoveOccupant("never-placed") // must not panic
}

func TestRelocateInvariantViolationsPanic(t *testing.T) {
	m := newTestMap(t, 10, 10, 1)
	if err := m.PlaceOccupant("a", 1, 1); err != nil {
		t.Fatalf("PlaceOccupant: %v", err)
	}
	if err := m.PlaceOccupant("b", 2, 2); err != nil {
		t.Fatalf("PlaceOccupant: %v", err)
	}

	assertPanics := func(name string, fn func()) {
		defer func() {
			if recover() == nil {
				t.Errorf("%s should panic", name)
			}
		}()
		fn()
	}

	assertPanics("relocating an unplaced occupant", func() { m.RelocateOccupant("ghost", 3, 3) })
	assertPanics("relocating off-map", func() { m.RelocateOccupant("a", -1, 0) })
	assertPanics("relocating onto an occupied cell", func() { m.RelocateOccupant("a", 2, 2) })
}

func TestRandomOpenPointRespectsModeAndOccupancy(t *testing.T) {
	m := newTestMap(t, 40, 30, 99)
	m.Generate(context.Background())
	if len(m.Rooms) == 0 {
		t.Skip("generation produced no rooms at this size")
	}

	for i := 0; i < 50; i++ {
		x, y := m.RandomOpenPoint(0, terrain.ModeWalk)
		if x < 0 {
			continue // room may be fully flooded; allowed
		}
		if _, ok := m.StepCost(x, y, terrain.ModeWalk); !ok {
			t.Fatalf("RandomOpenPoint returned impassable cell (%d,%d)", x, y)
		}
		if m.OccupantAt(x, y) != "" {
			t.Fatalf("RandomOpenPoint returned occupied cell (%d,%d)", x, y)
		}
	}

	if x, y := m.RandomOpenPoint(len(m.Rooms), terrain.ModeWalk); x != -1 || y != -1 {
		t.Error("out-of-range room index should return (-1,-1)")
	}
}
