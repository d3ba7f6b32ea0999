package path

import (
	"context"
	"math/rand"
	"testing"

	"github.com/samdwyer/overworld/internal/terrain"
	"github.com/samdwyer/overworld/internal/world"
)

// openMap builds a map of the given size with every cell carved to floor.
func openMap(t *testing.T, width, height int) *world.Map {
	t.Helper()
	rules := terrain.MustLoadRuleset()
	m := world.NewMap(width, height, rules, rand.New(rand.NewSource(1)))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.SetTerrain(x, y, terrain.ClassFloor)
		}
	}
	return m
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func chebyshevDist(a, b world.Point) int {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// pathCost sums the step costs an agent pays walking the returned path.
func pathCost(t *testing.T, m *world.Map, mode terrain.Mode, path []world.Point) float64 {
	t.Helper()
	total := 0.0
	for _, p := range path {
		mult, ok := m.StepCost(p.X, p.Y, mode)
		if !ok {
			t.Fatalf("path visits impassable cell (%d,%d)", p.X, p.Y)
		}
		total += baseStepCost * mult
	}
	return total
}

// assertContiguous verifies every step of the path is a single-cell move
// starting adjacent to start and ending on goal.
func assertContiguous(t *testing.T, start, goal world.Point, path []world.Point) {
	t.Helper()
	prev := start
	for i, p := range path {
		if chebyshevDist(prev, p) != 1 {
			t.Fatalf("step %d jumps from (%d,%d) to (%d,%d)", i, prev.X, prev.Y, p.X, p.Y)
		}
		prev = p
	}
	if len(path) > 0 && path[len(path)-1] != goal {
		t.Fatalf("path ends at (%d,%d), want goal (%d,%d)", prev.X, prev.Y, goal.X, goal.Y)
	}
}

func TestStartEqualsGoal(t *testing.T) {
	m := openMap(t, 5, 5)
	p := world.Point{X: 2, Y: 2}

	path, found := Find(context.Background(), m, terrain.ModeWalk, "a", p, p)
	if !found {
		t.Fatal("start == goal should be found")
	}
	if len(path) != 0 {
		t.Errorf("start == goal should yield an empty path, got %d steps", len(path))
	}
}

func TestDiagonalPathOnOpenGrid(t *testing.T) {
	// 5x5 open grid, (0,0) to (4,4): a 4-step diagonal path of total cost 4.0.
	m := openMap(t, 5, 5)
	start := world.Point{X: 0, Y: 0}
	goal := world.Point{X: 4, Y: 4}

	path, found := Find(context.Background(), m, terrain.ModeWalk, "a", start, goal)
	if !found {
		t.Fatal("open grid path should be found")
	}
	if len(path) != 4 {
		t.Errorf("path length = %d, want 4", len(path))
	}
	assertContiguous(t, start, goal, path)
	if cost := pathCost(t, m, terrain.ModeWalk, path); cost != 4.0 {
		t.Errorf("path cost = %v, want 4.0", cost)
	}
}

func TestDivertsAroundOccupant(t *testing.T) {
	// Same grid with (2,2) occupied: the route must divert, never fail.
	m := openMap(t, 5, 5)
	if err := m.PlaceOccupant("blocker", 2, 2); err != nil {
		t.Fatalf("PlaceOccupant: %v", err)
	}
	start := world.Point{X: 0, Y: 0}
	goal := world.Point{X: 4, Y: 4}

	path, found := Find(context.Background(), m, terrain.ModeWalk, "a", start, goal)
	if !found {
		t.Fatal("an alternate route exists, search must not fail")
	}
	if len(path) < 6 {
		t.Errorf("path length = %d, want >= 6 (must divert around the occupant)", len(path))
	}
	assertContiguous(t, start, goal, path)
	for _, p := range path {
		if p == (world.Point{X: 2, Y: 2}) {
			t.Error("path passes through the occupied cell")
		}
	}
}

func TestOptimalLengthOnOpenGrid(t *testing.T) {
	m := openMap(t, 12, 12)

	cases := []struct{ start, goal world.Point }{
		{world.Point{X: 0, Y: 0}, world.Point{X: 11, Y: 3}},
		{world.Point{X: 5, Y: 5}, world.Point{X: 5, Y: 11}},
		{world.Point{X: 10, Y: 2}, world.Point{X: 1, Y: 9}},
		{world.Point{X: 3, Y: 8}, world.Point{X: 4, Y: 7}},
	}

	for _, tc := range cases {
		path, found := Find(context.Background(), m, terrain.ModeWalk, "a", tc.start, tc.goal)
		if !found {
			t.Fatalf("path (%v -> %v) should be found", tc.start, tc.goal)
		}
		want := chebyshevDist(tc.start, tc.goal)
		if len(path) != want {
			t.Errorf("path (%v -> %v) length = %d, want Chebyshev distance %d", tc.start, tc.goal, len(path), want)
		}
		assertContiguous(t, tc.start, tc.goal, path)
	}
}

func TestEnclosedGoalNotFound(t *testing.T) {
	m := openMap(t, 9, 9)
	goal := world.Point{X: 4, Y: 4}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			m.SetTerrain(goal.X+dx, goal.Y+dy, terrain.ClassWall)
		}
	}

	_, found := Find(context.Background(), m, terrain.ModeWalk, "a", world.Point{X: 0, Y: 0}, goal)
	if found {
		t.Error("goal enclosed by walls should not be reachable")
	}
}

func TestOccupiedGoalNotFound(t *testing.T) {
	m := openMap(t, 5, 5)
	if err := m.PlaceOccupant("blocker", 4, 4); err != nil {
		t.Fatalf("PlaceOccupant: %v", err)
	}

	_, found := Find(context.Background(), m, terrain.ModeWalk, "a", world.Point{X: 0, Y: 0}, world.Point{X: 4, Y: 4})
	if found {
		t.Error("a path must never end on another agent's cell")
	}
}

func TestOwnCellDoesNotBlock(t *testing.T) {
	// The searching agent's own occupancy record must not block its route.
	m := openMap(t, 5, 5)
	if err := m.PlaceOccupant("self", 0, 0); err != nil {
		t.Fatalf("PlaceOccupant: %v", err)
	}

	path, found := Find(context.Background(), m, terrain.ModeWalk, "self", world.Point{X: 0, Y: 0}, world.Point{X: 4, Y: 4})
	if !found {
		t.Fatal("agent's own occupancy should not block pathfinding")
	}
	if len(path) != 4 {
		t.Errorf("path length = %d, want 4", len(path))
	}
}

func TestModeRespectsTerrain(t *testing.T) {
	// A channel of water splits the map. Walkers must fail, swimmers cross.
	m := openMap(t, 7, 5)
	for y := 0; y < 5; y++ {
		m.SetTerrain(3, y, terrain.ClassWater)
	}
	start := world.Point{X: 0, Y: 2}
	goal := world.Point{X: 6, Y: 2}

	if _, found := Find(context.Background(), m, terrain.ModeWalk, "a", start, goal); found {
		t.Error("walker should not cross the water channel")
	}
	if _, found := Find(context.Background(), m, terrain.ModeFly, "a", start, goal); !found {
		t.Error("flyer should cross the water channel")
	}

	// A swimmer in open water crosses the channel but cannot leave it.
	swimStart := world.Point{X: 3, Y: 0}
	swimGoal := world.Point{X: 3, Y: 4}
	if _, found := Find(context.Background(), m, terrain.ModeSwim, "a", swimStart, swimGoal); !found {
		t.Error("swimmer should travel along the water channel")
	}
}

func TestPrefersCheapTerrain(t *testing.T) {
	// A 3-wide corridor with the direct row costing 4x (fire): the route
	// should weave through the normal floor instead.
	m := openMap(t, 8, 3)
	for x := 1; x < 7; x++ {
		m.SetTerrain(x, 1, terrain.ClassFire)
	}
	start := world.Point{X: 0, Y: 1}
	goal := world.Point{X: 7, Y: 1}

	path, found := Find(context.Background(), m, terrain.ModeWalk, "a", start, goal)
	if !found {
		t.Fatal("path should be found")
	}
	fireSteps := 0
	for _, p := range path {
		if m.CellAt(p.X, p.Y).Class == terrain.ClassFire {
			fireSteps++
		}
	}
	if fireSteps != 0 {
		t.Errorf("route crosses %d fire cells; cheaper detour exists", fireSteps)
	}
}

func TestExpansionCeiling(t *testing.T) {
	m := openMap(t, 10, 10)
	start := world.Point{X: 0, Y: 0}
	goal := world.Point{X: 9, Y: 9}

	// A ceiling of one expanded node cannot reach a distant goal.
	if _, found := findWithLimit(context.Background(), m, terrain.ModeWalk, "a", start, goal, 1); found {
		t.Error("search exceeding the expansion ceiling must report no route")
	}

	// The default ceiling (map area) never rejects a reachable goal.
	if _, found := Find(context.Background(), m, terrain.ModeWalk, "a", start, goal); !found {
		t.Error("reachable goal rejected under the default ceiling")
	}
}

func TestNoCornerCutting(t *testing.T) {
	// Two walls meeting diagonally: the route must not squeeze between them.
	//   . # .
	//   # X .
	m := openMap(t, 3, 3)
	m.SetTerrain(1, 0, terrain.ClassWall)
	m.SetTerrain(0, 1, terrain.ClassWall)

	path, found := Find(context.Background(), m, terrain.ModeWalk, "a", world.Point{X: 0, Y: 0}, world.Point{X: 1, Y: 1})
	if found {
		for i, p := range path {
			t.Logf("step %d: (%d,%d)", i, p.X, p.Y)
		}
		t.Error("route squeezes between two diagonal blockers")
	}
}
