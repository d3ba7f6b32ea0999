// Package path implements cost-aware route planning over the world grid using
// A* search.
package path

import (
	"container/heap"
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/overworld/internal/telemetry"
	"github.com/samdwyer/overworld/internal/terrain"
	"github.com/samdwyer/overworld/internal/world"
)

// World is the minimal map view the pathfinder needs. StepCost must return the
// cost multiplier for entering a cell in the given mode, or ok=false when the
// cell is impassable or off-map. OccupantAt must return "" for empty cells.
type World interface {
	Size() (width, height int)
	InBounds(x, y int) bool
	StepCost(x, y int, mode terrain.Mode) (float64, bool)
	OccupantAt(x, y int) string
}

// baseStepCost is the cost of one step onto normal terrain. Diagonal and
// orthogonal steps cost the same, so the admissible heuristic is Chebyshev
// distance. Terrain multipliers are assumed to be >= 1.
const baseStepCost = 1.0

type neighbor struct {
	dx, dy   int
	diagonal bool
}

var neighborOffsets = [...]neighbor{
	{dx: 0, dy: -1},
	{dx: 1, dy: 0},
	{dx: 0, dy: 1},
	{dx: -1, dy: 0},
	{dx: 1, dy: -1, diagonal: true},
	{dx: 1, dy: 1, diagonal: true},
	{dx: -1, dy: 1, diagonal: true},
	{dx: -1, dy: -1, diagonal: true},
}

// node is one entry in the per-call search arena. Back-references are arena
// indices rather than pointers, so the whole search state is discarded with
// the arena when Find returns.
type node struct {
	pos    world.Point
	g      float64 // accumulated cost from the start
	h      float64 // heuristic estimate to the goal
	f      float64 // g + h
	parent int32   // arena index of the predecessor, -1 for the start node
}

// openHeap is a min-heap of arena indices ordered by f, with ties broken by
// lower h (prefer nodes closer to the goal) and then by insertion order, so
// expansion order is deterministic.
type openHeap struct {
	arena *[]node
	items []int32
}

func (o *openHeap) Len() int { return len(o.items) }

func (o *openHeap) Less(i, j int) bool {
	a, b := (*o.arena)[o.items[i]], (*o.arena)[o.items[j]]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return o.items[i] < o.items[j]
}

func (o *openHeap) Swap(i, j int) {
	o.items[i], o.items[j] = o.items[j], o.items[i]
}

func (o *openHeap) Push(x any) {
	o.items = append(o.items, x.(int32))
}

func (o *openHeap) Pop() any {
	old := o.items
	n := len(old)
	item := old[n-1]
	o.items = old[:n-1]
	return item
}

// chebyshev is the admissible distance estimate for 8-directional movement
// with uniform step cost.
func chebyshev(a, b world.Point) float64 {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return float64(dx) * baseStepCost
	}
	return float64(dy) * baseStepCost
}

// Find computes a minimum-cost route for an agent from start to goal. The
// returned path excludes the start cell and includes the goal; start == goal
// yields an empty path. The second return value is false when no route exists.
//
// Cells occupied by an agent other than selfID are treated as impassable,
// including the goal cell. The search reads the world but never mutates it.
func Find(ctx context.Context, w World, mode terrain.Mode, selfID string, start, goal world.Point) ([]world.Point, bool) {
	width, height := w.Size()
	return findWithLimit(ctx, w, mode, selfID, start, goal, width*height)
}

// findWithLimit is Find with an explicit ceiling on expanded nodes. Exceeding
// the ceiling reports no route rather than searching indefinitely.
func findWithLimit(ctx context.Context, w World, mode terrain.Mode, selfID string, start, goal world.Point, limit int) ([]world.Point, bool) {
	tracer := telemetry.Tracer("path")
	_, span := tracer.Start(ctx, "path.find")
	defer span.End()

	if start == goal {
		span.SetAttributes(attribute.Bool("path.found", true), attribute.Int("path.length", 0))
		return []world.Point{}, true
	}

	// The goal must be enterable at all for a route to end there.
	if _, ok := w.StepCost(goal.X, goal.Y, mode); !ok {
		span.SetAttributes(attribute.Bool("path.found", false))
		return nil, false
	}
	if occ := w.OccupantAt(goal.X, goal.Y); occ != "" && occ != selfID {
		span.SetAttributes(attribute.Bool("path.found", false))
		return nil, false
	}

	width, _ := w.Size()
	cellIndex := func(p world.Point) int { return p.Y*width + p.X }

	arena := make([]node, 0, 64)
	arena = append(arena, node{pos: start, g: 0, h: chebyshev(start, goal), f: chebyshev(start, goal), parent: -1})

	open := &openHeap{arena: &arena, items: make([]int32, 0, 64)}
	heap.Init(open)
	heap.Push(open, int32(0))

	gScore := map[int]float64{cellIndex(start): 0}
	closed := make(map[int]struct{})
	expanded := 0

	for open.Len() > 0 {
		idx := heap.Pop(open).(int32)
		current := arena[idx]
		currIdx := cellIndex(current.pos)
		if _, seen := closed[currIdx]; seen {
			continue
		}
		closed[currIdx] = struct{}{}

		if current.pos == goal {
			result := reconstruct(arena, idx)
			span.SetAttributes(
				attribute.Bool("path.found", true),
				attribute.Int("path.length", len(result)),
				attribute.Int("path.expanded", expanded),
			)
			return result, true
		}

		expanded++
		if expanded > limit {
			span.SetAttributes(attribute.Bool("path.found", false), attribute.Int("path.expanded", expanded))
			return nil, false
		}

		for _, delta := range neighborOffsets {
			nx, ny := current.pos.X+delta.dx, current.pos.Y+delta.dy
			if !w.InBounds(nx, ny) {
				continue
			}
			mult, ok := w.StepCost(nx, ny, mode)
			if !ok {
				continue
			}
			if occ := w.OccupantAt(nx, ny); occ != "" && occ != selfID {
				continue
			}
			if delta.diagonal && !canCutCorner(w, mode, selfID, current.pos, delta) {
				continue
			}
			nIdx := ny*width + nx
			if _, seen := closed[nIdx]; seen {
				continue
			}
			tentativeG := current.g + baseStepCost*mult
			if prev, ok := gScore[nIdx]; ok && tentativeG >= prev {
				continue
			}
			gScore[nIdx] = tentativeG
			npos := world.Point{X: nx, Y: ny}
			h := chebyshev(npos, goal)
			arena = append(arena, node{pos: npos, g: tentativeG, h: h, f: tentativeG + h, parent: idx})
			heap.Push(open, int32(len(arena)-1))
		}
	}

	span.SetAttributes(attribute.Bool("path.found", false), attribute.Int("path.expanded", expanded))
	return nil, false
}

// canCutCorner reports whether a diagonal step is allowed: both orthogonal
// cells flanking the diagonal must themselves be enterable, so routes never
// squeeze between two blockers.
func canCutCorner(w World, mode terrain.Mode, selfID string, from world.Point, delta neighbor) bool {
	for _, side := range [2]world.Point{
		{X: from.X + delta.dx, Y: from.Y},
		{X: from.X, Y: from.Y + delta.dy},
	} {
		if _, ok := w.StepCost(side.X, side.Y, mode); !ok {
			return false
		}
		if occ := w.OccupantAt(side.X, side.Y); occ != "" && occ != selfID {
			return false
		}
	}
	return true
}

// reconstruct walks parent indices from the goal node back to the start node
// and reverses the result. The start cell itself is excluded.
func reconstruct(arena []node, end int32) []world.Point {
	path := make([]world.Point, 0)
	for idx := end; arena[idx].parent >= 0; idx = arena[idx].parent {
		path = append(path, arena[idx].pos)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
