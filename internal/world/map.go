// Package world provides the world map: terrain grid, occupancy table, and
// map generation. The map is the single source of truth for which agent
// occupies which cell.
package world

import (
	"fmt"
	"math/rand"

	"github.com/samdwyer/overworld/internal/terrain"
)

// Point is an integer cell coordinate on the map.
type Point struct {
	X, Y int
}

// Map represents a bounded tile grid with per-cell terrain and at most one
// blocking occupant per cell.
type Map struct {
	Width  int
	Height int
	Rooms  []Room

	rules     *terrain.Ruleset
	cells     [][]terrain.Cell
	occupants map[Point]string
	positions map[string]Point
	rng       *rand.Rand
}

// NewMap creates a map of the given dimensions filled with wall cells.
func NewMap(width, height int, rules *terrain.Ruleset, rng *rand.Rand) *Map {
	cells := make([][]terrain.Cell, height)
	for y := range cells {
		cells[y] = make([]terrain.Cell, width)
		for x := range cells[y] {
			cells[y][x] = rules.NewCell(terrain.ClassWall)
		}
	}

	return &Map{
		Width:     width,
		Height:    height,
		Rooms:     make([]Room, 0),
		rules:     rules,
		cells:     cells,
		occupants: make(map[Point]string),
		positions: make(map[string]Point),
		rng:       rng,
	}
}

// Rules returns the passability ruleset backing this map.
func (m *Map) Rules() *terrain.Ruleset {
	return m.rules
}

// Size returns the map dimensions.
func (m *Map) Size() (width, height int) {
	return m.Width, m.Height
}

// InBounds reports whether the coordinate lies on the map.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// CellAt returns the terrain cell at the given position. Out-of-range
// coordinates resolve to an opaque, impassable wall cell.
func (m *Map) CellAt(x, y int) terrain.Cell {
	if !m.InBounds(x, y) {
		return m.rules.NewCell(terrain.ClassWall)
	}
	return m.cells[y][x]
}

// Transparent reports whether the cell at the given position lets light
// through. Out-of-range coordinates are opaque.
func (m *Map) Transparent(x, y int) bool {
	if !m.InBounds(x, y) {
		return false
	}
	return m.cells[y][x].Transparent
}

// SetTerrain mutates a cell in place to the given class, for scripted
// terrain-change events. Visibility is never cached, so no invalidation is
// needed. Returns false for out-of-range coordinates.
func (m *Map) SetTerrain(x, y int, class terrain.Class) bool {
	if !m.InBounds(x, y) {
		return false
	}
	m.cells[y][x] = m.rules.NewCell(class)
	return true
}

// StepCost returns the cost multiplier for an agent in the given mode to enter
// the cell, and whether entry is allowed at all. The multiplier combines the
// (class, mode) ruleset cost with the cell's own cost scale.
func (m *Map) StepCost(x, y int, mode terrain.Mode) (float64, bool) {
	if !m.InBounds(x, y) {
		return 0, false
	}
	cell := m.cells[y][x]
	cost := m.rules.MoveCost(cell.Class, mode)
	if cost <= 0 {
		return 0, false
	}
	return cost * cell.CostScale, true
}

// OccupantAt returns the ID of the agent occupying the cell, or "" when the
// cell is empty or out of range.
func (m *Map) OccupantAt(x, y int) string {
	return m.occupants[Point{x, y}]
}

// PositionOf returns the recorded position of an occupant.
func (m *Map) PositionOf(id string) (Point, bool) {
	p, ok := m.positions[id]
	return p, ok
}

// PlaceOccupant records a new occupant at the given cell. It fails when the
// coordinate is off-map, the cell is already occupied, or the ID is already
// placed.
func (m *Map) PlaceOccupant(id string, x, y int) error {
	if id == "" {
		panic("world: PlaceOccupant with empty ID")
	}
	if !m.InBounds(x, y) {
		return fmt.Errorf("position (%d,%d) is off-map", x, y)
	}
	p := Point{x, y}
	if other := m.occupants[p]; other != "" {
		return fmt.Errorf("cell (%d,%d) already occupied by %s", x, y, other)
	}
	if _, exists := m.positions[id]; exists {
		return fmt.Errorf("occupant %s is already placed", id)
	}
	m.occupants[p] = id
	m.positions[id] = p
	return nil
}

// RemoveOccupant deletes an occupant's record. Unknown IDs are ignored.
func (m *Map) RemoveOccupant(id string) {
	p, ok := m.positions[id]
	if !ok {
		return
	}
	delete(m.occupants, p)
	delete(m.positions, id)
}

// RelocateOccupant moves an existing occupant's record to a new cell. Callers
// must have validated the move first; violating the one-occupant-per-cell
// invariant here is a programmer error and panics.
func (m *Map) RelocateOccupant(id string, newX, newY int) {
	old, ok := m.positions[id]
	if !ok {
		panic(fmt.Sprintf("world: RelocateOccupant of unplaced occupant %s", id))
	}
	if !m.InBounds(newX, newY) {
		panic(fmt.Sprintf("world: RelocateOccupant of %s to off-map (%d,%d)", id, newX, newY))
	}
	p := Point{newX, newY}
	if other := m.occupants[p]; other != "" && other != id {
		panic(fmt.Sprintf("world: RelocateOccupant of %s onto cell occupied by %s", id, other))
	}
	delete(m.occupants, old)
	m.occupants[p] = id
	m.positions[id] = p
}
