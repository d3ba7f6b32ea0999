// Package sim applies validated state changes to the world: spawning,
// despawning, and single-step movement. It is the only place that mutates
// occupancy, so the map's occupancy table and each agent's cached coordinates
// never disagree between turns.
package sim

import (
	"fmt"

	"github.com/samdwyer/overworld/internal/entity"
	"github.com/samdwyer/overworld/internal/world"
)

// MoveResult is the outcome of a movement attempt. Blocked moves are ordinary
// return values for callers to branch on, not errors.
type MoveResult int

const (
	// MoveOk means the move was applied.
	MoveOk MoveResult = iota
	// MoveOffMap means the destination lies outside the map bounds.
	MoveOffMap
	// MoveImpassable means the destination terrain denies the agent's movement mode.
	MoveImpassable
	// MoveOccupied means another agent already occupies the destination.
	MoveOccupied
	// MoveNoDestination means the agent has no current placement to move from.
	MoveNoDestination
)

// String returns a human-readable result name.
func (r MoveResult) String() string {
	switch r {
	case MoveOk:
		return "ok"
	case MoveOffMap:
		return "off-map"
	case MoveImpassable:
		return "impassable"
	case MoveOccupied:
		return "occupied"
	case MoveNoDestination:
		return "no-destination"
	default:
		return "unknown"
	}
}

// Spawn places an agent on the map and records its position. Fails when the
// target cell is occupied or off-map.
func Spawn(m *world.Map, a *entity.Agent, x, y int) error {
	if a == nil {
		panic("sim: Spawn with nil agent")
	}
	if err := m.PlaceOccupant(a.ID, x, y); err != nil {
		return fmt.Errorf("spawn %s: %w", a.Name, err)
	}
	a.SetPosition(x, y)
	return nil
}

// Despawn removes an agent from the map.
func Despawn(m *world.Map, a *entity.Agent) {
	if a == nil {
		panic("sim: Despawn with nil agent")
	}
	m.RemoveOccupant(a.ID)
	a.ClearPosition()
}

// TryMove applies a single-step displacement to an agent. Checks run in a
// fixed order and the first failure wins: no placement, off-map, impassable
// terrain, occupied cell. A failed move performs no mutation at all; a
// successful move relocates the occupancy record and updates the agent's
// cached coordinates as one step.
//
// Displacements outside {-1, 0, 1} and nil agents are programmer errors and
// panic.
func TryMove(m *world.Map, a *entity.Agent, dx, dy int) MoveResult {
	if a == nil {
		panic("sim: TryMove with nil agent")
	}
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
		panic(fmt.Sprintf("sim: TryMove displacement (%d,%d) out of range", dx, dy))
	}

	if !a.OnMap() {
		return MoveNoDestination
	}

	x, y := a.Position()
	nx, ny := x+dx, y+dy

	if !m.InBounds(nx, ny) {
		return MoveOffMap
	}
	if _, ok := m.StepCost(nx, ny, a.Mode); !ok {
		return MoveImpassable
	}
	if occ := m.OccupantAt(nx, ny); occ != "" && occ != a.ID {
		return MoveOccupied
	}

	m.RelocateOccupant(a.ID, nx, ny)
	a.SetPosition(nx, ny)
	return MoveOk
}
