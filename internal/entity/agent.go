// Package entity provides simulation agents: anything that occupies a cell,
// moves, and sees.
package entity

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/samdwyer/overworld/internal/gamedata"
	"github.com/samdwyer/overworld/internal/terrain"
)

// Agent is a single entity on the map. Its cached coordinates mirror the world
// map's occupancy table; the movement validator keeps the two in step.
type Agent struct {
	ID          string       // Unique identity, stable for the agent's lifetime
	Name        string       // Display name (e.g., "Scout")
	Glyph       rune         // Display symbol
	Color       tcell.Color  // Display color
	Mode        terrain.Mode // Movement mode used for passability lookups
	SightRadius int          // Visibility radius in cells

	x, y   int
	placed bool
}

// New creates an agent with a fresh ID and no placement.
func New(name string, glyph rune, mode terrain.Mode, sightRadius int) *Agent {
	return &Agent{
		ID:          uuid.NewString(),
		Name:        name,
		Glyph:       glyph,
		Color:       tcell.ColorWhite,
		Mode:        mode,
		SightRadius: sightRadius,
	}
}

// NewFromDef creates an agent from a data-driven template.
func NewFromDef(def *gamedata.AgentDef) (*Agent, error) {
	mode, ok := terrain.ModeByID(def.Mode)
	if !ok {
		return nil, fmt.Errorf("agent template %q has unknown movement mode %q", def.ID, def.Mode)
	}
	return &Agent{
		ID:          uuid.NewString(),
		Name:        def.Name,
		Glyph:       def.GlyphRune(),
		Color:       def.TCellColor(),
		Mode:        mode,
		SightRadius: def.SightRadius,
	}, nil
}

// Position returns the agent's cached coordinates.
func (a *Agent) Position() (int, int) {
	return a.x, a.y
}

// OnMap reports whether the agent currently has a placement.
func (a *Agent) OnMap() bool {
	return a.placed
}

// SetPosition updates the agent's cached coordinates and marks it placed.
func (a *Agent) SetPosition(x, y int) {
	a.x = x
	a.y = y
	a.placed = true
}

// ClearPosition removes the agent's placement.
func (a *Agent) ClearPosition() {
	a.x = 0
	a.y = 0
	a.placed = false
}
