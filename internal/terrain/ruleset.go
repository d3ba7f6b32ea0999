package terrain

import (
	"fmt"

	"github.com/samdwyer/overworld/internal/gamedata"
)

// Ruleset maps (class, mode) pairs to movement legality and cost multipliers.
// It is built once from gamedata definitions and is read-only afterwards.
// Unknown classes and modes always resolve to impassable.
type Ruleset struct {
	defs  [classCount]*gamedata.TerrainClassDef
	costs [classCount][modeCount]float64 // 0 = impassable for that mode
}

// NewRuleset builds a ruleset from loaded terrain class definitions.
// Every definition must name a known class ID and known mode IDs.
func NewRuleset(defs []gamedata.TerrainClassDef) (*Ruleset, error) {
	r := &Ruleset{}
	for i := range defs {
		def := &defs[i]
		class, ok := ClassByID(def.ID)
		if !ok {
			return nil, fmt.Errorf("terrain.json defines unknown class %q", def.ID)
		}
		r.defs[class] = def
		for modeID, cost := range def.Modes {
			mode, ok := ModeByID(modeID)
			if !ok {
				return nil, fmt.Errorf("terrain class %q references unknown mode %q", def.ID, modeID)
			}
			if cost < 0 {
				return nil, fmt.Errorf("terrain class %q has negative cost %v for mode %q", def.ID, cost, modeID)
			}
			r.costs[class][mode] = cost
		}
	}
	for c := 0; c < classCount; c++ {
		if r.defs[c] == nil {
			return nil, fmt.Errorf("terrain.json is missing class %q", Class(c).ID())
		}
	}
	return r, nil
}

// LoadRuleset builds a ruleset from the embedded terrain.json.
func LoadRuleset() (*Ruleset, error) {
	defs, err := gamedata.LoadTerrainClasses()
	if err != nil {
		return nil, err
	}
	return NewRuleset(defs)
}

// MustLoadRuleset builds a ruleset, panicking on error.
func MustLoadRuleset() *Ruleset {
	r, err := LoadRuleset()
	if err != nil {
		panic(err)
	}
	return r
}

// IsPassable reports whether an agent in the given mode may enter a cell of the
// given class. Unknown classes are impassable.
func (r *Ruleset) IsPassable(class Class, mode Mode) bool {
	return r.MoveCost(class, mode) > 0
}

// MoveCost returns the cost multiplier for entering a cell of the given class
// in the given mode, or 0 when the combination is impassable.
func (r *Ruleset) MoveCost(class Class, mode Mode) float64 {
	if class < 0 || int(class) >= classCount || mode < 0 || int(mode) >= modeCount {
		return 0
	}
	return r.costs[class][mode]
}

// Def returns the loaded definition for a class, or nil for unknown classes.
func (r *Ruleset) Def(class Class) *gamedata.TerrainClassDef {
	if class < 0 || int(class) >= classCount {
		return nil
	}
	return r.defs[class]
}

// NewCell builds a terrain cell of the given class with the definition's
// transparency and hazard flags and a normal cost scale.
func (r *Ruleset) NewCell(class Class) Cell {
	def := r.Def(class)
	if def == nil {
		// Fail safe: unknown classes become opaque, impassable walls.
		return Cell{Class: ClassWall, CostScale: 1.0}
	}
	return Cell{
		Class:       class,
		Transparent: def.Transparent,
		Hazard:      def.Hazard,
		CostScale:   1.0,
	}
}
