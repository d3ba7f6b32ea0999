package terrain

// Class represents a movement-rule category for a terrain cell.
type Class int

const (
	ClassFloor Class = iota
	ClassWall
	ClassWater
	ClassRubble
	ClassFire

	classCount = int(ClassFire) + 1
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassFloor:
		return "Floor"
	case ClassWall:
		return "Wall"
	case ClassWater:
		return "Water"
	case ClassRubble:
		return "Rubble"
	case ClassFire:
		return "Fire"
	default:
		return "Unknown"
	}
}

// ID returns the class identifier for data lookup.
func (c Class) ID() string {
	switch c {
	case ClassFloor:
		return "floor"
	case ClassWall:
		return "wall"
	case ClassWater:
		return "water"
	case ClassRubble:
		return "rubble"
	case ClassFire:
		return "fire"
	default:
		return "unknown"
	}
}

// ClassByID resolves a data identifier to a Class. Returns false for unknown IDs.
func ClassByID(id string) (Class, bool) {
	switch id {
	case "floor":
		return ClassFloor, true
	case "wall":
		return ClassWall, true
	case "water":
		return ClassWater, true
	case "rubble":
		return ClassRubble, true
	case "fire":
		return ClassFire, true
	default:
		return ClassWall, false
	}
}

// Cell is the static per-cell terrain state. Cells are built once at map load
// and mutated in place only by scripted terrain-change events.
type Cell struct {
	Class       Class
	Transparent bool    // False for cells that block line of sight
	Hazard      bool    // True for cells that harm occupants
	CostScale   float64 // Per-cell multiplier on top of the class cost; 1.0 = normal
}
