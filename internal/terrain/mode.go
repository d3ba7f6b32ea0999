// Package terrain provides the passability model: terrain classes, movement
// modes, and the ruleset mapping (class, mode) pairs to movement legality and cost.
package terrain

// Mode represents how an agent traverses terrain.
type Mode int

const (
	ModeWalk Mode = iota
	ModeSwim
	ModeFly

	modeCount = int(ModeFly) + 1
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeWalk:
		return "Walk"
	case ModeSwim:
		return "Swim"
	case ModeFly:
		return "Fly"
	default:
		return "Unknown"
	}
}

// ID returns the mode identifier for data lookup.
func (m Mode) ID() string {
	switch m {
	case ModeWalk:
		return "walk"
	case ModeSwim:
		return "swim"
	case ModeFly:
		return "fly"
	default:
		return "unknown"
	}
}

// ModeByID resolves a data identifier to a Mode. Returns false for unknown IDs.
func ModeByID(id string) (Mode, bool) {
	switch id {
	case "walk":
		return ModeWalk, true
	case "swim":
		return ModeSwim, true
	case "fly":
		return ModeFly, true
	default:
		return ModeWalk, false
	}
}
