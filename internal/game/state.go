// Package game provides the main turn loop and input handling.
package game

// State represents the current interaction state.
type State int

const (
	// StateExplore is the default mode: the player moves step by step.
	StateExplore State = iota
	// StateTravel means a computed route is pending and the player is
	// walking it one step per turn.
	StateTravel
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateExplore:
		return "explore"
	case StateTravel:
		return "travel"
	default:
		return "unknown"
	}
}
