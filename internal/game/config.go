package game

// Config holds simulation configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible map generation.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	// Map dimensions in cells.
	Width  int
	Height int

	// Wanderers is the number of roaming agents to spawn.
	Wanderers int

	// SightRadius is the player's visibility radius in cells.
	SightRadius int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:       80,
		Height:      24,
		Wanderers:   6,
		SightRadius: 8,
	}
}
