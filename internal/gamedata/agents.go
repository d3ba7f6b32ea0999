package gamedata

import "github.com/gdamore/tcell/v2"

// AgentDef defines a wandering agent template loaded from JSON.
type AgentDef struct {
	ID          string `json:"id"`          // Unique identifier (e.g., "scout")
	Name        string `json:"name"`        // Display name (e.g., "Scout")
	Glyph       string `json:"glyph"`       // Single character for rendering (e.g., "s")
	Color       string `json:"color"`       // Hex color code (e.g., "#55CC55")
	Mode        string `json:"mode"`        // Movement mode ID (e.g., "walk", "swim", "fly")
	SightRadius int    `json:"sightRadius"` // Visibility radius in cells
	SpawnWeight int    `json:"spawnWeight"` // Relative spawn frequency (higher = more common)
}

// GlyphRune returns the glyph as a rune for rendering.
func (d *AgentDef) GlyphRune() rune {
	if len(d.Glyph) == 0 {
		return '?'
	}
	return rune(d.Glyph[0])
}

// TCellColor returns the color as a tcell.Color.
func (d *AgentDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(d.Color)
	if err != nil {
		return tcell.ColorWhite // fallback
	}
	return color
}

// AgentsFile represents the structure of agents.json.
type AgentsFile struct {
	Agents []AgentDef `json:"agents"`
}

// LoadAgents loads agent definitions from the embedded agents.json file.
func LoadAgents() ([]AgentDef, error) {
	file, err := Load[AgentsFile]("agents.json")
	if err != nil {
		return nil, err
	}
	return file.Agents, nil
}

// MustLoadAgents loads agent definitions, panicking on error.
func MustLoadAgents() []AgentDef {
	agents, err := LoadAgents()
	if err != nil {
		panic(err)
	}
	return agents
}
