package gamedata

import "github.com/gdamore/tcell/v2"

// TerrainClassDef defines a terrain passability class loaded from JSON.
type TerrainClassDef struct {
	ID          string             `json:"id"`          // Unique identifier (e.g., "water")
	Name        string             `json:"name"`        // Display name (e.g., "Water")
	Glyph       string             `json:"glyph"`       // Single character for rendering (e.g., "~")
	Color       string             `json:"color"`       // Hex color code (e.g., "#3366CC")
	Transparent bool               `json:"transparent"` // False for cells that block line of sight
	Hazard      bool               `json:"hazard"`      // True for cells that harm occupants
	Modes       map[string]float64 `json:"modes"`       // Movement mode ID -> cost multiplier; absent or 0 = impassable
}

// GlyphRune returns the glyph as a rune for rendering.
func (d *TerrainClassDef) GlyphRune() rune {
	if len(d.Glyph) == 0 {
		return '?'
	}
	return rune(d.Glyph[0])
}

// TCellColor returns the color as a tcell.Color.
func (d *TerrainClassDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(d.Color)
	if err != nil {
		return tcell.ColorWhite // fallback
	}
	return color
}

// TerrainFile represents the structure of terrain.json.
type TerrainFile struct {
	Classes []TerrainClassDef `json:"classes"`
}

// LoadTerrainClasses loads terrain class definitions from the embedded terrain.json file.
func LoadTerrainClasses() ([]TerrainClassDef, error) {
	file, err := Load[TerrainFile]("terrain.json")
	if err != nil {
		return nil, err
	}
	return file.Classes, nil
}

// MustLoadTerrainClasses loads terrain class definitions, panicking on error.
func MustLoadTerrainClasses() []TerrainClassDef {
	classes, err := LoadTerrainClasses()
	if err != nil {
		panic(err)
	}
	return classes
}
