package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/overworld/internal/entity"
	"github.com/samdwyer/overworld/internal/fov"
	"github.com/samdwyer/overworld/internal/world"
)

// Frame is everything the renderer needs to draw one turn.
type Frame struct {
	Map      *world.Map
	Mask     *fov.Mask      // Player's current visibility mask
	Explored [][]bool       // Cells the player has ever seen, indexed [y][x]
	Player   *entity.Agent
	Agents   []*entity.Agent // Other agents; drawn only when visible
	Route    []world.Point   // Pending travel route overlay
	Status   string          // Message for the status line
}

// Renderer handles drawing the simulation to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws one frame: terrain under fog of war, the travel route, agents,
// and the status line.
func (r *Renderer) Render(f Frame) {
	r.screen.Clear()

	for y := 0; y < f.Map.Height; y++ {
		for x := 0; x < f.Map.Width; x++ {
			visible := f.Mask != nil && f.Mask.Visible(x, y)
			explored := f.Explored != nil && f.Explored[y][x]
			if !visible && !explored {
				continue
			}

			def := f.Map.Rules().Def(f.Map.CellAt(x, y).Class)
			glyph := '?'
			style := tcell.StyleDefault
			if def != nil {
				glyph = def.GlyphRune()
				if visible {
					style = style.Foreground(def.TCellColor())
				} else {
					// Remembered but out of sight
					style = style.Foreground(tcell.ColorDarkSlateGray)
				}
			}
			r.screen.SetContent(x, y, glyph, style)
		}
	}

	// Travel route overlay, only where the player can see it
	routeStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	for _, p := range f.Route {
		if f.Mask != nil && f.Mask.Visible(p.X, p.Y) {
			r.screen.SetContent(p.X, p.Y, '*', routeStyle)
		}
	}

	// Other agents, only when visible
	for _, a := range f.Agents {
		if !a.OnMap() {
			continue
		}
		x, y := a.Position()
		if f.Mask != nil && f.Mask.Visible(x, y) {
			r.screen.SetContent(x, y, a.Glyph, tcell.StyleDefault.Foreground(a.Color))
		}
	}

	// Player on top
	if f.Player != nil && f.Player.OnMap() {
		x, y := f.Player.Position()
		playerStyle := tcell.StyleDefault.
			Foreground(tcell.ColorYellow).
			Bold(true)
		r.screen.SetContent(x, y, f.Player.Glyph, playerStyle)
	}

	if f.Status != "" {
		r.RenderMessage(f.Status, f.Map.Height)
	}

	r.screen.Show()
}

// RenderMessage displays a message at the given row of the screen.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, ch := range msg {
		r.screen.SetContent(i, y, ch, style)
	}
}
