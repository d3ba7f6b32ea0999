package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/overworld/internal/entity"
	"github.com/samdwyer/overworld/internal/fov"
	"github.com/samdwyer/overworld/internal/gamedata"
	"github.com/samdwyer/overworld/internal/path"
	"github.com/samdwyer/overworld/internal/sim"
	"github.com/samdwyer/overworld/internal/telemetry"
	"github.com/samdwyer/overworld/internal/terrain"
	"github.com/samdwyer/overworld/internal/ui"
	"github.com/samdwyer/overworld/internal/world"
)

// Game holds the entire simulation state.
type Game struct {
	cfg      Config
	screen   *ui.Screen
	renderer *ui.Renderer

	rules    *terrain.Ruleset
	registry *gamedata.AgentRegistry
	rng      *rand.Rand

	worldMap  *world.Map
	player    *entity.Agent
	wanderers []*wanderer

	mask     *fov.Mask
	explored [][]bool
	route    []world.Point

	state   State
	status  string
	running bool
}

// New creates a new game instance.
func New(cfg Config) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	rules, err := terrain.LoadRuleset()
	if err != nil {
		screen.Close()
		return nil, err
	}

	registry, err := gamedata.LoadAgentRegistry()
	if err != nil {
		screen.Close()
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Game{
		cfg:      cfg,
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		rules:    rules,
		registry: registry,
		rng:      rand.New(rand.NewSource(seed)),
		state:    StateExplore,
		running:  true,
	}, nil
}

// Run executes the main turn loop.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")

	ctx, initSpan := tracer.Start(ctx, "game.init")
	err := g.initWorld(ctx)
	initSpan.SetAttributes(
		attribute.Int("map.rooms", len(g.worldMap.Rooms)),
		attribute.Int("agents.wanderers", len(g.wanderers)),
	)
	initSpan.End()
	if err != nil {
		g.screen.Close()
		return err
	}

	for g.running {
		g.render()
		g.handleInput(ctx)
	}

	g.screen.Close()
	return nil
}

// initWorld generates a fresh map and populates it with the player and
// wandering agents.
func (g *Game) initWorld(ctx context.Context) error {
	g.worldMap = world.NewMap(g.cfg.Width, g.cfg.Height, g.rules, g.rng)
	g.worldMap.Generate(ctx)

	g.explored = make([][]bool, g.cfg.Height)
	for y := range g.explored {
		g.explored[y] = make([]bool, g.cfg.Width)
	}
	g.route = nil
	g.state = StateExplore
	g.wanderers = nil

	g.player = entity.New("Adventurer", '@', terrain.ModeWalk, g.cfg.SightRadius)
	if err := g.spawnPlayer(); err != nil {
		return err
	}
	g.spawnWanderers()
	g.refreshVisibility()
	g.status = "Arrows move. Click to set a destination, Enter walks it. r regenerates, q quits."
	return nil
}

// spawnPlayer places the player in the first room, falling back to any open
// cell near the map center.
func (g *Game) spawnPlayer() error {
	if len(g.worldMap.Rooms) > 0 {
		if x, y := g.worldMap.RandomOpenPoint(0, g.player.Mode); x >= 0 {
			return sim.Spawn(g.worldMap, g.player, x, y)
		}
	}
	// Fallback: scan for any walkable cell
	for y := 0; y < g.worldMap.Height; y++ {
		for x := 0; x < g.worldMap.Width; x++ {
			if _, ok := g.worldMap.StepCost(x, y, g.player.Mode); ok && g.worldMap.OccupantAt(x, y) == "" {
				return sim.Spawn(g.worldMap, g.player, x, y)
			}
		}
	}
	return fmt.Errorf("no open cell to place the player on")
}

// spawnWanderers populates the map with roaming agents from the template
// registry. Rooms without terrain an agent's mode can stand on are skipped.
func (g *Game) spawnWanderers() {
	if len(g.worldMap.Rooms) == 0 {
		return
	}
	for i := 0; i < g.cfg.Wanderers; i++ {
		def := g.registry.SpawnRandom(g.rng)
		if def == nil {
			return
		}
		agent, err := entity.NewFromDef(def)
		if err != nil {
			continue
		}
		// A few tries: an agent's mode may not match the terrain of every room
		for attempt := 0; attempt < 5; attempt++ {
			room := g.rng.Intn(len(g.worldMap.Rooms))
			x, y := g.worldMap.RandomOpenPoint(room, agent.Mode)
			if x < 0 {
				continue
			}
			if err := sim.Spawn(g.worldMap, agent, x, y); err != nil {
				continue
			}
			g.wanderers = append(g.wanderers, &wanderer{agent: agent})
			break
		}
	}
}

// refreshVisibility recomputes the player's visibility mask and folds it into
// the explored-cell memory. The mask itself is always rebuilt from scratch.
func (g *Game) refreshVisibility() {
	px, py := g.player.Position()
	g.mask = fov.Compute(g.worldMap, px, py, g.player.SightRadius)

	r := g.player.SightRadius
	for y := py - r; y <= py+r; y++ {
		for x := px - r; x <= px+r; x++ {
			if g.worldMap.InBounds(x, y) && g.mask.Visible(x, y) {
				g.explored[y][x] = true
			}
		}
	}
}

func (g *Game) render() {
	agents := make([]*entity.Agent, 0, len(g.wanderers))
	for _, w := range g.wanderers {
		agents = append(agents, w.agent)
	}
	g.renderer.Render(ui.Frame{
		Map:      g.worldMap,
		Mask:     g.mask,
		Explored: g.explored,
		Player:   g.player,
		Agents:   agents,
		Route:    g.route,
		Status:   g.status,
	})
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventMouse:
		g.handleMouseEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false

	case tcell.KeyUp:
		g.playerMove(ctx, 0, -1)
	case tcell.KeyDown:
		g.playerMove(ctx, 0, 1)
	case tcell.KeyLeft:
		g.playerMove(ctx, -1, 0)
	case tcell.KeyRight:
		g.playerMove(ctx, 1, 0)

	case tcell.KeyEnter:
		g.travelStep(ctx)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			g.running = false
		case 'r', 'R':
			if err := g.initWorld(ctx); err != nil {
				g.status = fmt.Sprintf("Regeneration failed: %v", err)
			}
		case '.':
			g.travelStep(ctx)
		}
	}
}

// handleMouseEvent computes a route to a clicked cell.
func (g *Game) handleMouseEvent(ctx context.Context, ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 {
		return
	}
	x, y := ev.Position()
	g.setDestination(ctx, x, y)
}

// playerMove attempts a single-step player move. Only a completed move
// consumes the turn; blocked moves just report why.
func (g *Game) playerMove(ctx context.Context, dx, dy int) {
	result := sim.TryMove(g.worldMap, g.player, dx, dy)
	switch result {
	case sim.MoveOk:
		// Manual movement abandons any pending route
		g.route = nil
		g.state = StateExplore
		g.status = ""
		g.endTurn(ctx)
	case sim.MoveOffMap:
		g.status = "The world ends here."
	case sim.MoveImpassable:
		g.status = "The terrain blocks the way."
	case sim.MoveOccupied:
		g.status = "Someone is standing there."
	case sim.MoveNoDestination:
		g.status = "Nowhere to move from."
	}
}

// setDestination computes a route from the player to the target cell.
func (g *Game) setDestination(ctx context.Context, x, y int) {
	if !g.worldMap.InBounds(x, y) {
		return
	}
	px, py := g.player.Position()
	route, found := path.Find(ctx, g.worldMap, g.player.Mode, g.player.ID,
		world.Point{X: px, Y: py}, world.Point{X: x, Y: y})
	if !found {
		g.status = "No route there."
		return
	}
	g.route = route
	g.state = StateTravel
	g.status = fmt.Sprintf("Route set: %d steps. Enter or . walks it.", len(route))
}

// travelStep advances the player one step along the pending route.
func (g *Game) travelStep(ctx context.Context) {
	if len(g.route) == 0 {
		g.state = StateExplore
		g.status = "No route pending."
		return
	}

	next := g.route[0]
	px, py := g.player.Position()
	result := sim.TryMove(g.worldMap, g.player, next.X-px, next.Y-py)
	if result != sim.MoveOk {
		// The world changed under the route; drop it and let the player re-plan
		g.route = nil
		g.state = StateExplore
		g.status = fmt.Sprintf("Route blocked (%s).", result)
		return
	}

	g.route = g.route[1:]
	if len(g.route) == 0 {
		g.state = StateExplore
		g.status = "Arrived."
	}
	g.endTurn(ctx)
}

// endTurn runs everything that happens after the player acts: wandering agents
// take their steps, then visibility is recomputed from the new positions.
func (g *Game) endTurn(ctx context.Context) {
	g.advanceWanderers(ctx)
	g.refreshVisibility()
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}
