package game

import (
	"context"

	"github.com/samdwyer/overworld/internal/entity"
	"github.com/samdwyer/overworld/internal/path"
	"github.com/samdwyer/overworld/internal/sim"
	"github.com/samdwyer/overworld/internal/world"
)

// wanderer is a roaming agent and its current route. Routes are consumed one
// step per turn and recomputed whenever they run out or get blocked.
type wanderer struct {
	agent *entity.Agent
	route []world.Point
}

// advanceWanderers gives every wandering agent its turn: follow the current
// route one step, or pick a new destination when idle. A blocked step drops
// the route; a fresh one is planned on the next turn against the world as it
// is then.
func (g *Game) advanceWanderers(ctx context.Context) {
	for _, w := range g.wanderers {
		if !w.agent.OnMap() {
			continue
		}

		if len(w.route) == 0 {
			w.route = g.planRoute(ctx, w.agent)
			continue
		}

		next := w.route[0]
		x, y := w.agent.Position()
		if sim.TryMove(g.worldMap, w.agent, next.X-x, next.Y-y) != sim.MoveOk {
			w.route = nil
			continue
		}
		w.route = w.route[1:]
	}
}

// planRoute picks a random open destination the agent's movement mode can
// stand on and computes a route to it. Returns nil when no destination or
// route is available this turn.
func (g *Game) planRoute(ctx context.Context, a *entity.Agent) []world.Point {
	if len(g.worldMap.Rooms) == 0 {
		return nil
	}
	room := g.rng.Intn(len(g.worldMap.Rooms))
	tx, ty := g.worldMap.RandomOpenPoint(room, a.Mode)
	if tx < 0 {
		return nil
	}

	x, y := a.Position()
	route, found := path.Find(ctx, g.worldMap, a.Mode, a.ID,
		world.Point{X: x, Y: y}, world.Point{X: tx, Y: ty})
	if !found {
		return nil
	}
	return route
}
