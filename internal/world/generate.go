package world

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/overworld/internal/telemetry"
	"github.com/samdwyer/overworld/internal/terrain"
)

const (
	// Default map dimensions
	DefaultWidth  = 80
	DefaultHeight = 24

	// BSP parameters
	minRoomSize = 6  // Minimum room dimension
	maxRoomSize = 15 // Maximum room dimension
	minLeafSize = 8  // Minimum BSP leaf size before stopping split

	// Feature odds, applied per room after carving
	waterPoolChance = 4 // 1-in-N rooms get a water pool
	rubbleChance    = 3 // 1-in-N rooms get rubble scatter
	fireChance      = 8 // 1-in-N rooms get a fire patch
)

// Generate creates the map layout: BSP rooms connected by corridors, then
// terrain feature patches (water, rubble, fire) so movement-cost classes occur
// naturally.
func (m *Map) Generate(ctx context.Context) {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "map.generate")
	defer span.End()

	startTime := time.Now()

	// Start BSP with the entire map as root
	root := &bspNode{
		x:      1,
		y:      1,
		width:  m.Width - 2,
		height: m.Height - 2,
	}

	// Recursively split the map
	m.splitNode(root)

	// Create rooms in leaf nodes
	m.createRooms(root)

	// Connect rooms with corridors
	m.connectRooms(root)

	// Scatter terrain features over the carved rooms
	m.placeFeatures()

	// Record telemetry
	span.SetAttributes(
		attribute.Int("map.width", m.Width),
		attribute.Int("map.height", m.Height),
		attribute.Int("map.room_count", len(m.Rooms)),
		attribute.Int64("map.generation_ms", time.Since(startTime).Milliseconds()),
	)
}

// RoomIndexAt returns the index of the room containing the position, or -1 if not in a room.
func (m *Map) RoomIndexAt(x, y int) int {
	for i, room := range m.Rooms {
		if room.Contains(x, y) {
			return i
		}
	}
	return -1
}

// RandomOpenPoint returns a random point within the specified room that is
// passable for the given mode and unoccupied, or (-1, -1) when none is found.
func (m *Map) RandomOpenPoint(roomIndex int, mode terrain.Mode) (int, int) {
	if roomIndex < 0 || roomIndex >= len(m.Rooms) {
		return -1, -1
	}
	room := m.Rooms[roomIndex]

	// Try random points until we find an open one (max 100 attempts)
	for i := 0; i < 100; i++ {
		x := room.X + m.rng.Intn(room.Width)
		y := room.Y + m.rng.Intn(room.Height)
		if _, ok := m.StepCost(x, y, mode); ok && m.OccupantAt(x, y) == "" {
			return x, y
		}
	}

	return -1, -1
}

// bspNode represents a node in the BSP tree.
type bspNode struct {
	x, y          int
	width, height int
	left, right   *bspNode
	room          *Room
}

// isLeaf returns true if this node has no children.
func (n *bspNode) isLeaf() bool {
	return n.left == nil && n.right == nil
}

// splitNode recursively splits a BSP node.
func (m *Map) splitNode(node *bspNode) {
	// Stop if too small to split
	if node.width < minLeafSize*2 && node.height < minLeafSize*2 {
		return
	}

	// Determine split direction
	var splitHorizontally bool
	if node.width > node.height && node.width >= minLeafSize*2 {
		splitHorizontally = false // Split vertically (left/right)
	} else if node.height >= minLeafSize*2 {
		splitHorizontally = true // Split horizontally (top/bottom)
	} else if node.width >= minLeafSize*2 {
		splitHorizontally = false
	} else {
		return // Can't split
	}

	// Calculate split position
	var splitPos int
	if splitHorizontally {
		min := minLeafSize
		max := node.height - minLeafSize
		if max <= min {
			return
		}
		splitPos = min + m.rng.Intn(max-min+1)
	} else {
		min := minLeafSize
		max := node.width - minLeafSize
		if max <= min {
			return
		}
		splitPos = min + m.rng.Intn(max-min+1)
	}

	// Create child nodes
	if splitHorizontally {
		node.left = &bspNode{
			x:      node.x,
			y:      node.y,
			width:  node.width,
			height: splitPos,
		}
		node.right = &bspNode{
			x:      node.x,
			y:      node.y + splitPos,
			width:  node.width,
			height: node.height - splitPos,
		}
	} else {
		node.left = &bspNode{
			x:      node.x,
			y:      node.y,
			width:  splitPos,
			height: node.height,
		}
		node.right = &bspNode{
			x:      node.x + splitPos,
			y:      node.y,
			width:  node.width - splitPos,
			height: node.height,
		}
	}

	// Recursively split children
	m.splitNode(node.left)
	m.splitNode(node.right)
}

// createRooms creates rooms in leaf nodes of the BSP tree.
func (m *Map) createRooms(node *bspNode) {
	if node == nil {
		return
	}

	if node.isLeaf() {
		// Create a room within this leaf
		roomWidth := minRoomSize + m.rng.Intn(min(maxRoomSize-minRoomSize+1, node.width-minRoomSize+1))
		roomHeight := minRoomSize + m.rng.Intn(min(maxRoomSize-minRoomSize+1, node.height-minRoomSize+1))

		// Ensure room fits within leaf
		if roomWidth > node.width-2 {
			roomWidth = node.width - 2
		}
		if roomHeight > node.height-2 {
			roomHeight = node.height - 2
		}
		if roomWidth < minRoomSize || roomHeight < minRoomSize {
			return // Skip if too small
		}

		// Random position within leaf
		roomX := node.x + 1 + m.rng.Intn(node.width-roomWidth-1)
		roomY := node.y + 1 + m.rng.Intn(node.height-roomHeight-1)

		room := Room{
			X:      roomX,
			Y:      roomY,
			Width:  roomWidth,
			Height: roomHeight,
		}
		node.room = &room
		m.Rooms = append(m.Rooms, room)

		// Carve out the room
		m.carveRoom(room)
	} else {
		m.createRooms(node.left)
		m.createRooms(node.right)
	}
}

// carveRoom sets all cells within the room to floor.
func (m *Map) carveRoom(room Room) {
	for y := room.Y; y < room.Y+room.Height; y++ {
		for x := room.X; x < room.X+room.Width; x++ {
			if x > 0 && x < m.Width-1 && y > 0 && y < m.Height-1 {
				m.cells[y][x] = m.rules.NewCell(terrain.ClassFloor)
			}
		}
	}
}

// connectRooms connects rooms with corridors.
func (m *Map) connectRooms(node *bspNode) {
	if node == nil || node.isLeaf() {
		return
	}

	// Connect children first
	m.connectRooms(node.left)
	m.connectRooms(node.right)

	// Get a room from each subtree and connect them
	leftRoom := m.getRoom(node.left)
	rightRoom := m.getRoom(node.right)

	if leftRoom != nil && rightRoom != nil {
		m.carveCorridor(*leftRoom, *rightRoom)
	}
}

// getRoom returns a room from a subtree (any room will do).
func (m *Map) getRoom(node *bspNode) *Room {
	if node == nil {
		return nil
	}

	if node.room != nil {
		return node.room
	}

	// Try left subtree first
	if room := m.getRoom(node.left); room != nil {
		return room
	}
	return m.getRoom(node.right)
}

// carveCorridor creates a corridor between two rooms.
func (m *Map) carveCorridor(room1, room2 Room) {
	x1, y1 := room1.Center()
	x2, y2 := room2.Center()

	// Randomly choose to go horizontal-then-vertical or vertical-then-horizontal
	if m.rng.Intn(2) == 0 {
		m.carveHorizontalTunnel(x1, x2, y1)
		m.carveVerticalTunnel(y1, y2, x2)
	} else {
		m.carveVerticalTunnel(y1, y2, x1)
		m.carveHorizontalTunnel(x1, x2, y2)
	}
}

// carveHorizontalTunnel carves a horizontal tunnel of floor.
func (m *Map) carveHorizontalTunnel(x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		if x > 0 && x < m.Width-1 && y > 0 && y < m.Height-1 {
			m.cells[y][x] = m.rules.NewCell(terrain.ClassFloor)
		}
	}
}

// carveVerticalTunnel carves a vertical tunnel of floor.
func (m *Map) carveVerticalTunnel(y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		if x > 0 && x < m.Width-1 && y > 0 && y < m.Height-1 {
			m.cells[y][x] = m.rules.NewCell(terrain.ClassFloor)
		}
	}
}

// placeFeatures scatters terrain feature patches over carved rooms. Features
// replace floor cells only, so corridors always stay walkable.
func (m *Map) placeFeatures() {
	for _, room := range m.Rooms {
		if m.rng.Intn(waterPoolChance) == 0 {
			m.placePatch(room, terrain.ClassWater, 2+m.rng.Intn(3))
		}
		if m.rng.Intn(rubbleChance) == 0 {
			m.placeScatter(room, terrain.ClassRubble, 3+m.rng.Intn(4))
		}
		if m.rng.Intn(fireChance) == 0 {
			m.placeScatter(room, terrain.ClassFire, 1+m.rng.Intn(2))
		}
	}
}

// placePatch carves a contiguous square-ish patch of the given class inside a
// room, leaving the room's one-cell margin untouched so walkers can pass around.
func (m *Map) placePatch(room Room, class terrain.Class, size int) {
	if room.Width < size+2 || room.Height < size+2 {
		return
	}
	px := room.X + 1 + m.rng.Intn(room.Width-size-1)
	py := room.Y + 1 + m.rng.Intn(room.Height-size-1)
	for y := py; y < py+size; y++ {
		for x := px; x < px+size; x++ {
			if m.cells[y][x].Class == terrain.ClassFloor {
				m.cells[y][x] = m.rules.NewCell(class)
			}
		}
	}
}

// placeScatter replaces up to count random floor cells in a room with the
// given class.
func (m *Map) placeScatter(room Room, class terrain.Class, count int) {
	for i := 0; i < count; i++ {
		x := room.X + m.rng.Intn(room.Width)
		y := room.Y + m.rng.Intn(room.Height)
		if m.cells[y][x].Class == terrain.ClassFloor {
			m.cells[y][x] = m.rules.NewCell(class)
		}
	}
}
