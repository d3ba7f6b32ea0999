// Package fov computes fields of view with recursive shadow-casting.
package fov

// Mask is the result of a visibility computation: a square window of
// visibility bits centered on the observer. A fresh mask is built on every
// Compute call; no state carries over between calls.
type Mask struct {
	originX int
	originY int
	radius  int
	side    int // window edge length, 2*radius+1
	cells   []bool
}

func newMask(ox, oy, radius int) *Mask {
	side := 2*radius + 1
	return &Mask{
		originX: ox,
		originY: oy,
		radius:  radius,
		side:    side,
		cells:   make([]bool, side*side),
	}
}

// Origin returns the observer position this mask was computed for.
func (m *Mask) Origin() (int, int) {
	return m.originX, m.originY
}

// Radius returns the visibility radius this mask was computed with.
func (m *Mask) Radius() int {
	return m.radius
}

// Visible reports whether the map cell (x, y) is visible. Cells outside the
// mask window are never visible.
func (m *Mask) Visible(x, y int) bool {
	dx := x - m.originX + m.radius
	dy := y - m.originY + m.radius
	if dx < 0 || dx >= m.side || dy < 0 || dy >= m.side {
		return false
	}
	return m.cells[dy*m.side+dx]
}

// Count returns the number of visible cells in the mask.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.cells {
		if v {
			n++
		}
	}
	return n
}

func (m *Mask) set(x, y int) {
	dx := x - m.originX + m.radius
	dy := y - m.originY + m.radius
	if dx < 0 || dx >= m.side || dy < 0 || dy >= m.side {
		return
	}
	m.cells[dy*m.side+dx] = true
}
