package fov

// Grid is the minimal terrain view the visibility engine needs. Implementations
// must report out-of-bounds cells as opaque (Transparent == false).
type Grid interface {
	InBounds(x, y int) bool
	Transparent(x, y int) bool
}

// octant holds one of the 8 reflection/rotation mappings that transform
// octant-local (dx, dy) offsets into map offsets, so a single directional scan
// covers all 8 symmetric directions.
type octant struct {
	xx, xy, yx, yy int
}

var octants = [8]octant{
	{1, 0, 0, 1},
	{0, 1, 1, 0},
	{0, -1, 1, 0},
	{-1, 0, 0, 1},
	{-1, 0, 0, -1},
	{0, -1, -1, 0},
	{0, 1, -1, 0},
	{1, 0, 0, -1},
}

// Compute returns the visibility mask for an observer at (ox, oy) with the
// given radius. The observer's own cell is always visible; radius 0 means only
// the observer's cell is visible. The computation is read-only with respect to
// the grid.
//
// A negative radius or an off-map observer is a programmer error and panics.
func Compute(g Grid, ox, oy, radius int) *Mask {
	if radius < 0 {
		panic("fov: negative radius")
	}
	if !g.InBounds(ox, oy) {
		panic("fov: observer position is off-map")
	}

	mask := newMask(ox, oy, radius)
	mask.set(ox, oy)
	if radius == 0 {
		return mask
	}

	for _, oct := range octants {
		castLight(g, mask, ox, oy, 1, 1.0, 0.0, radius, oct)
	}

	return mask
}

// castLight scans one octant row by row within the slope range [end, start],
// recursing into a narrowed sub-scan whenever an opaque run begins and
// resuming past it when the run ends. The scan of an octant terminates at the
// first row that ends fully blocked, or when the slope range collapses.
func castLight(g Grid, mask *Mask, cx, cy, row int, start, end float64, radius int, oct octant) {
	if start < end {
		return
	}

	radiusSq := float64(radius * radius)

	for j := row; j <= radius; j++ {
		blocked := false
		newStart := start

		for dx, dy := -j, -j; dx <= 0; dx++ {
			// Slopes bracketing the left and right edges of this cell
			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			// Transform octant-local offsets into map coordinates
			x := cx + dx*oct.xx + dy*oct.xy
			y := cy + dx*oct.yx + dy*oct.yy

			if g.InBounds(x, y) && float64(dx*dx+dy*dy) < radiusSq {
				mask.set(x, y)
			}

			if blocked {
				if !g.Transparent(x, y) {
					// Still scanning along the opaque run
					newStart = rSlope
					continue
				}
				blocked = false
				start = newStart
			} else if !g.Transparent(x, y) && j < radius {
				// An opaque cell begins a shadow: scan the rows behind it
				// within the narrowed slope range, then carry on past it.
				blocked = true
				castLight(g, mask, cx, cy, j+1, start, lSlope, radius, oct)
				newStart = rSlope
			}
		}

		// A row that ends inside an opaque run terminates this octant's scan.
		if blocked {
			break
		}
	}
}
