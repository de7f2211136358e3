package entity

import "math"

// CollisionTolerance is the overlap, in grid units, a moving unit box may
// have with a blocked cell before it counts as a collision.
const CollisionTolerance = 0.1

// Move displaces a unit box at (x, y) by (dx, dy). Each axis is tried on its
// own, horizontal first, so a blocked diagonal move slides along the wall.
func (r *Registry) Move(x, y, dx, dy float64) (float64, float64) {
	if dx != 0 && !r.OverlapsBlocked(x+dx, y) {
		x += dx
	}
	if dy != 0 && !r.OverlapsBlocked(x, y+dy) {
		y += dy
	}
	return x, y
}

// OverlapsBlocked reports whether a unit box at (x, y) overlaps any blocked
// cell by more than CollisionTolerance on both axes.
func (r *Registry) OverlapsBlocked(x, y float64) bool {
	minX, maxX := cellSpan(x)
	minY, maxY := cellSpan(y)
	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			if r.Blocked(cx, cy) {
				return true
			}
		}
	}
	return false
}

// cellSpan returns the first and last cell a unit interval starting at v
// overlaps by more than the tolerance.
func cellSpan(v float64) (int, int) {
	lo := int(math.Floor(v + CollisionTolerance))
	hi := int(math.Ceil(v+1-CollisionTolerance)) - 1
	return lo, hi
}

// Overlaps reports whether a unit box at (x, y) still covers the cell by
// more than CollisionTolerance.
func Overlaps(x, y float64, cell *Entity) bool {
	return math.Abs(x-cell.X) < 1-CollisionTolerance && math.Abs(y-cell.Y) < 1-CollisionTolerance
}
