package world

var orthogonal = [4]Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Reachable reports whether target can be reached from start over
// 4-connected non-wall cells. Either endpoint being a wall or out of
// bounds yields false.
func Reachable(g *Grid, start, target Point) bool {
	if !g.InBounds(start.X, start.Y) || !g.InBounds(target.X, target.Y) {
		return false
	}
	if g.At(start.X, start.Y) == TileWall || g.At(target.X, target.Y) == TileWall {
		return false
	}
	if start == target {
		return true
	}
	return ReachableSet(g, start)[target.Y*g.Width+target.X]
}

// ReachableSet runs a breadth-first flood from start and returns the visited
// mask indexed by y*Width+x.
func ReachableSet(g *Grid, start Point) []bool {
	return Flood(g, start, g.IsPassable)
}

// Flood is ReachableSet with a caller-supplied passability test. Cells
// outside the grid are never visited.
func Flood(g *Grid, start Point, passable func(x, y int) bool) []bool {
	visited := make([]bool, g.Width*g.Height)
	if !g.InBounds(start.X, start.Y) || !passable(start.X, start.Y) {
		return visited
	}

	queue := []Point{start}
	visited[start.Y*g.Width+start.X] = true

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, d := range orthogonal {
			nx, ny := curr.X+d.X, curr.Y+d.Y
			if !g.InBounds(nx, ny) || !passable(nx, ny) {
				continue
			}
			idx := ny*g.Width + nx
			if visited[idx] {
				continue
			}
			visited[idx] = true
			queue = append(queue, Point{nx, ny})
		}
	}

	return visited
}
