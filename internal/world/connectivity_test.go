package world

import (
	"strings"
	"testing"
)

// gridFromRows builds a grid from '#' (wall) and '.' (ground) rows.
func gridFromRows(rows ...string) *Grid {
	g := &Grid{Width: len(rows[0]), Height: len(rows), Tiles: make([][]Tile, len(rows))}
	for y, row := range rows {
		g.Tiles[y] = make([]Tile, len(row))
		for x, ch := range row {
			switch ch {
			case '#':
				g.Tiles[y][x] = TileWall
			case '^':
				g.Tiles[y][x] = TileTrap
			default:
				g.Tiles[y][x] = TileGround
			}
		}
	}
	return g
}

func TestReachable(t *testing.T) {
	g := gridFromRows(
		"#######",
		"#..#..#",
		"#..#..#",
		"#.^...#",
		"#######",
	)

	tests := []struct {
		name          string
		start, target Point
		want          bool
	}{
		{"same cell", Point{1, 1}, Point{1, 1}, true},
		{"around wall through trap", Point{1, 1}, Point{5, 1}, true},
		{"target is wall", Point{1, 1}, Point{3, 1}, false},
		{"start is wall", Point{0, 0}, Point{1, 1}, false},
		{"out of bounds", Point{1, 1}, Point{9, 9}, false},
		{"negative coordinate", Point{-1, 1}, Point{1, 1}, false},
	}

	for _, tt := range tests {
		if got := Reachable(g, tt.start, tt.target); got != tt.want {
			t.Errorf("%s: Reachable(%v, %v) = %v, want %v", tt.name, tt.start, tt.target, got, tt.want)
		}
	}
}

func TestReachableBlockedByWallColumn(t *testing.T) {
	g := gridFromRows(
		"#####",
		"#.#.#",
		"#.#.#",
		"#####",
	)
	if Reachable(g, Point{1, 1}, Point{3, 2}) {
		t.Error("cells separated by a wall column should not be reachable")
	}
}

func TestReachableSetMask(t *testing.T) {
	g := gridFromRows(
		"#####",
		"#..##",
		"##.##",
		"#####",
	)
	mask := ReachableSet(g, Point{1, 1})

	var got strings.Builder
	for i, v := range mask {
		if v {
			got.WriteByte('x')
		} else {
			got.WriteByte('-')
		}
		if (i+1)%g.Width == 0 {
			got.WriteByte('/')
		}
	}
	want := "-----/-xx--/--x--/-----/"
	if got.String() != want {
		t.Errorf("mask = %s, want %s", got.String(), want)
	}
}

func TestFloodHonoursPredicate(t *testing.T) {
	g := gridFromRows(
		"#######",
		"#..^..#",
		"#######",
	)
	gate := Point{3, 1}
	closed := func(x, y int) bool {
		return g.IsPassable(x, y) && (Point{x, y}) != gate
	}

	mask := Flood(g, Point{1, 1}, closed)
	if mask[1*g.Width+4] {
		t.Error("cell behind a closed gate should not be visited")
	}
	if !mask[1*g.Width+2] {
		t.Error("cell before the gate should be visited")
	}
	if !ReachableSet(g, Point{1, 1})[1*g.Width+5] {
		t.Error("ReachableSet ignores gates")
	}
	if Flood(g, gate, closed)[1*g.Width+3] {
		t.Error("flood from an impassable start visits nothing")
	}
}
