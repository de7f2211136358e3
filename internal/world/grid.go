package world

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Point is an integer grid coordinate.
type Point struct {
	X, Y int
}

// Manhattan returns the taxicab distance between two points.
func (p Point) Manhattan(o Point) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

// Grid is the static tile layout of one level.
type Grid struct {
	Width  int
	Height int
	Tiles  [][]Tile
}

// NewGrid creates a grid with a wall border and ground interior.
func NewGrid(width, height int) *Grid {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
		for x := range tiles[y] {
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				tiles[y][x] = TileWall
			} else {
				tiles[y][x] = TileGround
			}
		}
	}

	return &Grid{
		Width:  width,
		Height: height,
		Tiles:  tiles,
	}
}

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// IsBorder reports whether (x, y) is on the outer ring.
func (g *Grid) IsBorder(x, y int) bool {
	return x == 0 || y == 0 || x == g.Width-1 || y == g.Height-1
}

// At returns the tile at the given position. Out-of-bounds reads are walls.
func (g *Grid) At(x, y int) Tile {
	if !g.InBounds(x, y) {
		return TileWall
	}
	return g.Tiles[y][x]
}

// Set overwrites the tile at the given position; out-of-bounds writes are ignored.
func (g *Grid) Set(x, y int, t Tile) {
	if g.InBounds(x, y) {
		g.Tiles[y][x] = t
	}
}

// IsPassable returns true if the given position can be walked on.
func (g *Grid) IsPassable(x, y int) bool {
	return g.At(x, y).IsPassable()
}

// Find returns every position holding the tile, in row-major order.
func (g *Grid) Find(t Tile) []Point {
	var out []Point
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.Tiles[y][x] == t {
				out = append(out, Point{x, y})
			}
		}
	}
	return out
}

// Count returns how many cells hold the tile.
func (g *Grid) Count(t Tile) int {
	n := 0
	for y := range g.Tiles {
		for _, cell := range g.Tiles[y] {
			if cell == t {
				n++
			}
		}
	}
	return n
}

// Start returns the first start cell, or false if the grid has none.
func (g *Grid) Start() (Point, bool) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.Tiles[y][x] == TileStart {
				return Point{x, y}, true
			}
		}
	}
	return Point{}, false
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	tiles := make([][]Tile, g.Height)
	for y := range tiles {
		tiles[y] = append([]Tile(nil), g.Tiles[y]...)
	}
	return &Grid{Width: g.Width, Height: g.Height, Tiles: tiles}
}

// Fingerprint hashes the dimensions and sparse encoding of the grid.
// Two grids with the same fingerprint produce the same entity registry order.
func (g *Grid) Fingerprint() uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(strconv.Itoa(g.Width) + "x" + strconv.Itoa(g.Height) + "\n")
	_, _ = h.Write(g.Encode())
	return h.Sum64()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
