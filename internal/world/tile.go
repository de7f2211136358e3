// Package world provides the maze grid, level generation and reachability checks.
package world

import "fmt"

// Tile is the tag of a single grid cell. Values match the level file encoding.
type Tile int8

const (
	// TileGround is the implicit default; it is never written to level files.
	TileGround Tile = -1
	// TileWall is the only impassable tile.
	TileWall Tile = 0
	// TileStart marks the entrance. Exactly one per grid.
	TileStart Tile = 1
	// TileExit marks a level exit.
	TileExit Tile = 2
	// TileTrap is a damaging obstacle spawn point.
	TileTrap Tile = 4
	// TileEnemy is an enemy spawn point.
	TileEnemy Tile = 5
	// TileMorphTrap is a slowing obstacle spawn point.
	TileMorphTrap Tile = 6

	// legacyTrap is the trap tag written by the fixed-format level loader.
	legacyTrap = 3
)

// ParseTile converts a level file tag into a Tile. Tags 3 and 4 both mean trap.
func ParseTile(tag int) (Tile, error) {
	switch tag {
	case int(TileWall), int(TileStart), int(TileExit), int(TileTrap),
		int(TileEnemy), int(TileMorphTrap):
		return Tile(tag), nil
	case legacyTrap:
		return TileTrap, nil
	default:
		return TileGround, fmt.Errorf("unknown tile tag %d", tag)
	}
}

// IsPassable returns true for every tile except walls.
func (t Tile) IsPassable() bool {
	return t != TileWall
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	switch t {
	case TileWall:
		return '#'
	case TileStart:
		return '<'
	case TileExit:
		return '>'
	case TileTrap:
		return '^'
	case TileEnemy:
		return 'e'
	case TileMorphTrap:
		return '~'
	default:
		return '.'
	}
}

// String returns a human-readable tile name.
func (t Tile) String() string {
	switch t {
	case TileGround:
		return "ground"
	case TileWall:
		return "wall"
	case TileStart:
		return "start"
	case TileExit:
		return "exit"
	case TileTrap:
		return "trap"
	case TileEnemy:
		return "enemy"
	case TileMorphTrap:
		return "morph_trap"
	default:
		return "unknown"
	}
}
