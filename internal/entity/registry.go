package entity

import (
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/samdwyer/labyrinth/internal/world"
)

// FallbackStart is used when a grid has no start cell.
var FallbackStart = world.Point{X: 1, Y: 1}

// Params control the collectables placed on top of a grid.
type Params struct {
	Keys, Hearts, Boosts int
	StartHearts          int
	MaxHearts            int
	// TrapAnimPeriod is copied onto every trap and morph trap.
	TrapAnimPeriod float64
}

// Registry owns every live entity of the current level plus the player.
type Registry struct {
	Grid *world.Grid

	Walls      []*Entity
	Exits      []*Entity
	Traps      []*Entity
	MorphTraps []*Entity
	Enemies    []*Entity
	Keys       []*Entity
	Hearts     []*Entity
	Boosts     []*Entity
	Entrance   *Entity

	Player *Player
	Start  world.Point
}

// NewRegistry instantiates entities from the grid in row-major order and
// scatters collectables over ground cells reachable from the start. Exits
// start locked only when at least one key was placed. The scatter is seeded
// from the grid fingerprint, so the same grid always yields the same
// registry.
func NewRegistry(grid *world.Grid, p Params) *Registry {
	r := &Registry{Grid: grid}

	start, ok := grid.Start()
	if !ok {
		start = FallbackStart
	}
	r.Start = start

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			origin := world.Point{X: x, Y: y}
			switch grid.Tiles[y][x] {
			case world.TileWall:
				r.Walls = append(r.Walls, New(KindWall, origin))
			case world.TileStart:
				if r.Entrance == nil {
					r.Entrance = New(KindEntrance, origin)
				}
			case world.TileExit:
				r.Exits = append(r.Exits, New(KindExit, origin))
			case world.TileTrap:
				r.Traps = append(r.Traps, r.animated(KindTrap, origin, p.TrapAnimPeriod))
			case world.TileMorphTrap:
				r.MorphTraps = append(r.MorphTraps, r.animated(KindMorphTrap, origin, p.TrapAnimPeriod))
			case world.TileEnemy:
				r.Enemies = append(r.Enemies, New(KindEnemy, origin))
			}
		}
	}

	r.placeCollectables(p)

	locked := len(r.Keys) > 0
	for _, e := range r.Exits {
		e.Locked = locked
	}

	r.Player = NewPlayer(float64(start.X), float64(start.Y), p.StartHearts, p.MaxHearts)
	return r
}

func (r *Registry) animated(kind Kind, origin world.Point, period float64) *Entity {
	e := New(kind, origin)
	e.AnimPeriod = period
	return e
}

// placeCollectables scatters keys over ground the player can reach while
// every exit is still locked, then hearts and boosts over the remaining
// ground, reachable cells first. A key is never placed on a cell cut off by
// walls or exits, so the request is trimmed when such cells run out.
func (r *Registry) placeCollectables(p Params) {
	if p.Keys+p.Hearts+p.Boosts == 0 {
		return
	}

	grid := r.Grid
	gated := world.Flood(grid, r.Start, func(x, y int) bool {
		return grid.IsPassable(x, y) && grid.At(x, y) != world.TileExit
	})
	open := world.ReachableSet(grid, r.Start)

	var keyCells, reachable, other []world.Point
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if grid.Tiles[y][x] != world.TileGround {
				continue
			}
			pt, idx := world.Point{X: x, Y: y}, y*grid.Width+x
			switch {
			case gated[idx]:
				keyCells = append(keyCells, pt)
			case open[idx]:
				reachable = append(reachable, pt)
			default:
				other = append(other, pt)
			}
		}
	}

	rng := rand.New(rand.NewSource(int64(grid.Fingerprint())))
	for _, cells := range [][]world.Point{keyCells, reachable, other} {
		rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })
	}

	take := func(cells *[]world.Point, kind Kind, n int) []*Entity {
		n = min(n, len(*cells))
		out := make([]*Entity, n)
		for i := range out {
			out[i] = New(kind, (*cells)[i])
		}
		*cells = (*cells)[n:]
		return out
	}

	r.Keys = take(&keyCells, KindKey, p.Keys)
	if len(r.Keys) < p.Keys {
		log.Debug().Int("wanted", p.Keys).Int("placed", len(r.Keys)).
			Msg("not enough reachable ground for keys")
	}

	rest := append(append(keyCells, reachable...), other...)
	r.Hearts = take(&rest, KindHeart, p.Hearts)
	r.Boosts = take(&rest, KindBoost, p.Boosts)
}

// AdoptPlayer moves an existing player into this registry at the start
// cell, keeping hearts and skills but dropping per-level state.
func (r *Registry) AdoptPlayer(p *Player) {
	p.Teleport(float64(r.Start.X), float64(r.Start.Y))
	p.Keys = 0
	p.BoostTimer = 0
	p.SpeedMultiplier = 1
	r.Player = p
}

// Collection returns the entities of one kind in registry order.
func (r *Registry) Collection(kind Kind) []*Entity {
	switch kind {
	case KindWall:
		return r.Walls
	case KindEntrance:
		if r.Entrance == nil {
			return nil
		}
		return []*Entity{r.Entrance}
	case KindExit:
		return r.Exits
	case KindTrap:
		return r.Traps
	case KindMorphTrap:
		return r.MorphTraps
	case KindEnemy:
		return r.Enemies
	case KindKey:
		return r.Keys
	case KindHeart:
		return r.Hearts
	case KindBoost:
		return r.Boosts
	default:
		return nil
	}
}

// MutableKinds lists the collections whose state changes during play, in
// snapshot order. Walls never change and are omitted.
var MutableKinds = []Kind{
	KindEntrance, KindExit, KindTrap, KindMorphTrap, KindEnemy,
	KindKey, KindHeart, KindBoost,
}

// Each calls fn for every entity, walls first.
func (r *Registry) Each(fn func(*Entity)) {
	for _, e := range r.Walls {
		fn(e)
	}
	for _, kind := range MutableKinds {
		for _, e := range r.Collection(kind) {
			fn(e)
		}
	}
}

// AnyKeyCollected reports whether at least one key has been picked up.
func (r *Registry) AnyKeyCollected() bool {
	for _, k := range r.Keys {
		if k.Collected {
			return true
		}
	}
	return false
}

// ExitsLocked reports whether any exit is still locked.
func (r *Registry) ExitsLocked() bool {
	for _, e := range r.Exits {
		if e.Locked {
			return true
		}
	}
	return false
}

// Blocked reports whether the cell cannot be entered: walls, out-of-bounds
// cells and locked gates.
func (r *Registry) Blocked(x, y int) bool {
	if !r.Grid.InBounds(x, y) || r.Grid.At(x, y) == world.TileWall {
		return true
	}
	if r.Entrance != nil && r.Entrance.Locked && r.Entrance.Origin.X == x && r.Entrance.Origin.Y == y {
		return true
	}
	for _, e := range r.Exits {
		if e.Locked && e.Origin.X == x && e.Origin.Y == y {
			return true
		}
	}
	return false
}
