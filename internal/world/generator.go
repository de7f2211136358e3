package world

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/labyrinth/internal/telemetry"
)

const (
	// DefaultWidth and DefaultHeight size an endless-mode level.
	DefaultWidth  = 20
	DefaultHeight = 15

	// DefaultWallProbability is the chance an interior cell starts as wall.
	DefaultWallProbability = 0.28

	// maxPlacementAttempts bounds rejection sampling for landmarks and spawns.
	maxPlacementAttempts = 1000
)

var (
	// ErrGeneratorBusy is returned when Generate is called while another
	// generation on the same Generator is still running.
	ErrGeneratorBusy = errors.New("world: generator busy")
	// ErrGridTooSmall is returned for grids without an interior.
	ErrGridTooSmall = errors.New("world: grid must be at least 3x3")
)

// Params describe one level to generate.
type Params struct {
	Width, Height int
	ExtraTraps    int // traps beyond the mandatory one
	Enemies       int
	MorphTraps    int
}

// Level is the result of a generation run.
type Level struct {
	Grid  *Grid
	Path  string // level file path, empty when persistence is disabled or failed
	Start Point
	Exit  Point
	Trap  Point

	// Repaired is true when the initial layout was disconnected.
	Repaired bool
	// Connected is the final Start->Exit reachability. It can be false after
	// a repair; the level is still returned.
	Connected bool
}

// Generator builds random maze grids. A Generator is not reentrant: a call
// to Generate while another is in flight fails with ErrGeneratorBusy.
type Generator struct {
	// WallProbability is the chance an interior cell becomes wall.
	WallProbability float64
	// Dir is where level files are written. Empty disables persistence.
	Dir string

	rng *rand.Rand
	mu  sync.Mutex
}

// NewGenerator creates a generator. A nil rng is replaced with a time-seeded one.
func NewGenerator(rng *rand.Rand, dir string) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		WallProbability: DefaultWallProbability,
		Dir:             dir,
		rng:             rng,
	}
}

// Generate creates a new level. The only failure after a grid exists is
// persisting it; in that case the level is returned together with the error
// so the caller can keep the in-memory grid.
func (g *Generator) Generate(ctx context.Context, p Params) (*Level, error) {
	if !g.mu.TryLock() {
		return nil, ErrGeneratorBusy
	}
	defer g.mu.Unlock()

	if p.Width < 3 || p.Height < 3 {
		return nil, ErrGridTooSmall
	}

	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "level.generate")
	defer span.End()

	startTime := time.Now()

	grid := NewGrid(p.Width, p.Height)
	g.scatterWalls(grid)

	minDist := max(p.Width, p.Height) / 2
	start := g.randomInterior(grid)
	exit := g.placeAway(grid, minDist, start)
	trap := g.placeAway(grid, minDist, start, exit)

	// Stamped in reverse priority so the start survives on degenerate grids
	// where sampling could not keep the landmarks apart.
	grid.Set(trap.X, trap.Y, TileTrap)
	grid.Set(exit.X, exit.Y, TileExit)
	grid.Set(start.X, start.Y, TileStart)

	level := &Level{Grid: grid, Start: start, Exit: exit, Trap: trap}

	level.Connected = Reachable(grid, start, exit)
	if !level.Connected {
		level.Repaired = true
		repair(grid, start, exit)
		level.Connected = Reachable(grid, start, exit)
		if !level.Connected {
			log.Warn().
				Int("width", p.Width).Int("height", p.Height).
				Msg("level still disconnected after repair")
		}
	}

	g.scatter(grid, TileTrap, p.ExtraTraps)
	g.scatter(grid, TileEnemy, p.Enemies)
	g.scatter(grid, TileMorphTrap, p.MorphTraps)

	span.SetAttributes(
		attribute.Int("level.width", p.Width),
		attribute.Int("level.height", p.Height),
		attribute.Int("level.walls", grid.Count(TileWall)),
		attribute.Bool("level.repaired", level.Repaired),
		attribute.Bool("level.connected", level.Connected),
		attribute.Int64("level.generation_ms", time.Since(startTime).Milliseconds()),
	)

	if g.Dir == "" {
		return level, nil
	}

	path, err := WriteLevelFile(g.Dir, grid)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist level")
		return level, err
	}
	level.Path = path
	return level, nil
}

// scatterWalls turns each interior cell into a wall with WallProbability.
func (g *Generator) scatterWalls(grid *Grid) {
	for y := 1; y < grid.Height-1; y++ {
		for x := 1; x < grid.Width-1; x++ {
			if g.rng.Float64() < g.WallProbability {
				grid.Tiles[y][x] = TileWall
			}
		}
	}
}

func (g *Generator) randomInterior(grid *Grid) Point {
	return Point{
		X: 1 + g.rng.Intn(grid.Width-2),
		Y: 1 + g.rng.Intn(grid.Height-2),
	}
}

// placeAway samples interior cells until one is at least minDist (Manhattan)
// from every anchor. After maxPlacementAttempts it settles for the candidate
// with the largest minimum distance seen.
func (g *Generator) placeAway(grid *Grid, minDist int, anchors ...Point) Point {
	var best Point
	bestDist := -1

	for i := 0; i < maxPlacementAttempts; i++ {
		c := g.randomInterior(grid)
		d := nearest(c, anchors)
		if d >= minDist {
			return c
		}
		if d > bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// scatter stamps n cells of tile t onto interior ground or wall cells.
// Landmarks and previously scattered spawns are never overwritten.
func (g *Generator) scatter(grid *Grid, t Tile, n int) {
	for placed := 0; placed < n; placed++ {
		p, ok := g.freeCell(grid)
		if !ok {
			log.Warn().Str("tile", t.String()).Int("placed", placed).Int("wanted", n).
				Msg("no free cell left for spawn")
			return
		}
		grid.Set(p.X, p.Y, t)
	}
}

func (g *Generator) freeCell(grid *Grid) (Point, bool) {
	free := func(p Point) bool {
		t := grid.At(p.X, p.Y)
		return t == TileGround || t == TileWall
	}

	for i := 0; i < maxPlacementAttempts; i++ {
		if c := g.randomInterior(grid); free(c) {
			return c, true
		}
	}

	// Dense grid: fall back to a scan from a random offset.
	interior := (grid.Width - 2) * (grid.Height - 2)
	offset := g.rng.Intn(interior)
	for i := 0; i < interior; i++ {
		idx := (offset + i) % interior
		c := Point{X: 1 + idx%(grid.Width-2), Y: 1 + idx/(grid.Width-2)}
		if free(c) {
			return c, true
		}
	}
	return Point{}, false
}

// repair walks a greedy line from start toward exit, knocking out walls on
// the way. It only ever converts interior walls to ground.
func repair(grid *Grid, start, exit Point) {
	cur := start
	limit := 2 * grid.Width * grid.Height

	for i := 0; i < limit && cur != exit; i++ {
		dx, dy := exit.X-cur.X, exit.Y-cur.Y

		step := Point{X: sign(dx)}
		if abs(dy) > abs(dx) {
			step = Point{Y: sign(dy)}
		}
		next := Point{cur.X + step.X, cur.Y + step.Y}

		if grid.InBounds(next.X, next.Y) && !grid.IsBorder(next.X, next.Y) {
			if grid.At(next.X, next.Y) == TileWall {
				grid.Set(next.X, next.Y, TileGround)
			}
			cur = next
			continue
		}

		if w, ok := wallNeighbour(grid, cur); ok {
			grid.Set(w.X, w.Y, TileGround)
			cur = w
			continue
		}

		cur = Point{cur.X + sign(dx), cur.Y + sign(dy)}
	}
}

// wallNeighbour returns the first interior wall in the 8-neighbourhood of p.
func wallNeighbour(grid *Grid, p Point) (Point, bool) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			x, y := p.X+dx, p.Y+dy
			if grid.InBounds(x, y) && !grid.IsBorder(x, y) && grid.At(x, y) == TileWall {
				return Point{x, y}, true
			}
		}
	}
	return Point{}, false
}

func nearest(p Point, anchors []Point) int {
	d := -1
	for _, a := range anchors {
		if m := p.Manhattan(a); d < 0 || m < d {
			d = m
		}
	}
	return d
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
