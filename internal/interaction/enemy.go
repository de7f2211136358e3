package interaction

import (
	"github.com/samdwyer/labyrinth/internal/entity"
	"github.com/samdwyer/labyrinth/internal/world"
)

// alignEpsilon is how close an enemy must be on an axis to stop chasing along it.
const alignEpsilon = 0.05

var cardinals = [4]world.Point{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

func (r *Resolver) moveEnemies(reg *entity.Registry, dt float64) {
	p := reg.Player
	step := r.tuning.Enemy.Speed * dt

	for _, e := range reg.Enemies {
		if !e.Active {
			continue
		}

		if chebyshev(e.X, e.Y, p.X, p.Y) <= r.tuning.Enemy.SightRange {
			// Chase: one step per axis, not normalised.
			dx := axisStep(p.X-e.X) * step
			dy := axisStep(p.Y-e.Y) * step
			e.X, e.Y = reg.Move(e.X, e.Y, dx, dy)
			continue
		}

		if e.Heading == (world.Point{}) {
			e.Heading = cardinals[r.rng.Intn(len(cardinals))]
		}
		nx, ny := reg.Move(e.X, e.Y, float64(e.Heading.X)*step, float64(e.Heading.Y)*step)
		if nx == e.X && ny == e.Y {
			e.Heading = cardinals[r.rng.Intn(len(cardinals))]
		}
		e.X, e.Y = nx, ny
	}
}

func axisStep(d float64) float64 {
	switch {
	case d > alignEpsilon:
		return 1
	case d < -alignEpsilon:
		return -1
	default:
		return 0
	}
}
