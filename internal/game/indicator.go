package game

import (
	"math"

	"github.com/samdwyer/labyrinth/internal/entity"
)

// Indicator points from the player to the current objective.
type Indicator struct {
	Target   *entity.Entity
	DX, DY   float64 // target minus player
	Distance float64
}

// Arrow returns one of eight direction glyphs for the indicator.
func (ind Indicator) Arrow() rune {
	if ind.Distance < 0.5 {
		return '•'
	}
	arrows := [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}
	angle := math.Atan2(ind.DY, ind.DX)
	octant := int(math.Round(angle/(math.Pi/4)) + 8) % 8
	return arrows[octant]
}

// Indicator returns the direction to the nearest uncollected key while the
// exits are locked, otherwise to the nearest open exit. It is computed from
// the current registry, so it follows level hand-offs without rebinding.
func (s *Session) Indicator() (Indicator, bool) {
	if s.reg == nil {
		return Indicator{}, false
	}

	var candidates []*entity.Entity
	if s.reg.ExitsLocked() {
		for _, k := range s.reg.Keys {
			if !k.Collected {
				candidates = append(candidates, k)
			}
		}
	} else {
		for _, e := range s.reg.Exits {
			if !e.Locked {
				candidates = append(candidates, e)
			}
		}
	}

	p := s.reg.Player
	var best Indicator
	found := false
	for _, c := range candidates {
		dx, dy := c.X-p.X, c.Y-p.Y
		d := math.Hypot(dx, dy)
		if !found || d < best.Distance {
			best = Indicator{Target: c, DX: dx, DY: dy, Distance: d}
			found = true
		}
	}
	return best, found
}
