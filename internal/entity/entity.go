package entity

import (
	"fmt"
	"math"

	"github.com/samdwyer/labyrinth/internal/world"
)

// Updatable entities advance their own timers every frame.
type Updatable interface {
	Update(dt float64)
}

// Collidable entities may block movement.
type Collidable interface {
	Solid() bool
}

// Renderable entities expose a glyph to the renderer.
type Renderable interface {
	Glyph() rune
	Visible() bool
}

// Entity is a live level object. Kind selects which of the state flags apply:
// Collected for collectables, Active for obstacles, Locked for gates.
type Entity struct {
	ID     string      // stable identifier derived from Origin
	Kind   Kind
	Origin world.Point // grid cell the entity was created on
	X, Y   float64     // position in grid units

	Collected bool
	Active    bool
	Locked    bool
	Affecting bool // morph trap currently slowing the player

	// AnimPeriod is the seconds per animation frame for traps; zero disables it.
	AnimPeriod float64
	Frame      int
	anim       float64

	// Heading is the persisted wander direction of an enemy.
	Heading world.Point
}

// New creates an entity of the given kind on its origin cell.
func New(kind Kind, origin world.Point) *Entity {
	return &Entity{
		ID:     OriginID(origin),
		Kind:   kind,
		Origin: origin,
		X:      float64(origin.X),
		Y:      float64(origin.Y),
		Active: kind.Obstacle(),
	}
}

// OriginID formats the stable identifier for an origin cell.
func OriginID(p world.Point) string {
	return fmt.Sprintf("%d:%d", p.X, p.Y)
}

// Flag returns the kind-specific boolean persisted in snapshots.
func (e *Entity) Flag() bool {
	switch {
	case e.Kind.Collectable():
		return e.Collected
	case e.Kind.Obstacle():
		return e.Active
	case e.Kind.Lockable():
		return e.Locked
	default:
		return false
	}
}

// SetFlag writes the kind-specific boolean restored from snapshots.
func (e *Entity) SetFlag(v bool) {
	switch {
	case e.Kind.Collectable():
		e.Collected = v
	case e.Kind.Obstacle():
		e.Active = v
	case e.Kind.Lockable():
		e.Locked = v
	}
}

// Near reports whether (x, y) lies within tol of the entity on both axes.
func (e *Entity) Near(x, y, tol float64) bool {
	return math.Abs(e.X-x) <= tol && math.Abs(e.Y-y) <= tol
}

// Update advances animation timers. Only traps and morph traps animate.
func (e *Entity) Update(dt float64) {
	switch e.Kind {
	case KindTrap, KindMorphTrap:
		if e.AnimPeriod <= 0 {
			return
		}
		e.anim += dt
		for e.anim >= e.AnimPeriod {
			e.anim -= e.AnimPeriod
			e.Frame = (e.Frame + 1) % 2
		}
	}
}

// Solid reports whether the entity currently blocks movement.
func (e *Entity) Solid() bool {
	switch e.Kind {
	case KindWall:
		return true
	case KindEntrance, KindExit:
		return e.Locked
	default:
		return false
	}
}

// Visible reports whether the renderer should draw the entity.
func (e *Entity) Visible() bool {
	switch {
	case e.Kind.Collectable():
		return !e.Collected
	case e.Kind == KindTrap || e.Kind == KindEnemy:
		return e.Active
	default:
		return true
	}
}

// Glyph returns the display character for the entity's current state.
func (e *Entity) Glyph() rune {
	switch e.Kind {
	case KindWall:
		return '#'
	case KindEntrance:
		if e.Locked {
			return '='
		}
		return '<'
	case KindExit:
		if e.Locked {
			return '+'
		}
		return '>'
	case KindTrap:
		if e.Frame == 1 {
			return '"'
		}
		return '^'
	case KindMorphTrap:
		if !e.Active {
			return '.'
		}
		if e.Frame == 1 {
			return '='
		}
		return '~'
	case KindEnemy:
		return 'e'
	case KindKey:
		return 'k'
	case KindHeart:
		return '♥'
	case KindBoost:
		return '*'
	default:
		return '?'
	}
}

// Ensure Entity implements the capability interfaces
var (
	_ Updatable  = (*Entity)(nil)
	_ Collidable = (*Entity)(nil)
	_ Renderable = (*Entity)(nil)
)
