// Package interaction resolves the per-frame contact rules of a level:
// player motion, enemy steering, gates, obstacles, pickups and morph traps.
package interaction

import (
	"math"
	"math/rand"

	"github.com/samdwyer/labyrinth/internal/entity"
	"github.com/samdwyer/labyrinth/internal/gamedata"
)

// Input is the player's intent for one frame.
type Input struct {
	DX, DY int // -1, 0 or 1 per axis
	Sprint bool
}

// EventKind identifies something that happened during a frame.
type EventKind int

const (
	EventTrapHit EventKind = iota
	EventEnemyHit
	EventKeyCollected
	EventHeartCollected
	EventBoostCollected
	EventExitsUnlocked
	EventEntranceLocked
	EventMorphEnter
	EventMorphLeave
)

// String returns a human-readable event name.
func (k EventKind) String() string {
	switch k {
	case EventTrapHit:
		return "trap_hit"
	case EventEnemyHit:
		return "enemy_hit"
	case EventKeyCollected:
		return "key_collected"
	case EventHeartCollected:
		return "heart_collected"
	case EventBoostCollected:
		return "boost_collected"
	case EventExitsUnlocked:
		return "exits_unlocked"
	case EventEntranceLocked:
		return "entrance_locked"
	case EventMorphEnter:
		return "morph_enter"
	case EventMorphLeave:
		return "morph_leave"
	default:
		return "unknown"
	}
}

// Event is one interaction that fired during a frame.
type Event struct {
	Kind   EventKind
	Entity *entity.Entity // the entity involved, nil for global events
}

// Outcome contains everything a frame changed that the session cares about.
type Outcome struct {
	Events          []Event
	HeartsCollected int
	EnemiesKilled   int
	Damage          int
}

// Has reports whether an event of the given kind fired.
func (o Outcome) Has(kind EventKind) bool {
	for _, ev := range o.Events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

func (o *Outcome) add(kind EventKind, e *entity.Entity) {
	o.Events = append(o.Events, Event{Kind: kind, Entity: e})
}

// Resolver applies the interaction rules to a registry.
type Resolver struct {
	tuning gamedata.Tuning
	rng    *rand.Rand
}

// NewResolver creates a resolver. The rng drives enemy wandering.
func NewResolver(tuning gamedata.Tuning, rng *rand.Rand) *Resolver {
	return &Resolver{tuning: tuning, rng: rng}
}

// Resolve advances one frame. When playing is false (won or lost) only the
// morph trap check runs, so the player keeps reacting to the ground under them.
func (r *Resolver) Resolve(reg *entity.Registry, in Input, dt float64, playing bool) Outcome {
	var out Outcome
	p := reg.Player

	if playing {
		r.movePlayer(reg, in, dt)
		r.moveEnemies(reg, dt)
		for _, e := range reg.Traps {
			e.Update(dt)
		}
		for _, e := range reg.MorphTraps {
			e.Update(dt)
		}
		r.updateGates(reg, &out)
		r.resolveObstacles(reg, &out)
		r.resolvePickups(reg, &out)
	}

	r.resolveMorphTraps(reg, &out)
	p.Tick(dt)
	return out
}

// Speed returns the player's current movement speed in tiles per second.
func (r *Resolver) Speed(p *entity.Player) float64 {
	speed := r.tuning.Player.BaseSpeed * p.SkillMultiplier * p.SpeedMultiplier
	if p.Sprinting {
		speed *= r.tuning.Player.SprintMultiplier
	}
	if p.Boosted() {
		speed *= r.tuning.Player.BoostMultiplier
	}
	return speed
}

func (r *Resolver) movePlayer(reg *entity.Registry, in Input, dt float64) {
	p := reg.Player
	p.Sprinting = in.Sprint
	if in.DX == 0 && in.DY == 0 {
		return
	}
	step := r.Speed(p) * dt
	p.X, p.Y = reg.Move(p.X, p.Y, float64(in.DX)*step, float64(in.DY)*step)
}

// updateGates locks the entrance behind the player and opens every exit
// once any key is held.
func (r *Resolver) updateGates(reg *entity.Registry, out *Outcome) {
	p := reg.Player

	if in := reg.Entrance; in != nil && !in.Locked && !entity.Overlaps(p.X, p.Y, in) {
		in.Locked = true
		out.add(EventEntranceLocked, in)
	}

	if reg.ExitsLocked() && reg.AnyKeyCollected() {
		for _, e := range reg.Exits {
			e.Locked = false
		}
		out.add(EventExitsUnlocked, nil)
	}
}

// resolveObstacles applies at most one damaging contact per frame: traps
// take priority over enemies.
func (r *Resolver) resolveObstacles(reg *entity.Registry, out *Outcome) {
	p := reg.Player
	tol := r.tuning.Proximity

	for _, trap := range reg.Traps {
		if trap.Active && trap.Near(p.X, p.Y, tol) {
			trap.Active = false
			r.hurt(p, out)
			out.add(EventTrapHit, trap)
			return
		}
	}

	for _, enemy := range reg.Enemies {
		if enemy.Active && enemy.Near(p.X, p.Y, tol) {
			enemy.Active = false
			r.hurt(p, out)
			out.EnemiesKilled++
			out.add(EventEnemyHit, enemy)
			return
		}
	}
}

func (r *Resolver) hurt(p *entity.Player, out *Outcome) {
	out.Damage += p.Damage(1)
	p.PainTimer = r.tuning.Player.PainDuration
}

// resolvePickups collects at most one item from each collectable list.
func (r *Resolver) resolvePickups(reg *entity.Registry, out *Outcome) {
	p := reg.Player

	if key := r.firstWithin(reg.Keys, p); key != nil {
		key.Collected = true
		p.Keys++
		out.add(EventKeyCollected, key)
	}

	if heart := r.firstWithin(reg.Hearts, p); heart != nil {
		heart.Collected = true
		p.Heal(1)
		p.GainTimer = r.tuning.Player.GainDuration
		out.HeartsCollected++
		out.add(EventHeartCollected, heart)
	}

	if boost := r.firstWithin(reg.Boosts, p); boost != nil {
		boost.Collected = true
		p.BoostTimer = r.tuning.Player.BoostDuration
		out.add(EventBoostCollected, boost)
	}
}

func (r *Resolver) firstWithin(items []*entity.Entity, p *entity.Player) *entity.Entity {
	for _, item := range items {
		if !item.Collected && item.Near(p.X, p.Y, r.tuning.Proximity) {
			return item
		}
	}
	return nil
}

// resolveMorphTraps sets the player's transient speed factor for the frame.
func (r *Resolver) resolveMorphTraps(reg *entity.Registry, out *Outcome) {
	p := reg.Player
	slowed := false

	for _, m := range reg.MorphTraps {
		if !m.Active || !m.Near(p.X, p.Y, r.tuning.Proximity) {
			continue
		}
		slowed = true
		if !m.Affecting {
			m.Affecting = true
			out.add(EventMorphEnter, m)
		}
	}

	if slowed {
		p.SpeedMultiplier = r.tuning.MorphSlowdown
		return
	}

	p.SpeedMultiplier = 1
	for _, m := range reg.MorphTraps {
		if m.Affecting {
			m.Affecting = false
			out.add(EventMorphLeave, m)
		}
	}
}

// chebyshev returns the larger of the axis distances.
func chebyshev(ax, ay, bx, by float64) float64 {
	return math.Max(math.Abs(ax-bx), math.Abs(ay-by))
}
