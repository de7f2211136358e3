package entity

import (
	"math"

	"github.com/samdwyer/labyrinth/internal/world"
)

// Player is the user-controlled avatar.
type Player struct {
	X, Y      float64
	Hearts    int
	MaxHearts int
	Keys      int

	Sprinting bool
	// SpeedMultiplier is transient and recomputed every frame (morph traps).
	SpeedMultiplier float64
	// SkillMultiplier is the persistent upgrade factor.
	SkillMultiplier float64

	BoostTimer float64
	PainTimer  float64
	GainTimer  float64
}

// NewPlayer creates a player at the given position.
func NewPlayer(x, y float64, hearts, maxHearts int) *Player {
	return &Player{
		X:               x,
		Y:               y,
		Hearts:          hearts,
		MaxHearts:       maxHearts,
		SpeedMultiplier: 1,
		SkillMultiplier: 1,
	}
}

// Position returns the player's current coordinates.
func (p *Player) Position() (float64, float64) {
	return p.X, p.Y
}

// Teleport moves the player without collision checks.
func (p *Player) Teleport(x, y float64) {
	p.X = x
	p.Y = y
}

// Tile returns the grid cell the player's centre is in.
func (p *Player) Tile() world.Point {
	return world.Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// IsAlive returns true while the player has hearts left.
func (p *Player) IsAlive() bool { return p.Hearts > 0 }

// Damage removes hearts and returns the amount actually lost.
func (p *Player) Damage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, p.Hearts)
	p.Hearts -= actual
	return actual
}

// Heal restores hearts up to MaxHearts and returns the amount gained.
func (p *Player) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, p.MaxHearts-p.Hearts)
	if actual < 0 {
		actual = 0
	}
	p.Hearts += actual
	return actual
}

// Boosted reports whether a speed boost is running.
func (p *Player) Boosted() bool { return p.BoostTimer > 0 }

// Tick counts down the boost and feedback timers.
func (p *Player) Tick(dt float64) {
	p.BoostTimer = math.Max(0, p.BoostTimer-dt)
	p.PainTimer = math.Max(0, p.PainTimer-dt)
	p.GainTimer = math.Max(0, p.GainTimer-dt)
}
