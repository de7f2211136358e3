// Package entity provides the live level entities derived from a grid.
package entity

// Kind tags the variant of an Entity.
type Kind int

const (
	KindWall Kind = iota
	KindEntrance
	KindExit
	KindTrap
	KindMorphTrap
	KindEnemy
	KindKey
	KindHeart
	KindBoost
)

// String returns the kind name. It doubles as the snapshot collection key.
func (k Kind) String() string {
	switch k {
	case KindWall:
		return "wall"
	case KindEntrance:
		return "entrance"
	case KindExit:
		return "exit"
	case KindTrap:
		return "trap"
	case KindMorphTrap:
		return "morph_trap"
	case KindEnemy:
		return "enemy"
	case KindKey:
		return "key"
	case KindHeart:
		return "heart"
	case KindBoost:
		return "boost"
	default:
		return "unknown"
	}
}

// Collectable reports whether the kind is picked up (keys, hearts, boosts).
func (k Kind) Collectable() bool {
	return k == KindKey || k == KindHeart || k == KindBoost
}

// Obstacle reports whether the kind carries an active flag.
func (k Kind) Obstacle() bool {
	return k == KindTrap || k == KindMorphTrap || k == KindEnemy
}

// Lockable reports whether the kind carries a locked flag.
func (k Kind) Lockable() bool {
	return k == KindExit || k == KindEntrance
}
