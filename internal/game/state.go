// Package game provides the run state machine and the terminal game loop.
package game

// State represents the current session state.
type State int

const (
	// StatePlaying is the normal in-level state.
	StatePlaying State = iota
	// StateWon is entered once the player reaches an unlocked exit.
	StateWon
	// StateLost is entered once the player runs out of hearts.
	StateLost
	// StateAwaitingNextLevel is the endless-mode gap between a win and the
	// next level being loaded.
	StateAwaitingNextLevel
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	case StateAwaitingNextLevel:
		return "awaiting_next_level"
	default:
		return "unknown"
	}
}

// Terminal reports whether the level has ended.
func (s State) Terminal() bool {
	return s != StatePlaying
}
