package game

import (
	"github.com/samdwyer/labyrinth/internal/gamedata"
	"github.com/samdwyer/labyrinth/internal/interaction"
)

// EventKind identifies a session event.
type EventKind int

const (
	// EventInteraction wraps a per-frame interaction (damage, pickup, unlock).
	EventInteraction EventKind = iota
	EventWon
	EventLost
	// EventLevelLoaded fires after an endless hand-off or restart replaced
	// the registry. Collaborators holding entity pointers must rebind.
	EventLevelLoaded
	EventAchievement
	EventSkillUnlocked
)

// String returns a human-readable event name.
func (k EventKind) String() string {
	switch k {
	case EventInteraction:
		return "interaction"
	case EventWon:
		return "won"
	case EventLost:
		return "lost"
	case EventLevelLoaded:
		return "level_loaded"
	case EventAchievement:
		return "achievement"
	case EventSkillUnlocked:
		return "skill_unlocked"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners synchronously from the tick.
type Event struct {
	Kind        EventKind
	Interaction interaction.Event        // EventInteraction only
	Score       int                      // EventWon: level score
	Generation  int                      // EventLevelLoaded
	Achievement *gamedata.AchievementDef // EventAchievement
	Skill       *gamedata.SkillDef       // EventSkillUnlocked
}

// Listener receives session events.
type Listener func(Event)
