package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/samdwyer/labyrinth/internal/snapshot"
	"github.com/samdwyer/labyrinth/internal/store"
)

// ErrNotPlaying is returned when saving outside an active level.
var ErrNotPlaying = errors.New("game: no level in progress")

func (s *Session) runState() snapshot.Run {
	return snapshot.Run{
		TimePlayed:      s.TimePlayed,
		HeartsCollected: s.HeartsCollected,
		TotalHearts:     s.TotalHearts,
		TotalKills:      s.TotalKills,
		LevelsCleared:   s.LevelsCleared,
		RunScore:        s.RunScore,
	}
}

// SaveTo writes the current level and run to the savegame namespace.
func (s *Session) SaveTo(ctx context.Context, prefs *store.Prefs) error {
	if s.reg == nil || s.state != StatePlaying {
		return ErrNotPlaying
	}
	return snapshot.Capture(s.reg, s.runState()).Write(ctx, prefs)
}

// LoadFrom replaces the session with a saved game. Corrupt entity records
// are logged and left at their defaults; a save that cannot rebuild its own
// grid is rejected without touching the session.
func (s *Session) LoadFrom(ctx context.Context, prefs *store.Prefs) error {
	save, err := snapshot.Read(prefs)
	if err != nil {
		return err
	}

	grid, err := save.Grid()
	if grid == nil {
		return fmt.Errorf("rebuild saved grid: %w", err)
	}
	if err != nil {
		log.Warn().Err(err).Msg("saved grid had malformed cells")
	}

	reg := s.newRegistry(grid, nil)
	if err := save.Apply(ctx, reg); err != nil {
		if errors.Is(err, snapshot.ErrFingerprintMismatch) {
			return err
		}
		log.Warn().Err(err).Msg("some saved entities could not be restored")
	}
	s.activate(nil, reg)

	s.TimePlayed = save.Run.TimePlayed
	s.HeartsCollected = save.Run.HeartsCollected
	s.TotalHearts = save.Run.TotalHearts
	s.TotalKills = save.Run.TotalKills
	s.LevelsCleared = save.Run.LevelsCleared
	s.RunScore = save.Run.RunScore

	s.emit(Event{Kind: EventLevelLoaded, Generation: s.generation})
	return nil
}
