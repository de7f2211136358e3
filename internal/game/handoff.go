package game

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/labyrinth/internal/telemetry"
	"github.com/samdwyer/labyrinth/internal/world"
)

// maxLevelRequests bounds generator retries during a hand-off.
const maxLevelRequests = 5

// levelParams sizes and populates the next level. Endless runs add spawns
// as levels are cleared.
func (s *Session) levelParams() world.Params {
	lt := s.tuning.Level
	p := world.Params{
		Width:      s.width,
		Height:     s.height,
		ExtraTraps: lt.ExtraTraps,
		Enemies:    lt.Enemies,
		MorphTraps: lt.MorphTraps,
	}
	if s.endless {
		p.Enemies += int(math.Floor(float64(s.LevelsCleared) * lt.EnemiesPerLevel))
		p.ExtraTraps += int(math.Floor(float64(s.LevelsCleared) * lt.TrapsPerLevel))
	}
	return p
}

// requestLevel asks the generator for a level, retrying with exponential
// back-off while it is busy. A persistence failure still yields a usable
// grid and is only logged.
func (s *Session) requestLevel(ctx context.Context, p world.Params) (*world.Level, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 200 * time.Millisecond

	op := func() (*world.Level, error) {
		level, err := s.gen.Generate(ctx, p)
		if level != nil {
			if err != nil {
				log.Warn().Err(err).Msg("level file not written, keeping in-memory grid")
			}
			return level, nil
		}
		if errors.Is(err, world.ErrGeneratorBusy) {
			return nil, err
		}
		if err == nil {
			err = errors.New("generator returned no level")
		}
		return nil, backoff.Permanent(err)
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(maxLevelRequests),
	)
}

// advance replaces the current level with a freshly generated one, carrying
// the player over. On failure the session is left untouched.
func (s *Session) advance(ctx context.Context) error {
	ctx, span := telemetry.Tracer("game").Start(ctx, "session.handoff")
	defer span.End()

	level, err := s.requestLevel(ctx, s.levelParams())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request level")
		return fmt.Errorf("hand-off: %w", err)
	}

	s.install(level, level.Grid, s.reg.Player)

	span.SetAttributes(
		attribute.Int("session.generation", s.generation),
		attribute.Int("run.levels_cleared", s.LevelsCleared),
		attribute.Bool("level.connected", level.Connected),
	)
	log.Info().Int("generation", s.generation).Int("levels", s.LevelsCleared).Msg("next level loaded")
	return nil
}
