package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/labyrinth/internal/entity"
	"github.com/samdwyer/labyrinth/internal/store"
	"github.com/samdwyer/labyrinth/internal/telemetry"
	"github.com/samdwyer/labyrinth/internal/world"
)

var (
	// ErrNoSave is returned by Read when the namespace holds no save.
	ErrNoSave = errors.New("snapshot: no saved game")
	// ErrFingerprintMismatch is returned by Apply when the save was taken on
	// a different grid.
	ErrFingerprintMismatch = errors.New("snapshot: grid fingerprint mismatch")
)

// Run holds the session counters stored alongside the entity state.
type Run struct {
	TimePlayed      float64
	HeartsCollected int // this level
	TotalHearts     int
	TotalKills      int
	LevelsCleared   int
	RunScore        int
}

// Save is a complete save-game record.
type Save struct {
	Width, Height int
	Level         string // level file encoding of the grid
	Fingerprint   uint64

	// Collections maps a kind name to its keyed snapshot string.
	Collections map[string]string

	PlayerX, PlayerY float64
	Hearts           int
	Keys             int
	BoostTimer       float64

	Run Run
}

// Capture records the grid, every mutable collection and the player.
func Capture(reg *entity.Registry, run Run) *Save {
	s := &Save{
		Width:       reg.Grid.Width,
		Height:      reg.Grid.Height,
		Level:       string(reg.Grid.Encode()),
		Fingerprint: reg.Grid.Fingerprint(),
		Collections: make(map[string]string, len(entity.MutableKinds)),
		PlayerX:     reg.Player.X,
		PlayerY:     reg.Player.Y,
		Hearts:      reg.Player.Hearts,
		Keys:        reg.Player.Keys,
		BoostTimer:  reg.Player.BoostTimer,
		Run:         run,
	}
	for _, kind := range entity.MutableKinds {
		s.Collections[kind.String()] = EncodeKeyed(reg.Collection(kind))
	}
	return s
}

// Grid rebuilds the saved grid.
func (s *Save) Grid() (*world.Grid, error) {
	return world.LoadLevel(strings.NewReader(s.Level), s.Width, s.Height)
}

// Apply restores entity and player state onto a registry built from the same
// grid. Per-entity decode failures are joined into the returned error but do
// not stop the restore; a fingerprint mismatch aborts before any change.
func (s *Save) Apply(ctx context.Context, reg *entity.Registry) error {
	_, span := telemetry.Tracer("snapshot").Start(ctx, "snapshot.restore")
	defer span.End()

	if got := reg.Grid.Fingerprint(); got != s.Fingerprint {
		span.SetStatus(codes.Error, "fingerprint mismatch")
		return fmt.Errorf("%w: saved %016x, current %016x", ErrFingerprintMismatch, s.Fingerprint, got)
	}

	var errs []error
	for _, kind := range entity.MutableKinds {
		data, ok := s.Collections[kind.String()]
		if !ok {
			continue
		}
		if err := DecodeKeyed(data, reg.Collection(kind)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
		}
	}

	p := reg.Player
	p.Teleport(s.PlayerX, s.PlayerY)
	p.Hearts = min(max(s.Hearts, 0), p.MaxHearts)
	p.Keys = s.Keys
	p.BoostTimer = s.BoostTimer

	err := errors.Join(errs...)
	if err != nil {
		span.RecordError(err)
	}
	span.SetAttributes(attribute.Int("snapshot.errors", len(errs)))
	return err
}

// Store keys inside the savegame namespace.
const (
	keyWidth       = "width"
	keyHeight      = "height"
	keyLevel       = "level"
	keyFingerprint = "fingerprint"
	keyPlayerX     = "player.x"
	keyPlayerY     = "player.y"
	keyHearts      = "player.hearts"
	keyKeys        = "player.keys"
	keyBoost       = "player.boost"
	keyTime        = "run.time"
	keyLevelHearts = "run.level_hearts"
	keyTotalHearts = "run.total_hearts"
	keyTotalKills  = "run.total_kills"
	keyCleared     = "run.levels_cleared"
	keyRunScore    = "run.score"
	collectionKey  = "collection."
)

// Write replaces the namespace contents with the save and flushes it.
func (s *Save) Write(ctx context.Context, p *store.Prefs) error {
	_, span := telemetry.Tracer("snapshot").Start(ctx, "snapshot.save")
	defer span.End()

	p.Clear()
	p.PutInt(keyWidth, s.Width)
	p.PutInt(keyHeight, s.Height)
	p.PutString(keyLevel, s.Level)
	p.PutString(keyFingerprint, strconv.FormatUint(s.Fingerprint, 16))
	for kind, data := range s.Collections {
		p.PutString(collectionKey+kind, data)
	}
	p.PutFloat(keyPlayerX, s.PlayerX)
	p.PutFloat(keyPlayerY, s.PlayerY)
	p.PutInt(keyHearts, s.Hearts)
	p.PutInt(keyKeys, s.Keys)
	p.PutFloat(keyBoost, s.BoostTimer)
	p.PutFloat(keyTime, s.Run.TimePlayed)
	p.PutInt(keyLevelHearts, s.Run.HeartsCollected)
	p.PutInt(keyTotalHearts, s.Run.TotalHearts)
	p.PutInt(keyTotalKills, s.Run.TotalKills)
	p.PutInt(keyCleared, s.Run.LevelsCleared)
	p.PutInt(keyRunScore, s.Run.RunScore)

	span.SetAttributes(attribute.Int("snapshot.width", s.Width), attribute.Int("snapshot.height", s.Height))
	if err := p.Flush(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "flush")
		return err
	}
	return nil
}

// Read loads a save from the namespace.
func Read(p *store.Prefs) (*Save, error) {
	raw, err := p.Get(keyFingerprint)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, err
	}
	fp, err := strconv.ParseUint(raw, 16, 64)
	if err != nil {
		return nil, fmt.Errorf("bad fingerprint %q: %w", raw, err)
	}

	s := &Save{
		Width:       p.GetInt(keyWidth, 0),
		Height:      p.GetInt(keyHeight, 0),
		Level:       p.GetString(keyLevel, ""),
		Fingerprint: fp,
		Collections: make(map[string]string),
		PlayerX:     p.GetFloat(keyPlayerX, 0),
		PlayerY:     p.GetFloat(keyPlayerY, 0),
		Hearts:      p.GetInt(keyHearts, 0),
		Keys:        p.GetInt(keyKeys, 0),
		BoostTimer:  p.GetFloat(keyBoost, 0),
		Run: Run{
			TimePlayed:      p.GetFloat(keyTime, 0),
			HeartsCollected: p.GetInt(keyLevelHearts, 0),
			TotalHearts:     p.GetInt(keyTotalHearts, 0),
			TotalKills:      p.GetInt(keyTotalKills, 0),
			LevelsCleared:   p.GetInt(keyCleared, 0),
			RunScore:        p.GetInt(keyRunScore, 0),
		},
	}
	if s.Width < 3 || s.Height < 3 {
		return nil, fmt.Errorf("bad saved size %dx%d", s.Width, s.Height)
	}
	for _, key := range p.Keys() {
		if kind, ok := strings.CutPrefix(key, collectionKey); ok {
			s.Collections[kind] = p.GetString(key, "")
		}
	}
	return s, nil
}
