package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/labyrinth/internal/entity"
	"github.com/samdwyer/labyrinth/internal/gamedata"
	"github.com/samdwyer/labyrinth/internal/interaction"
	"github.com/samdwyer/labyrinth/internal/store"
	"github.com/samdwyer/labyrinth/internal/telemetry"
	"github.com/samdwyer/labyrinth/internal/world"
)

// maxFrame caps dt so a stalled frame cannot tunnel through walls.
const maxFrame = 0.25

// Options configure a Session.
type Options struct {
	Tuning    gamedata.Tuning
	Generator *world.Generator
	Profile   *Profile
	Rand      *rand.Rand

	// Width and Height override the tuning level size when non-zero.
	Width, Height int
	Endless       bool
}

// Session is one run: the current level, the player and the run counters.
// It is driven by Tick from a single goroutine.
type Session struct {
	tuning   gamedata.Tuning
	gen      *world.Generator
	profile  *Profile
	resolver *interaction.Resolver
	endless  bool
	width    int
	height   int

	reg        *entity.Registry
	level      *world.Level
	state      State
	generation int

	TimePlayed      float64
	HeartsCollected int // this level
	EnemiesKilled   int // this level
	TotalHearts     int // this run
	TotalKills      int // this run
	LevelsCleared   int
	RunScore        int
	LastScore       int

	listeners []Listener
}

// NewSession creates a session. Call Start or LoadGrid before ticking.
func NewSession(opts Options) *Session {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	gen := opts.Generator
	if gen == nil {
		gen = world.NewGenerator(rng, "")
		gen.WallProbability = opts.Tuning.Level.WallProbability
	}

	profile := opts.Profile
	if profile == nil {
		// Memory backends never fail to open.
		profile, _ = OpenProfile(store.NewMemoryBackend(),
			gamedata.NewAchievementRegistry(nil), gamedata.NewSkillRegistry(nil))
	}

	s := &Session{
		tuning:   opts.Tuning,
		gen:      gen,
		profile:  profile,
		resolver: interaction.NewResolver(opts.Tuning, rng),
		endless:  opts.Endless,
		width:    opts.Width,
		height:   opts.Height,
	}
	if s.width == 0 {
		s.width = opts.Tuning.Level.Width
	}
	if s.height == 0 {
		s.height = opts.Tuning.Level.Height
	}
	return s
}

// Subscribe registers a listener for session events.
func (s *Session) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

func (s *Session) emit(ev Event) {
	for _, l := range s.listeners {
		l(ev)
	}
}

// State returns the current session state.
func (s *Session) State() State { return s.state }

// Registry returns the live entities of the current level.
func (s *Session) Registry() *entity.Registry { return s.reg }

// Player returns the player.
func (s *Session) Player() *entity.Player { return s.reg.Player }

// Level returns the generated level, or nil for levels loaded from a grid
// or a save.
func (s *Session) Level() *world.Level { return s.level }

// Generation counts registry replacements. Holders of entity pointers
// compare it to detect a stale registry.
func (s *Session) Generation() int { return s.generation }

// Endless reports whether levels chain after a win.
func (s *Session) Endless() bool { return s.endless }

// Profile returns the cross-run progress.
func (s *Session) Profile() *Profile { return s.profile }

// Start generates the first level with a fresh player and run counters.
func (s *Session) Start(ctx context.Context) error {
	ctx, span := telemetry.Tracer("game").Start(ctx, "session.start")
	defer span.End()

	level, err := s.requestLevel(ctx, s.levelParams())
	if err != nil {
		span.RecordError(err)
		return err
	}

	s.resetRun()
	s.install(level, level.Grid, nil)

	span.SetAttributes(
		attribute.Int("level.width", level.Grid.Width),
		attribute.Int("level.height", level.Grid.Height),
		attribute.Bool("session.endless", s.endless),
	)
	return nil
}

// LoadGrid starts a fresh run on an existing grid, e.g. a level file.
func (s *Session) LoadGrid(grid *world.Grid) {
	s.resetRun()
	s.install(nil, grid, nil)
}

// Restart begins a new run on a newly generated level.
func (s *Session) Restart(ctx context.Context) error {
	return s.Start(ctx)
}

func (s *Session) resetRun() {
	s.TotalHearts = 0
	s.TotalKills = 0
	s.LevelsCleared = 0
	s.RunScore = 0
	s.LastScore = 0
}

func (s *Session) registryParams() entity.Params {
	return entity.Params{
		Keys:           s.tuning.Level.Keys,
		Hearts:         s.tuning.Level.Hearts,
		Boosts:         s.tuning.Level.Boosts,
		StartHearts:    s.tuning.Player.StartHearts,
		MaxHearts:      s.tuning.Player.MaxHearts,
		TrapAnimPeriod: s.tuning.TrapAnimPeriod,
	}
}

// install swaps in a new registry built from grid. A nil player gets a
// fresh one; otherwise the player is carried over.
func (s *Session) install(level *world.Level, grid *world.Grid, player *entity.Player) {
	s.activate(level, s.newRegistry(grid, player))
	s.emit(Event{Kind: EventLevelLoaded, Generation: s.generation})
}

func (s *Session) newRegistry(grid *world.Grid, player *entity.Player) *entity.Registry {
	reg := entity.NewRegistry(grid, s.registryParams())
	if player != nil {
		reg.AdoptPlayer(player)
	}
	reg.Player.SkillMultiplier = s.profile.SpeedMultiplier()
	return reg
}

// activate makes reg current and resets the per-level state.
func (s *Session) activate(level *world.Level, reg *entity.Registry) {
	s.level = level
	s.reg = reg
	s.state = StatePlaying
	s.TimePlayed = 0
	s.HeartsCollected = 0
	s.EnemiesKilled = 0
	s.generation++
}

// Tick advances the session by dt seconds.
func (s *Session) Tick(ctx context.Context, dt float64, in interaction.Input) {
	if s.reg == nil {
		return
	}
	dt = min(max(dt, 0), maxFrame)

	if s.state == StateAwaitingNextLevel {
		if err := s.advance(ctx); err != nil {
			log.Warn().Err(err).Msg("next level not ready")
		}
		return
	}

	playing := s.state == StatePlaying
	if playing {
		s.TimePlayed += dt
	}

	out := s.resolver.Resolve(s.reg, in, dt, playing)
	s.HeartsCollected += out.HeartsCollected
	s.TotalHearts += out.HeartsCollected
	s.EnemiesKilled += out.EnemiesKilled
	s.TotalKills += out.EnemiesKilled
	for _, ev := range out.Events {
		s.emit(Event{Kind: EventInteraction, Interaction: ev})
	}

	if !playing {
		return
	}
	if s.atUnlockedExit() {
		s.win(ctx)
		return
	}
	if !s.reg.Player.IsAlive() {
		s.lose(ctx)
	}
}

func (s *Session) atUnlockedExit() bool {
	p := s.reg.Player
	for _, e := range s.reg.Exits {
		if !e.Locked && e.Near(p.X, p.Y, s.tuning.Proximity) {
			return true
		}
	}
	return false
}

// win runs the level-cleared side effects once.
func (s *Session) win(ctx context.Context) {
	if s.state != StatePlaying {
		return
	}
	s.state = StateWon

	ctx, span := telemetry.Tracer("game").Start(ctx, "session.win")
	defer span.End()

	p := s.reg.Player
	score := LevelScore(s.tuning.Score, s.HeartsCollected, s.TimePlayed, p.Hearts, s.profile.ScoreMultiplier())
	s.LastScore = score
	s.RunScore += score
	s.LevelsCleared++

	s.profile.RecordWin(score, s.HeartsCollected, s.EnemiesKilled)
	if s.endless {
		s.profile.RecordRunEnd(s.RunScore)
	}

	span.SetAttributes(
		attribute.Int("level.score", score),
		attribute.Float64("level.time", s.TimePlayed),
		attribute.Int("run.levels_cleared", s.LevelsCleared),
	)
	log.Info().Int("score", score).Float64("time", s.TimePlayed).Int("levels", s.LevelsCleared).Msg("level cleared")

	s.emit(Event{Kind: EventWon, Score: score})

	metrics := map[string]float64{
		gamedata.MetricLevelScore:      float64(score),
		gamedata.MetricTimePlayed:      s.TimePlayed,
		gamedata.MetricHeartsRemaining: float64(p.Hearts),
		gamedata.MetricHeartsCollected: float64(s.TotalHearts),
		gamedata.MetricEnemiesKilled:   float64(s.TotalKills),
		gamedata.MetricLevelsCleared:   float64(s.LevelsCleared),
	}
	for _, def := range s.profile.EvaluateAchievements(metrics) {
		s.emit(Event{Kind: EventAchievement, Achievement: def})
	}

	if s.endless {
		s.state = StateAwaitingNextLevel
		if err := s.advance(ctx); err != nil {
			log.Warn().Err(err).Msg("endless hand-off failed, will retry")
		}
	}
}

// lose runs the failure side effects once.
func (s *Session) lose(ctx context.Context) {
	if s.state != StatePlaying {
		return
	}
	s.state = StateLost

	_, span := telemetry.Tracer("game").Start(ctx, "session.lose")
	defer span.End()

	improved := false
	if s.endless {
		improved = s.profile.RecordRunEnd(s.RunScore)
	}
	span.SetAttributes(
		attribute.Int("run.score", s.RunScore),
		attribute.Bool("run.best", improved),
	)
	log.Info().Int("run_score", s.RunScore).Int("levels", s.LevelsCleared).Msg("run lost")

	s.emit(Event{Kind: EventLost, Score: s.RunScore})
}

// UnlockSkill buys a skill and applies it to the current player.
func (s *Session) UnlockSkill(id string) error {
	def, err := s.profile.UnlockSkill(id)
	if err != nil {
		return err
	}
	if s.reg != nil {
		s.reg.Player.SkillMultiplier = s.profile.SpeedMultiplier()
	}
	s.emit(Event{Kind: EventSkillUnlocked, Skill: def})
	return nil
}
