package game

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/labyrinth/internal/gamedata"
	"github.com/samdwyer/labyrinth/internal/interaction"
	"github.com/samdwyer/labyrinth/internal/snapshot"
	"github.com/samdwyer/labyrinth/internal/store"
	"github.com/samdwyer/labyrinth/internal/telemetry"
	"github.com/samdwyer/labyrinth/internal/ui"
	"github.com/samdwyer/labyrinth/internal/world"
)

const (
	frameRate = 30
	// holdWindow is how long one key press keeps the player moving. Terminals
	// report presses and repeats but no releases.
	holdWindow   = 0.2
	messageTTL   = 3.0
	inputBacklog = 16

	settingSprint = "sprint"
)

// Game drives a Session from the terminal.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	camera   *ui.Camera
	session  *Session
	saves    *store.Prefs
	settings *store.Prefs
	skills   *gamedata.SkillRegistry
	running  bool

	input   interaction.Input
	hold    float64
	sprint  bool
	message string
	msgTTL  float64
}

// New creates a new game instance around a session. saves and settings are
// the savegame and settings namespaces.
func New(session *Session, saves, settings *store.Prefs, palette gamedata.Palette, skills *gamedata.SkillRegistry) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	g := &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen, palette),
		camera:   ui.NewCamera(),
		session:  session,
		saves:    saves,
		settings: settings,
		skills:   skills,
		running:  true,
		sprint:   settings.GetBool(settingSprint, false),
	}
	session.Subscribe(g.onEvent)
	return g, nil
}

// Run executes the main game loop until the player quits or ctx ends.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")

	ctx, initSpan := tracer.Start(ctx, "game.init")
	if g.session.Registry() == nil {
		if err := g.session.Start(ctx); err != nil {
			initSpan.RecordError(err)
			initSpan.End()
			g.screen.Close()
			return fmt.Errorf("start session: %w", err)
		}
	}
	reg := g.session.Registry()
	initSpan.SetAttributes(
		attribute.Int("level.width", reg.Grid.Width),
		attribute.Int("level.height", reg.Grid.Height),
		attribute.Int("level.enemies", len(reg.Enemies)),
	)
	initSpan.End()

	events := make(chan tcell.Event, inputBacklog)
	done := make(chan struct{})
	defer close(done)
	go g.pumpInput(events, done)

	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()
	last := time.Now()

	for g.running {
		select {
		case <-ctx.Done():
			g.running = false
		case ev := <-events:
			g.handleEvent(ctx, ev)
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			g.frame(ctx, dt)
		}
	}

	g.screen.Close()
	return nil
}

// pumpInput forwards terminal events to the loop. PollEvent returns nil once
// the screen is finalized.
func (g *Game) pumpInput(events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := g.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

func (g *Game) frame(ctx context.Context, dt float64) {
	g.hold -= dt
	if g.hold <= 0 {
		g.input.DX, g.input.DY = 0, 0
	}
	if g.msgTTL -= dt; g.msgTTL <= 0 {
		g.message = ""
	}

	in := g.input
	in.Sprint = g.sprint
	g.session.Tick(ctx, dt, in)

	reg := g.session.Registry()
	viewW, viewH := g.renderer.Viewport()
	g.camera.Follow(reg.Player.X, reg.Player.Y, viewW, viewH, reg.Grid.Width, reg.Grid.Height, dt)
	g.renderer.Render(reg, g.camera, g.hud())
}

// handleEvent processes a single input event.
func (g *Game) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false

	case tcell.KeyUp:
		g.steer(0, -1)
	case tcell.KeyDown:
		g.steer(0, 1)
	case tcell.KeyLeft:
		g.steer(-1, 0)
	case tcell.KeyRight:
		g.steer(1, 0)
	case tcell.KeyTab:
		g.sprint = !g.sprint
		g.settings.PutBool(settingSprint, g.sprint)
		flush(g.settings)

	case tcell.KeyRune:
		switch r := ev.Rune(); r {
		case 'q', 'Q':
			g.running = false
		case 'w', 'W':
			g.steer(0, -1)
		case 's', 'S':
			g.steer(0, 1)
		case 'a', 'A':
			g.steer(-1, 0)
		case 'd', 'D':
			g.steer(1, 0)
		case 'r', 'R':
			g.restart(ctx)
		case 'p', 'P':
			g.save(ctx)
		case 'l', 'L':
			g.load(ctx)
		default:
			if r >= '1' && r <= '9' {
				g.buySkill(int(r - '1'))
			}
		}
	}
}

// steer sets the held direction. Perpendicular presses combine into a
// diagonal while both are held.
func (g *Game) steer(dx, dy int) {
	if g.hold <= 0 {
		g.input.DX, g.input.DY = 0, 0
	}
	if dx != 0 {
		g.input.DX = dx
	}
	if dy != 0 {
		g.input.DY = dy
	}
	g.hold = holdWindow
}

func (g *Game) restart(ctx context.Context) {
	if err := g.session.Restart(ctx); err != nil {
		log.Error().Err(err).Msg("restart")
		g.notify("Restart failed: " + err.Error())
		return
	}
	g.notify("New run")
}

func (g *Game) save(ctx context.Context) {
	if err := g.session.SaveTo(ctx, g.saves); err != nil {
		log.Error().Err(err).Msg("save game")
		g.notify("Save failed: " + err.Error())
		return
	}
	g.notify("Game saved")
}

func (g *Game) load(ctx context.Context) {
	err := g.session.LoadFrom(ctx, g.saves)
	switch {
	case errors.Is(err, snapshot.ErrNoSave):
		g.notify("No saved game")
	case err != nil:
		log.Error().Err(err).Msg("load game")
		g.notify("Load failed: " + err.Error())
	default:
		g.notify("Game loaded")
	}
}

func (g *Game) buySkill(index int) {
	all := g.skills.All()
	if index >= len(all) {
		return
	}
	if err := g.session.UnlockSkill(all[index].ID); err != nil {
		g.notify(err.Error())
	}
}

func (g *Game) notify(msg string) {
	g.message = msg
	g.msgTTL = messageTTL
}

// onEvent turns session events into camera and HUD feedback.
func (g *Game) onEvent(ev Event) {
	switch ev.Kind {
	case EventLevelLoaded:
		g.camera.Rebind()
	case EventWon:
		g.notify(fmt.Sprintf("Level cleared! +%d", ev.Score))
	case EventLost:
		g.notify("Out of hearts. Press r to try again")
	case EventAchievement:
		g.notify("Achievement: " + ev.Achievement.Name)
	case EventSkillUnlocked:
		g.notify("Skill unlocked: " + ev.Skill.Name)
	case EventInteraction:
		switch ev.Interaction.Kind {
		case interaction.EventExitsUnlocked:
			g.notify("The exits are open")
		case interaction.EventBoostCollected:
			g.notify("Speed boost!")
		}
	}
}

func (g *Game) hud() []string {
	s := g.session
	p := s.Player()

	status := fmt.Sprintf("%s%s  Keys %d  Time %.1f  Run %d  Cleared %d",
		strings.Repeat("♥", p.Hearts), strings.Repeat("♡", max(0, p.MaxHearts-p.Hearts)),
		p.Keys, s.TimePlayed, s.RunScore, s.LevelsCleared)
	if g.sprint {
		status += "  SPRINT"
	}
	if p.Boosted() {
		status += fmt.Sprintf("  BOOST %.1f", p.BoostTimer)
	}
	if label := levelLabel(s.Level()); label != "" {
		status += "  " + label
	}

	objective := ""
	if ind, ok := s.Indicator(); ok {
		objective = fmt.Sprintf("%s %c %.1f", ind.Target.Kind, ind.Arrow(), ind.Distance)
	}
	switch s.State() {
	case StateWon:
		objective = fmt.Sprintf("Cleared for %d points. r: new run", s.LastScore)
	case StateLost:
		objective = "Lost. r: new run"
	}
	if g.message != "" {
		objective += "  | " + g.message
	}

	help := fmt.Sprintf("move: arrows/wasd  tab: sprint  p/l: save/load  r: restart  1-%d: skills (%d pts)  q: quit",
		g.skills.Count(), s.Profile().Balance())
	return []string{status, objective, help}
}

// levelLabel names the level file and flags repaired layouts. Loaded grids
// and unpersisted levels have no label.
func levelLabel(lv *world.Level) string {
	if lv == nil {
		return ""
	}
	var parts []string
	if lv.Path != "" {
		parts = append(parts, filepath.Base(lv.Path))
	}
	if lv.Repaired {
		parts = append(parts, "repaired")
	}
	if !lv.Connected {
		parts = append(parts, "no path")
	}
	return strings.Join(parts, " ")
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}
