package ui

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/labyrinth/internal/entity"
	"github.com/samdwyer/labyrinth/internal/gamedata"
)

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen  *Screen
	palette gamedata.Palette
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen, palette gamedata.Palette) *Renderer {
	return &Renderer{screen: screen, palette: palette}
}

// HUDLines is how many rows at the bottom are reserved for the HUD.
const HUDLines = 3

// Viewport returns the map area available above the HUD.
func (r *Renderer) Viewport() (int, int) {
	w, h := r.screen.Size()
	return w, max(0, h-HUDLines)
}

// Render draws the level around the camera, the player and the HUD lines.
func (r *Renderer) Render(reg *entity.Registry, cam *Camera, hud []string) {
	r.screen.Clear()
	viewW, viewH := r.Viewport()
	ox, oy := cam.Offset()

	ground := tcell.StyleDefault.Foreground(r.palette.Color("ground", tcell.ColorGray))
	for y := 0; y < viewH && y+oy < reg.Grid.Height; y++ {
		for x := 0; x < viewW && x+ox < reg.Grid.Width; x++ {
			r.screen.SetContent(x, y, '·', ground)
		}
	}

	reg.Each(func(e *entity.Entity) {
		if !e.Visible() {
			return
		}
		x := int(math.Round(e.X)) - ox
		y := int(math.Round(e.Y)) - oy
		if x < 0 || y < 0 || x >= viewW || y >= viewH {
			return
		}
		r.screen.SetContent(x, y, e.Glyph(), r.entityStyle(e))
	})

	p := reg.Player
	role, fallback := "player", tcell.ColorYellow
	if p.PainTimer > 0 {
		role, fallback = "player_hurt", tcell.ColorRed
	}
	px := int(math.Round(p.X)) - ox
	py := int(math.Round(p.Y)) - oy
	if px >= 0 && py >= 0 && px < viewW && py < viewH {
		style := tcell.StyleDefault.Foreground(r.palette.Color(role, fallback)).Bold(true)
		r.screen.SetContent(px, py, '@', style)
	}

	for i, line := range hud {
		r.RenderMessage(line, viewH+i)
	}

	r.screen.Show()
}

// entityStyle looks the entity's role up in the palette.
func (r *Renderer) entityStyle(e *entity.Entity) tcell.Style {
	role := e.Kind.String()
	if e.Kind == entity.KindExit && e.Locked {
		role = "exit_locked"
	}
	style := tcell.StyleDefault.Foreground(r.palette.Color(role, tcell.ColorWhite))
	if e.Kind == entity.KindMorphTrap && e.Affecting {
		style = style.Reverse(true)
	}
	return style
}

// RenderMessage displays a message at the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	r.screen.DrawText(0, y, msg, tcell.StyleDefault.Foreground(tcell.ColorWhite))
}
