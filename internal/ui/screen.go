// Package ui provides terminal rendering using tcell.
package ui

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Screen wraps tcell.Screen with the handful of calls the game needs.
type Screen struct {
	screen tcell.Screen
	once   sync.Once
}

// NewScreen initializes the terminal with the cursor hidden.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	s.HideCursor()
	s.Clear()
	return &Screen{screen: s}, nil
}

// Close restores the terminal. Safe to call more than once.
func (s *Screen) Close() {
	s.once.Do(s.screen.Fini)
}

// PollEvent blocks for the next terminal event; nil after Close.
func (s *Screen) PollEvent() tcell.Event {
	return s.screen.PollEvent()
}

func (s *Screen) Clear() { s.screen.Clear() }
func (s *Screen) Show()  { s.screen.Show() }
func (s *Screen) Sync()  { s.screen.Sync() }

// SetContent sets a single cell.
func (s *Screen) SetContent(x, y int, r rune, style tcell.Style) {
	s.screen.SetContent(x, y, r, nil, style)
}

// Size returns the current terminal dimensions.
func (s *Screen) Size() (width, height int) {
	return s.screen.Size()
}

// DrawText writes a string starting at (x, y), clipped to the screen width.
func (s *Screen) DrawText(x, y int, text string, style tcell.Style) {
	w, _ := s.Size()
	for _, ch := range text {
		if x >= w {
			return
		}
		s.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}
