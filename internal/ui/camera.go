package ui

import "math"

// Camera tracks the top-left world cell of the viewport, easing toward the
// player so the view does not jump on every step.
type Camera struct {
	X, Y float64
	// Lerp is the fraction of the remaining distance covered per second.
	Lerp float64

	snapped bool
}

// NewCamera creates a camera with the default easing.
func NewCamera() *Camera {
	return &Camera{Lerp: 8}
}

// Rebind forgets the previous position so the next Follow snaps to the
// target. Call it whenever the level is replaced.
func (c *Camera) Rebind() {
	c.snapped = false
}

// Follow centres the view on (px, py), clamped to the grid bounds.
func (c *Camera) Follow(px, py float64, viewW, viewH, gridW, gridH int, dt float64) {
	tx := clampView(px-float64(viewW)/2, viewW, gridW)
	ty := clampView(py-float64(viewH)/2, viewH, gridH)

	if !c.snapped {
		c.X, c.Y = tx, ty
		c.snapped = true
		return
	}

	k := math.Min(1, dt*c.Lerp)
	c.X += (tx - c.X) * k
	c.Y += (ty - c.Y) * k
}

// Offset returns the integer cell offset for drawing.
func (c *Camera) Offset() (int, int) {
	return int(math.Round(c.X)), int(math.Round(c.Y))
}

func clampView(v float64, view, size int) float64 {
	if view >= size {
		return 0
	}
	return math.Max(0, math.Min(v, float64(size-view)))
}
