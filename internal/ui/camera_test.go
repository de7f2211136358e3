package ui

import "testing"

func TestCameraSnapsAfterRebind(t *testing.T) {
	c := NewCamera()
	c.Follow(30, 20, 20, 10, 60, 40, 0.016)
	if c.X != 20 || c.Y != 15 {
		t.Fatalf("first follow = (%v,%v), want (20,15)", c.X, c.Y)
	}

	c.Follow(40, 20, 20, 10, 60, 40, 0.05)
	if c.X <= 20 || c.X >= 30 {
		t.Errorf("eased x = %v, want between 20 and 30", c.X)
	}

	c.Rebind()
	c.Follow(5, 5, 20, 10, 60, 40, 0.016)
	if c.X != 0 || c.Y != 0 {
		t.Errorf("after rebind = (%v,%v), want clamped (0,0)", c.X, c.Y)
	}
}

func TestCameraClamp(t *testing.T) {
	tests := []struct {
		name         string
		px, py       float64
		viewW, viewH int
		gridW, gridH int
		wantX, wantY float64
	}{
		{"grid fits view", 5, 5, 80, 24, 20, 15, 0, 0},
		{"far corner", 59, 39, 20, 10, 60, 40, 40, 30},
		{"centre", 30, 20, 20, 10, 60, 40, 20, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera()
			c.Follow(tt.px, tt.py, tt.viewW, tt.viewH, tt.gridW, tt.gridH, 0)
			if c.X != tt.wantX || c.Y != tt.wantY {
				t.Errorf("Follow = (%v,%v), want (%v,%v)", c.X, c.Y, tt.wantX, tt.wantY)
			}
		})
	}
}
