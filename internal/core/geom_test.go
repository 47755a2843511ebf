package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"last column", 29, 12, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside right", 35, 15, false},
		{"outside top", 15, 5, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestRectInset(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		n    int
		want Rect
	}{
		{"cell border", NewRect(10, 4, 7, 3), 1, NewRect(11, 5, 5, 1)},
		{"zero", NewRect(1, 2, 3, 4), 0, NewRect(1, 2, 3, 4)},
		{"collapses", NewRect(0, 0, 3, 3), 2, NewRect(2, 2, 0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.Inset(tc.n); got != tc.want {
				t.Errorf("Inset(%d) = %+v, expected %+v", tc.n, got, tc.want)
			}
		})
	}
}

func TestRectCenterX(t *testing.T) {
	r := NewRect(10, 0, 6, 1)

	tests := []struct {
		width, expected int
	}{
		{1, 12}, // "2"
		{4, 11}, // "2048"
		{6, 10}, // fills the cell
		{9, 10}, // wider than the cell
	}

	for _, tc := range tests {
		if got := r.CenterX(tc.width); got != tc.expected {
			t.Errorf("CenterX(%d) = %d, expected %d", tc.width, got, tc.expected)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}

	if got := Clamp(0.95, 0.0, 0.5); got != 0.5 {
		t.Errorf("Clamp(0.95, 0, 0.5) = %v, expected 0.5", got)
	}
}

func TestInputFrameClick(t *testing.T) {
	f := NewInputFrame()
	if !f.Empty() {
		t.Fatal("new frame should be empty")
	}

	f.Set(ActionUndo)
	f.SetClick(3, 4)
	clone := f.Clone()

	f.Clear()
	if !f.Empty() {
		t.Error("Clear should drop actions and click")
	}

	if !clone.Has(ActionUndo) {
		t.Error("clone lost ActionUndo")
	}
	if clone.Click == nil || clone.Click.X != 3 || clone.Click.Y != 4 {
		t.Errorf("clone click = %+v, expected (3, 4)", clone.Click)
	}
}

func TestActionString(t *testing.T) {
	if ActionBreak.String() != "Break" {
		t.Errorf("ActionBreak.String() = %q", ActionBreak.String())
	}
	if Action(99).String() != "Unknown" {
		t.Errorf("Action(99).String() = %q", Action(99).String())
	}
}

func TestRuntimeConfigWithDefaults(t *testing.T) {
	cfg := RuntimeConfig{ScreenW: 100, ScreenH: 30}.WithDefaults()
	if cfg.TickRate != DefaultTickRate {
		t.Errorf("TickRate = %d, expected %d", cfg.TickRate, DefaultTickRate)
	}
	if cfg.Seed == 0 {
		t.Error("Seed should be picked from the clock")
	}
	if cfg.ScreenW != 100 || cfg.ScreenH != 30 {
		t.Errorf("size changed to %dx%d", cfg.ScreenW, cfg.ScreenH)
	}

	fixed := RuntimeConfig{TickRate: 30, Seed: 42}.WithDefaults()
	if fixed.TickRate != 30 || fixed.Seed != 42 {
		t.Errorf("explicit values overwritten: %+v", fixed)
	}
}
