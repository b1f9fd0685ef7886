package core

import "testing"

func TestRectEdges(t *testing.T) {
	r := NewRect(2, 3, 10, 5)
	if r.Right() != 12 || r.Bottom() != 8 {
		t.Errorf("Right/Bottom = %d/%d", r.Right(), r.Bottom())
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 20)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right inside", 29, 29, true},
		{"right edge (exclusive)", 30, 15, false},
		{"bottom edge (exclusive)", 15, 30, false},
		{"left outside", 9, 15, false},
		{"above", 15, 9, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestRectInset(t *testing.T) {
	tests := []struct {
		name     string
		r        Rect
		n        int
		expected Rect
	}{
		{"shrink", NewRect(0, 0, 10, 6), 1, NewRect(1, 1, 8, 4)},
		{"collapse", NewRect(0, 0, 3, 3), 2, NewRect(2, 2, 0, 0)},
		{"zero", NewRect(4, 4, 2, 2), 0, NewRect(4, 4, 2, 2)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.Inset(tc.n); got != tc.expected {
				t.Errorf("Inset(%d) = %+v, expected %+v", tc.n, got, tc.expected)
			}
		})
	}
}

func TestRectCentered(t *testing.T) {
	outer := NewRect(0, 0, 20, 10)
	if got := outer.Centered(6, 4); got != NewRect(7, 3, 6, 4) {
		t.Errorf("Centered(6, 4) = %+v", got)
	}
	if got := outer.Centered(30, 12); got != NewRect(0, 0, 30, 12) {
		t.Errorf("oversized Centered = %+v", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestInputFrame(t *testing.T) {
	var f InputFrame
	if f.Has(ActionPause) {
		t.Error("zero frame should have no actions")
	}
	f.Set(ActionPause)
	f.Set(ActionStep)
	if !f.Has(ActionPause) || !f.Has(ActionStep) || f.Has(ActionQuit) {
		t.Errorf("actions = %v", f.Actions)
	}
	f.Clear()
	if f.Has(ActionPause) {
		t.Error("Clear should reset actions")
	}
	if ActionFaster.String() != "Faster" || Action(99).String() != "Unknown" {
		t.Error("unexpected action names")
	}
}
