// Package core provides rendering primitives for the trainer's terminal
// views. It has no external dependencies (especially no Bubble Tea) so board
// drawing stays testable.
package core

// Rect is an axis-aligned rectangle on a Screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Inset shrinks the rectangle by n cells on every side. The result never has
// a negative size.
func (r Rect) Inset(n int) Rect {
	out := Rect{X: r.X + n, Y: r.Y + n, W: r.W - 2*n, H: r.H - 2*n}
	out.W = max(out.W, 0)
	out.H = max(out.H, 0)
	return out
}

// Centered returns a w x h rectangle centered in r. Sizes larger than r are
// anchored at r's top-left corner.
func (r Rect) Centered(w, h int) Rect {
	return Rect{
		X: r.X + max((r.W-w)/2, 0),
		Y: r.Y + max((r.H-h)/2, 0),
		W: w,
		H: h,
	}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
