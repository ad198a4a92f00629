package common

import "math"

// Rect is an axis aligned rectangle in screen pixels with Y growing downwards.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

func (r Rect) Left() float64    { return r.X }
func (r Rect) Right() float64   { return r.X + r.Width }
func (r Rect) Top() float64     { return r.Y }
func (r Rect) Bottom() float64  { return r.Y + r.Height }
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Intersects reports whether the two rectangles overlap. Edges that only
// touch do not count, so an entity standing on a tile does not collide with it.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

func (r *Rect) SetBottom(y float64) {
	r.Y = y - r.Height
}

func (r *Rect) SetCenterX(x float64) {
	r.X = x - r.Width/2
}

// Round snaps the rectangle origin onto the pixel grid.
func (r *Rect) Round() {
	r.X = math.Round(r.X)
	r.Y = math.Round(r.Y)
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}
