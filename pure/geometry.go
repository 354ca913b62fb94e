package pure

import "fmt"

// Point is a pixel position relative to the root window origin.
type Point struct {
	X int32
	Y int32
}

// Rect is an integer pixel rectangle. X and Y may be negative for screens
// positioned left of / above the primary output; W and H are always the
// full extent of the rectangle.
type Rect struct {
	X int32
	Y int32
	W uint32
	H uint32
}

// RelativeRect is a rectangle expressed as fractions of an enclosing Rect.
// All components are in [0, 1].
type RelativeRect struct {
	X float64
	Y float64
	W float64
	H float64
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.W, r.H, r.X, r.Y)
}

// Midpoint returns the center of the rectangle.
func (r Rect) Midpoint() Point {
	return Point{
		X: r.X + int32(r.W/2),
		Y: r.Y + int32(r.H/2),
	}
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+int32(r.W) &&
		p.Y >= r.Y && p.Y < r.Y+int32(r.H)
}

// ContainsRect reports whether other lies entirely inside r.
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X &&
		other.Y >= r.Y &&
		other.X+int32(other.W) <= r.X+int32(r.W) &&
		other.Y+int32(other.H) <= r.Y+int32(r.H)
}

// ShrinkIn returns r inset by px on all four sides. Rectangles too small to
// shrink are returned unchanged.
func (r Rect) ShrinkIn(px uint32) Rect {
	if r.W <= 2*px || r.H <= 2*px {
		return r
	}

	return Rect{
		X: r.X + int32(px),
		Y: r.Y + int32(px),
		W: r.W - 2*px,
		H: r.H - 2*px,
	}
}

// SplitAtWidth splits r into a left part of the given width and the
// remainder. The split point must lie strictly inside the rectangle.
func (r Rect) SplitAtWidth(w uint32) (left, right Rect, ok bool) {
	if w == 0 || w >= r.W {
		return r, Rect{}, false
	}

	left = Rect{X: r.X, Y: r.Y, W: w, H: r.H}
	right = Rect{X: r.X + int32(w), Y: r.Y, W: r.W - w, H: r.H}

	return left, right, true
}

// SplitAtHeight splits r into a top part of the given height and the
// remainder.
func (r Rect) SplitAtHeight(h uint32) (top, bottom Rect, ok bool) {
	if h == 0 || h >= r.H {
		return r, Rect{}, false
	}

	top = Rect{X: r.X, Y: r.Y, W: r.W, H: h}
	bottom = Rect{X: r.X, Y: r.Y + int32(h), W: r.W, H: r.H - h}

	return top, bottom, true
}

// SplitAtWidthRatio splits r vertically with the left part receiving the
// given fraction of the width, truncated to whole pixels.
func (r Rect) SplitAtWidthRatio(ratio float64) (left, right Rect, ok bool) {
	return r.SplitAtWidth(uint32(float64(r.W) * ratio))
}

// SplitAtHeightRatio splits r horizontally with the top part receiving the
// given fraction of the height, truncated to whole pixels.
func (r Rect) SplitAtHeightRatio(ratio float64) (top, bottom Rect, ok bool) {
	return r.SplitAtHeight(uint32(float64(r.H) * ratio))
}

// SplitRows divides r into n horizontal rows. Each row gets the truncated
// equal share; the final row absorbs the integer remainder so the rows tile
// r exactly.
func (r Rect) SplitRows(n uint32) []Rect {
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []Rect{r}
	}

	h := r.H / n
	rows := make([]Rect, n)
	for i := uint32(0); i < n; i++ {
		rows[i] = Rect{X: r.X, Y: r.Y + int32(i*h), W: r.W, H: h}
	}
	rows[n-1].H = r.H - (n-1)*h

	return rows
}

// SplitColumns divides r into n vertical columns, the last absorbing the
// remainder.
func (r Rect) SplitColumns(n uint32) []Rect {
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []Rect{r}
	}

	w := r.W / n
	cols := make([]Rect, n)
	for i := uint32(0); i < n; i++ {
		cols[i] = Rect{X: r.X + int32(i*w), Y: r.Y, W: w, H: r.H}
	}
	cols[n-1].W = r.W - (n-1)*w

	return cols
}

// RelativeTo expresses r as fractions of the enclosing rectangle. Components
// are clamped to [0, 1] so that a rect hanging off the edge of its screen
// still produces a valid relative position.
func (r Rect) RelativeTo(outer Rect) RelativeRect {
	if outer.W == 0 || outer.H == 0 {
		return RelativeRect{}
	}

	return RelativeRect{
		X: clamp01(float64(r.X-outer.X) / float64(outer.W)),
		Y: clamp01(float64(r.Y-outer.Y) / float64(outer.H)),
		W: clamp01(float64(r.W) / float64(outer.W)),
		H: clamp01(float64(r.H) / float64(outer.H)),
	}
}

// ApplyTo resolves the fractional rectangle against an enclosing Rect,
// truncating to whole pixels.
func (rr RelativeRect) ApplyTo(outer Rect) Rect {
	return Rect{
		X: outer.X + int32(float64(outer.W)*rr.X),
		Y: outer.Y + int32(float64(outer.H)*rr.Y),
		W: uint32(float64(outer.W) * rr.W),
		H: uint32(float64(outer.H) * rr.H),
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}

	return f
}
