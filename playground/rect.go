package playground

// Rect is an axis-aligned box in screen coordinates (y grows downward).
type Rect struct {
	Left, Top, Right, Bottom float64
}

func RectAt(x, y, w, h float64) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

func (r Rect) Width() float64 { return r.Right - r.Left }

func (r Rect) Height() float64 { return r.Bottom - r.Top }

func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// MoveTo keeps the size and puts the top-left corner at (x, y).
func (r Rect) MoveTo(x, y float64) Rect {
	return RectAt(x, y, r.Width(), r.Height())
}

// Collide is the bounding-box overlap test. Touching edges count as a hit.
func Collide(a, b Rect) bool {
	return !(a.Bottom < b.Top ||
		a.Top > b.Bottom ||
		a.Right < b.Left ||
		a.Left > b.Right)
}
