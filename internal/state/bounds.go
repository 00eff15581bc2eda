package state

// Rect is an axis aligned area on the canvas.
type Rect struct {
	X      float32
	Y      float32
	Width  float32
	Height float32
}

func (r Rect) MaxX() float32 { return r.X + r.Width }
func (r Rect) MaxY() float32 { return r.Y + r.Height }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.MaxX() &&
		p.Y >= r.Y && p.Y <= r.MaxY()
}

// Union returns the smallest rect covering both a and b.
func Union(a, b Rect) Rect {
	minX, minY := min(a.X, b.X), min(a.Y, b.Y)
	maxX, maxY := max(a.MaxX(), b.MaxX()), max(a.MaxY(), b.MaxY())

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// BoundsOf computes the bounding box of points grown by pad on every side.
// It returns false for an empty point list.
func BoundsOf(points []Point, pad float32) (Rect, bool) {
	if len(points) == 0 {
		return Rect{}, false
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y

	for _, point := range points[1:] {
		minX = min(minX, point.X)
		maxX = max(maxX, point.X)
		minY = min(minY, point.Y)
		maxY = max(maxY, point.Y)
	}

	return Rect{
		X:      minX - pad,
		Y:      minY - pad,
		Width:  maxX - minX + 2*pad,
		Height: maxY - minY + 2*pad,
	}, true
}
