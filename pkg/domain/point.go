package domain

// Point is a pixel coordinate relative to the canvas origin.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Manhattan returns |dx| + |dy| between p and q.
func (p Point) Manhattan(q Point) float64 {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// Near reports whether q lies strictly inside the axis-aligned box of the given
// reach around p, i.e. |dx| < reach and |dy| < reach.
func (p Point) Near(q Point, reach float64) bool {
	return abs(p.X-q.X) < reach && abs(p.Y-q.Y) < reach
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
