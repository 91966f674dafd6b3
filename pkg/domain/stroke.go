package domain

// Stroke is one committed freehand path.
// Strokes are values: history transitions replace them wholesale and nothing
// mutates a Path after commit.
type Stroke struct {
	ID    string  `json:"id,omitempty"`
	Path  []Point `json:"path"`
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}

// Head returns the first point of the path.
func (s Stroke) Head() Point {
	return s.Path[0]
}

// Tail returns the last point of the path.
func (s Stroke) Tail() Point {
	return s.Path[len(s.Path)-1]
}

// Reversed returns a copy of the stroke with its path in the opposite direction.
// The receiver is left untouched.
func (s Stroke) Reversed() Stroke {
	path := make([]Point, len(s.Path))
	for i, p := range s.Path {
		path[len(s.Path)-1-i] = p
	}
	s.Path = path
	return s
}

// CloneStrokes returns a new slice holding the same stroke values.
// Paths are shared since they are never mutated.
func CloneStrokes(strokes []Stroke) []Stroke {
	if strokes == nil {
		return nil
	}
	out := make([]Stroke, len(strokes))
	copy(out, strokes)
	return out
}
