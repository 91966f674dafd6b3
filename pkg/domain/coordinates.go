package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Coordinates is the persisted annotation: an ordered sequence of [x, y] pairs.
type Coordinates [][2]float64

// FromPoints converts an ordered point sequence to its wire representation.
func FromPoints(points []Point) Coordinates {
	coords := make(Coordinates, len(points))
	for i, p := range points {
		coords[i] = [2]float64{p.X, p.Y}
	}
	return coords
}

// Points converts the wire representation back to points.
func (c Coordinates) Points() []Point {
	points := make([]Point, len(c))
	for i, xy := range c {
		points[i] = Point{X: xy[0], Y: xy[1]}
	}
	return points
}

// WordID identifies the labeled entity that owns an annotation.
// It decodes from either a JSON string or a JSON number.
type WordID string

// Validate rejects empty identifiers and ones that cannot be used as storage keys.
func (w WordID) Validate() error {
	s := string(w)
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidWordID)
	}
	if strings.ContainsAny(s, `/\`) || s == "." || s == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidWordID, s)
	}
	return nil
}

// UnmarshalJSON accepts "42" and 42 alike.
func (w *WordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*w = WordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidWordID, string(data))
	}
	*w = WordID(n.String())
	return nil
}
