package runtime

import "github.com/aretw0/inkmap/pkg/domain"

// Erase returns strokes without every stroke that the erase path touches.
//
// A stroke is touched when any erase point and any stroke point are within
// reach on both axes (|dx| < reach and |dy| < reach). That is an axis-aligned
// box, not a radius. The scan is O(E*S*P) with no spatial index.
// Surviving strokes keep their store order. The input slice is not modified.
func Erase(path []domain.Point, strokes []domain.Stroke, reach float64) []domain.Stroke {
	kept := make([]domain.Stroke, 0, len(strokes))
	for _, stroke := range strokes {
		if !touches(path, stroke.Path, reach) {
			kept = append(kept, stroke)
		}
	}
	return kept
}

func touches(erase, path []domain.Point, reach float64) bool {
	for _, e := range erase {
		for _, p := range path {
			if e.Near(p, reach) {
				return true
			}
		}
	}
	return false
}
