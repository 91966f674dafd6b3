package runtime

import "github.com/aretw0/inkmap/pkg/domain"

// Stitch orders strokes into a chain that approximates one continuous path.
//
// It is a greedy nearest-endpoint heuristic, not a shortest-path solver:
// the chain is seeded with the first stroke, then repeatedly extended with the
// unconsumed stroke whose nearer endpoint (Manhattan distance) is closest to the
// chain's current tail. Ties go to the first stroke encountered in store order.
// When a stroke's tail is at least as near as its head it joins reversed.
//
// Reversed strokes are new copies; the input strokes and their paths are never
// mutated, so snapshots held by History keep their original orientation.
func Stitch(strokes []domain.Stroke) []domain.Stroke {
	if len(strokes) <= 1 {
		return domain.CloneStrokes(strokes)
	}

	consumed := make([]bool, len(strokes))
	chain := make([]domain.Stroke, 0, len(strokes))

	chain = append(chain, strokes[0])
	consumed[0] = true

	for len(chain) < len(strokes) {
		tail := chain[len(chain)-1].Tail()

		best := -1
		bestScore := 0.0
		bestReverse := false

		for i, candidate := range strokes {
			if consumed[i] {
				continue
			}
			head := tail.Manhattan(candidate.Head())
			rear := tail.Manhattan(candidate.Tail())

			score, reverse := head, false
			if rear <= head {
				score, reverse = rear, true
			}

			if best < 0 || score < bestScore {
				best, bestScore, bestReverse = i, score, reverse
			}
		}

		next := strokes[best]
		if bestReverse {
			next = next.Reversed()
		}
		chain = append(chain, next)
		consumed[best] = true
	}

	return chain
}

// Flatten concatenates the paths of strokes, in order, into one point sequence.
func Flatten(strokes []domain.Stroke) []domain.Point {
	n := 0
	for _, s := range strokes {
		n += len(s.Path)
	}
	points := make([]domain.Point, 0, n)
	for _, s := range strokes {
		points = append(points, s.Path...)
	}
	return points
}

// Order is Stitch followed by Flatten: the point sequence persisted for a
// freehand annotation.
func Order(strokes []domain.Stroke) []domain.Point {
	return Flatten(Stitch(strokes))
}
