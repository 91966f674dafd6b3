package runtime

import "github.com/aretw0/inkmap/pkg/domain"

// History is a bounded undo stack plus an unbounded redo stack of Actions.
//
// Only the most recent depth actions are kept. Pushing past the bound evicts
// the oldest entry, which is then unrecoverable. The redo stack is filled by
// Undo, drained by Redo, and dropped by DiscardRedo when a new gesture starts.
type History struct {
	depth   int
	actions []domain.Action
	redo    []domain.Action
}

// NewHistory creates a history keeping at most depth undoable actions.
// A non-positive depth falls back to domain.DefaultHistoryDepth.
func NewHistory(depth int) *History {
	if depth <= 0 {
		depth = domain.DefaultHistoryDepth
	}
	return &History{depth: depth}
}

// Push appends an action, evicting the oldest ones beyond the depth bound.
func (h *History) Push(action domain.Action) {
	h.actions = append(h.actions, action)
	if over := len(h.actions) - h.depth; over > 0 {
		// Copy down so the evicted actions are not pinned by the backing array.
		h.actions = append(h.actions[:0:0], h.actions[over:]...)
	}
}

// Undo pops the most recent action onto the redo stack and returns it.
// The caller restores action.PreviousState. Returns false when there is nothing to undo.
func (h *History) Undo() (domain.Action, bool) {
	if len(h.actions) == 0 {
		return domain.Action{}, false
	}
	last := h.actions[len(h.actions)-1]
	h.actions = h.actions[:len(h.actions)-1]
	h.redo = append(h.redo, last)
	return last, true
}

// Redo pops the most recent undone action and re-inserts it through Push,
// so it is subject to the same eviction. The caller restores action.NewState.
func (h *History) Redo() (domain.Action, bool) {
	if len(h.redo) == 0 {
		return domain.Action{}, false
	}
	last := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.Push(last)
	return last, true
}

// DiscardRedo forgets every undone action.
func (h *History) DiscardRedo() {
	h.redo = nil
}

// Depth returns the configured bound.
func (h *History) Depth() int { return h.depth }

// Len returns the number of undoable actions.
func (h *History) Len() int { return len(h.actions) }

// RedoLen returns the number of redoable actions.
func (h *History) RedoLen() int { return len(h.redo) }

// Actions returns a copy of the undo stack, oldest first.
func (h *History) Actions() []domain.Action {
	out := make([]domain.Action, len(h.actions))
	copy(out, h.actions)
	return out
}
