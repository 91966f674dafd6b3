package runtime_test

import (
	"fmt"
	"testing"

	"github.com/aretw0/inkmap/internal/runtime"
	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stroke(id string, pts ...float64) domain.Stroke {
	path := make([]domain.Point, 0, len(pts)/2)
	for i := 0; i+1 < len(pts); i += 2 {
		path = append(path, domain.Point{X: pts[i], Y: pts[i+1]})
	}
	return domain.Stroke{ID: id, Path: path, Color: domain.ColorBlack, Width: 2}
}

func actionN(n int) domain.Action {
	return domain.Action{
		PreviousState: []domain.Stroke{stroke(fmt.Sprintf("prev-%d", n), 0, 0)},
		NewState:      []domain.Stroke{stroke(fmt.Sprintf("new-%d", n), 1, 1)},
	}
}

func TestHistory_EvictsOldest(t *testing.T) {
	h := runtime.NewHistory(5)
	for i := 1; i <= 6; i++ {
		h.Push(actionN(i))
	}

	require.Equal(t, 5, h.Len())
	actions := h.Actions()
	assert.Equal(t, "new-2", actions[0].NewState[0].ID, "oldest surviving action should be the 2nd")
	assert.Equal(t, "new-6", actions[4].NewState[0].ID)

	// The 1st action is gone for good.
	var undone []string
	for {
		a, ok := h.Undo()
		if !ok {
			break
		}
		undone = append(undone, a.NewState[0].ID)
	}
	assert.Equal(t, []string{"new-6", "new-5", "new-4", "new-3", "new-2"}, undone)
	assert.NotContains(t, undone, "new-1")
}

func TestHistory_UndoRedoEmptyAreNoops(t *testing.T) {
	h := runtime.NewHistory(5)

	_, ok := h.Undo()
	assert.False(t, ok)
	_, ok = h.Redo()
	assert.False(t, ok)
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, 0, h.RedoLen())
}

func TestHistory_RedoRepushesWithEviction(t *testing.T) {
	h := runtime.NewHistory(2)
	h.Push(actionN(1))
	h.Push(actionN(2))

	a, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "new-2", a.NewState[0].ID)
	assert.Equal(t, 1, h.RedoLen())

	h.Push(actionN(3)) // pushes do not touch redo
	assert.Equal(t, 1, h.RedoLen())

	a, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, "new-2", a.NewState[0].ID)
	assert.Equal(t, 0, h.RedoLen())

	actions := h.Actions()
	require.Len(t, actions, 2)
	assert.Equal(t, "new-3", actions[0].NewState[0].ID)
	assert.Equal(t, "new-2", actions[1].NewState[0].ID)
}

func TestHistory_DefaultDepth(t *testing.T) {
	h := runtime.NewHistory(0)
	assert.Equal(t, domain.DefaultHistoryDepth, h.Depth())
}
