package runtime

import (
	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/google/uuid"
)

// Canvas turns pointer gestures into committed strokes.
//
// It owns the stroke store, the history over it and the Idle/Drawing state
// machine. While Drawing, moves only grow an in-memory buffer; the store is
// replaced once, on End, and the transition is recorded as an Action.
// Canvas is not safe for concurrent use.
type Canvas struct {
	strokes []domain.Stroke
	history *History
	limits  domain.Limits

	state   domain.DrawState
	tool    domain.Tool
	color   domain.Color
	buffer  []domain.Point
	pending []domain.Stroke // store snapshot taken at Begin

	newID func() string
}

// CanvasOption configures a Canvas.
type CanvasOption func(*Canvas)

// WithLimits overrides the history depth, eraser reach and pencil width.
func WithLimits(limits domain.Limits) CanvasOption {
	return func(c *Canvas) {
		c.limits = limits.Normalize()
	}
}

// WithIDGenerator replaces the stroke id source (uuid by default).
func WithIDGenerator(fn func() string) CanvasOption {
	return func(c *Canvas) {
		c.newID = fn
	}
}

// NewCanvas creates an idle canvas with an empty store and no tool selected.
func NewCanvas(opts ...CanvasOption) *Canvas {
	c := &Canvas{
		limits: domain.DefaultLimits(),
		state:  domain.DrawIdle,
		tool:   domain.ToolNone,
		color:  domain.ColorBlack,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.history = NewHistory(c.limits.HistoryDepth)
	return c
}

// Begin starts a gesture at p. It snapshots the store as the candidate
// previous state and discards the redo stack, since history diverges here.
// A Begin while already Drawing restarts the gesture.
func (c *Canvas) Begin(p domain.Point) {
	c.state = domain.DrawDrawing
	c.buffer = []domain.Point{p}
	c.pending = domain.CloneStrokes(c.strokes)
	c.history.DiscardRedo()
}

// Cancel drops the gesture in progress without committing it. The redo stack
// already discarded by Begin stays discarded.
func (c *Canvas) Cancel() {
	c.state = domain.DrawIdle
	c.buffer = nil
	c.pending = nil
}

// Move appends p to the gesture buffer. Ignored when Idle or with no tool.
func (c *Canvas) Move(p domain.Point) {
	if c.state != domain.DrawDrawing || c.tool == domain.ToolNone {
		return
	}
	c.buffer = append(c.buffer, p)
}

// End finishes the gesture and commits it according to the active tool.
// It returns the recorded action and true when the store was replaced.
func (c *Canvas) End() (domain.Action, bool) {
	if c.state != domain.DrawDrawing {
		return domain.Action{}, false
	}
	path, previous := c.buffer, c.pending
	c.state = domain.DrawIdle
	c.buffer = nil
	c.pending = nil

	var next []domain.Stroke
	switch c.tool {
	case domain.ToolPencil:
		stroke := domain.Stroke{
			ID:    c.newID(),
			Path:  path,
			Color: c.color,
			Width: c.limits.PencilWidth,
		}
		next = append(domain.CloneStrokes(previous), stroke)
	case domain.ToolEraser:
		next = Erase(path, previous, c.limits.EraserReach)
	default:
		return domain.Action{}, false
	}

	action := domain.Action{PreviousState: previous, NewState: next}
	c.commit(action)
	return action, true
}

// Undo restores the store to the previous state of the latest action.
func (c *Canvas) Undo() (domain.Action, bool) {
	action, ok := c.history.Undo()
	if ok {
		c.strokes = domain.CloneStrokes(action.PreviousState)
	}
	return action, ok
}

// Redo restores the store to the new state of the latest undone action.
func (c *Canvas) Redo() (domain.Action, bool) {
	action, ok := c.history.Redo()
	if ok {
		c.strokes = domain.CloneStrokes(action.NewState)
	}
	return action, ok
}

// ClearAll empties the store as one undoable action.
func (c *Canvas) ClearAll() domain.Action {
	action := domain.Action{
		PreviousState: domain.CloneStrokes(c.strokes),
		NewState:      []domain.Stroke{},
	}
	c.commit(action)
	return action
}

func (c *Canvas) commit(action domain.Action) {
	c.history.Push(action)
	c.strokes = domain.CloneStrokes(action.NewState)
}

// SetTool selects the tool used by the next commit.
func (c *Canvas) SetTool(tool domain.Tool) { c.tool = tool }

// SetColor selects the pencil color.
func (c *Canvas) SetColor(color domain.Color) { c.color = color }

// Tool returns the active tool.
func (c *Canvas) Tool() domain.Tool { return c.tool }

// Color returns the active pencil color.
func (c *Canvas) Color() domain.Color { return c.color }

// State returns the gesture state.
func (c *Canvas) State() domain.DrawState { return c.state }

// Buffer returns a copy of the in-progress gesture path.
func (c *Canvas) Buffer() []domain.Point {
	return append([]domain.Point(nil), c.buffer...)
}

// Strokes returns the committed strokes in store order.
func (c *Canvas) Strokes() []domain.Stroke {
	return domain.CloneStrokes(c.strokes)
}

// History exposes the action history for inspection.
func (c *Canvas) History() *History { return c.history }
