package domain

// Mode selects which capture surface is active. The two are mutually exclusive.
type Mode string

const (
	ModeFreehand Mode = "freehand"
	ModeLasso    Mode = "lasso"
)

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeLasso {
		return ModeFreehand
	}
	return ModeLasso
}

// DrawState is the gesture state of the canvas controller.
type DrawState string

const (
	DrawIdle    DrawState = "idle"
	DrawDrawing DrawState = "drawing"
)

// Tool is the active freehand tool. ToolNone accepts gestures but never commits.
type Tool string

const (
	ToolNone   Tool = ""
	ToolPencil Tool = "pencil"
	ToolEraser Tool = "eraser"
)
