package domain

// Default values for the adjustable limits of an annotation session.
const (
	// DefaultHistoryDepth is how many actions stay undoable. Older ones are evicted.
	DefaultHistoryDepth = 5

	// DefaultEraserReach is the half-width of the eraser proximity box in pixels.
	DefaultEraserReach = 10

	// DefaultCanvasHeight is the fixed display height of the freehand canvas in pixels.
	DefaultCanvasHeight = 500

	// DefaultPencilWidth is the line width of committed pencil strokes.
	DefaultPencilWidth = 2

	// DefaultEraserWidth is the line width used when drawing the live eraser trail.
	DefaultEraserWidth = 10
)

// Limits groups the tunable constants of a session.
type Limits struct {
	HistoryDepth int     `mapstructure:"history_depth" yaml:"history_depth"`
	EraserReach  float64 `mapstructure:"eraser_reach" yaml:"eraser_reach"`
	CanvasHeight float64 `mapstructure:"canvas_height" yaml:"canvas_height"`
	PencilWidth  float64 `mapstructure:"pencil_width" yaml:"pencil_width"`
}

// DefaultLimits returns the stock limits.
func DefaultLimits() Limits {
	return Limits{
		HistoryDepth: DefaultHistoryDepth,
		EraserReach:  DefaultEraserReach,
		CanvasHeight: DefaultCanvasHeight,
		PencilWidth:  DefaultPencilWidth,
	}
}

// Normalize replaces non-positive fields with their defaults.
func (l Limits) Normalize() Limits {
	d := DefaultLimits()
	if l.HistoryDepth <= 0 {
		l.HistoryDepth = d.HistoryDepth
	}
	if l.EraserReach <= 0 {
		l.EraserReach = d.EraserReach
	}
	if l.CanvasHeight <= 0 {
		l.CanvasHeight = d.CanvasHeight
	}
	if l.PencilWidth <= 0 {
		l.PencilWidth = d.PencilWidth
	}
	return l
}
