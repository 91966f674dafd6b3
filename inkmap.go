package inkmap

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/aretw0/inkmap/internal/logging"
	"github.com/aretw0/inkmap/internal/runtime"
	"github.com/aretw0/inkmap/pkg/adapters/memory"
	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/aretw0/inkmap/pkg/ports"
	"github.com/aretw0/inkmap/pkg/render"
)

// Messages shown to the operator.
const (
	SavedMessage = "Progress saved successfully!"
	BackPrompt   = "Proceed without saving your progress?"
)

// ErrNoImageSource is returned by LoadImage when no reference image was configured.
var ErrNoImageSource = errors.New("no image source configured")

// Annotator is the annotation session for one word.
//
// It aggregates the freehand canvas, the lasso vertex list, the mode and the
// reference image, and exposes the command surface a UI binds to. Every
// method is safe to call from multiple goroutines; callbacks in Hooks run
// after the session lock is released.
type Annotator struct {
	mu sync.Mutex

	word   domain.WordID
	mode   domain.Mode
	canvas *runtime.Canvas
	limits domain.Limits

	lasso       ports.LassoCapture
	lassoPoints []domain.Point
	preview     image.Image

	source ports.ImageSource
	image  image.Image
	size   render.Size

	store   ports.CoordinateStore
	hooks   domain.Hooks
	logger  *slog.Logger
	lastErr error

	canvasOpts []runtime.CanvasOption
}

// Option defines a functional option for configuring the Annotator.
type Option func(*Annotator)

// WithStore sets the persistence capability. Defaults to an in-memory store.
func WithStore(store ports.CoordinateStore) Option {
	return func(a *Annotator) {
		a.store = store
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Annotator) {
		a.logger = logger
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks domain.Hooks) Option {
	return func(a *Annotator) {
		a.hooks = hooks
	}
}

// WithLimits overrides the history depth, eraser reach, canvas height and pencil width.
func WithLimits(limits domain.Limits) Option {
	return func(a *Annotator) {
		a.limits = limits.Normalize()
	}
}

// WithLasso sets the polygon capture collaborator used in lasso mode.
func WithLasso(capture ports.LassoCapture) Option {
	return func(a *Annotator) {
		a.lasso = capture
	}
}

// WithImageSource sets the reference image.
func WithImageSource(src ports.ImageSource) Option {
	return func(a *Annotator) {
		a.source = src
	}
}

// WithIDGenerator replaces the stroke id source.
func WithIDGenerator(fn func() string) Option {
	return func(a *Annotator) {
		a.canvasOpts = append(a.canvasOpts, runtime.WithIDGenerator(fn))
	}
}

// New creates a session for word in freehand mode with no tool selected.
func New(word domain.WordID, opts ...Option) (*Annotator, error) {
	if err := word.Validate(); err != nil {
		return nil, err
	}
	a := &Annotator{
		word:   word,
		mode:   domain.ModeFreehand,
		limits: domain.DefaultLimits(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.store == nil {
		a.store = memory.NewStore()
	}
	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	a.logger = a.logger.With("word_id", string(word))
	a.size = render.Size{Height: a.limits.CanvasHeight}
	a.canvas = runtime.NewCanvas(append([]runtime.CanvasOption{runtime.WithLimits(a.limits)}, a.canvasOpts...)...)
	return a, nil
}

// WordID returns the word the session annotates.
func (a *Annotator) WordID() domain.WordID { return a.word }

// PointerDown starts a freehand gesture. Ignored in lasso mode.
func (a *Annotator) PointerDown(p domain.Point) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != domain.ModeFreehand {
		return
	}
	a.canvas.Begin(p)
}

// PointerMove extends the gesture in progress.
func (a *Annotator) PointerMove(p domain.Point) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != domain.ModeFreehand {
		return
	}
	a.canvas.Move(p)
}

// PointerUp commits the gesture in progress with the active tool.
func (a *Annotator) PointerUp(ctx context.Context) {
	a.mu.Lock()
	if a.mode != domain.ModeFreehand {
		a.mu.Unlock()
		return
	}
	action, ok := a.canvas.End()
	a.mu.Unlock()
	if ok {
		a.committed(ctx, action)
	}
}

// Undo reverts the latest action. No-op with an empty history.
func (a *Annotator) Undo(ctx context.Context) {
	a.mu.Lock()
	action, ok := a.canvas.Undo()
	a.mu.Unlock()
	if ok {
		a.committed(ctx, action)
	}
}

// Redo reapplies the latest undone action. No-op with an empty redo stack.
func (a *Annotator) Redo(ctx context.Context) {
	a.mu.Lock()
	action, ok := a.canvas.Redo()
	a.mu.Unlock()
	if ok {
		a.committed(ctx, action)
	}
}

// ClearAll removes every stroke as a single undoable action.
func (a *Annotator) ClearAll(ctx context.Context) {
	a.mu.Lock()
	action := a.canvas.ClearAll()
	a.mu.Unlock()
	a.committed(ctx, action)
}

// SelectPencil activates the pencil.
func (a *Annotator) SelectPencil() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.canvas.SetTool(domain.ToolPencil)
}

// SelectEraser activates the eraser.
func (a *Annotator) SelectEraser() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.canvas.SetTool(domain.ToolEraser)
}

// SelectColor sets the pencil color. Colors outside the palette are rejected.
func (a *Annotator) SelectColor(c domain.Color) error {
	if _, err := domain.ParseColor(string(c)); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.canvas.SetColor(c)
	return nil
}

// Tool returns the active tool.
func (a *Annotator) Tool() domain.Tool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.canvas.Tool()
}

// Color returns the active pencil color.
func (a *Annotator) Color() domain.Color {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.canvas.Color()
}

// Mode returns the active mode.
func (a *Annotator) Mode() domain.Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// ToggleMode switches between freehand and lasso. Entering lasso attaches the
// capture collaborator with the current vertex list; leaving detaches it.
// A gesture in progress is dropped. Strokes are kept across switches.
func (a *Annotator) ToggleMode() domain.Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.canvas.Cancel()
	a.mode = a.mode.Toggle()
	switch a.mode {
	case domain.ModeLasso:
		a.attachLasso()
	case domain.ModeFreehand:
		if a.lasso != nil {
			a.lasso.Detach()
		}
	}
	a.logger.Debug("mode changed", "mode", a.mode)
	return a.mode
}

// attachLasso must be called with a.mu held.
func (a *Annotator) attachLasso() {
	if a.lasso == nil {
		return
	}
	a.lasso.Attach(a.image, a.lassoPoints, ports.LassoEvents{
		OnChange:   a.setLassoPoints,
		OnComplete: a.setPreview,
	})
}

func (a *Annotator) setLassoPoints(points []domain.Point) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lassoPoints = append([]domain.Point(nil), points...)
}

func (a *Annotator) setPreview(img image.Image) {
	a.mu.Lock()
	a.preview = img
	hook := a.hooks.OnPreview
	a.mu.Unlock()
	if hook != nil {
		hook(img)
	}
}

// Points returns what a save would persist right now: the lasso vertices in
// lasso mode, otherwise the stitched strokes.
func (a *Annotator) Points() []domain.Point {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.points()
}

func (a *Annotator) points() []domain.Point {
	if a.mode == domain.ModeLasso {
		return append([]domain.Point(nil), a.lassoPoints...)
	}
	return runtime.Order(a.canvas.Strokes())
}

// Save persists the current points under the word id.
//
// A save with no points returns *domain.EmptyAnnotationError and never reaches
// the store. A store failure is logged, kept as LastError and reported through
// OnSaveFailed only; OnSaved is the sole operator-facing signal.
// The session is not locked while the store call is in flight.
func (a *Annotator) Save(ctx context.Context) error {
	a.mu.Lock()
	mode := a.mode
	points := a.points()
	a.mu.Unlock()
	return a.save(ctx, mode, points)
}

// SaveAsync snapshots the current points and saves them in the background.
// The returned channel receives the result and is then closed. Overlapping
// saves are not de-duplicated.
func (a *Annotator) SaveAsync(ctx context.Context) <-chan error {
	a.mu.Lock()
	mode := a.mode
	points := a.points()
	a.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- a.save(ctx, mode, points)
	}()
	return done
}

func (a *Annotator) save(ctx context.Context, mode domain.Mode, points []domain.Point) error {
	if len(points) == 0 {
		return &domain.EmptyAnnotationError{WordID: a.word, Mode: mode}
	}
	event := domain.SaveEvent{WordID: a.word, Mode: mode, Points: len(points)}

	if err := a.store.Save(ctx, a.word, domain.FromPoints(points)); err != nil {
		event.Err = fmt.Errorf("failed to save coordinates: %w", err)
		a.logger.Error("save failed", "mode", mode, "points", len(points), "error", err)
		a.mu.Lock()
		a.lastErr = event.Err
		hook := a.hooks.OnSaveFailed
		a.mu.Unlock()
		if hook != nil {
			hook(ctx, event)
		}
		return event.Err
	}

	a.logger.Info("coordinates saved", "mode", mode, "points", len(points))
	a.mu.Lock()
	hook := a.hooks.OnSaved
	a.mu.Unlock()
	if hook != nil {
		hook(ctx, event)
	}
	return nil
}

// Load rehydrates persisted coordinates into the lasso vertex list.
// Absent data or a store failure leaves the list empty; failures are logged
// and kept as LastError but not returned.
func (a *Annotator) Load(ctx context.Context) {
	coords, err := a.store.Load(ctx, a.word)
	var points []domain.Point
	switch {
	case err == nil:
		points = coords.Points()
	case errors.Is(err, domain.ErrWordNotFound):
		a.logger.Debug("no persisted coordinates")
	default:
		a.logger.Error("load failed", "error", err)
	}

	a.mu.Lock()
	a.lassoPoints = points
	if err != nil && !errors.Is(err, domain.ErrWordNotFound) {
		a.lastErr = fmt.Errorf("failed to load coordinates: %w", err)
	}
	if a.mode == domain.ModeLasso {
		a.attachLasso()
	}
	hook := a.hooks.OnLoaded
	a.mu.Unlock()

	if hook != nil {
		hook(ctx, a.word, append([]domain.Point(nil), points...))
	}
}

// LoadImage opens the reference image in the background. On completion the
// canvas width is recomputed from the image aspect ratio and the canvas is
// redrawn. The returned channel receives the result and is then closed.
func (a *Annotator) LoadImage(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	a.mu.Lock()
	src := a.source
	a.mu.Unlock()
	if src == nil {
		done <- ErrNoImageSource
		close(done)
		return done
	}

	go func() {
		defer close(done)
		img, err := src.Open(ctx)
		if err != nil {
			a.logger.Error("image load failed", "error", err)
			a.mu.Lock()
			a.lastErr = err
			a.mu.Unlock()
			done <- err
			return
		}

		a.mu.Lock()
		a.image = img
		a.size = render.CanvasSize(img.Bounds(), a.limits.CanvasHeight)
		if a.mode == domain.ModeLasso {
			a.attachLasso()
		}
		size := a.size
		strokes := a.canvas.Strokes()
		redraw := a.hooks.OnRedraw
		a.mu.Unlock()

		a.logger.Debug("image loaded", "width", size.Width, "height", size.Height)
		if redraw != nil {
			redraw(strokes)
		}
		done <- nil
	}()
	return done
}

// Back asks confirm whether to leave without saving and returns its answer.
// A nil confirm always leaves.
func (a *Annotator) Back(confirm func(prompt string) bool) bool {
	if confirm == nil {
		return true
	}
	return confirm(BackPrompt)
}

// CanvasSize returns the display size of the freehand canvas.
func (a *Annotator) CanvasSize() render.Size {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.size
}

// Strokes returns the committed strokes in store order.
func (a *Annotator) Strokes() []domain.Stroke {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.canvas.Strokes()
}

// LassoPoints returns the lasso vertex list.
func (a *Annotator) LassoPoints() []domain.Point {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.Point(nil), a.lassoPoints...)
}

// Preview returns the latest cropped lasso region, or nil.
func (a *Annotator) Preview() image.Image {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.preview
}

// Snapshot renders the current view: the strokes in freehand mode, the
// polygon outline in lasso mode, over the reference image when loaded.
func (a *Annotator) Snapshot() image.Image {
	a.mu.Lock()
	defer a.mu.Unlock()
	size := a.size
	if size.Width == 0 {
		size.Width = size.Height
	}
	if a.mode == domain.ModeLasso {
		return render.Polygon(size, a.image, a.lassoPoints, domain.ColorTeal)
	}
	return render.Composite(size, a.image, a.canvas.Strokes())
}

// LastError returns the latest internally recorded save, load or image failure.
func (a *Annotator) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// HistoryLen returns the undo and redo stack sizes.
func (a *Annotator) HistoryLen() (undo, redo int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	h := a.canvas.History()
	return h.Len(), h.RedoLen()
}

func (a *Annotator) committed(ctx context.Context, action domain.Action) {
	a.mu.Lock()
	onCommit, onRedraw := a.hooks.OnCommit, a.hooks.OnRedraw
	strokes := a.canvas.Strokes()
	a.mu.Unlock()

	a.logger.Debug("strokes committed", "strokes", len(action.NewState))
	if onCommit != nil {
		onCommit(ctx, action)
	}
	if onRedraw != nil {
		onRedraw(strokes)
	}
}
