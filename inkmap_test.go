package inkmap_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"testing"

	"github.com/aretw0/inkmap"
	"github.com/aretw0/inkmap/pkg/adapters/imagesrc"
	"github.com/aretw0/inkmap/pkg/adapters/memory"
	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/aretw0/inkmap/pkg/lasso"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	*memory.Store
	err error
}

func (f *failingStore) Save(ctx context.Context, wordID domain.WordID, coords domain.Coordinates) error {
	return f.err
}

func (f *failingStore) Load(ctx context.Context, wordID domain.WordID) (domain.Coordinates, error) {
	return nil, f.err
}

func gesture(ctx context.Context, a *inkmap.Annotator, pts ...domain.Point) {
	a.PointerDown(pts[0])
	for _, p := range pts[1:] {
		a.PointerMove(p)
	}
	a.PointerUp(ctx)
}

func pt(x, y float64) domain.Point { return domain.Point{X: x, Y: y} }

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{0, 0, 255, 255}}, image.Point{}, draw.Src)
	return img
}

func TestNew_InvalidWord(t *testing.T) {
	_, err := inkmap.New("")
	assert.ErrorIs(t, err, domain.ErrInvalidWordID)
}

func TestAnnotator_PencilCommitAndRedraw(t *testing.T) {
	ctx := context.Background()
	var redraws [][]domain.Stroke
	var a *inkmap.Annotator
	a, err := inkmap.New("7",
		inkmap.WithIDGenerator(func() string { return "s" }),
		inkmap.WithHooks(domain.Hooks{
			OnRedraw: func(strokes []domain.Stroke) {
				// Hooks run outside the lock and may read the session.
				assert.Equal(t, strokes, a.Strokes())
				redraws = append(redraws, strokes)
			},
		}),
	)
	require.NoError(t, err)

	// No tool selected: nothing is committed.
	gesture(ctx, a, pt(0, 0), pt(1, 1))
	assert.Empty(t, a.Strokes())
	assert.Empty(t, redraws)

	a.SelectPencil()
	require.NoError(t, a.SelectColor(domain.ColorRed))
	gesture(ctx, a, pt(0, 0), pt(1, 1), pt(2, 2))

	strokes := a.Strokes()
	require.Len(t, strokes, 1)
	assert.Equal(t, domain.Stroke{
		ID:    "s",
		Path:  []domain.Point{pt(0, 0), pt(1, 1), pt(2, 2)},
		Color: domain.ColorRed,
		Width: domain.DefaultPencilWidth,
	}, strokes[0])
	assert.Len(t, redraws, 1)
}

func TestAnnotator_SelectColor_Unknown(t *testing.T) {
	a, err := inkmap.New("7")
	require.NoError(t, err)

	assert.ErrorIs(t, a.SelectColor("purple"), domain.ErrUnknownColor)
	assert.Equal(t, domain.ColorBlack, a.Color())
}

func TestAnnotator_EraseUndoRedo(t *testing.T) {
	ctx := context.Background()
	a, err := inkmap.New("7")
	require.NoError(t, err)

	a.SelectPencil()
	gesture(ctx, a, pt(0, 0), pt(5, 5))
	gesture(ctx, a, pt(100, 100), pt(120, 120))
	require.Len(t, a.Strokes(), 2)

	a.SelectEraser()
	gesture(ctx, a, pt(3, 3))
	require.Len(t, a.Strokes(), 1)
	assert.Equal(t, pt(100, 100), a.Strokes()[0].Head())

	a.Undo(ctx)
	assert.Len(t, a.Strokes(), 2)
	a.Redo(ctx)
	assert.Len(t, a.Strokes(), 1)

	a.Undo(ctx)
	a.Undo(ctx)
	undo, redo := a.HistoryLen()
	assert.Equal(t, 1, undo)
	assert.Equal(t, 2, redo)

	// A new gesture discards the redo stack, even if nothing is committed.
	a.PointerDown(pt(50, 50))
	_, redo = a.HistoryLen()
	assert.Equal(t, 0, redo)
	a.Redo(ctx)
	assert.Len(t, a.Strokes(), 1)
}

func TestAnnotator_ClearAllIsUndoable(t *testing.T) {
	ctx := context.Background()
	a, err := inkmap.New("7")
	require.NoError(t, err)

	a.SelectPencil()
	gesture(ctx, a, pt(0, 0), pt(1, 1))
	before := a.Strokes()

	a.ClearAll(ctx)
	assert.Empty(t, a.Strokes())
	a.Undo(ctx)
	assert.Equal(t, before, a.Strokes())
}

func TestAnnotator_SaveFreehandStitches(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	var saved []domain.SaveEvent
	a, err := inkmap.New("42",
		inkmap.WithStore(store),
		inkmap.WithHooks(domain.Hooks{
			OnSaved: func(_ context.Context, e domain.SaveEvent) { saved = append(saved, e) },
		}),
	)
	require.NoError(t, err)

	a.SelectPencil()
	gesture(ctx, a, pt(0, 0), pt(1, 1))
	gesture(ctx, a, pt(5, 5), pt(1, 2))

	require.NoError(t, a.Save(ctx))

	coords, err := store.Load(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{{0, 0}, {1, 1}, {1, 2}, {5, 5}}, coords)
	require.Len(t, saved, 1)
	assert.Equal(t, domain.SaveEvent{WordID: "42", Mode: domain.ModeFreehand, Points: 4}, saved[0])
	assert.NoError(t, a.LastError())
}

func TestAnnotator_SaveEmpty(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	a, err := inkmap.New("42", inkmap.WithStore(store))
	require.NoError(t, err)

	var empty *domain.EmptyAnnotationError
	err = a.Save(ctx)
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, domain.ModeFreehand, empty.Mode)

	a.ToggleMode()
	err = a.Save(ctx)
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, domain.ModeLasso, empty.Mode)

	words, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestAnnotator_SaveFailureIsSilent(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")
	var saved, failed int
	a, err := inkmap.New("42",
		inkmap.WithStore(&failingStore{Store: memory.NewStore(), err: boom}),
		inkmap.WithHooks(domain.Hooks{
			OnSaved:      func(context.Context, domain.SaveEvent) { saved++ },
			OnSaveFailed: func(_ context.Context, e domain.SaveEvent) { failed++; assert.ErrorIs(t, e.Err, boom) },
		}),
	)
	require.NoError(t, err)

	a.SelectPencil()
	gesture(ctx, a, pt(0, 0), pt(1, 1))

	assert.ErrorIs(t, a.Save(ctx), boom)
	assert.ErrorIs(t, a.LastError(), boom)
	assert.Equal(t, 0, saved)
	assert.Equal(t, 1, failed)
}

func TestAnnotator_SaveAsyncDoesNotBlockDrawing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	a, err := inkmap.New("42", inkmap.WithStore(store))
	require.NoError(t, err)

	a.SelectPencil()
	gesture(ctx, a, pt(0, 0), pt(1, 1))
	done := a.SaveAsync(ctx)

	// Drawing continues while the save is in flight; the save used the snapshot.
	gesture(ctx, a, pt(9, 9), pt(8, 8))
	require.NoError(t, <-done)

	coords, err := store.Load(ctx, "42")
	require.NoError(t, err)
	assert.Len(t, coords, 2)
}

func TestAnnotator_LassoRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	capture := lasso.New()
	a, err := inkmap.New("42", inkmap.WithStore(store), inkmap.WithLasso(capture))
	require.NoError(t, err)
	assert.Equal(t, domain.ModeLasso, a.ToggleMode())

	capture.Add(pt(0, 0))
	capture.Add(pt(10, 0))
	capture.Add(pt(10, 10))
	require.NoError(t, a.Save(ctx))

	coords, err := store.Load(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{{0, 0}, {10, 0}, {10, 10}}, coords)

	reopened, err := inkmap.New("42", inkmap.WithStore(store))
	require.NoError(t, err)
	reopened.Load(ctx)
	assert.Equal(t, []domain.Point{pt(0, 0), pt(10, 0), pt(10, 10)}, reopened.LassoPoints())
	assert.NoError(t, reopened.LastError())
}

func TestAnnotator_LoadFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("Absent", func(t *testing.T) {
		var loaded []domain.Point
		a, err := inkmap.New("42", inkmap.WithHooks(domain.Hooks{
			OnLoaded: func(_ context.Context, _ domain.WordID, pts []domain.Point) { loaded = pts },
		}))
		require.NoError(t, err)
		a.Load(ctx)
		assert.Empty(t, a.LassoPoints())
		assert.Empty(t, loaded)
		assert.NoError(t, a.LastError())
	})

	t.Run("Store Error", func(t *testing.T) {
		boom := errors.New("timeout")
		a, err := inkmap.New("42", inkmap.WithStore(&failingStore{Store: memory.NewStore(), err: boom}))
		require.NoError(t, err)
		a.Load(ctx)
		assert.Empty(t, a.LassoPoints())
		assert.ErrorIs(t, a.LastError(), boom)
	})
}

func TestAnnotator_LoadImageResizesCanvas(t *testing.T) {
	ctx := context.Background()
	var mu sync.Mutex
	redrawn := false
	a, err := inkmap.New("42",
		inkmap.WithImageSource(imagesrc.Static{Image: solid(300, 150)}),
		inkmap.WithHooks(domain.Hooks{OnRedraw: func([]domain.Stroke) {
			mu.Lock()
			redrawn = true
			mu.Unlock()
		}}),
	)
	require.NoError(t, err)
	assert.Equal(t, float64(domain.DefaultCanvasHeight), a.CanvasSize().Height)

	require.NoError(t, <-a.LoadImage(ctx))
	assert.Equal(t, 1000.0, a.CanvasSize().Width)
	assert.Equal(t, 500.0, a.CanvasSize().Height)
	mu.Lock()
	assert.True(t, redrawn)
	mu.Unlock()

	snap := a.Snapshot()
	assert.Equal(t, image.Rect(0, 0, 1000, 500), snap.Bounds())
}

func TestAnnotator_LoadImageWithoutSource(t *testing.T) {
	a, err := inkmap.New("42")
	require.NoError(t, err)
	assert.ErrorIs(t, <-a.LoadImage(context.Background()), inkmap.ErrNoImageSource)
}

func TestAnnotator_LassoPreview(t *testing.T) {
	ctx := context.Background()
	var previews int
	capture := lasso.New()
	a, err := inkmap.New("42",
		inkmap.WithLasso(capture),
		inkmap.WithImageSource(imagesrc.Static{Image: solid(200, 200)}),
		inkmap.WithHooks(domain.Hooks{OnPreview: func(image.Image) { previews++ }}),
	)
	require.NoError(t, err)
	require.NoError(t, <-a.LoadImage(ctx))
	a.ToggleMode()

	capture.Add(pt(10, 10))
	capture.Add(pt(50, 10))
	capture.Add(pt(50, 40))
	capture.Complete()

	require.NotNil(t, a.Preview())
	assert.Equal(t, 1, previews)
}

func TestAnnotator_PointerIgnoredInLasso(t *testing.T) {
	ctx := context.Background()
	a, err := inkmap.New("42")
	require.NoError(t, err)

	a.SelectPencil()
	a.ToggleMode()
	gesture(ctx, a, pt(0, 0), pt(1, 1))
	assert.Empty(t, a.Strokes())

	a.ToggleMode()
	gesture(ctx, a, pt(0, 0), pt(1, 1))
	assert.Len(t, a.Strokes(), 1)
}

func TestAnnotator_ToggleDropsGestureInProgress(t *testing.T) {
	ctx := context.Background()
	a, err := inkmap.New("42")
	require.NoError(t, err)

	a.SelectPencil()
	a.PointerDown(pt(0, 0))
	a.PointerMove(pt(5, 5))
	a.ToggleMode()
	a.ToggleMode()

	a.PointerMove(pt(9, 9))
	a.PointerUp(ctx)
	assert.Empty(t, a.Strokes())
	undo, _ := a.HistoryLen()
	assert.Zero(t, undo)

	gesture(ctx, a, pt(1, 1), pt(2, 2))
	require.Len(t, a.Strokes(), 1)
	assert.Equal(t, []domain.Point{pt(1, 1), pt(2, 2)}, a.Strokes()[0].Path)
}

func TestAnnotator_Back(t *testing.T) {
	a, err := inkmap.New("42")
	require.NoError(t, err)

	var prompt string
	leave := a.Back(func(p string) bool {
		prompt = p
		return false
	})
	assert.False(t, leave)
	assert.Equal(t, inkmap.BackPrompt, prompt)
	assert.True(t, a.Back(nil))
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, inkmap.Version)
}
