package domain

import (
	"context"
	"image"
)

// SaveEvent describes the outcome of a persistence call.
type SaveEvent struct {
	WordID WordID
	Mode   Mode
	Points int
	Err    error
}

// Hooks defines callbacks for session observability and UI feedback.
// All fields are optional.
type Hooks struct {
	// OnCommit fires after a gesture, clear, undo or redo replaced the stroke store.
	OnCommit func(context.Context, Action)
	// OnRedraw receives the full stroke set after every mutation, in store order.
	OnRedraw func([]Stroke)
	// OnSaved is the user acknowledgement of a successful save.
	OnSaved func(context.Context, SaveEvent)
	// OnSaveFailed is internal only; the operator is not told.
	OnSaveFailed func(context.Context, SaveEvent)
	// OnLoaded fires after persisted coordinates were rehydrated into the lasso view.
	OnLoaded func(context.Context, WordID, []Point)
	// OnPreview receives the cropped lasso region on polygon completion.
	OnPreview func(image.Image)
}
