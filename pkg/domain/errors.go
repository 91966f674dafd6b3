package domain

import (
	"errors"
	"fmt"
)

// ErrWordNotFound is returned when a word has no persisted coordinates.
var ErrWordNotFound = errors.New("word not found")

// ErrUnknownColor is returned when a color outside the palette is selected.
var ErrUnknownColor = errors.New("unknown color")

// ErrInvalidWordID is returned for identifiers that cannot key an annotation.
var ErrInvalidWordID = errors.New("invalid word id")

// EmptyAnnotationError is returned when a save is attempted with no derivable points.
type EmptyAnnotationError struct {
	WordID WordID
	Mode   Mode
}

func (e *EmptyAnnotationError) Error() string {
	return fmt.Sprintf("nothing to save for word %q in %s mode", e.WordID, e.Mode)
}
