package ports

import (
	"context"

	"github.com/aretw0/inkmap/pkg/domain"
)

// CoordinateStore defines the persistence capability for annotations.
// Each word owns at most one coordinate sequence; saving replaces it.
type CoordinateStore interface {
	// Save persists the coordinates for a word.
	Save(ctx context.Context, wordID domain.WordID, coords domain.Coordinates) error

	// Load retrieves the coordinates for a word.
	// Returns domain.ErrWordNotFound if the word has no annotation.
	Load(ctx context.Context, wordID domain.WordID) (domain.Coordinates, error)

	// Delete removes the annotation of a word. Deleting a missing word is not an error.
	Delete(ctx context.Context, wordID domain.WordID) error

	// List returns the words that currently have an annotation.
	List(ctx context.Context) ([]domain.WordID, error)
}
