package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/aretw0/inkmap/pkg/domain"
)

// record is the on-disk shape, matching the coordinate API payload.
type record struct {
	WordID      domain.WordID      `json:"word_id"`
	Coordinates domain.Coordinates `json:"coordinates"`
}

// Store implements ports.CoordinateStore using the local filesystem.
// It stores one JSON file per word in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".inkmap/coordinates".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".inkmap", "coordinates")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(wordID domain.WordID) string {
	return filepath.Join(s.BasePath, string(wordID)+".json")
}

// Save persists the coordinates to a JSON file.
func (s *Store) Save(ctx context.Context, wordID domain.WordID, coords domain.Coordinates) error {
	if err := wordID.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure coordinate directory: %w", err)
	}

	if coords == nil {
		coords = domain.Coordinates{}
	}
	data, err := json.MarshalIndent(record{WordID: wordID, Coordinates: coords}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal coordinates: %w", err)
	}

	// Write then rename so a concurrent Load never sees a half-written file.
	tmp, err := os.CreateTemp(s.BasePath, string(wordID)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create coordinate file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write coordinate file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write coordinate file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(wordID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace coordinate file: %w", err)
	}

	return nil
}

// Load retrieves the coordinates from a JSON file.
func (s *Store) Load(ctx context.Context, wordID domain.WordID) (domain.Coordinates, error) {
	if err := wordID.Validate(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(wordID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrWordNotFound
		}
		return nil, fmt.Errorf("failed to read coordinate file: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal coordinates: %w", err)
	}

	return rec.Coordinates, nil
}

// Delete removes the coordinate file.
func (s *Store) Delete(ctx context.Context, wordID domain.WordID) error {
	if err := wordID.Validate(); err != nil {
		return err
	}

	err := os.Remove(s.path(wordID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete coordinate file: %w", err)
	}

	return nil
}

// List returns all annotated word IDs.
func (s *Store) List(ctx context.Context) ([]domain.WordID, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.WordID{}, nil
		}
		return nil, fmt.Errorf("failed to list coordinates: %w", err)
	}

	var words []domain.WordID
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			name := entry.Name()
			words = append(words, domain.WordID(name[:len(name)-len(".json")]))
		}
	}
	sort.Slice(words, func(i, j int) bool { return words[i] < words[j] })

	return words, nil
}
