package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/inkmap/pkg/domain"
)

// Store implements ports.CoordinateStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[domain.WordID]domain.Coordinates
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[domain.WordID]domain.Coordinates),
	}
}

// Save persists the coordinates in memory.
func (s *Store) Save(ctx context.Context, wordID domain.WordID, coords domain.Coordinates) error {
	if err := wordID.Validate(); err != nil {
		return err
	}
	// Copy to ensure isolation, similar to serialization
	copied := append(domain.Coordinates{}, coords...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[wordID] = copied
	return nil
}

// Load retrieves the coordinates from memory.
func (s *Store) Load(ctx context.Context, wordID domain.WordID) (domain.Coordinates, error) {
	if err := wordID.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	coords, ok := s.data[wordID]
	if !ok {
		return nil, domain.ErrWordNotFound
	}

	// Copy on read so callers can't mutate store state through the slice
	return append(domain.Coordinates{}, coords...), nil
}

// Delete removes the annotation.
func (s *Store) Delete(ctx context.Context, wordID domain.WordID) error {
	if err := wordID.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, wordID)
	return nil
}

// List returns annotated words in lexical order.
func (s *Store) List(ctx context.Context) ([]domain.WordID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	words := make([]domain.WordID, 0, len(s.data))
	for id := range s.data {
		words = append(words, id)
	}
	sort.Slice(words, func(i, j int) bool { return words[i] < words[j] })
	return words, nil
}
