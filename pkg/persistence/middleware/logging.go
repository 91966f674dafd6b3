package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/aretw0/inkmap/pkg/ports"
)

// NewLoggingMiddleware logs writes at info level and failures at error level.
// A missing word on Load is not a failure.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.CoordinateStore) ports.CoordinateStore {
		return &loggingStore{next: next, logger: logger}
	}
}

type loggingStore struct {
	next   ports.CoordinateStore
	logger *slog.Logger
}

func (s *loggingStore) Save(ctx context.Context, wordID domain.WordID, coords domain.Coordinates) error {
	err := s.next.Save(ctx, wordID, coords)
	if err != nil {
		s.logger.ErrorContext(ctx, "store save failed", "word_id", string(wordID), "error", err)
		return err
	}
	s.logger.InfoContext(ctx, "store save", "word_id", string(wordID), "points", len(coords))
	return nil
}

func (s *loggingStore) Load(ctx context.Context, wordID domain.WordID) (domain.Coordinates, error) {
	coords, err := s.next.Load(ctx, wordID)
	if err != nil && !errors.Is(err, domain.ErrWordNotFound) {
		s.logger.ErrorContext(ctx, "store load failed", "word_id", string(wordID), "error", err)
	}
	return coords, err
}

func (s *loggingStore) Delete(ctx context.Context, wordID domain.WordID) error {
	err := s.next.Delete(ctx, wordID)
	if err != nil {
		s.logger.ErrorContext(ctx, "store delete failed", "word_id", string(wordID), "error", err)
		return err
	}
	s.logger.InfoContext(ctx, "store delete", "word_id", string(wordID))
	return nil
}

func (s *loggingStore) List(ctx context.Context) ([]domain.WordID, error) {
	words, err := s.next.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "store list failed", "error", err)
	}
	return words, err
}
