package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/inkmap/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.CoordinateStore using Redis.
// Each word is a JSON string key; a sorted set indexes annotated words.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for annotations.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "inkmap:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(wordID domain.WordID) string {
	return s.prefix + "coords:" + string(wordID)
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the coordinates to Redis.
func (s *Store) Save(ctx context.Context, wordID domain.WordID, coords domain.Coordinates) error {
	if err := wordID.Validate(); err != nil {
		return err
	}
	if coords == nil {
		coords = domain.Coordinates{}
	}
	data, err := json.Marshal(coords)
	if err != nil {
		return fmt.Errorf("failed to marshal coordinates: %w", err)
	}

	pipe := s.client.Pipeline()

	pipe.Set(ctx, s.key(wordID), data, s.ttl)

	// Score = Now + TTL so List can prune expired members lazily.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}

	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: string(wordID),
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}

	return nil
}

// Load retrieves the coordinates from Redis.
func (s *Store) Load(ctx context.Context, wordID domain.WordID) (domain.Coordinates, error) {
	if err := wordID.Validate(); err != nil {
		return nil, err
	}
	val, err := s.client.Get(ctx, s.key(wordID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrWordNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var coords domain.Coordinates
	if err := json.Unmarshal(val, &coords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal coordinates: %w", err)
	}

	return coords, nil
}

// Delete removes the annotation.
func (s *Store) Delete(ctx context.Context, wordID domain.WordID) error {
	if err := wordID.Validate(); err != nil {
		return err
	}

	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.key(wordID))
	pipe.ZRem(ctx, s.indexKey(), string(wordID))

	_, err := pipe.Exec(ctx)
	return err
}

// List returns annotated words, pruning expired index entries first.
func (s *Store) List(ctx context.Context) ([]domain.WordID, error) {
	now := float64(time.Now().Unix())

	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired words: %w", err)
	}

	members, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list words: %w", err)
	}

	words := make([]domain.WordID, len(members))
	for i, m := range members {
		words[i] = domain.WordID(m)
	}
	return words, nil
}

// Client returns the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
