package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/aretw0/inkmap/internal/logging"
	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/aretw0/inkmap/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed replica can hold a word lock.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates access to word annotations, serializing operations on
// the same word. It does not merge or de-duplicate overlapping saves: the last
// writer wins, as with the remote store it fronts.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.CoordinateStore

	mu    sync.Mutex
	locks map[domain.WordID]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Ensure Manager can stand in for a plain store.
var _ ports.CoordinateStore = (*Manager)(nil)

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Manager over the given store.
func NewManager(store ports.CoordinateStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[domain.WordID]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(wordID) after unlocking.
func (m *Manager) acquire(wordID domain.WordID) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[wordID]
	if !exists {
		entry = &lockEntry{}
		m.locks[wordID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(wordID domain.WordID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[wordID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, wordID)
	}
}

// Save validates and persists the coordinates of a word.
func (m *Manager) Save(ctx context.Context, wordID domain.WordID, coords domain.Coordinates) error {
	if err := wordID.Validate(); err != nil {
		return err
	}
	return m.WithLock(ctx, wordID, func(ctx context.Context) error {
		if err := m.store.Save(ctx, wordID, coords); err != nil {
			return fmt.Errorf("failed to save coordinates for %s: %w", wordID, err)
		}
		m.logger.Debug("coordinates saved", "word_id", wordID, "points", len(coords))
		return nil
	})
}

// Load retrieves the coordinates of a word.
func (m *Manager) Load(ctx context.Context, wordID domain.WordID) (domain.Coordinates, error) {
	if err := wordID.Validate(); err != nil {
		return nil, err
	}
	var coords domain.Coordinates
	err := m.WithLock(ctx, wordID, func(ctx context.Context) error {
		var err error
		coords, err = m.store.Load(ctx, wordID)
		return err
	})
	return coords, err
}

// LoadOrEmpty is Load with a missing annotation mapped to an empty sequence.
func (m *Manager) LoadOrEmpty(ctx context.Context, wordID domain.WordID) (domain.Coordinates, error) {
	coords, err := m.Load(ctx, wordID)
	if errors.Is(err, domain.ErrWordNotFound) {
		return domain.Coordinates{}, nil
	}
	return coords, err
}

// Delete removes the annotation of a word.
func (m *Manager) Delete(ctx context.Context, wordID domain.WordID) error {
	if err := wordID.Validate(); err != nil {
		return err
	}
	return m.WithLock(ctx, wordID, func(ctx context.Context) error {
		return m.store.Delete(ctx, wordID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]domain.WordID, error) {
	return m.store.List(ctx)
}

// Store returns the underlying store.
func (m *Manager) Store() ports.CoordinateStore {
	return m.store
}

// WithLock executes a function while holding the lock for the word.
func (m *Manager) WithLock(ctx context.Context, wordID domain.WordID, fn func(context.Context) error) error {
	entry := m.acquire(wordID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(wordID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, string(wordID), m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"word_id", wordID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
