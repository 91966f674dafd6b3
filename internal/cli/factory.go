// Package cli holds the wiring shared by the inkmap commands.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/inkmap"
	"github.com/aretw0/inkmap/internal/config"
	"github.com/aretw0/inkmap/pkg/adapters/file"
	httpAdapter "github.com/aretw0/inkmap/pkg/adapters/http"
	"github.com/aretw0/inkmap/pkg/adapters/imagesrc"
	"github.com/aretw0/inkmap/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/inkmap/pkg/adapters/redis"
	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/aretw0/inkmap/pkg/lasso"
	"github.com/aretw0/inkmap/pkg/persistence/middleware"
	"github.com/aretw0/inkmap/pkg/ports"
	"github.com/aretw0/inkmap/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
)

// Stack is a configured coordinate store and what it needs to shut down.
type Stack struct {
	Store   *session.Manager
	Metrics *prometheus.Registry
	closers []func() error
}

// Close releases backend connections.
func (s *Stack) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// BuildStore creates the backend selected by cfg, wrapped with metrics,
// logging and per-word locking. The redis backend also locks across processes.
func BuildStore(cfg config.Config, logger *slog.Logger) (*Stack, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	stack := &Stack{Metrics: prometheus.NewRegistry()}
	managerOpts := []session.Option{
		session.WithLogger(logger),
		session.WithLockTTL(cfg.Store.LockTTL),
	}

	var base ports.CoordinateStore
	switch cfg.Store.Backend {
	case config.BackendMemory:
		base = memory.NewStore()
	case config.BackendFile:
		base = file.New(cfg.Store.Dir)
	case config.BackendHTTP:
		base = httpAdapter.NewClient(cfg.Store.URL)
	case config.BackendRedis:
		rc := cfg.Store.Redis
		store := redisAdapter.New(rc.Addr, rc.Password, rc.DB,
			redisAdapter.WithPrefix(rc.Prefix),
			redisAdapter.WithTTL(rc.TTL),
		)
		base = store
		stack.closers = append(stack.closers, store.Close)
		managerOpts = append(managerOpts, session.WithLocker(redisAdapter.NewLocker(store.Client(), rc.Prefix)))
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	metrics := middleware.NewMetrics(stack.Metrics)
	wrapped := middleware.Chain(base, metrics.Middleware(), middleware.NewLoggingMiddleware(logger))
	stack.Store = session.NewManager(wrapped, managerOpts...)

	logger.Debug("store ready", "backend", cfg.Store.Backend)
	return stack, nil
}

// AnnotatorOptions are the inputs of NewAnnotator beyond the config.
type AnnotatorOptions struct {
	WordID domain.WordID
	Image  string // path or URL of the reference image, optional
	Hooks  domain.Hooks
}

// NewAnnotator builds a session bound to store. The lasso capture is returned
// so callers can drive polygon edits.
func NewAnnotator(cfg config.Config, store ports.CoordinateStore, logger *slog.Logger, opts AnnotatorOptions) (*inkmap.Annotator, *lasso.Capture, error) {
	capture := lasso.New(lasso.WithDisplayHeight(cfg.Limits.CanvasHeight))
	annotatorOpts := []inkmap.Option{
		inkmap.WithStore(store),
		inkmap.WithLogger(logger),
		inkmap.WithLimits(cfg.Limits),
		inkmap.WithLasso(capture),
		inkmap.WithHooks(opts.Hooks),
	}
	if opts.Image != "" {
		annotatorOpts = append(annotatorOpts, inkmap.WithImageSource(imagesrc.Resolve(opts.Image)))
	}

	a, err := inkmap.New(opts.WordID, annotatorOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing annotator: %w", err)
	}
	return a, capture, nil
}
