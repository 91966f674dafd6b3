package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/aretw0/inkmap/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for store operations.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	points     prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inkmap_store_operations_total",
				Help: "Total number of coordinate store operations",
			},
			[]string{"op", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "inkmap_store_duration_seconds",
				Help: "Duration of coordinate store operations",
			},
			[]string{"op"},
		),
		points: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "inkmap_saved_points",
				Help:    "Number of points per saved annotation",
				Buckets: prometheus.ExponentialBuckets(4, 2, 10),
			},
		),
	}
	reg.MustRegister(m.operations, m.duration, m.points)
	return m
}

// Middleware returns a store wrapper that records every call.
func (m *Metrics) Middleware() Middleware {
	return func(next ports.CoordinateStore) ports.CoordinateStore {
		return &metricsStore{next: next, m: m}
	}
}

type metricsStore struct {
	next ports.CoordinateStore
	m    *Metrics
}

func (s *metricsStore) observe(op string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, domain.ErrWordNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	s.m.operations.WithLabelValues(op, result).Inc()
	s.m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (s *metricsStore) Save(ctx context.Context, wordID domain.WordID, coords domain.Coordinates) error {
	start := time.Now()
	err := s.next.Save(ctx, wordID, coords)
	s.observe("save", start, err)
	if err == nil {
		s.m.points.Observe(float64(len(coords)))
	}
	return err
}

func (s *metricsStore) Load(ctx context.Context, wordID domain.WordID) (domain.Coordinates, error) {
	start := time.Now()
	coords, err := s.next.Load(ctx, wordID)
	s.observe("load", start, err)
	return coords, err
}

func (s *metricsStore) Delete(ctx context.Context, wordID domain.WordID) error {
	start := time.Now()
	err := s.next.Delete(ctx, wordID)
	s.observe("delete", start, err)
	return err
}

func (s *metricsStore) List(ctx context.Context) ([]domain.WordID, error) {
	start := time.Now()
	words, err := s.next.List(ctx)
	s.observe("list", start, err)
	return words, err
}
