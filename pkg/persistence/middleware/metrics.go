package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/policytree/pkg/domain"
	"github.com/aretw0/policytree/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics counts and times tree store calls by operation.
type StoreMetrics struct {
	Calls    *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewStoreMetrics creates the collectors and registers them with reg when it
// is not nil.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		Calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "policytree_store_calls_total",
			Help: "Tree store calls by operation and result",
		}, []string{"op", "result"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "policytree_store_duration_seconds",
			Help:    "Tree store call latency by operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(m.Calls, m.Duration)
	}
	return m
}

// Middleware returns a Middleware recording into m.
func (m *StoreMetrics) Middleware() Middleware {
	return func(next ports.TreeStore) ports.TreeStore {
		return &metricsMiddleware{next: next, metrics: m}
	}
}

type metricsMiddleware struct {
	next    ports.TreeStore
	metrics *StoreMetrics
}

func (m *metricsMiddleware) observe(op string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, domain.ErrTreeNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	m.metrics.Calls.WithLabelValues(op, result).Inc()
	m.metrics.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *metricsMiddleware) Save(ctx context.Context, id string, root domain.Node) error {
	start := time.Now()
	err := m.next.Save(ctx, id, root)
	m.observe("save", start, err)
	return err
}

func (m *metricsMiddleware) Load(ctx context.Context, id string) (domain.Node, error) {
	start := time.Now()
	root, err := m.next.Load(ctx, id)
	m.observe("load", start, err)
	return root, err
}

func (m *metricsMiddleware) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := m.next.Delete(ctx, id)
	m.observe("delete", start, err)
	return err
}

func (m *metricsMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.observe("list", start, err)
	return ids, err
}
