package observability

import (
	"context"

	"github.com/aretw0/policytree/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by the engine hooks.
type Metrics struct {
	Prunes        prometheus.Counter
	NodesRemoved  prometheus.Counter
	PruneDuration prometheus.Histogram
	TableRecords  prometheus.Histogram
	Flattens      prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Prunes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "policytree_prune_total",
			Help: "Total number of simplification passes",
		}),
		NodesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "policytree_nodes_removed_total",
			Help: "Total number of nodes removed by simplification",
		}),
		PruneDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "policytree_prune_duration_seconds",
			Help:    "Duration of simplification passes",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		Flattens: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "policytree_flatten_total",
			Help: "Total number of flattened trees",
		}),
		TableRecords: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "policytree_table_records",
			Help:    "Number of records per flattened table",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Prunes, m.NodesRemoved, m.PruneDuration, m.Flattens, m.TableRecords)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnPrune: func(ctx context.Context, e *domain.PruneEvent) {
			m.Prunes.Inc()
			if removed := e.Removed(); removed > 0 {
				m.NodesRemoved.Add(float64(removed))
			}
			m.PruneDuration.Observe(e.Duration.Seconds())
		},
		OnFlatten: func(ctx context.Context, e *domain.FlattenEvent) {
			m.Flattens.Inc()
			m.TableRecords.Observe(float64(e.Records))
		},
	}
}

// Chain combines several hook sets. Every non-nil callback runs in order.
func Chain(hooks ...domain.Hooks) domain.Hooks {
	return domain.Hooks{
		OnPrune: func(ctx context.Context, e *domain.PruneEvent) {
			for _, h := range hooks {
				if h.OnPrune != nil {
					h.OnPrune(ctx, e)
				}
			}
		},
		OnFlatten: func(ctx context.Context, e *domain.FlattenEvent) {
			for _, h := range hooks {
				if h.OnFlatten != nil {
					h.OnFlatten(ctx, e)
				}
			}
		},
	}
}
