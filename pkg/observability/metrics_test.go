package observability_test

import (
	"context"
	"testing"

	"github.com/aretw0/policytree"
	"github.com/aretw0/policytree/pkg/domain"
	"github.com/aretw0/policytree/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordEngineActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	eng := policytree.New(policytree.WithHooks(m.Hooks()))
	ctx := context.Background()

	pruned, _ := eng.Prune(ctx, domain.NewBranch(domain.NewLeaf(1, 0), domain.NewLeaf(2, 0), 0, 0.5))
	eng.Flatten(ctx, pruned)
	eng.Prune(ctx, domain.NewBranch(domain.NewLeaf(1, 0), domain.NewLeaf(2, 1), 0, 0.5))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Prunes))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.NodesRemoved))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Flattens))

	count, err := testutil.GatherAndCount(reg, "policytree_prune_duration_seconds", "policytree_table_records")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_NilRegistry(t *testing.T) {
	assert.NotPanics(t, func() {
		m := observability.NewMetrics(nil)
		m.Hooks().OnPrune(context.Background(), &domain.PruneEvent{})
	})
}

func TestChain(t *testing.T) {
	var calls []string
	hooks := observability.Chain(
		domain.Hooks{OnPrune: func(context.Context, *domain.PruneEvent) { calls = append(calls, "a") }},
		domain.Hooks{},
		domain.Hooks{
			OnPrune:   func(context.Context, *domain.PruneEvent) { calls = append(calls, "b") },
			OnFlatten: func(context.Context, *domain.FlattenEvent) { calls = append(calls, "f") },
		},
	)

	hooks.OnPrune(context.Background(), &domain.PruneEvent{})
	hooks.OnFlatten(context.Background(), &domain.FlattenEvent{})

	assert.Equal(t, []string{"a", "b", "f"}, calls)
}
