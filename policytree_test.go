package policytree_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/policytree"
	"github.com/aretw0/policytree/pkg/adapters/memory"
	"github.com/aretw0/policytree/pkg/domain"
	"github.com/aretw0/policytree/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_PruneFiresHook(t *testing.T) {
	var events []*domain.PruneEvent
	eng := policytree.New(policytree.WithHooks(domain.Hooks{
		OnPrune: func(ctx context.Context, e *domain.PruneEvent) {
			events = append(events, e)
		},
	}))

	root := domain.NewBranch(
		domain.NewBranch(domain.NewLeaf(1, 0), domain.NewLeaf(2, 0), 1, 0.1),
		domain.NewBranch(domain.NewLeaf(3, 0), domain.NewLeaf(4, 0), 1, 0.9),
		0, 0.5,
	)

	pruned, report := eng.Prune(context.Background(), root)

	assert.True(t, pruned.IsLeaf())
	assert.Equal(t, 7, report.Before.Nodes)
	assert.Equal(t, 1, report.After.Nodes)
	assert.Equal(t, 6, report.Removed)
	assert.GreaterOrEqual(t, report.Duration, time.Duration(0))

	require.Len(t, events, 1)
	assert.Equal(t, domain.EventPrune, events[0].Type)
	assert.Equal(t, 6, events[0].Removed())
}

func TestEngine_FlattenFiresHook(t *testing.T) {
	var records int
	eng := policytree.New(policytree.WithHooks(domain.Hooks{
		OnFlatten: func(ctx context.Context, e *domain.FlattenEvent) {
			records = e.Records
		},
	}))

	table := eng.Flatten(context.Background(), domain.NewBranch(domain.NewLeaf(1, 0), domain.NewLeaf(2, 1), 0, 0.5))

	assert.Len(t, table, 3)
	assert.Equal(t, 3, records)
}

func TestEngine_Process(t *testing.T) {
	eng := policytree.New()
	doc := schema.Branch(0, 0.5, schema.Leaf(0, 1), schema.Leaf(1, 2))

	res, err := eng.Process(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, domain.Table{
		{SplitVariable: 1, SplitValue: 0.5, LeftChild: 2, RightChild: 3},
		{IsLeaf: true, Action: 1},
		{IsLeaf: true, Action: 2},
	}, res.Table)
	assert.Equal(t, 0, res.Report.Removed)
	require.NotNil(t, res.Tree.Reward)
	assert.Equal(t, 3.0, *res.Tree.Reward)
}

func TestEngine_ProcessInvalid(t *testing.T) {
	eng := policytree.New()

	_, err := eng.Process(context.Background(), schema.Branch(0, 0.5, schema.Leaf(0, 1), nil))
	require.Error(t, err)
	assert.NotEmpty(t, schema.ValidationErrors(err))
}

func TestEngine_Storage(t *testing.T) {
	ctx := context.Background()
	eng := policytree.New(policytree.WithStore(memory.NewStore()))

	require.NoError(t, eng.Save(ctx, "t1", domain.NewLeaf(2, 1)))

	ids, err := eng.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, ids)

	root, err := eng.Load(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.Reward(2), root.Reward())

	require.NoError(t, eng.Delete(ctx, "t1"))
	_, err = eng.Load(ctx, "t1")
	assert.ErrorIs(t, err, domain.ErrTreeNotFound)
}

func TestEngine_NoStore(t *testing.T) {
	ctx := context.Background()
	eng := policytree.New()

	assert.ErrorIs(t, eng.Save(ctx, "x", domain.NewLeaf(1, 0)), policytree.ErrNoStore)
	_, err := eng.Load(ctx, "x")
	assert.ErrorIs(t, err, policytree.ErrNoStore)
	assert.ErrorIs(t, eng.Delete(ctx, "x"), policytree.ErrNoStore)
	_, err = eng.List(ctx)
	assert.ErrorIs(t, err, policytree.ErrNoStore)
}
