package ports

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/aretw0/policytree/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractTree() domain.Node {
	return domain.NewBranch(
		domain.NewBranch(domain.NewLeaf(1, 0), domain.NewLeaf(2, 0), 1, 0.25),
		domain.NewLeaf(4.5, 1),
		0, 0.5,
	)
}

// rewards lists the stored reward of every node in pre-order.
func rewards(n domain.Node) []domain.Reward {
	var out []domain.Reward
	domain.Walk(n, func(n domain.Node, _ int) bool {
		out = append(out, n.Reward())
		return true
	})
	return out
}

// RunTreeStoreContract runs a suite of tests to verify that a TreeStore implementation
// adheres to the defined interface contract.
func RunTreeStoreContract(t *testing.T, store TreeStore) {
	ctx := context.Background()
	treeID := "contract-test-tree-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		root := contractTree()

		err := store.Save(ctx, treeID, root)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, treeID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, domain.ToTable(root), domain.ToTable(loaded))
		assert.Equal(t, domain.Stats(root), domain.Stats(loaded))
	})

	t.Run("Loaded Tree Is Independent", func(t *testing.T) {
		root := contractTree()
		require.NoError(t, store.Save(ctx, treeID, root))

		// Mutating the saved tree must not leak into the store.
		domain.Prune(root)

		loaded, err := store.Load(ctx, treeID)
		require.NoError(t, err)
		assert.Equal(t, 5, domain.Stats(loaded).Nodes)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, treeID, contractTree()))
		require.NoError(t, store.Save(ctx, treeID, domain.NewLeaf(9, 3)))

		loaded, err := store.Load(ctx, treeID)
		require.NoError(t, err)
		assert.Equal(t, domain.Table{{IsLeaf: true, Action: 4}}, domain.ToTable(loaded))
		assert.Equal(t, domain.Reward(9), loaded.Reward())
	})

	t.Run("Stored Rewards Survive", func(t *testing.T) {
		// The repeated cut drops a subtree, so the root keeps a reward larger
		// than the sum of its remaining leaves.
		root := domain.Prune(domain.NewBranch(
			domain.NewBranch(domain.NewLeaf(1, 0), domain.NewLeaf(2, 1), 0, 0.5),
			domain.NewBranch(domain.NewLeaf(4, 1), domain.NewLeaf(8, 0), 1, 0.25),
			0, 0.5,
		))
		require.Equal(t, domain.Reward(15), root.Reward())
		require.NoError(t, store.Save(ctx, treeID, root))

		loaded, err := store.Load(ctx, treeID)
		require.NoError(t, err)
		assert.Equal(t, rewards(root), rewards(loaded))
		assert.Equal(t, domain.Stats(root), domain.Stats(loaded))
	})

	t.Run("Non-Finite Values", func(t *testing.T) {
		root := domain.NewBranch(domain.NewLeaf(domain.Reward(math.Inf(1)), 0), domain.NewLeaf(2, 1), 0, math.NaN())
		require.NoError(t, store.Save(ctx, treeID, root))

		loaded, err := store.Load(ctx, treeID)
		require.NoError(t, err)
		b, ok := loaded.(*domain.Branch)
		require.True(t, ok, "loaded root should be a branch")
		assert.True(t, math.IsNaN(b.CutPoint()), "cut point = %v, want NaN", b.CutPoint())
		assert.True(t, math.IsInf(float64(b.Reward()), 1), "reward = %v, want +Inf", b.Reward())
		assert.True(t, math.IsInf(float64(b.Left().Reward()), 1))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+treeID)
		assert.ErrorIs(t, err, domain.ErrTreeNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, treeID, contractTree())
		require.NoError(t, err)

		err = store.Delete(ctx, treeID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, treeID)
		assert.ErrorIs(t, err, domain.ErrTreeNotFound, "Load after Delete should return ErrTreeNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := treeID + "-1"
		id2 := treeID + "-2"
		_ = store.Save(ctx, id1, contractTree())
		_ = store.Save(ctx, id2, domain.NewLeaf(1, 0))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
