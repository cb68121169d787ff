package domain_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/aretw0/policytree/pkg/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// simplified reports whether n has no repeated cut and no pair of sibling
// leaves sharing an action.
func simplified(n domain.Node) bool {
	ok := true
	domain.Walk(n, func(n domain.Node, _ int) bool {
		b, isBranch := n.(*domain.Branch)
		if !isBranch {
			return true
		}
		l, lLeaf := b.Left().(*domain.Leaf)
		r, rLeaf := b.Right().(*domain.Leaf)
		if lLeaf && rLeaf && l.Action() == r.Action() {
			ok = false
		}
		for _, child := range []domain.Node{b.Left(), b.Right()} {
			if c, isBranch := child.(*domain.Branch); isBranch && c.Axis() == b.Axis() && c.CutPoint() == b.CutPoint() {
				ok = false
			}
		}
		return ok
	})
	return ok
}

func TestPrune_MergesSiblingLeaves(t *testing.T) {
	root := domain.NewBranch(domain.NewLeaf(1.0, 0), domain.NewLeaf(2.0, 0), 0, 0.5)

	got := domain.Prune(root)

	leaf, ok := got.(*domain.Leaf)
	require.True(t, ok, "expected a leaf, got %T", got)
	assert.Equal(t, 0, leaf.Action())
	assert.Equal(t, domain.Reward(3.0), leaf.Reward())
	assert.Equal(t, domain.Table{{IsLeaf: true, Action: 1}}, domain.ToTable(got))
}

func TestPrune_KeepsDistinctActions(t *testing.T) {
	left := domain.NewLeaf(1.0, 0)
	right := domain.NewLeaf(2.0, 1)
	root := domain.NewBranch(left, right, 0, 0.5)

	got := domain.Prune(root)

	require.Same(t, root, got)
	assert.Same(t, left, root.Left())
	assert.Same(t, right, root.Right())
	assert.Equal(t, domain.Table{
		{IsLeaf: false, SplitVariable: 1, SplitValue: 0.5, LeftChild: 2, RightChild: 3},
		{IsLeaf: true, Action: 1},
		{IsLeaf: true, Action: 2},
	}, domain.ToTable(got))
}

func TestPrune_RedundantLeftCut(t *testing.T) {
	keep := domain.NewLeaf(1, 0)
	dropped := domain.NewLeaf(2, 1)
	inner := domain.NewBranch(keep, dropped, 3, 0.75)
	right := domain.NewBranch(domain.NewLeaf(4, 0), domain.NewLeaf(8, 1), 1, 0.25)
	root := domain.NewBranch(inner, right, 3, 0.75)

	got := domain.Prune(root)

	require.Same(t, root, got)
	assert.Same(t, keep, root.Left())
	assert.Same(t, right, root.Right())

	domain.Walk(got, func(n domain.Node, _ int) bool {
		assert.NotSame(t, dropped, n, "discarded subtree is still reachable")
		assert.NotSame(t, inner, n, "redundant branch is still reachable")
		return true
	})
}

func TestPrune_RedundantRightCut(t *testing.T) {
	keep := domain.NewLeaf(6, 1)
	inner := domain.NewBranch(domain.NewLeaf(5, 0), keep, 2, 1.5)
	left := domain.NewBranch(domain.NewLeaf(1, 0), domain.NewLeaf(1, 1), 0, 0)
	root := domain.NewBranch(left, inner, 2, 1.5)

	domain.Prune(root)

	assert.Same(t, left, root.Left())
	assert.Same(t, keep, root.Right())
	assert.Equal(t, domain.Reward(13), root.Reward())
}

func TestPrune_LeftCutWinsOverRightCut(t *testing.T) {
	left := domain.NewBranch(domain.NewLeaf(1, 0), domain.NewLeaf(1, 1), 0, 0.5)
	right := domain.NewBranch(domain.NewLeaf(1, 0), domain.NewLeaf(1, 1), 0, 0.5)
	root := domain.NewBranch(left, right, 0, 0.5)

	domain.Prune(root)

	assert.True(t, root.Left().IsLeaf())
	assert.Same(t, right, root.Right(), "only one repeated cut is removed per pass")
}

func TestPrune_NaNCutPointsAreEqual(t *testing.T) {
	nan := math.NaN()
	keep := domain.NewLeaf(1, 0)
	inner := domain.NewBranch(keep, domain.NewLeaf(1, 1), 0, nan)
	root := domain.NewBranch(inner, domain.NewBranch(domain.NewLeaf(1, 0), domain.NewLeaf(1, 1), 1, 0), 0, nan)

	domain.Prune(root)

	assert.Same(t, keep, root.Left())
}

func TestPrune_LeafIsNoop(t *testing.T) {
	leaf := domain.NewLeaf(1, 2)
	assert.Same(t, leaf, domain.Prune(leaf))
}

func TestPrune_IdempotentOnSimplifiedTrees(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	checked := 0
	for i := 0; i < 2000 && checked < 100; i++ {
		n := randomTree(rng, 5)
		if n.IsLeaf() || !simplified(n) {
			continue
		}
		checked++

		want := clone(n)
		got := domain.Prune(n)
		if diff := cmp.Diff(want, got, treeOpts); diff != "" {
			t.Fatalf("prune changed a simplified tree (-want +got):\n%s", diff)
		}
	}
	require.NotZero(t, checked, "generator produced no simplified trees")
}

func TestPrune_MergedLeafSumsChildren(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		r1 := domain.Reward(rng.Intn(100))
		r2 := domain.Reward(rng.Intn(100))
		action := rng.Intn(5)

		got := domain.Prune(domain.NewBranch(domain.NewLeaf(r1, action), domain.NewLeaf(r2, action), rng.Intn(4), rng.Float64()))

		want := domain.NewLeaf(r1+r2, action)
		if diff := cmp.Diff(want, got, treeOpts); diff != "" {
			t.Fatalf("merge mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestTree_PruneReplacesRoot(t *testing.T) {
	tree := domain.NewTree(domain.NewBranch(domain.NewLeaf(1, 4), domain.NewLeaf(1, 4), 0, 0))

	tree.Prune()

	assert.Equal(t, domain.Table{{IsLeaf: true, Action: 5}}, tree.Table())
}

type foreignNode struct{ domain.Node }

func TestPrune_UnknownNodePanics(t *testing.T) {
	assert.Panics(t, func() { domain.Prune(foreignNode{domain.NewLeaf(1, 0)}) })
}
