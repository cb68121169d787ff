package domain

import "fmt"

// Prune simplifies the subtree rooted at n and returns its new root.
//
// Branches are rewritten in place. The pass removes a child branch that repeats
// its parent's axis and cut point (keeping the side that can still be reached)
// and collapses a branch whose two children are leaves recommending the same
// action into a single leaf carrying the sum of their rewards.
//
// Prune makes exactly one pass. A (branch, leaf) pair only recurses into the
// branch side and is not re-examined afterwards, and a child promoted by a
// repeated cut is not simplified again, so three or more chained identical cuts
// may need more than one call to disappear. Stored branch rewards are never
// recomputed when a subtree is dropped.
func Prune(n Node) Node {
	switch n := n.(type) {
	case *Leaf:
		return n
	case *Branch:
		return pruneBranch(n)
	default:
		panic(fmt.Sprintf("domain: unexpected node type %T", n))
	}
}

func pruneBranch(b *Branch) Node {
	switch {
	case !b.left.IsLeaf() && b.right.IsLeaf():
		b.left = Prune(b.left)

	case b.left.IsLeaf() && !b.right.IsLeaf():
		b.right = Prune(b.right)

	case !b.left.IsLeaf() && !b.right.IsLeaf():
		left, right := mustBranch(b.left), mustBranch(b.right)
		switch {
		case left.sameCut(b):
			// Everything reaching left.right would have gone right at b.
			b.left = left.left
		case right.sameCut(b):
			b.right = right.right
		default:
			b.left = Prune(b.left)
			b.right = Prune(b.right)
			return mergeLeaves(b)
		}

	default:
		return mergeLeaves(b)
	}
	return b
}

// mergeLeaves collapses b into a leaf when both children are leaves with the
// same action. Otherwise b is returned unchanged.
func mergeLeaves(b *Branch) Node {
	left, ok := b.left.(*Leaf)
	if !ok {
		return b
	}
	right, ok := b.right.(*Leaf)
	if !ok || left.action != right.action {
		return b
	}
	return &Leaf{
		action: left.action,
		reward: left.reward + right.reward,
	}
}
