package domain

import (
	"cmp"
	"fmt"
)

// Reward is the cumulative reward attached to every node.
// It is totally ordered: NaN equals NaN and sorts below every other value.
type Reward float64

// Compare returns -1, 0 or +1 depending on whether r is less than, equal to or
// greater than other.
func (r Reward) Compare(other Reward) int {
	return cmp.Compare(r, other)
}

// Equal reports whether r and other are equal under the total order.
func (r Reward) Equal(other Reward) bool {
	return r.Compare(other) == 0
}

// Node is a node of a policy tree. It is either a *Leaf or a *Branch.
type Node interface {
	// Reward returns the cumulative reward stored on the node.
	Reward() Reward
	// IsLeaf reports whether the node is a *Leaf.
	IsLeaf() bool

	sealed()
}

// Leaf is a terminal node recommending a single action.
type Leaf struct {
	action int
	reward Reward
}

// NewLeaf builds a leaf recommending action (0-based) with the given reward.
func NewLeaf(reward Reward, action int) *Leaf {
	if action < 0 {
		panic(fmt.Sprintf("domain: negative action %d", action))
	}
	return &Leaf{action: action, reward: reward}
}

// Action returns the 0-based action index.
func (l *Leaf) Action() int { return l.action }

// Reward returns the reward of the leaf.
func (l *Leaf) Reward() Reward { return l.reward }

// IsLeaf always returns true.
func (l *Leaf) IsLeaf() bool { return true }

func (l *Leaf) sealed() {}

func (l *Leaf) String() string {
	return fmt.Sprintf("leaf(action=%d, reward=%g)", l.action, float64(l.reward))
}

// Branch is an internal node splitting the input space on one axis.
// Points with a value at or below the cut point go left.
type Branch struct {
	axis     int
	cutPoint float64
	reward   Reward
	left     Node
	right    Node
}

// NewBranch builds a branch that takes ownership of left and right.
// The branch reward is the sum of the children's rewards.
func NewBranch(left, right Node, axis int, cutPoint float64) *Branch {
	if left == nil || right == nil {
		panic("domain: branch requires two children")
	}
	return &Branch{
		axis:     axis,
		cutPoint: cutPoint,
		reward:   left.Reward() + right.Reward(),
		left:     left,
		right:    right,
	}
}

// RestoreBranch builds a branch carrying a previously stored reward instead of
// the sum of its children. A pruned tree keeps the rewards of collapsed
// subtrees on their ancestors, so reloading it must not recompute them.
func RestoreBranch(left, right Node, axis int, cutPoint float64, reward Reward) *Branch {
	if left == nil || right == nil {
		panic("domain: branch requires two children")
	}
	return &Branch{
		axis:     axis,
		cutPoint: cutPoint,
		reward:   reward,
		left:     left,
		right:    right,
	}
}

// Axis returns the 0-based index of the split feature.
func (b *Branch) Axis() int { return b.axis }

// CutPoint returns the split threshold.
func (b *Branch) CutPoint() float64 { return b.cutPoint }

// Left returns the left child.
func (b *Branch) Left() Node { return b.left }

// Right returns the right child.
func (b *Branch) Right() Node { return b.right }

// Reward returns the reward stored on the branch.
func (b *Branch) Reward() Reward { return b.reward }

// IsLeaf always returns false.
func (b *Branch) IsLeaf() bool { return false }

func (b *Branch) sealed() {}

func (b *Branch) String() string {
	return fmt.Sprintf("branch(axis=%d, cut=%g, reward=%g)", b.axis, b.cutPoint, float64(b.reward))
}

// sameCut reports whether b and other split on the same axis at the same threshold.
func (b *Branch) sameCut(other *Branch) bool {
	return b.axis == other.axis && cmp.Compare(b.cutPoint, other.cutPoint) == 0
}

// Compare orders two nodes by reward.
func Compare(a, b Node) int {
	return a.Reward().Compare(b.Reward())
}

// SameReward reports whether two nodes carry equal rewards.
func SameReward(a, b Node) bool {
	return a.Reward().Equal(b.Reward())
}

// Tree owns the root of a policy tree.
type Tree struct {
	Root Node
}

// NewTree wraps root in a Tree.
func NewTree(root Node) *Tree {
	return &Tree{Root: root}
}

// Prune simplifies the tree in place. See Prune.
func (t *Tree) Prune() {
	t.Root = Prune(t.Root)
}

// Table flattens the tree. See ToTable.
func (t *Tree) Table() Table {
	return ToTable(t.Root)
}

// Stats summarises the tree. See Stats.
func (t *Tree) Stats() Summary {
	return Stats(t.Root)
}

func mustBranch(n Node) *Branch {
	b, ok := n.(*Branch)
	if !ok {
		panic(fmt.Sprintf("domain: unexpected node type %T", n))
	}
	return b
}
