/*
Package domain contains the policy tree model and the two operations defined on it.

A policy tree is a strict binary tree. Every leaf recommends an action (a 0-based
index into an action set defined by the caller) and every branch splits the input
space on one feature at a threshold. Each node carries a cumulative reward; a branch
built with NewBranch stores the sum of its children's rewards.

The package is kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Node: sealed interface implemented by *Leaf and *Branch.
  - Prune: one simplification pass removing repeated cuts and merging sibling leaves
    that agree on their action.
  - Table: breadth-first, 1-indexed array-of-records encoding consumed by external
    hosts. Internal indices (axis, action) are 0-based, table indices are 1-based.

# Usage

	root := domain.NewBranch(
		domain.NewLeaf(1.0, 0),
		domain.NewLeaf(2.0, 0),
		0, 0.5,
	)
	pruned := domain.Prune(root) // leaf(action=0, reward=3)
	table := domain.ToTable(pruned)
	// [{is_leaf: true, action: 1}]
*/
package domain
