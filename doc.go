/*
Package policytree stores and simplifies binary policy trees produced by a
tree-fitting procedure, and flattens them into the 1-indexed array-of-records
table expected by external hosts.

Every leaf recommends a discrete action and every branch splits the input
space on one numeric feature. The tree is built bottom-up by the caller, pruned
once and flattened once.

# Key Features

  - Total reward bookkeeping: a branch stores the sum of its children's rewards.
  - Single-pass simplification: repeated cuts are removed and sibling leaves that
    agree on their action are merged.
  - Stable wire format: breadth-first table, left child before right child, with
    1-based action, split variable and child indices.
  - Pluggable storage (memory, file, Redis), HTTP and MCP adapters.

# Usage

	package main

	import (
		"context"
		"fmt"

		"github.com/aretw0/policytree"
		"github.com/aretw0/policytree/pkg/domain"
	)

	func main() {
		root := domain.NewBranch(
			domain.NewLeaf(1.0, 0),
			domain.NewLeaf(2.0, 1),
			0, 0.5,
		)

		eng := policytree.New()
		ctx := context.Background()

		pruned, report := eng.Prune(ctx, root)
		fmt.Println("removed", report.Removed, "nodes")

		for _, rec := range eng.Flatten(ctx, pruned) {
			fmt.Printf("%+v\n", rec)
		}
	}
*/
package policytree
