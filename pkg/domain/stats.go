package domain

import "sort"

// Summary describes the shape of a tree.
type Summary struct {
	Nodes    int    `json:"nodes" yaml:"nodes"`
	Leaves   int    `json:"leaves" yaml:"leaves"`
	Branches int    `json:"branches" yaml:"branches"`
	Depth    int    `json:"depth" yaml:"depth"`
	Reward   Reward `json:"reward" yaml:"reward"`
	// Actions lists the distinct 0-based actions recommended by the leaves, ascending.
	Actions []int `json:"actions" yaml:"actions"`
}

// Walk visits the tree rooted at n in pre-order (node, left, right), passing
// each node with its depth (the root has depth 0). Returning false from fn
// skips the children of that node.
func Walk(n Node, fn func(n Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	if b, ok := n.(*Branch); ok {
		walk(b.left, depth+1, fn)
		walk(b.right, depth+1, fn)
	}
}

// Stats computes a Summary of the tree rooted at n. The reported reward is the
// reward stored on n, which may differ from the sum over the reachable leaves
// once Prune has dropped a subtree.
func Stats(n Node) Summary {
	s := Summary{Reward: n.Reward()}
	seen := make(map[int]bool)

	Walk(n, func(n Node, depth int) bool {
		s.Nodes++
		if depth > s.Depth {
			s.Depth = depth
		}
		if l, ok := n.(*Leaf); ok {
			s.Leaves++
			if !seen[l.action] {
				seen[l.action] = true
				s.Actions = append(s.Actions, l.action)
			}
		} else {
			s.Branches++
		}
		return true
	})

	sort.Ints(s.Actions)
	return s
}

// LeafReward sums the rewards of the leaves reachable from n.
func LeafReward(n Node) Reward {
	var total Reward
	Walk(n, func(n Node, _ int) bool {
		if l, ok := n.(*Leaf); ok {
			total += l.reward
		}
		return true
	})
	return total
}
