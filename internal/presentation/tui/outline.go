package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/policytree/pkg/domain"
	"github.com/xlab/treeprint"
)

// Outline draws the tree as an indented outline. The yes edge (x <= cut)
// is listed before the no edge.
func Outline(root domain.Node) string {
	t := treeprint.NewWithRoot(describe(root))
	addChildren(t, root)
	return t.String()
}

func addChildren(t treeprint.Tree, n domain.Node) {
	b, ok := n.(*domain.Branch)
	if !ok {
		return
	}
	for _, edge := range []struct {
		tag   string
		child domain.Node
	}{{"yes", b.Left()}, {"no", b.Right()}} {
		text := edge.tag + ": " + describe(edge.child)
		if edge.child.IsLeaf() {
			t.AddNode(text)
			continue
		}
		addChildren(t.AddBranch(text), edge.child)
	}
}

func describe(n domain.Node) string {
	switch n := n.(type) {
	case *domain.Leaf:
		return fmt.Sprintf("action %d (reward %g)", n.Action()+1, float64(n.Reward()))
	case *domain.Branch:
		return fmt.Sprintf("x%d <= %g (reward %g)", n.Axis()+1, n.CutPoint(), float64(n.Reward()))
	default:
		panic(fmt.Sprintf("tui: unexpected node type %T", n))
	}
}

// SummaryMarkdown renders a tree summary as a markdown document.
func SummaryMarkdown(title string, s domain.Summary) string {
	actions := make([]string, len(s.Actions))
	for i, a := range s.Actions {
		actions[i] = fmt.Sprintf("%d", a+1)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	sb.WriteString("| metric | value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| nodes | %d |\n", s.Nodes)
	fmt.Fprintf(&sb, "| leaves | %d |\n", s.Leaves)
	fmt.Fprintf(&sb, "| branches | %d |\n", s.Branches)
	fmt.Fprintf(&sb, "| depth | %d |\n", s.Depth)
	fmt.Fprintf(&sb, "| reward | %g |\n", float64(s.Reward))
	fmt.Fprintf(&sb, "| actions | %s |\n", strings.Join(actions, ", "))
	return sb.String()
}
