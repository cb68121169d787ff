package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/policytree/pkg/domain"
)

// Options tunes the generated chart.
type Options struct {
	// ShowReward appends the node reward to every label.
	ShowReward bool
}

// GenerateMermaid produces a Mermaid flowchart for a policy tree.
// Nodes are named n1, n2, ... after their breadth-first table slot, so the
// chart lines up with domain.ToTable. Shapes:
// - Branch: {Rhombus} labelled "x<axis> <= cut"
// - Leaf: [Rectangle] labelled "action <n>"
// Axes and actions are shown 1-based, as in the table.
func GenerateMermaid(root domain.Node, opts *Options) string {
	if opts == nil {
		opts = &Options{}
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	type slot struct {
		id   int
		node domain.Node
	}
	queue := []slot{{1, root}}
	next := 2
	var leaves []string

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		id := fmt.Sprintf("n%d", cur.id)

		switch n := cur.node.(type) {
		case *domain.Leaf:
			fmt.Fprintf(&sb, "    %s[\"%s\"]\n", id, label(fmt.Sprintf("action %d", n.Action()+1), n, opts))
			leaves = append(leaves, id)
		case *domain.Branch:
			fmt.Fprintf(&sb, "    %s{\"%s\"}\n", id, label(fmt.Sprintf("x%d <= %g", n.Axis()+1, n.CutPoint()), n, opts))
			fmt.Fprintf(&sb, "    %s -->|yes| n%d\n", id, next)
			fmt.Fprintf(&sb, "    %s -->|no| n%d\n", id, next+1)
			queue = append(queue, slot{next, n.Left()}, slot{next + 1, n.Right()})
			next += 2
		default:
			panic(fmt.Sprintf("graph: unexpected node type %T", cur.node))
		}
	}

	if len(leaves) > 0 {
		sb.WriteString("    classDef leaf fill:#dcfce7,stroke:#16a34a\n")
		fmt.Fprintf(&sb, "    class %s leaf\n", strings.Join(leaves, ","))
	}

	return sb.String()
}

func label(text string, n domain.Node, opts *Options) string {
	if opts.ShowReward {
		return fmt.Sprintf("%s <br/> reward %g", text, float64(n.Reward()))
	}
	return text
}
