package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/policytree/pkg/domain"
	"github.com/aretw0/policytree/pkg/schema"
)

// NodeBuilder describes one node of a tree under construction.
type NodeBuilder struct {
	leaf     bool
	action   int
	reward   float64
	axis     int
	cutPoint float64
	yes, no  *NodeBuilder
}

// Action starts a leaf recommending action with the given reward.
func Action(action int, reward float64) *NodeBuilder {
	return &NodeBuilder{leaf: true, action: action, reward: reward}
}

// Split starts a branch on feature axis. Samples with x[axis] <= cutPoint
// follow the Yes child.
func Split(axis int, cutPoint float64) *NodeBuilder {
	return &NodeBuilder{axis: axis, cutPoint: cutPoint}
}

// Yes sets the child taken when x[axis] <= cutPoint.
func (b *NodeBuilder) Yes(child *NodeBuilder) *NodeBuilder {
	b.yes = child
	return b
}

// No sets the child taken when x[axis] > cutPoint.
func (b *NodeBuilder) No(child *NodeBuilder) *NodeBuilder {
	b.no = child
	return b
}

// Build checks the whole description and constructs the tree.
func (b *NodeBuilder) Build() (domain.Node, error) {
	if err := b.check("$", make(map[*NodeBuilder]bool)); err != nil {
		return nil, err
	}
	return b.build(), nil
}

// MustBuild is Build for static trees; it panics on error.
func (b *NodeBuilder) MustBuild() domain.Node {
	n, err := b.Build()
	if err != nil {
		panic(err)
	}
	return n
}

// Document converts the description into its schema document.
func (b *NodeBuilder) Document() (*schema.Document, error) {
	n, err := b.Build()
	if err != nil {
		return nil, err
	}
	return schema.FromNode(n), nil
}

// check validates the description. onPath holds the builders between the
// root and b; a builder may be shared by several subtrees but must not be
// reachable from itself.
func (b *NodeBuilder) check(path string, onPath map[*NodeBuilder]bool) error {
	if b == nil {
		return fmt.Errorf("%s: missing node", path)
	}
	if onPath[b] {
		return fmt.Errorf("%s: node is its own ancestor", path)
	}
	if b.leaf {
		if b.action < 0 {
			return fmt.Errorf("%s: action must be >= 0, got %d", path, b.action)
		}
		return nil
	}

	var errs []error
	if b.axis < 0 {
		errs = append(errs, fmt.Errorf("%s: axis must be >= 0, got %d", path, b.axis))
	}
	onPath[b] = true
	if err := b.yes.check(path+".yes", onPath); err != nil {
		errs = append(errs, err)
	}
	if err := b.no.check(path+".no", onPath); err != nil {
		errs = append(errs, err)
	}
	delete(onPath, b)
	return errors.Join(errs...)
}

func (b *NodeBuilder) build() domain.Node {
	if b.leaf {
		return domain.NewLeaf(domain.Reward(b.reward), b.action)
	}
	return domain.NewBranch(b.yes.build(), b.no.build(), b.axis, b.cutPoint)
}
