package schema

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/policytree/pkg/domain"
)

// Document is the nested encoding of a policy tree node.
// A leaf sets Action and Reward. A branch sets Axis, CutPoint, Left and Right;
// an optional branch Reward is kept by Build instead of summing the children.
type Document struct {
	Action   *int      `json:"action,omitempty" yaml:"action,omitempty" mapstructure:"action"`
	Reward   *float64  `json:"reward,omitempty" yaml:"reward,omitempty" mapstructure:"reward"`
	Axis     *int      `json:"axis,omitempty" yaml:"axis,omitempty" mapstructure:"axis"`
	CutPoint *float64  `json:"cut_point,omitempty" yaml:"cut_point,omitempty" mapstructure:"cut_point"`
	Left     *Document `json:"left,omitempty" yaml:"left,omitempty" mapstructure:"left"`
	Right    *Document `json:"right,omitempty" yaml:"right,omitempty" mapstructure:"right"`
}

type wireDocument struct {
	Action   *int          `json:"action,omitempty"`
	Reward   *domain.Float `json:"reward,omitempty"`
	Axis     *int          `json:"axis,omitempty"`
	CutPoint *domain.Float `json:"cut_point,omitempty"`
	Left     *Document     `json:"left,omitempty"`
	Right    *Document     `json:"right,omitempty"`
}

// MarshalJSON writes NaN and infinite rewards and cut points as strings.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireDocument{
		Action:   d.Action,
		Reward:   (*domain.Float)(d.Reward),
		Axis:     d.Axis,
		CutPoint: (*domain.Float)(d.CutPoint),
		Left:     d.Left,
		Right:    d.Right,
	})
}

// Leaf returns a leaf document.
func Leaf(action int, reward float64) *Document {
	return &Document{Action: &action, Reward: &reward}
}

// Branch returns a branch document.
func Branch(axis int, cutPoint float64, left, right *Document) *Document {
	return &Document{Axis: &axis, CutPoint: &cutPoint, Left: left, Right: right}
}

// IsLeaf reports whether the document describes a leaf.
func (d *Document) IsLeaf() bool {
	return d.Action != nil
}

func (d *Document) hasBranchFields() bool {
	return d.Axis != nil || d.CutPoint != nil || d.Left != nil || d.Right != nil
}

// Validate checks the whole document and returns an *AggregateError listing
// every failure, or nil.
func (d *Document) Validate() error {
	var errs []error
	d.validate("$", &errs)
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func (d *Document) validate(path string, errs *[]error) {
	fail := func(reason string, value any) {
		*errs = append(*errs, &ValidationError{Path: path, Reason: reason, Value: value})
	}

	if d == nil {
		fail("node is missing", nil)
		return
	}

	switch {
	case d.IsLeaf() && d.hasBranchFields():
		fail("mixes leaf fields (action) with branch fields (axis, cut_point, left, right)", nil)
		return
	case !d.IsLeaf() && !d.hasBranchFields():
		fail("must define either action or axis, cut_point, left and right", nil)
		return
	}

	if d.IsLeaf() {
		if *d.Action < 0 {
			fail("action must be >= 0", *d.Action)
		}
		if d.Reward == nil {
			fail("reward is required for leaves", nil)
		}
		return
	}

	if d.Axis == nil {
		fail("axis is required for branches", nil)
	} else if *d.Axis < 0 {
		fail("axis must be >= 0", *d.Axis)
	}
	if d.CutPoint == nil {
		fail("cut_point is required for branches", nil)
	}
	d.Left.validate(path+".left", errs)
	d.Right.validate(path+".right", errs)
}

// Build validates the document and constructs the domain tree bottom-up.
func (d *Document) Build() (domain.Node, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d.build(), nil
}

func (d *Document) build() domain.Node {
	if d.IsLeaf() {
		return domain.NewLeaf(domain.Reward(*d.Reward), *d.Action)
	}
	if d.Reward != nil {
		return domain.RestoreBranch(d.Left.build(), d.Right.build(), *d.Axis, *d.CutPoint, domain.Reward(*d.Reward))
	}
	return domain.NewBranch(d.Left.build(), d.Right.build(), *d.Axis, *d.CutPoint)
}

// FromNode converts a domain tree into a document. Branch documents carry the
// reward stored on the branch.
func FromNode(n domain.Node) *Document {
	switch n := n.(type) {
	case *domain.Leaf:
		return Leaf(n.Action(), float64(n.Reward()))
	case *domain.Branch:
		doc := Branch(n.Axis(), n.CutPoint(), FromNode(n.Left()), FromNode(n.Right()))
		reward := float64(n.Reward())
		doc.Reward = &reward
		return doc
	default:
		panic(fmt.Sprintf("schema: unexpected node type %T", n))
	}
}
