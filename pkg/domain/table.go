package domain

import (
	"encoding/json"
	"fmt"
)

// Record is one row of a flattened tree. Every index it carries is 1-based.
// Leaf records only use Action; branch records use the split and child fields.
type Record struct {
	IsLeaf        bool    `json:"is_leaf" yaml:"is_leaf"`
	Action        int     `json:"action,omitempty" yaml:"action,omitempty"`
	SplitVariable int     `json:"split_variable,omitempty" yaml:"split_variable,omitempty"`
	SplitValue    float64 `json:"split_value,omitempty" yaml:"split_value,omitempty"`
	LeftChild     int     `json:"left_child,omitempty" yaml:"left_child,omitempty"`
	RightChild    int     `json:"right_child,omitempty" yaml:"right_child,omitempty"`
}

type leafRecord struct {
	IsLeaf bool `json:"is_leaf" yaml:"is_leaf"`
	Action int  `json:"action" yaml:"action"`
}

type branchRecord struct {
	IsLeaf        bool  `json:"is_leaf" yaml:"is_leaf"`
	SplitVariable int   `json:"split_variable" yaml:"split_variable"`
	SplitValue    Float `json:"split_value" yaml:"split_value"`
	LeftChild     int   `json:"left_child" yaml:"left_child"`
	RightChild    int   `json:"right_child" yaml:"right_child"`
}

func (r Record) wire() any {
	if r.IsLeaf {
		return leafRecord{IsLeaf: true, Action: r.Action}
	}
	return branchRecord{
		SplitVariable: r.SplitVariable,
		SplitValue:    Float(r.SplitValue),
		LeftChild:     r.LeftChild,
		RightChild:    r.RightChild,
	}
}

// MarshalJSON writes only the fields valid for the record kind, so a zero
// split value is still emitted for branches.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.wire())
}

// UnmarshalJSON reads both record kinds, including non-finite split values.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w struct {
		IsLeaf        bool  `json:"is_leaf"`
		Action        int   `json:"action"`
		SplitVariable int   `json:"split_variable"`
		SplitValue    Float `json:"split_value"`
		LeftChild     int   `json:"left_child"`
		RightChild    int   `json:"right_child"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Record{
		IsLeaf:        w.IsLeaf,
		Action:        w.Action,
		SplitVariable: w.SplitVariable,
		SplitValue:    float64(w.SplitValue),
		LeftChild:     w.LeftChild,
		RightChild:    w.RightChild,
	}
	return nil
}

// MarshalYAML mirrors MarshalJSON for yaml.v3.
func (r Record) MarshalYAML() (any, error) {
	return r.wire(), nil
}

// Table is a flattened tree: a 1-indexed array of records where slot k is
// stored at position k-1 and slot 1 is the root.
type Table []Record

// ToTable flattens the tree rooted at root breadth first, left child before
// right child. Child slots are handed out by a counter starting at 2 that
// advances by two for every branch.
func ToTable(root Node) Table {
	var table Table
	queue := []Node{root}
	next := 2

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		switch n := current.(type) {
		case *Leaf:
			table = append(table, Record{
				IsLeaf: true,
				Action: n.action + 1,
			})
		case *Branch:
			queue = append(queue, n.left, n.right)
			table = append(table, Record{
				SplitVariable: n.axis + 1,
				SplitValue:    n.cutPoint,
				LeftChild:     next,
				RightChild:    next + 1,
			})
			next += 2
		default:
			panic(fmt.Sprintf("domain: unexpected node type %T", current))
		}
	}

	return table
}

// Validate checks that t is a table ToTable could have produced.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: empty table", ErrInvalidTable)
	}

	next := 2
	for i, r := range t {
		slot := i + 1
		if slot > 1 && slot >= next {
			return fmt.Errorf("%w: slot %d is not referenced by any branch", ErrInvalidTable, slot)
		}

		if r.IsLeaf {
			if r.Action < 1 {
				return fmt.Errorf("%w: slot %d: action must be >= 1, got %d", ErrInvalidTable, slot, r.Action)
			}
			continue
		}

		if r.SplitVariable < 1 {
			return fmt.Errorf("%w: slot %d: split_variable must be >= 1, got %d", ErrInvalidTable, slot, r.SplitVariable)
		}
		if r.LeftChild != next || r.RightChild != next+1 {
			return fmt.Errorf("%w: slot %d: expected children %d and %d, got %d and %d",
				ErrInvalidTable, slot, next, next+1, r.LeftChild, r.RightChild)
		}
		if r.RightChild > len(t) {
			return fmt.Errorf("%w: slot %d: child %d out of range (table has %d records)",
				ErrInvalidTable, slot, r.RightChild, len(t))
		}
		next += 2
	}

	return nil
}

// FromTable rebuilds a tree from a flattened table. Rewards are not part of
// the table, so every leaf is rebuilt with a zero reward.
func FromTable(t Table) (Node, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	// Children always sit after their parent, so build from the back.
	nodes := make([]Node, len(t))
	for i := len(t) - 1; i >= 0; i-- {
		r := t[i]
		if r.IsLeaf {
			nodes[i] = NewLeaf(0, r.Action-1)
			continue
		}
		nodes[i] = NewBranch(nodes[r.LeftChild-1], nodes[r.RightChild-1], r.SplitVariable-1, r.SplitValue)
	}

	return nodes[0], nil
}
