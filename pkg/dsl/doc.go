// Package dsl provides a fluent builder for policy trees.
//
// Unlike the domain constructors, which panic on malformed input, the builder
// collects problems and reports them from Build:
//
//	root, err := dsl.Split(0, 0.5).
//		Yes(dsl.Action(0, 1)).
//		No(dsl.Split(1, 0.25).
//			Yes(dsl.Action(1, 2)).
//			No(dsl.Action(2, 4))).
//		Build()
package dsl
