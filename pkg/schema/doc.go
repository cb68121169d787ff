// Package schema defines the nested document format used to carry a built
// policy tree across process boundaries (files, HTTP bodies, MCP arguments).
//
// A document is either a leaf or a branch:
//
//	axis: 0
//	cut_point: 0.5
//	left:
//	  action: 0
//	  reward: 1.0
//	right:
//	  action: 1
//	  reward: 2.0
//
// Documents are decoded from YAML or JSON into a generic map and then into a
// Document with mapstructure, so unknown keys are rejected. Validate reports
// every problem at once as an *AggregateError; Build constructs the domain tree
// bottom-up, recomputing branch rewards from the leaves.
//
//	doc, err := schema.Decode(data, schema.FormatYAML)
//	if err != nil {
//	    // Handle decoding errors
//	}
//	root, err := doc.Build()
//
// Unlike the flattened table, documents use the 0-based indices of the domain
// model.
package schema
