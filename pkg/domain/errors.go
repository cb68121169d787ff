package domain

import "errors"

// ErrTreeNotFound is returned when a tree ID cannot be found in the store.
var ErrTreeNotFound = errors.New("tree not found")

// ErrInvalidTable is returned when a flattened table breaks the 1-indexed
// breadth-first layout.
var ErrInvalidTable = errors.New("invalid table")
