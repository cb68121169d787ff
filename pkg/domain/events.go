package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPrune   EventType = "prune"
	EventFlatten EventType = "flatten"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	TreeID    string    `json:"tree_id,omitempty"`
}

// PruneEvent reports a single simplification pass.
type PruneEvent struct {
	EventBase
	Before   Summary       `json:"before"`
	After    Summary       `json:"after"`
	Duration time.Duration `json:"duration"`
}

// Removed returns how many nodes the pass dropped.
func (e *PruneEvent) Removed() int {
	return e.Before.Nodes - e.After.Nodes
}

// FlattenEvent reports a flattening.
type FlattenEvent struct {
	EventBase
	Records int `json:"records"`
}

// Hooks defines callbacks for engine observability.
type Hooks struct {
	OnPrune   func(context.Context, *PruneEvent)
	OnFlatten func(context.Context, *FlattenEvent)
}
