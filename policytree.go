package policytree

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/policytree/pkg/domain"
	"github.com/aretw0/policytree/pkg/ports"
	"github.com/aretw0/policytree/pkg/schema"
)

// ErrNoStore is returned by the storage methods when no store was configured.
var ErrNoStore = errors.New("no tree store configured")

// Engine is the high-level entry point for the policytree library.
// It wraps the domain operations with logging, lifecycle hooks and storage.
type Engine struct {
	store  ports.TreeStore
	hooks  domain.Hooks
	logger *slog.Logger
	clock  func() time.Time
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets the tree store used by Save, Load, Delete and List.
func WithStore(store ports.TreeStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{clock: time.Now}
	for _, opt := range opts {
		opt(eng)
	}

	// Default to a discard logger so callers never need a nil check.
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return eng
}

// PruneReport describes the effect of one simplification pass.
type PruneReport struct {
	Before   domain.Summary `json:"before" yaml:"before"`
	After    domain.Summary `json:"after" yaml:"after"`
	Removed  int            `json:"removed" yaml:"removed"`
	Duration time.Duration  `json:"duration_ns" yaml:"duration_ns"`
}

// Result is the outcome of Process.
type Result struct {
	Tree   *schema.Document `json:"tree" yaml:"tree"`
	Table  domain.Table     `json:"table" yaml:"table"`
	Report PruneReport      `json:"report" yaml:"report"`
}

// Prune runs one simplification pass over root and returns the new root.
// Branches of root are rewritten in place.
func (e *Engine) Prune(ctx context.Context, root domain.Node) (domain.Node, PruneReport) {
	start := e.clock()
	before := domain.Stats(root)

	pruned := domain.Prune(root)

	report := PruneReport{
		Before:   before,
		After:    domain.Stats(pruned),
		Duration: e.clock().Sub(start),
	}
	report.Removed = report.Before.Nodes - report.After.Nodes

	e.logger.Debug("tree pruned",
		"nodes_before", report.Before.Nodes,
		"nodes_after", report.After.Nodes,
		"removed", report.Removed,
	)

	if e.hooks.OnPrune != nil {
		e.hooks.OnPrune(ctx, &domain.PruneEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventPrune},
			Before:    report.Before,
			After:     report.After,
			Duration:  report.Duration,
		})
	}

	return pruned, report
}

// Flatten serialises root into its breadth-first table.
func (e *Engine) Flatten(ctx context.Context, root domain.Node) domain.Table {
	table := domain.ToTable(root)

	e.logger.Debug("tree flattened", "records", len(table))

	if e.hooks.OnFlatten != nil {
		e.hooks.OnFlatten(ctx, &domain.FlattenEvent{
			EventBase: domain.EventBase{Timestamp: e.clock(), Type: domain.EventFlatten},
			Records:   len(table),
		})
	}
	return table
}

// Process builds the tree described by doc, prunes it once and flattens it.
func (e *Engine) Process(ctx context.Context, doc *schema.Document) (*Result, error) {
	root, err := doc.Build()
	if err != nil {
		return nil, fmt.Errorf("invalid tree: %w", err)
	}

	pruned, report := e.Prune(ctx, root)
	return &Result{
		Tree:   schema.FromNode(pruned),
		Table:  e.Flatten(ctx, pruned),
		Report: report,
	}, nil
}

// Save stores a tree under id.
func (e *Engine) Save(ctx context.Context, id string, root domain.Node) error {
	if e.store == nil {
		return ErrNoStore
	}
	if err := e.store.Save(ctx, id, root); err != nil {
		e.logger.Error("failed to save tree", "tree_id", id, "error", err)
		return err
	}
	e.logger.Info("tree saved", "tree_id", id)
	return nil
}

// Load retrieves the tree stored under id.
func (e *Engine) Load(ctx context.Context, id string) (domain.Node, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	return e.store.Load(ctx, id)
}

// Delete removes the tree stored under id.
func (e *Engine) Delete(ctx context.Context, id string) error {
	if e.store == nil {
		return ErrNoStore
	}
	if err := e.store.Delete(ctx, id); err != nil {
		return err
	}
	e.logger.Info("tree deleted", "tree_id", id)
	return nil
}

// List returns the IDs of all stored trees.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	return e.store.List(ctx)
}
