package ports

import (
	"context"

	"github.com/aretw0/policytree/pkg/domain"
)

// TreeStore defines the interface for persisting policy trees.
// Implementations must not keep references to the saved tree: a tree loaded
// back is always a fresh copy owned by the caller.
type TreeStore interface {
	// Save persists the tree under the given ID, replacing any previous tree.
	Save(ctx context.Context, id string, root domain.Node) error

	// Load retrieves the tree for a given ID.
	// Returns domain.ErrTreeNotFound if the tree does not exist.
	Load(ctx context.Context, id string) (domain.Node, error)

	// Delete removes the tree for a given ID. Deleting a missing tree is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored trees.
	List(ctx context.Context) ([]string, error)
}
