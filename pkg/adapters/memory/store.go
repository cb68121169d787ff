package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/policytree/pkg/domain"
	"github.com/aretw0/policytree/pkg/schema"
)

// Store implements ports.TreeStore in memory.
// Trees are kept encoded, so callers never share nodes with the store.
// Safe for concurrent use.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// Save encodes the tree and keeps it in memory.
func (s *Store) Save(ctx context.Context, id string, root domain.Node) error {
	data, err := schema.Encode(schema.FromNode(root), schema.FormatJSON)
	if err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = data
	return nil
}

// Load decodes a fresh copy of the tree.
func (s *Store) Load(ctx context.Context, id string) (domain.Node, error) {
	s.mu.RLock()
	data, ok := s.data[id]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrTreeNotFound
	}

	root, err := schema.Parse(data, schema.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tree %s: %w", id, err)
	}
	return root, nil
}

// Delete removes the tree.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored tree IDs in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
