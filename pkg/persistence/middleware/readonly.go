package middleware

import (
	"context"
	"errors"

	"github.com/aretw0/policytree/pkg/domain"
	"github.com/aretw0/policytree/pkg/ports"
)

// ErrReadOnly is returned by Save and Delete on a read-only store.
var ErrReadOnly = errors.New("tree store is read-only")

type readOnlyMiddleware struct {
	ports.TreeStore
}

// NewReadOnlyMiddleware rejects writes and passes reads through.
func NewReadOnlyMiddleware() Middleware {
	return func(next ports.TreeStore) ports.TreeStore {
		return &readOnlyMiddleware{TreeStore: next}
	}
}

func (m *readOnlyMiddleware) Save(ctx context.Context, id string, root domain.Node) error {
	return ErrReadOnly
}

func (m *readOnlyMiddleware) Delete(ctx context.Context, id string) error {
	return ErrReadOnly
}
