package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/policytree/pkg/domain"
	"github.com/aretw0/policytree/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.TreeStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store call at debug level and failures at
// error level. A missing tree is not treated as a failure.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.TreeStore) ports.TreeStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(ctx context.Context, op, id string, start time.Time, err error) {
	attrs := []any{"op", op, "duration", time.Since(start)}
	if id != "" {
		attrs = append(attrs, "tree_id", id)
	}
	if err != nil && !errors.Is(err, domain.ErrTreeNotFound) {
		m.logger.ErrorContext(ctx, "tree store call failed", append(attrs, "error", err)...)
		return
	}
	m.logger.DebugContext(ctx, "tree store call", attrs...)
}

func (m *loggingMiddleware) Save(ctx context.Context, id string, root domain.Node) error {
	start := time.Now()
	err := m.next.Save(ctx, id, root)
	m.log(ctx, "save", id, start, err)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, id string) (domain.Node, error) {
	start := time.Now()
	root, err := m.next.Load(ctx, id)
	m.log(ctx, "load", id, start, err)
	return root, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := m.next.Delete(ctx, id)
	m.log(ctx, "delete", id, start, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.log(ctx, "list", "", start, err)
	return ids, err
}
