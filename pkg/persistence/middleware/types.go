package middleware

import "github.com/aretw0/policytree/pkg/ports"

// Middleware allows wrapping a TreeStore to add behavior.
type Middleware func(ports.TreeStore) ports.TreeStore

// Chain applies middlewares so that the first one is the outermost.
func Chain(mws ...Middleware) Middleware {
	return func(next ports.TreeStore) ports.TreeStore {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
