// Package middleware provides composable wrappers around a
// ports.ContextStore. Launch brokers persist pipeline contexts in shared
// stores (see the redis adapter); middleware adds concerns like
// at-rest encryption and redaction without touching the store itself.
package middleware

import "github.com/ardenfx/stagehand/pkg/ports"

// Middleware wraps a ContextStore to add behavior.
type Middleware func(ports.ContextStore) ports.ContextStore

// Chain applies middlewares right to left, so the first listed is the
// outermost.
func Chain(store ports.ContextStore, middlewares ...Middleware) ports.ContextStore {
	for i := len(middlewares) - 1; i >= 0; i-- {
		store = middlewares[i](store)
	}
	return store
}
