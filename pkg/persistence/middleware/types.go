// Package middleware decorates session stores. Middlewares compose: the last
// one passed to Chain sees a Save first.
package middleware

import "github.com/aretw0/turing/pkg/ports"

// Middleware allows wrapping a StateStore to add behavior.
type Middleware func(ports.StateStore) ports.StateStore

// Chain wraps store with every middleware in order.
func Chain(store ports.StateStore, mws ...Middleware) ports.StateStore {
	for _, mw := range mws {
		store = mw(store)
	}
	return store
}
