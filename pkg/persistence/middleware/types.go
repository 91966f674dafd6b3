// Package middleware wraps a ports.CoordinateStore with cross-cutting behavior.
package middleware

import "github.com/aretw0/inkmap/pkg/ports"

// Middleware allows wrapping a CoordinateStore to add behavior.
type Middleware func(ports.CoordinateStore) ports.CoordinateStore

// Chain applies middlewares so that the first one is the outermost.
func Chain(store ports.CoordinateStore, mws ...Middleware) ports.CoordinateStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
