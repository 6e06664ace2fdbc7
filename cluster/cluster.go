/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package cluster defines the distributed map contract the adapter delegates to.
//
// An Instance hands out named maps. Maps store arbitrary keys and values and
// evaluate predicates themselves, including paging predicates, so the adapter
// never filters or sorts on its own. Implementations live in the memory, bolt
// and ddb subpackages.
package cluster

import (
	"context"
	"errors"

	"github.com/suparena/mapstore/predicate"
)

// ErrNotActive is returned by instances and their maps after Shutdown.
var ErrNotActive = errors.New("cluster instance is not active")

// Instance is a handle to a map cluster.
type Instance interface {
	// Name identifies the instance.
	Name() string

	// Map returns the map with the given name, creating it if needed.
	Map(ctx context.Context, name string) (Map, error)

	// Shutdown releases the instance. Later calls fail with ErrNotActive.
	Shutdown(ctx context.Context) error
}

// Map is a named key/value map.
//
// Keys compare by dynamic type on every backend, so a named key type such as
// `type ID string` never matches its underlying kind. Backends that serialize
// keys only accept named types known to the registry.
type Map interface {
	Name() string

	// Put stores value under key and returns the previous value, or nil.
	Put(ctx context.Context, key, value any) (any, error)

	// Get returns the value for key, or nil when absent.
	Get(ctx context.Context, key any) (any, error)

	// Remove deletes key and returns the removed value, or nil.
	Remove(ctx context.Context, key any) (any, error)

	ContainsKey(ctx context.Context, key any) (bool, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error

	Size(ctx context.Context) (int, error)

	// Entries returns a snapshot of the entry set.
	Entries(ctx context.Context) ([]predicate.Entry, error)

	// Values returns the values of entries matching p. A nil p matches all
	// entries. A *predicate.Paging is sorted and cut to its current page.
	Values(ctx context.Context, p predicate.Predicate) ([]any, error)

	// KeySet returns the keys of entries matching p, with the same rules as Values.
	KeySet(ctx context.Context, p predicate.Predicate) ([]any, error)
}
