/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package keyvalue

import (
	"context"
)

// Adapter is the key-value contract a store implements. Every operation is
// scoped to a keyspace, which names one map.
type Adapter interface {
	// Put stores item under id and returns the previous item, or nil.
	Put(ctx context.Context, id, item any, keyspace string) (any, error)

	Contains(ctx context.Context, id any, keyspace string) (bool, error)

	// Get returns the item stored under id, or nil.
	Get(ctx context.Context, id any, keyspace string) (any, error)

	// Delete removes id and returns the removed item, or nil.
	Delete(ctx context.Context, id any, keyspace string) (any, error)

	GetAllOf(ctx context.Context, keyspace string) ([]any, error)

	// Entries iterates over the keyspace. Callers must Close the iterator.
	Entries(ctx context.Context, keyspace string) (Iterator, error)

	// DeleteAllOf removes every item of the keyspace.
	DeleteAllOf(ctx context.Context, keyspace string) error

	// Clear releases all keyspaces and the underlying store.
	Clear(ctx context.Context) error

	Count(ctx context.Context, keyspace string) (int64, error)

	// Find returns the items matching q.
	Find(ctx context.Context, q *Query, keyspace string) ([]any, error)

	// CountQuery counts the items matching the criteria of q.
	CountQuery(ctx context.Context, q *Query, keyspace string) (int64, error)

	Close() error
}

// QueryEngine executes queries for an adapter.
type QueryEngine interface {
	Execute(ctx context.Context, q *Query, keyspace string) ([]any, error)
	Count(ctx context.Context, q *Query, keyspace string) (int64, error)
}

// CriteriaAccessor resolves the criteria of a query into the engine's native
// predicate type.
type CriteriaAccessor[C any] interface {
	Resolve(q *Query) (C, error)
}

// SortAccessor resolves the sort of a query into the engine's native ordering.
type SortAccessor[S any] interface {
	Resolve(q *Query) (S, error)
}

// CriteriaFunc adapts a function to CriteriaAccessor.
type CriteriaFunc[C any] func(q *Query) (C, error)

func (f CriteriaFunc[C]) Resolve(q *Query) (C, error) { return f(q) }

// SortFunc adapts a function to SortAccessor.
type SortFunc[S any] func(q *Query) (S, error)

func (f SortFunc[S]) Resolve(q *Query) (S, error) { return f(q) }
