/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapstore

import (
	"context"

	"github.com/suparena/mapstore/cluster"
	"github.com/suparena/mapstore/keyvalue"
	"github.com/suparena/mapstore/predicate"
)

// Predicate and Comparator are the native criteria and sort types of the engine.
type (
	Predicate  = predicate.Predicate
	Comparator = predicate.Comparator
)

// MapSource hands out maps by keyspace.
type MapSource interface {
	Map(ctx context.Context, keyspace any) (cluster.Map, error)
}

var _ keyvalue.QueryEngine = (*QueryEngine)(nil)

// QueryEngine runs queries as map predicates. Filtering, ordering and paging
// all happen inside the map: the engine only builds the predicate.
type QueryEngine struct {
	maps     MapSource
	criteria keyvalue.CriteriaAccessor[Predicate]
	sort     keyvalue.SortAccessor[Comparator]
}

// NewQueryEngine creates an engine with the default accessors.
func NewQueryEngine(maps MapSource) *QueryEngine {
	return &QueryEngine{maps: maps, criteria: CriteriaAccessor{}, sort: SortAccessor{}}
}

// Execute resolves the criteria and sort of q and runs them against keyspace.
func (e *QueryEngine) Execute(ctx context.Context, q *keyvalue.Query, keyspace string) ([]any, error) {
	criteria, err := e.criteria.Resolve(q)
	if err != nil {
		return nil, err
	}
	sort, err := e.sort.Resolve(q)
	if err != nil {
		return nil, err
	}

	var offset, rows int
	if q != nil {
		offset, rows = q.Offset, q.Rows
	}
	return e.ExecutePredicate(ctx, criteria, sort, offset, rows, keyspace)
}

// Count resolves the criteria of q and counts the matching keys. Sort and
// paging are ignored.
func (e *QueryEngine) Count(ctx context.Context, q *keyvalue.Query, keyspace string) (int64, error) {
	criteria, err := e.criteria.Resolve(q)
	if err != nil {
		return 0, err
	}
	return e.CountPredicate(ctx, criteria, keyspace)
}

// ExecutePredicate returns the values of keyspace matching criteria, ordered
// by sort and cut to the page selected by offset and rows.
func (e *QueryEngine) ExecutePredicate(ctx context.Context, criteria Predicate, sort Comparator, offset, rows int, keyspace string) ([]any, error) {
	m, err := e.maps.Map(ctx, keyspace)
	if err != nil {
		return nil, err
	}
	return m.Values(ctx, PagingPredicate(criteria, sort, offset, rows))
}

// CountPredicate returns the number of keys of keyspace matching criteria.
func (e *QueryEngine) CountPredicate(ctx context.Context, criteria Predicate, keyspace string) (int64, error) {
	m, err := e.maps.Map(ctx, keyspace)
	if err != nil {
		return 0, err
	}
	keys, err := m.KeySet(ctx, criteria)
	if err != nil {
		return 0, err
	}
	return int64(len(keys)), nil
}

// PagingPredicate returns criteria unchanged when there is nothing to sort or
// page. Otherwise it wraps criteria in a paging predicate of rows per page,
// advanced to the page holding offset. An offset that is not a multiple of
// rows rounds down to the start of its page.
func PagingPredicate(criteria Predicate, sort Comparator, offset, rows int) Predicate {
	if sort == nil && offset <= 0 && rows <= 0 {
		return criteria
	}

	paging := predicate.NewPaging(criteria, sort, rows)
	if offset > 0 && rows > 0 {
		for i := 0; i < offset/rows; i++ {
			paging.NextPage()
		}
	}
	return paging
}
