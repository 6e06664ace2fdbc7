/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapstore

import (
	"github.com/suparena/mapstore/errors"
	"github.com/suparena/mapstore/keyvalue"
	"github.com/suparena/mapstore/predicate"
)

// CriteriaAccessor resolves query criteria into a Predicate.
//
// A nil query or nil criteria, typed nil pointers included, resolve to a nil
// predicate, which matches everything. Predicates and builders are used as they
// are. A string is parsed with predicate.SQL. Any other type is unsupported.
type CriteriaAccessor struct{}

func (CriteriaAccessor) Resolve(q *keyvalue.Query) (Predicate, error) {
	if q == nil || isNil(q.Criteria) {
		return nil, nil
	}

	switch c := q.Criteria.(type) {
	case *predicate.Builder:
		if err := c.Err(); err != nil {
			return nil, err
		}
		return c, nil
	case predicate.Predicate:
		return c, nil
	case func(predicate.Entry) bool:
		return predicate.Func(c), nil
	case string:
		return predicate.SQL(c)
	}
	return nil, errors.NewUnsupportedError("criteria accessor", q.Criteria)
}

// SortAccessor resolves a query sort into a Comparator.
//
// keyvalue.Sort and keyvalue.Order become attribute comparators. Comparators
// and plain comparison functions are used as they are. An empty sort resolves
// to nil.
type SortAccessor struct{}

func (SortAccessor) Resolve(q *keyvalue.Query) (Comparator, error) {
	if q == nil || q.Sort == nil {
		return nil, nil
	}

	switch s := q.Sort.(type) {
	case keyvalue.Sort:
		return sortComparator(s), nil
	case *keyvalue.Sort:
		if s == nil {
			return nil, nil
		}
		return sortComparator(*s), nil
	case keyvalue.Order:
		return sortComparator(keyvalue.SortBy(s)), nil
	case predicate.Comparator:
		return s, nil
	case func(a, b predicate.Entry) int:
		return s, nil
	}
	return nil, errors.NewUnsupportedError("sort accessor", q.Sort)
}

func sortComparator(s keyvalue.Sort) Comparator {
	if !s.IsSorted() {
		return nil
	}
	comparators := make([]predicate.Comparator, len(s.Orders))
	for i, o := range s.Orders {
		comparators[i] = predicate.ByAttribute(o.Property, o.Descending, o.IgnoreCase)
	}
	if len(comparators) == 1 {
		return comparators[0]
	}
	return predicate.Chain(comparators...)
}
