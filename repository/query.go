/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"fmt"

	"github.com/suparena/mapstore/errors"
	"github.com/suparena/mapstore/keyvalue"
	"github.com/suparena/mapstore/predicate"
)

// RepositoryQuery turns the arguments of a query method call into an Execution.
type RepositoryQuery interface {
	Method() Method
	Subject() Subject
	Build(args []any) (*Execution, error)
}

// Execution is a query ready to run against the template.
type Execution struct {
	Query    *keyvalue.Query
	Subject  Subject
	Distinct bool
	// Limit cuts the results after paging. Zero means no limit.
	Limit int
	// MaxResults is the First/Top limit of the method, if any.
	MaxResults int
}

// PartTreeQuery derives its query from the method name.
type PartTreeQuery struct {
	method Method
	tree   *PartTree
}

// NewPartTreeQuery parses the name of method.
func NewPartTreeQuery(method Method) (*PartTreeQuery, error) {
	tree, err := ParsePartTree(method.Name)
	if err != nil {
		return nil, err
	}
	return &PartTreeQuery{method: method, tree: tree}, nil
}

func (q *PartTreeQuery) Method() Method   { return q.method }
func (q *PartTreeQuery) Subject() Subject { return q.tree.Subject }
func (q *PartTreeQuery) Tree() *PartTree  { return q.tree }

func (q *PartTreeQuery) Build(args []any) (*Execution, error) {
	args, sort, pageable := trailing(args)

	criteria, err := NewQueryCreator(q.tree).Create(args)
	if err != nil {
		return nil, err
	}

	return prepare(q.tree.Subject, q.tree.Distinct, q.tree.MaxResults, criteria, q.tree.Sort, sort, pageable), nil
}

// StringQuery runs a declared query such as "lastname = ? AND age > ?".
// Its subject and any Distinct, First or Top modifiers come from the method
// name, so findFirst3ByQuery still returns at most three results.
type StringQuery struct {
	method     Method
	subject    Subject
	params     int
	distinct   bool
	maxResults int
}

// NewStringQuery validates the declared query of method.
func NewStringQuery(method Method) (*StringQuery, error) {
	params, err := predicate.Placeholders(method.Query)
	if err != nil {
		return nil, err
	}
	distinct, maxResults, err := subjectModifiers(method.Name)
	if err != nil {
		return nil, err
	}
	return &StringQuery{
		method:     method,
		subject:    subjectOf(method.Name),
		params:     params,
		distinct:   distinct,
		maxResults: maxResults,
	}, nil
}

func (q *StringQuery) Method() Method   { return q.method }
func (q *StringQuery) Subject() Subject { return q.subject }

func (q *StringQuery) Build(args []any) (*Execution, error) {
	args, sort, pageable := trailing(args)
	if len(args) != q.params {
		return nil, errors.NewValidationError("args", fmt.Sprintf("query %q binds %d arguments, got %d", q.method.Query, q.params, len(args)))
	}

	criteria, err := predicate.SQL(q.method.Query, args...)
	if err != nil {
		return nil, err
	}
	return prepare(q.subject, q.distinct, q.maxResults, criteria, keyvalue.Sort{}, sort, pageable), nil
}

// trailing strips a trailing Pageable and Sort, in either order, from args.
func trailing(args []any) ([]any, *keyvalue.Sort, *Pageable) {
	var sort *keyvalue.Sort
	var pageable *Pageable

	for len(args) > 0 {
		switch v := args[len(args)-1].(type) {
		case keyvalue.Sort:
			if sort != nil {
				return args, sort, pageable
			}
			sort = &v
		case *keyvalue.Sort:
			if sort != nil || v == nil {
				return args, sort, pageable
			}
			sort = v
		case Pageable:
			if pageable != nil {
				return args, sort, pageable
			}
			pageable = &v
		case *Pageable:
			if pageable != nil || v == nil {
				return args, sort, pageable
			}
			pageable = v
		default:
			return args, sort, pageable
		}
		args = args[:len(args)-1]
	}
	return args, sort, pageable
}

func prepare(subject Subject, distinct bool, maxResults int, criteria predicate.Predicate, static keyvalue.Sort, sort *keyvalue.Sort, pageable *Pageable) *Execution {
	order := static
	if sort != nil {
		order = order.And(*sort)
	}

	exec := &Execution{Subject: subject, Distinct: distinct, MaxResults: maxResults}
	q := keyvalue.NewQuery(nil)
	if criteria != nil {
		q.Criteria = criteria
	}

	if pageable != nil && pageable.Size > 0 {
		order = order.And(pageable.Sort)
		q.Offset = pageable.Offset()
		q.Rows = pageable.Size
		exec.Limit = maxResults
	} else if maxResults > 0 && !distinct {
		q.Rows = maxResults
	} else {
		exec.Limit = maxResults
	}

	if order.IsSorted() {
		q.Sort = order
	}
	exec.Query = q
	return exec
}
