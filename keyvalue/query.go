/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package keyvalue

import (
	"fmt"
	"strings"
)

// Query carries criteria, sort and paging for Find and CountQuery. Criteria and
// Sort are interpreted by the engine's accessors. Offset and Rows are ignored
// when not positive.
type Query struct {
	Criteria any
	Sort     any
	Offset   int
	Rows     int
}

// NewQuery returns a query over criteria, which may be nil.
func NewQuery(criteria any) *Query {
	return &Query{Criteria: criteria}
}

// WithSort sets the sort.
func (q *Query) WithSort(sort any) *Query {
	q.Sort = sort
	return q
}

// Skip sets the offset.
func (q *Query) Skip(offset int) *Query {
	q.Offset = offset
	return q
}

// Limit sets the maximum number of rows.
func (q *Query) Limit(rows int) *Query {
	q.Rows = rows
	return q
}

// Clone returns a shallow copy.
func (q *Query) Clone() *Query {
	if q == nil {
		return &Query{}
	}
	c := *q
	return &c
}

func (q *Query) String() string {
	if q == nil {
		return "<nil>"
	}
	var parts []string
	if q.Criteria != nil {
		parts = append(parts, fmt.Sprintf("criteria=%v", q.Criteria))
	}
	if q.Sort != nil {
		parts = append(parts, fmt.Sprintf("sort=%v", q.Sort))
	}
	if q.Offset > 0 {
		parts = append(parts, fmt.Sprintf("offset=%d", q.Offset))
	}
	if q.Rows > 0 {
		parts = append(parts, fmt.Sprintf("rows=%d", q.Rows))
	}
	return "Query{" + strings.Join(parts, ", ") + "}"
}
