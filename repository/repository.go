/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"context"

	"github.com/suparena/mapstore/keyvalue"
	"github.com/suparena/mapstore/storagemodels"
)

// Repository is a typed CRUD and query interface over one keyspace.
type Repository[T any, ID comparable] interface {
	// Save stores entity. An entity with a zero id is inserted, generating a
	// string id when possible; others are written over their current value.
	Save(ctx context.Context, entity T) (T, error)
	SaveAll(ctx context.Context, entities []T) ([]T, error)

	// FindByID returns the entity or a not-found error.
	FindByID(ctx context.Context, id ID) (T, error)
	ExistsByID(ctx context.Context, id ID) (bool, error)
	FindAll(ctx context.Context) ([]T, error)
	FindAllSorted(ctx context.Context, sort keyvalue.Sort) ([]T, error)
	FindAllPaged(ctx context.Context, pageable Pageable) (*Page[T], error)
	// FindAllByID skips ids without an entity.
	FindAllByID(ctx context.Context, ids []ID) ([]T, error)
	Count(ctx context.Context) (int64, error)

	DeleteByID(ctx context.Context, id ID) error
	Delete(ctx context.Context, entity T) error
	DeleteAll(ctx context.Context) error

	// Stream pages through q, which may be nil for the whole keyspace.
	Stream(ctx context.Context, q *keyvalue.Query, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T]

	// FindBy runs a query method such as "findByLastnameAndAgeGreaterThan".
	// A trailing keyvalue.Sort or Pageable argument adds sorting or paging.
	FindBy(ctx context.Context, method string, args ...any) ([]T, error)
	CountBy(ctx context.Context, method string, args ...any) (int64, error)
	ExistsBy(ctx context.Context, method string, args ...any) (bool, error)
	// DeleteBy removes the matching entities and returns them.
	DeleteBy(ctx context.Context, method string, args ...any) ([]T, error)
}

// Method describes a query method. A non-empty Query declares the query
// explicitly instead of deriving it from the name.
type Method struct {
	Name  string
	Query string
}

// Pageable requests one page of results.
type Pageable struct {
	Page int
	Size int
	Sort keyvalue.Sort
}

// PageRequest returns the 0-based page of the given size.
func PageRequest(page, size int, sort ...keyvalue.Order) Pageable {
	return Pageable{Page: page, Size: size, Sort: keyvalue.SortBy(sort...)}
}

// Offset returns the index of the first row of the page.
func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// Next returns the request for the following page.
func (p Pageable) Next() Pageable {
	p.Page++
	return p
}

// Page is one page of results.
type Page[T any] struct {
	Content       []T
	Number        int
	Size          int
	TotalElements int64
}

// TotalPages returns the number of pages at this page size.
func (p *Page[T]) TotalPages() int {
	if p.Size <= 0 {
		if p.TotalElements > 0 {
			return 1
		}
		return 0
	}
	return int((p.TotalElements + int64(p.Size) - 1) / int64(p.Size))
}

func (p *Page[T]) HasNext() bool {
	return p.Number+1 < p.TotalPages()
}

func (p *Page[T]) HasPrevious() bool {
	return p.Number > 0
}
