/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/suparena/mapstore/errors"
	"github.com/suparena/mapstore/keyvalue"
	"github.com/suparena/mapstore/logging"
	"github.com/suparena/mapstore/storagemodels"
	"go.uber.org/zap"
)

// SimpleRepository implements Repository on top of a keyvalue.Template.
type SimpleRepository[T any, ID comparable] struct {
	template *keyvalue.Template
	info     EntityInformation[T, ID]
	keyspace string
	lookup   *LookupStrategy
	logger   *zap.Logger

	// method name -> RepositoryQuery
	queries sync.Map
}

// NewSimpleRepository creates a repository using CreateIfNotFound lookup.
func NewSimpleRepository[T any, ID comparable](template *keyvalue.Template, info EntityInformation[T, ID]) *SimpleRepository[T, ID] {
	return newSimpleRepository(template, info, NewLookupStrategy(CreateIfNotFound, nil), zap.NewNop())
}

func newSimpleRepository[T any, ID comparable](template *keyvalue.Template, info EntityInformation[T, ID], lookup *LookupStrategy, logger *zap.Logger) *SimpleRepository[T, ID] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimpleRepository[T, ID]{
		template: template,
		info:     info,
		keyspace: info.KeyspaceName(),
		lookup:   lookup,
		logger:   logger,
	}
}

// Keyspace returns the keyspace the repository stores into.
func (r *SimpleRepository[T, ID]) Keyspace() string { return r.keyspace }

func (r *SimpleRepository[T, ID]) log(ctx context.Context) *zap.Logger {
	return logging.LoggerFromContext(ctx, r.logger).With(zap.String("keyspace", r.keyspace))
}

func (r *SimpleRepository[T, ID]) Save(ctx context.Context, entity T) (T, error) {
	var zero T

	isNew, err := r.info.IsNew(entity)
	if err != nil {
		return zero, err
	}

	if isNew {
		id, ok := newID[ID]()
		if !ok {
			return zero, errors.NewValidationError("id", fmt.Sprintf("%T has no id and %T ids cannot be generated", entity, id))
		}
		if err := r.info.assignID(&entity, id); err != nil {
			return zero, err
		}
		if err := r.template.Insert(ctx, id, entity, r.keyspace); err != nil {
			return zero, err
		}
		return entity, nil
	}

	id, err := r.info.IDOf(entity)
	if err != nil {
		return zero, err
	}
	if _, err := r.template.Update(ctx, id, entity, r.keyspace); err != nil {
		return zero, err
	}
	return entity, nil
}

func (r *SimpleRepository[T, ID]) SaveAll(ctx context.Context, entities []T) ([]T, error) {
	saved := make([]T, 0, len(entities))
	for _, entity := range entities {
		s, err := r.Save(ctx, entity)
		if err != nil {
			return saved, err
		}
		saved = append(saved, s)
	}
	return saved, nil
}

func (r *SimpleRepository[T, ID]) FindByID(ctx context.Context, id ID) (T, error) {
	item, err := r.template.FindByID(ctx, id, r.keyspace)
	if err != nil {
		var zero T
		return zero, err
	}
	return convert[T](item)
}

func (r *SimpleRepository[T, ID]) ExistsByID(ctx context.Context, id ID) (bool, error) {
	return r.template.Exists(ctx, id, r.keyspace)
}

func (r *SimpleRepository[T, ID]) FindAll(ctx context.Context) ([]T, error) {
	items, err := r.template.FindAll(ctx, r.keyspace)
	if err != nil {
		return nil, err
	}
	return convertAll[T](items)
}

func (r *SimpleRepository[T, ID]) FindAllSorted(ctx context.Context, sort keyvalue.Sort) ([]T, error) {
	items, err := r.template.FindAllSorted(ctx, sort, r.keyspace)
	if err != nil {
		return nil, err
	}
	return convertAll[T](items)
}

// FindAllPaged returns one page and the total count. A non-positive size
// returns everything as page 0.
func (r *SimpleRepository[T, ID]) FindAllPaged(ctx context.Context, pageable Pageable) (*Page[T], error) {
	var items []any
	var err error
	if pageable.Size > 0 {
		items, err = r.template.FindInRange(ctx, pageable.Offset(), pageable.Size, pageable.Sort, r.keyspace)
	} else {
		pageable.Page = 0
		items, err = r.template.FindAllSorted(ctx, pageable.Sort, r.keyspace)
	}
	if err != nil {
		return nil, err
	}

	content, err := convertAll[T](items)
	if err != nil {
		return nil, err
	}
	total, err := r.template.Count(ctx, r.keyspace)
	if err != nil {
		return nil, err
	}

	return &Page[T]{Content: content, Number: pageable.Page, Size: pageable.Size, TotalElements: total}, nil
}

func (r *SimpleRepository[T, ID]) FindAllByID(ctx context.Context, ids []ID) ([]T, error) {
	var out []T
	for _, id := range ids {
		entity, err := r.FindByID(ctx, id)
		if errors.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

func (r *SimpleRepository[T, ID]) Count(ctx context.Context) (int64, error) {
	return r.template.Count(ctx, r.keyspace)
}

// DeleteByID removes id. A missing id is not an error.
func (r *SimpleRepository[T, ID]) DeleteByID(ctx context.Context, id ID) error {
	_, err := r.template.Delete(ctx, id, r.keyspace)
	return err
}

func (r *SimpleRepository[T, ID]) Delete(ctx context.Context, entity T) error {
	id, err := r.info.IDOf(entity)
	if err != nil {
		return err
	}
	return r.DeleteByID(ctx, id)
}

func (r *SimpleRepository[T, ID]) DeleteAll(ctx context.Context) error {
	return r.template.DeleteAll(ctx, r.keyspace)
}

func (r *SimpleRepository[T, ID]) Stream(ctx context.Context, q *keyvalue.Query, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T] {
	in := r.template.Stream(ctx, q, r.keyspace, opts...)
	out := make(chan storagemodels.StreamResult[T], cap(in))

	go func() {
		defer close(out)
		for res := range in {
			typed := storagemodels.StreamResult[T]{Error: res.Error, Meta: res.Meta}
			if res.Error == nil {
				typed.Item, typed.Error = convert[T](res.Item)
			}
			select {
			case out <- typed:
			case <-ctx.Done():
				// drain so the producer can exit
				for range in {
				}
				return
			}
		}
	}()

	return out
}

// Declare resolves method and caches the query under its name.
func (r *SimpleRepository[T, ID]) Declare(m Method) (RepositoryQuery, error) {
	q, err := r.lookup.Resolve(r.keyspace, m)
	if err != nil {
		return nil, err
	}
	r.queries.Store(m.Name, q)
	r.logger.Debug("declared query method",
		zap.String("keyspace", r.keyspace),
		zap.String("method", m.Name),
		zap.Stringer("subject", q.Subject()))
	return q, nil
}

func (r *SimpleRepository[T, ID]) query(method string) (RepositoryQuery, error) {
	if q, ok := r.queries.Load(method); ok {
		return q.(RepositoryQuery), nil
	}
	return r.Declare(Method{Name: method})
}

func (r *SimpleRepository[T, ID]) execution(method string, args []any) (*Execution, error) {
	q, err := r.query(method)
	if err != nil {
		return nil, err
	}
	return q.Build(args)
}

func (r *SimpleRepository[T, ID]) find(ctx context.Context, exec *Execution) ([]T, error) {
	items, err := r.template.Find(ctx, exec.Query, r.keyspace)
	if err != nil {
		return nil, err
	}
	out, err := convertAll[T](items)
	if err != nil {
		return nil, err
	}
	if exec.Distinct {
		out = distinct(out)
	}
	if exec.Limit > 0 && len(out) > exec.Limit {
		out = out[:exec.Limit]
	}
	return out, nil
}

func (r *SimpleRepository[T, ID]) FindBy(ctx context.Context, method string, args ...any) ([]T, error) {
	exec, err := r.execution(method, args)
	if err != nil {
		return nil, err
	}
	out, err := r.find(ctx, exec)
	if err != nil {
		return nil, err
	}
	r.log(ctx).Debug("query method", zap.String("method", method), zap.Int("results", len(out)))
	return out, nil
}

// CountBy counts the matches of method. Sort and paging arguments are
// ignored; a First/Top limit caps the count.
func (r *SimpleRepository[T, ID]) CountBy(ctx context.Context, method string, args ...any) (int64, error) {
	exec, err := r.execution(method, args)
	if err != nil {
		return 0, err
	}

	if exec.Distinct {
		out, err := r.find(ctx, &Execution{
			Query:    keyvalue.NewQuery(exec.Query.Criteria),
			Distinct: true,
			Limit:    exec.MaxResults,
		})
		if err != nil {
			return 0, err
		}
		return int64(len(out)), nil
	}

	n, err := r.template.CountQuery(ctx, keyvalue.NewQuery(exec.Query.Criteria), r.keyspace)
	if err != nil {
		return 0, err
	}
	if exec.MaxResults > 0 && n > int64(exec.MaxResults) {
		n = int64(exec.MaxResults)
	}
	return n, nil
}

func (r *SimpleRepository[T, ID]) ExistsBy(ctx context.Context, method string, args ...any) (bool, error) {
	exec, err := r.execution(method, args)
	if err != nil {
		return false, err
	}
	n, err := r.template.CountQuery(ctx, keyvalue.NewQuery(exec.Query.Criteria), r.keyspace)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteBy removes the matches of method and returns them.
func (r *SimpleRepository[T, ID]) DeleteBy(ctx context.Context, method string, args ...any) ([]T, error) {
	exec, err := r.execution(method, args)
	if err != nil {
		return nil, err
	}
	matches, err := r.find(ctx, exec)
	if err != nil {
		return nil, err
	}

	for _, entity := range matches {
		if err := r.Delete(ctx, entity); err != nil {
			return nil, err
		}
	}
	r.log(ctx).Debug("deleted by query method", zap.String("method", method), zap.Int("deleted", len(matches)))
	return matches, nil
}

func convertAll[T any](items []any) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		t, err := convert[T](item)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func distinct[T any](items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		seen := false
		for _, o := range out {
			if reflect.DeepEqual(item, o) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, item)
		}
	}
	return out
}
