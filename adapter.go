/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapstore

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/suparena/mapstore/cluster"
	"github.com/suparena/mapstore/cluster/memory"
	"github.com/suparena/mapstore/errors"
	"github.com/suparena/mapstore/keyvalue"
	"github.com/suparena/mapstore/logging"
	"go.uber.org/zap"
)

// DefaultInstanceName names the process-wide in-memory instance used by
// NewDefaultKeyValueAdapter.
const DefaultInstanceName = "mapstore-default"

var _ keyvalue.Adapter = (*KeyValueAdapter)(nil)

// KeyValueAdapter implements keyvalue.Adapter by passing every call through to
// the named maps of a cluster instance. Queries go through a QueryEngine that
// turns criteria, sort and paging into predicates the maps evaluate.
type KeyValueAdapter struct {
	mu       sync.RWMutex
	instance cluster.Instance

	engine *QueryEngine
	logger *zap.Logger
}

// AdapterOption configures a KeyValueAdapter.
type AdapterOption func(*KeyValueAdapter)

// WithLogger sets the fallback logger. A logger in the context takes precedence.
func WithLogger(logger *zap.Logger) AdapterOption {
	return func(a *KeyValueAdapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithCriteriaAccessor replaces the accessor resolving query criteria.
func WithCriteriaAccessor(accessor keyvalue.CriteriaAccessor[Predicate]) AdapterOption {
	return func(a *KeyValueAdapter) {
		a.engine.criteria = accessor
	}
}

// WithSortAccessor replaces the accessor resolving query sorts.
func WithSortAccessor(accessor keyvalue.SortAccessor[Comparator]) AdapterOption {
	return func(a *KeyValueAdapter) {
		a.engine.sort = accessor
	}
}

// NewKeyValueAdapter creates an adapter over instance.
func NewKeyValueAdapter(instance cluster.Instance, opts ...AdapterOption) (*KeyValueAdapter, error) {
	if isNil(instance) {
		return nil, errors.NewValidationError("instance", "must not be nil")
	}

	a := &KeyValueAdapter{instance: instance, logger: zap.NewNop()}
	a.engine = NewQueryEngine(a)
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// NewDefaultKeyValueAdapter creates an adapter over the in-memory instance
// named DefaultInstanceName, starting it if it is not running.
func NewDefaultKeyValueAdapter(opts ...AdapterOption) *KeyValueAdapter {
	a, _ := NewKeyValueAdapter(memory.GetOrCreate(DefaultInstanceName), opts...)
	return a
}

// Instance returns the wrapped instance.
func (a *KeyValueAdapter) Instance() cluster.Instance {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.instance
}

// SetInstance replaces the wrapped instance.
func (a *KeyValueAdapter) SetInstance(instance cluster.Instance) error {
	if isNil(instance) {
		return errors.NewValidationError("instance", "must not be nil")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.instance = instance
	return nil
}

// Engine returns the query engine.
func (a *KeyValueAdapter) Engine() *QueryEngine { return a.engine }

// Map returns the map named by keyspace. The keyspace must be a non-empty string.
func (a *KeyValueAdapter) Map(ctx context.Context, keyspace any) (cluster.Map, error) {
	name, ok := keyspace.(string)
	if !ok {
		return nil, errors.NewValidationError("keyspace", fmt.Sprintf("must be a string, got %T", keyspace))
	}
	if name == "" {
		return nil, errors.NewValidationError("keyspace", "must not be empty")
	}
	return a.Instance().Map(ctx, name)
}

func (a *KeyValueAdapter) log(ctx context.Context, keyspace string) *zap.Logger {
	return logging.LoggerFromContext(ctx, a.logger).With(zap.String("keyspace", keyspace))
}

// Put stores item under id and returns the previous item. Neither may be nil.
func (a *KeyValueAdapter) Put(ctx context.Context, id, item any, keyspace string) (any, error) {
	if isNil(id) {
		return nil, errors.NewValidationError("id", "must not be nil")
	}
	if isNil(item) {
		return nil, errors.NewValidationError("item", "must not be nil")
	}

	m, err := a.Map(ctx, keyspace)
	if err != nil {
		return nil, err
	}
	previous, err := m.Put(ctx, id, item)
	if err != nil {
		a.log(ctx, keyspace).Warn("put failed", zap.Any("id", id), zap.Error(err))
		return nil, err
	}
	return previous, nil
}

func (a *KeyValueAdapter) Contains(ctx context.Context, id any, keyspace string) (bool, error) {
	m, err := a.Map(ctx, keyspace)
	if err != nil {
		return false, err
	}
	return m.ContainsKey(ctx, id)
}

func (a *KeyValueAdapter) Get(ctx context.Context, id any, keyspace string) (any, error) {
	m, err := a.Map(ctx, keyspace)
	if err != nil {
		return nil, err
	}
	return m.Get(ctx, id)
}

func (a *KeyValueAdapter) Delete(ctx context.Context, id any, keyspace string) (any, error) {
	m, err := a.Map(ctx, keyspace)
	if err != nil {
		return nil, err
	}
	return m.Remove(ctx, id)
}

func (a *KeyValueAdapter) GetAllOf(ctx context.Context, keyspace string) ([]any, error) {
	m, err := a.Map(ctx, keyspace)
	if err != nil {
		return nil, err
	}
	return m.Values(ctx, nil)
}

func (a *KeyValueAdapter) Entries(ctx context.Context, keyspace string) (keyvalue.Iterator, error) {
	m, err := a.Map(ctx, keyspace)
	if err != nil {
		return nil, err
	}
	entries, err := m.Entries(ctx)
	if err != nil {
		return nil, err
	}
	return keyvalue.NewSliceIterator(entries), nil
}

func (a *KeyValueAdapter) DeleteAllOf(ctx context.Context, keyspace string) error {
	m, err := a.Map(ctx, keyspace)
	if err != nil {
		return err
	}
	return m.Clear(ctx)
}

// Clear shuts the instance down. Every keyspace goes with it.
func (a *KeyValueAdapter) Clear(ctx context.Context) error {
	inst := a.Instance()
	if err := inst.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down instance %s: %w", inst.Name(), err)
	}
	logging.LoggerFromContext(ctx, a.logger).Info("instance shut down", zap.String("instance", inst.Name()))
	return nil
}

func (a *KeyValueAdapter) Count(ctx context.Context, keyspace string) (int64, error) {
	m, err := a.Map(ctx, keyspace)
	if err != nil {
		return 0, err
	}
	n, err := m.Size(ctx)
	return int64(n), err
}

func (a *KeyValueAdapter) Find(ctx context.Context, q *keyvalue.Query, keyspace string) ([]any, error) {
	return a.engine.Execute(ctx, q, keyspace)
}

func (a *KeyValueAdapter) CountQuery(ctx context.Context, q *keyvalue.Query, keyspace string) (int64, error) {
	return a.engine.Count(ctx, q, keyspace)
}

// Close destroys the adapter by clearing it.
func (a *KeyValueAdapter) Close() error {
	return a.Clear(context.Background())
}

// isNil reports nil interfaces and typed nil pointers, maps, slices and funcs.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
