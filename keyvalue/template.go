/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package keyvalue

import (
	"context"
	"fmt"

	"github.com/suparena/mapstore/errors"
	"github.com/suparena/mapstore/logging"
	"go.uber.org/zap"
)

// Template runs key-value operations against an Adapter, adding existence
// checks, not-found errors and streaming on top of the raw contract.
type Template struct {
	adapter Adapter
	logger  *zap.Logger
}

// TemplateOption configures a Template.
type TemplateOption func(*Template)

// WithLogger sets the fallback logger. A logger in the context takes precedence.
func WithLogger(logger *zap.Logger) TemplateOption {
	return func(t *Template) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTemplate creates a template over adapter.
func NewTemplate(adapter Adapter, opts ...TemplateOption) *Template {
	t := &Template{adapter: adapter, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Adapter returns the underlying adapter.
func (t *Template) Adapter() Adapter { return t.adapter }

func (t *Template) log(ctx context.Context, keyspace string) *zap.Logger {
	return logging.LoggerFromContext(ctx, t.logger).With(zap.String("keyspace", keyspace))
}

// Insert stores item under id. It fails with an already-exists error when id
// is taken.
func (t *Template) Insert(ctx context.Context, id, item any, keyspace string) error {
	exists, err := t.adapter.Contains(ctx, id, keyspace)
	if err != nil {
		return err
	}
	if exists {
		return errors.NewAlreadyExistsError(keyspace, fmt.Sprint(id))
	}

	if _, err := t.adapter.Put(ctx, id, item, keyspace); err != nil {
		return err
	}
	t.log(ctx, keyspace).Debug("inserted", zap.Any("id", id))
	return nil
}

// Update stores item under id whether or not it exists and returns the
// previous item.
func (t *Template) Update(ctx context.Context, id, item any, keyspace string) (any, error) {
	previous, err := t.adapter.Put(ctx, id, item, keyspace)
	if err != nil {
		return nil, err
	}
	t.log(ctx, keyspace).Debug("updated", zap.Any("id", id), zap.Bool("replaced", previous != nil))
	return previous, nil
}

// FindByID returns the item stored under id or a not-found error.
func (t *Template) FindByID(ctx context.Context, id any, keyspace string) (any, error) {
	item, err := t.adapter.Get(ctx, id, keyspace)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.NewNotFoundError(keyspace, fmt.Sprint(id))
	}
	return item, nil
}

func (t *Template) Exists(ctx context.Context, id any, keyspace string) (bool, error) {
	return t.adapter.Contains(ctx, id, keyspace)
}

func (t *Template) FindAll(ctx context.Context, keyspace string) ([]any, error) {
	return t.adapter.GetAllOf(ctx, keyspace)
}

// FindAllSorted returns every item of the keyspace ordered by sort.
func (t *Template) FindAllSorted(ctx context.Context, sort any, keyspace string) ([]any, error) {
	return t.Find(ctx, &Query{Sort: sort}, keyspace)
}

// FindInRange returns rows items starting at offset, ordered by sort.
func (t *Template) FindInRange(ctx context.Context, offset, rows int, sort any, keyspace string) ([]any, error) {
	return t.Find(ctx, &Query{Sort: sort, Offset: offset, Rows: rows}, keyspace)
}

func (t *Template) Find(ctx context.Context, q *Query, keyspace string) ([]any, error) {
	items, err := t.adapter.Find(ctx, q, keyspace)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", keyspace, err)
	}
	t.log(ctx, keyspace).Debug("find", zap.Stringer("query", q), zap.Int("results", len(items)))
	return items, nil
}

func (t *Template) Count(ctx context.Context, keyspace string) (int64, error) {
	return t.adapter.Count(ctx, keyspace)
}

func (t *Template) CountQuery(ctx context.Context, q *Query, keyspace string) (int64, error) {
	n, err := t.adapter.CountQuery(ctx, q, keyspace)
	if err != nil {
		return 0, fmt.Errorf("count in %s: %w", keyspace, err)
	}
	return n, nil
}

// Delete removes id and returns the removed item, or nil if it did not exist.
func (t *Template) Delete(ctx context.Context, id any, keyspace string) (any, error) {
	removed, err := t.adapter.Delete(ctx, id, keyspace)
	if err != nil {
		return nil, err
	}
	t.log(ctx, keyspace).Debug("deleted", zap.Any("id", id), zap.Bool("existed", removed != nil))
	return removed, nil
}

// DeleteAll removes every item of the keyspace.
func (t *Template) DeleteAll(ctx context.Context, keyspace string) error {
	if err := t.adapter.DeleteAllOf(ctx, keyspace); err != nil {
		return err
	}
	t.log(ctx, keyspace).Debug("deleted all")
	return nil
}

func (t *Template) Entries(ctx context.Context, keyspace string) (Iterator, error) {
	return t.adapter.Entries(ctx, keyspace)
}

// Close closes the adapter.
func (t *Template) Close() error {
	return t.adapter.Close()
}
