/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"github.com/suparena/mapstore/keyvalue"
	"go.uber.org/zap"
)

// Factory builds repositories over one template, sharing a lookup strategy.
type Factory struct {
	template *keyvalue.Template
	lookup   *LookupStrategy
	logger   *zap.Logger
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithLogger sets the logger handed to repositories. Nil keeps the no-op logger.
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithLookupStrategy replaces the strategy built from the config.
func WithLookupStrategy(lookup *LookupStrategy) FactoryOption {
	return func(f *Factory) {
		f.lookup = lookup
	}
}

// NewFactory validates cfg and creates a factory over template.
func NewFactory(template *keyvalue.Template, cfg Config, opts ...FactoryOption) (*Factory, error) {
	f := &Factory{template: template, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}

	if f.lookup == nil {
		lookup, err := DefaultConfig().Merge(cfg).LookupStrategy()
		if err != nil {
			return nil, err
		}
		f.lookup = lookup
	}
	return f, nil
}

func (f *Factory) Template() *keyvalue.Template { return f.template }

func (f *Factory) LookupStrategy() *LookupStrategy { return f.lookup }

// NewRepository creates a repository for T. The given methods are resolved
// up front so that invalid names or declared queries fail here; other methods
// are resolved on first use.
func NewRepository[T any, ID comparable](f *Factory, info EntityInformation[T, ID], methods ...Method) (*SimpleRepository[T, ID], error) {
	repo := newSimpleRepository(f.template, info, f.lookup, f.logger)
	for _, m := range methods {
		if _, err := repo.Declare(m); err != nil {
			return nil, err
		}
	}
	return repo, nil
}
