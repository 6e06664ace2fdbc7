/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapstore

import (
	"context"
	"fmt"

	"github.com/suparena/mapstore/cluster"
	"github.com/suparena/mapstore/cluster/bolt"
	"github.com/suparena/mapstore/cluster/ddb"
	"github.com/suparena/mapstore/cluster/memory"
	"github.com/suparena/mapstore/config"
	"github.com/suparena/mapstore/errors"
	"github.com/suparena/mapstore/keyvalue"
	"github.com/suparena/mapstore/logging"
	"github.com/suparena/mapstore/repository"
	"go.uber.org/zap"
)

// Store wires a cluster instance, the adapter, a template and a repository
// factory together from a config.Config.
type Store struct {
	cfg      *config.Config
	logger   *zap.Logger
	adapter  *KeyValueAdapter
	template *keyvalue.Template
	factory  *repository.Factory
	repos    *Repositories
}

// OpenOption configures Open.
type OpenOption func(*openOptions)

type openOptions struct {
	logger    *zap.Logger
	ddbClient ddb.Client
}

// UseLogger replaces the logger built from the configured log level.
func UseLogger(logger *zap.Logger) OpenOption {
	return func(o *openOptions) { o.logger = logger }
}

// UseDynamoDBClient makes the dynamodb backend use client instead of
// creating one from the configured credentials.
func UseDynamoDBClient(client ddb.Client) OpenOption {
	return func(o *openOptions) { o.ddbClient = client }
}

// Open validates cfg and starts the configured backend. A nil cfg is
// config.Default().
func Open(ctx context.Context, cfg *config.Config, opts ...OpenOption) (*Store, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		var err error
		logger, err = logging.New(cfg.LogLevel)
		if err != nil {
			return nil, errors.NewValidationError("logLevel", err.Error())
		}
	}

	instance, err := openInstance(ctx, cfg, o, logger)
	if err != nil {
		return nil, err
	}

	adapter, err := NewKeyValueAdapter(instance, WithLogger(logger))
	if err != nil {
		return nil, err
	}
	template := keyvalue.NewTemplate(adapter, keyvalue.WithLogger(logger))

	factory, err := repository.NewFactory(template, cfg.Repositories, repository.WithLogger(logger))
	if err != nil {
		_ = adapter.Close()
		return nil, err
	}

	logger.Info("mapstore opened",
		zap.String("backend", cfg.Backend),
		zap.String("instance", instance.Name()))

	return &Store{
		cfg:      cfg,
		logger:   logger,
		adapter:  adapter,
		template: template,
		factory:  factory,
		repos:    NewRepositories(),
	}, nil
}

func openInstance(ctx context.Context, cfg *config.Config, o openOptions, logger *zap.Logger) (cluster.Instance, error) {
	switch cfg.Backend {
	case config.BackendBolt:
		if cfg.Bolt.Path == "" {
			return bolt.OpenTemp(cfg.Instance, bolt.WithLogger(logger))
		}
		return bolt.Open(cfg.Bolt.Path, cfg.Instance, bolt.WithLogger(logger))

	case config.BackendDynamoDB:
		d := cfg.DynamoDB
		instanceOpts := []ddb.Option{
			ddb.WithLogger(logger),
			ddb.WithPageSize(d.PageSize),
			ddb.WithBatchRetries(d.BatchRetries, d.BatchBackoff),
		}
		if o.ddbClient != nil {
			return ddb.New(o.ddbClient, d.Table, cfg.Instance, instanceOpts...), nil
		}
		return ddb.Open(ctx, ddb.ClientOptions{
			Region:    d.Region,
			AccessKey: d.AccessKey,
			SecretKey: d.SecretKey,
			Endpoint:  d.Endpoint,
		}, d.Table, cfg.Instance, instanceOpts...)

	case config.BackendMemory:
		return memory.GetOrCreate(cfg.Instance), nil
	}
	return nil, errors.NewValidationError("backend", fmt.Sprintf("unknown backend %q", cfg.Backend))
}

func (s *Store) Config() *config.Config       { return s.cfg }
func (s *Store) Logger() *zap.Logger          { return s.logger }
func (s *Store) Adapter() *KeyValueAdapter    { return s.adapter }
func (s *Store) Template() *keyvalue.Template { return s.template }
func (s *Store) Factory() *repository.Factory { return s.factory }
func (s *Store) Repositories() *Repositories  { return s.repos }

// Close shuts the instance down. In-memory data is lost; bolt and DynamoDB
// data is kept.
func (s *Store) Close() error {
	err := s.adapter.Close()
	_ = s.logger.Sync()
	return err
}

// RepositoryFor returns the repository for T in the keyspace of info,
// creating and registering it on first use. Methods are only declared when
// the repository is created.
func RepositoryFor[T any, ID comparable](s *Store, info repository.EntityInformation[T, ID], methods ...repository.Method) (repository.Repository[T, ID], error) {
	keyspace := info.KeyspaceName()
	typed := Typed[T, ID](s.repos)

	if repo, err := typed.Get(keyspace); err == nil {
		return repo, nil
	}

	repo, err := repository.NewRepository(s.factory, info, methods...)
	if err != nil {
		return nil, err
	}
	if err := typed.Register(keyspace, repo); err != nil {
		if errors.IsAlreadyExists(err) {
			// registered concurrently
			return typed.Get(keyspace)
		}
		return nil, err
	}
	return repo, nil
}
