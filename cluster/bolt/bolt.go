/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package bolt implements a file-backed cluster instance on bbolt. Each map is
// a bucket; keys are stored in their codec encoding and values in the codec
// envelope, so registered types come back with their Go type.
package bolt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/suparena/mapstore/cluster"
	"github.com/suparena/mapstore/codec"
	"github.com/suparena/mapstore/predicate"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var _ cluster.Instance = (*Instance)(nil)

// Instance is a bbolt database holding one bucket per map.
type Instance struct {
	name      string
	db        *bolt.DB
	removeDir bool
	logger    *zap.Logger

	mu     sync.RWMutex
	closed bool
}

// Option configures an Instance.
type Option func(*Instance)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *zap.Logger) Option {
	return func(i *Instance) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// Open opens (or creates) the database at path.
func Open(path, name string, opts ...Option) (*Instance, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("could not open bbolt store at %s: %w", path, err)
	}

	inst := &Instance{name: name, db: db, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(inst)
	}
	inst.logger.Debug("bolt instance opened", zap.String("instance", name), zap.String("path", path))
	return inst, nil
}

// OpenTemp opens a database in a fresh temporary directory that is removed on
// Shutdown.
func OpenTemp(name string, opts ...Option) (*Instance, error) {
	dir, err := os.MkdirTemp("", "mapstore-bolt-")
	if err != nil {
		return nil, fmt.Errorf("could not create temp dir: %w", err)
	}

	inst, err := Open(filepath.Join(dir, uuid.NewString()+".db"), name, opts...)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}
	inst.removeDir = true
	return inst, nil
}

func (i *Instance) Name() string { return i.name }

// Path returns the database file path.
func (i *Instance) Path() string { return i.db.Path() }

func (i *Instance) Map(ctx context.Context, name string) (cluster.Map, error) {
	if name == "" {
		return nil, fmt.Errorf("bolt map name must not be empty")
	}
	err := i.update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(name))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("could not ensure bucket %s: %w", name, err)
	}
	return &Map{name: name, owner: i}, nil
}

// Shutdown closes the database. Temporary databases are deleted.
func (i *Instance) Shutdown(_ context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return nil
	}
	i.closed = true

	path := i.db.Path()
	if err := i.db.Close(); err != nil {
		return fmt.Errorf("could not close bbolt store: %w", err)
	}
	if i.removeDir {
		if err := os.RemoveAll(filepath.Dir(path)); err != nil {
			return fmt.Errorf("could not remove %s: %w", path, err)
		}
	}
	i.logger.Debug("bolt instance shut down", zap.String("instance", i.name))
	return nil
}

func (i *Instance) update(fn func(tx *bolt.Tx) error) error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return cluster.ErrNotActive
	}
	return i.db.Update(fn)
}

func (i *Instance) view(fn func(tx *bolt.Tx) error) error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return cluster.ErrNotActive
	}
	return i.db.View(fn)
}

var _ cluster.Map = (*Map)(nil)

// Map is a bucket of an Instance.
type Map struct {
	name  string
	owner *Instance
}

func (m *Map) Name() string { return m.name }

func (m *Map) bucket(tx *bolt.Tx) (*bolt.Bucket, error) {
	b := tx.Bucket([]byte(m.name))
	if b == nil {
		return nil, fmt.Errorf("bucket %s does not exist", m.name)
	}
	return b, nil
}

func (m *Map) Put(_ context.Context, key, value any) (any, error) {
	k, err := codec.EncodeKey(key)
	if err != nil {
		return nil, err
	}
	data, err := codec.Marshal(value)
	if err != nil {
		return nil, err
	}

	var previous any
	err = m.owner.update(func(tx *bolt.Tx) error {
		b, err := m.bucket(tx)
		if err != nil {
			return err
		}
		if previous, err = decode(b.Get([]byte(k))); err != nil {
			return err
		}
		return b.Put([]byte(k), data)
	})
	if err != nil {
		return nil, fmt.Errorf("put %s in %s: %w", k, m.name, err)
	}
	return previous, nil
}

func (m *Map) Get(_ context.Context, key any) (any, error) {
	k, err := codec.EncodeKey(key)
	if err != nil {
		return nil, err
	}

	var value any
	err = m.owner.view(func(tx *bolt.Tx) error {
		b, err := m.bucket(tx)
		if err != nil {
			return err
		}
		value, err = decode(b.Get([]byte(k)))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get %s from %s: %w", k, m.name, err)
	}
	return value, nil
}

func (m *Map) Remove(_ context.Context, key any) (any, error) {
	k, err := codec.EncodeKey(key)
	if err != nil {
		return nil, err
	}

	var previous any
	err = m.owner.update(func(tx *bolt.Tx) error {
		b, err := m.bucket(tx)
		if err != nil {
			return err
		}
		if previous, err = decode(b.Get([]byte(k))); err != nil {
			return err
		}
		return b.Delete([]byte(k))
	})
	if err != nil {
		return nil, fmt.Errorf("remove %s from %s: %w", k, m.name, err)
	}
	return previous, nil
}

func (m *Map) ContainsKey(_ context.Context, key any) (bool, error) {
	k, err := codec.EncodeKey(key)
	if err != nil {
		return false, err
	}

	var found bool
	err = m.owner.view(func(tx *bolt.Tx) error {
		b, err := m.bucket(tx)
		if err != nil {
			return err
		}
		found = b.Get([]byte(k)) != nil
		return nil
	})
	return found, err
}

// Clear drops and recreates the bucket.
func (m *Map) Clear(_ context.Context) error {
	return m.owner.update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(m.name)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucket([]byte(m.name))
		return err
	})
}

func (m *Map) Size(_ context.Context) (int, error) {
	var n int
	err := m.owner.view(func(tx *bolt.Tx) error {
		b, err := m.bucket(tx)
		if err != nil {
			return err
		}
		n = b.Stats().KeyN
		return nil
	})
	return n, err
}

// Entries returns the entries in encoded key order.
func (m *Map) Entries(_ context.Context) ([]predicate.Entry, error) {
	var entries []predicate.Entry
	err := m.owner.view(func(tx *bolt.Tx) error {
		b, err := m.bucket(tx)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, v []byte) error {
			key, err := codec.DecodeKey(string(k))
			if err != nil {
				return err
			}
			value, err := decode(v)
			if err != nil {
				return err
			}
			entries = append(entries, predicate.Entry{Key: key, Value: value})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("entries of %s: %w", m.name, err)
	}
	return entries, nil
}

func (m *Map) Values(ctx context.Context, p predicate.Predicate) ([]any, error) {
	entries, err := m.Entries(ctx)
	if err != nil {
		return nil, err
	}
	return predicate.Values(entries, p), nil
}

func (m *Map) KeySet(ctx context.Context, p predicate.Predicate) ([]any, error) {
	entries, err := m.Entries(ctx)
	if err != nil {
		return nil, err
	}
	return predicate.Keys(entries, p), nil
}

// decode unmarshals a stored value. The bytes are only valid inside the
// transaction, so decoding happens there.
func decode(data []byte) (any, error) {
	if data == nil {
		return nil, nil
	}
	return codec.Unmarshal(data)
}
