/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package memory implements an in-process cluster instance. Maps keep
// insertion order, so unsorted query results come back in the order entries
// were first written.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/suparena/mapstore/cluster"
	"github.com/suparena/mapstore/errors"
	"github.com/suparena/mapstore/predicate"
)

var (
	instancesMu sync.Mutex
	instances   = make(map[string]*Instance)
)

// GetOrCreate returns the running instance registered under name, starting a
// new one if none is running.
func GetOrCreate(name string) *Instance {
	instancesMu.Lock()
	defer instancesMu.Unlock()

	if inst, ok := instances[name]; ok {
		return inst
	}
	inst := New(name)
	instances[name] = inst
	return inst
}

// New starts an unregistered instance.
func New(name string) *Instance {
	return &Instance{name: name, maps: make(map[string]*Map), active: true}
}

var _ cluster.Instance = (*Instance)(nil)

// Instance holds named in-memory maps.
type Instance struct {
	name string

	mu     sync.Mutex
	maps   map[string]*Map
	active bool
}

func (i *Instance) Name() string { return i.name }

// Map returns the named map, creating it on first use.
func (i *Instance) Map(_ context.Context, name string) (cluster.Map, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.active {
		return nil, cluster.ErrNotActive
	}
	m, ok := i.maps[name]
	if !ok {
		m = &Map{name: name, owner: i, data: linkedhashmap.New()}
		i.maps[name] = m
	}
	return m, nil
}

// Shutdown drops every map and unregisters the instance, so the next
// GetOrCreate with the same name starts empty.
func (i *Instance) Shutdown(_ context.Context) error {
	i.mu.Lock()
	i.active = false
	i.maps = make(map[string]*Map)
	i.mu.Unlock()

	instancesMu.Lock()
	if instances[i.name] == i {
		delete(instances, i.name)
	}
	instancesMu.Unlock()
	return nil
}

// Active reports whether Shutdown has not been called yet.
func (i *Instance) Active() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.active
}

var _ cluster.Map = (*Map)(nil)

// Map is an insertion-ordered map guarded by a RWMutex.
type Map struct {
	name  string
	owner *Instance

	mu   sync.RWMutex
	data *linkedhashmap.Map
}

func (m *Map) Name() string { return m.name }

func (m *Map) check(key any) error {
	if !m.owner.Active() {
		return cluster.ErrNotActive
	}
	if key == nil {
		return errors.NewValidationError("key", "must not be nil")
	}
	if !reflect.TypeOf(key).Comparable() || !hashable(key) {
		return errors.NewUnsupportedError("memory map key", key)
	}
	return nil
}

// hashable reports whether key can be used as a Go map key. Comparable
// struct and array types still panic when an interface field holds an
// unhashable value.
func hashable(key any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	seen := map[any]struct{}{}
	seen[key] = struct{}{}
	return true
}

func (m *Map) Put(_ context.Context, key, value any) (any, error) {
	if err := m.check(key); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	previous, _ := m.data.Get(key)
	m.data.Put(key, value)
	return previous, nil
}

func (m *Map) Get(_ context.Context, key any) (any, error) {
	if err := m.check(key); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, _ := m.data.Get(key)
	return value, nil
}

func (m *Map) Remove(_ context.Context, key any) (any, error) {
	if err := m.check(key); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	previous, found := m.data.Get(key)
	if found {
		m.data.Remove(key)
	}
	return previous, nil
}

func (m *Map) ContainsKey(_ context.Context, key any) (bool, error) {
	if err := m.check(key); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, found := m.data.Get(key)
	return found, nil
}

func (m *Map) Clear(_ context.Context) error {
	if !m.owner.Active() {
		return cluster.ErrNotActive
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.Clear()
	return nil
}

func (m *Map) Size(_ context.Context) (int, error) {
	if !m.owner.Active() {
		return 0, cluster.ErrNotActive
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.Size(), nil
}

func (m *Map) Entries(_ context.Context) ([]predicate.Entry, error) {
	if !m.owner.Active() {
		return nil, cluster.ErrNotActive
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]predicate.Entry, 0, m.data.Size())
	it := m.data.Iterator()
	for it.Next() {
		entries = append(entries, predicate.Entry{Key: it.Key(), Value: it.Value()})
	}
	return entries, nil
}

func (m *Map) Values(ctx context.Context, p predicate.Predicate) ([]any, error) {
	entries, err := m.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("values of %s: %w", m.name, err)
	}
	return predicate.Values(entries, p), nil
}

func (m *Map) KeySet(ctx context.Context, p predicate.Predicate) ([]any, error) {
	entries, err := m.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("key set of %s: %w", m.name, err)
	}
	return predicate.Keys(entries, p), nil
}
