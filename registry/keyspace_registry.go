/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"sync"
)

// keyspaceRegistry maps Go types to the keyspace (map name) their entities live in.

var (
	keyspaceRegistry = make(map[reflect.Type]string)
	mu               sync.RWMutex
)

// RegisterKeyspace associates a Go type T with a keyspace name.
func RegisterKeyspace[T any](keyspace string) {
	var zero T
	t := reflect.TypeOf(zero)

	mu.Lock()
	defer mu.Unlock()
	keyspaceRegistry[t] = keyspace
}

// GetKeyspace retrieves the keyspace for type T, if any.
func GetKeyspace[T any]() (string, bool) {
	var zero T
	t := reflect.TypeOf(zero)

	mu.RLock()
	defer mu.RUnlock()
	ks, ok := keyspaceRegistry[t]
	return ks, ok
}

// KeyspaceOf returns the registered keyspace for T, or the name of T itself
// when nothing was registered.
func KeyspaceOf[T any]() string {
	if ks, ok := GetKeyspace[T](); ok {
		return ks
	}

	typ := reflect.TypeOf((*T)(nil)).Elem()
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Name() != "" {
		return typ.Name()
	}
	return typ.String()
}
