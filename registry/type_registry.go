/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/suparena/mapstore/errors"
)

var (
	typesMu   sync.RWMutex
	typesByID = make(map[string]reflect.Type)
	namesByT  = make(map[reflect.Type]string)
)

// Register associates the Go type T with a type name. Stored values of type T
// (or *T) are tagged with the name so backends that serialize can restore them.
// Registering the same name twice panics to prevent accidental overrides.
func Register[T any](name string) {
	var zero T
	RegisterType(name, reflect.TypeOf(zero))
}

// RegisterType is the non-generic form of Register.
func RegisterType(name string, typ reflect.Type) {
	if typ == nil {
		panic(fmt.Sprintf("type registry: nil type for name %q", name))
	}
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	typesMu.Lock()
	defer typesMu.Unlock()

	if existing, exists := typesByID[name]; exists {
		panic(fmt.Sprintf("type registry: name %q already registered for %s", name, existing))
	}
	typesByID[name] = typ
	namesByT[typ] = name
}

// Lookup returns the Go type registered under name.
func Lookup(name string) (reflect.Type, error) {
	typesMu.RLock()
	defer typesMu.RUnlock()

	typ, ok := typesByID[name]
	if !ok {
		return nil, errors.NewUnknownTypeError(name)
	}
	return typ, nil
}

// NameOf returns the registered name for the dynamic type of v and whether v
// was a pointer to that type.
func NameOf(v any) (name string, pointer bool, ok bool) {
	typ := reflect.TypeOf(v)
	if typ == nil {
		return "", false, false
	}
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
		pointer = true
	}

	typesMu.RLock()
	defer typesMu.RUnlock()

	name, ok = namesByT[typ]
	return name, pointer, ok
}
