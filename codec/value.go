/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"fmt"
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"github.com/suparena/mapstore/registry"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// envelope is the stored form of a value: the registered type name, whether the
// value was a pointer, and the JSON payload.
type envelope struct {
	Type    string              `json:"type,omitempty"`
	Pointer bool                `json:"ptr,omitempty"`
	Value   jsoniter.RawMessage `json:"value"`
}

// Marshal encodes v together with its registered type name.
func Marshal(v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}

	name, ptr := TypeOf(v)
	return json.Marshal(envelope{Type: name, Pointer: ptr, Value: payload})
}

// Unmarshal decodes data produced by Marshal. Values of registered types come
// back as their Go type; anything else decodes into generic JSON values.
func Unmarshal(data []byte) (any, error) {
	if data == nil {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}

	return Materialize(env.Type, env.Pointer, func(target any) error {
		return json.Unmarshal(env.Value, target)
	})
}

// TypeOf returns the registered type name of v ("" when unregistered) and
// whether v is a pointer.
func TypeOf(v any) (name string, pointer bool) {
	name, pointer, ok := registry.NameOf(v)
	if !ok {
		return "", false
	}
	return name, pointer
}

// Materialize allocates a value of the type registered under name, fills it
// through decode and returns it (as a pointer when pointer is set). An empty
// name decodes into an untyped value.
func Materialize(name string, pointer bool, decode func(target any) error) (any, error) {
	if name == "" {
		var generic any
		if err := decode(&generic); err != nil {
			return nil, fmt.Errorf("failed to decode untyped value: %w", err)
		}
		return generic, nil
	}

	typ, err := registry.Lookup(name)
	if err != nil {
		return nil, err
	}

	target := reflect.New(typ)
	if err := decode(target.Interface()); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	if pointer {
		return target.Interface(), nil
	}
	return target.Elem().Interface(), nil
}

// Document converts v into its generic JSON form (maps, slices, strings,
// float64, bool and nil). Stores with their own document model keep values in
// this form so field names and formats match the JSON envelope.
func Document(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return doc, nil
}

// FromDocument fills target, a pointer, from a document made by Document.
func FromDocument(doc any, target any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	return json.Unmarshal(data, target)
}
