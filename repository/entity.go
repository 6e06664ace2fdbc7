/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/suparena/mapstore/errors"
	"github.com/suparena/mapstore/registry"
)

// EntityInformation describes how a repository stores T.
type EntityInformation[T any, ID comparable] struct {
	// Keyspace names the map. Empty means the keyspace registered for T, or
	// the type name.
	Keyspace string

	// ID returns the id of an entity. Nil means the field tagged
	// `mapstore:"id"`, or else the field named ID or Id.
	ID func(T) ID

	// SetID assigns a generated id. Nil means the same field as ID.
	SetID func(*T, ID)
}

// KeyspaceName returns the resolved keyspace.
func (e EntityInformation[T, ID]) KeyspaceName() string {
	if e.Keyspace != "" {
		return e.Keyspace
	}
	return registry.KeyspaceOf[T]()
}

// IDOf returns the id of entity.
func (e EntityInformation[T, ID]) IDOf(entity T) (ID, error) {
	if e.ID != nil {
		return e.ID(entity), nil
	}

	var zero ID
	field, err := idField(reflect.ValueOf(&entity).Elem())
	if err != nil {
		return zero, err
	}
	id, ok := field.Interface().(ID)
	if !ok {
		return zero, errors.NewValidationError("id", fmt.Sprintf("id field of %T is %s, not %T", entity, field.Type(), zero))
	}
	return id, nil
}

func (e EntityInformation[T, ID]) assignID(entity *T, id ID) error {
	if e.SetID != nil {
		e.SetID(entity, id)
		return nil
	}
	if e.ID != nil {
		return errors.NewValidationError("id", "custom ID accessor without SetID cannot assign ids")
	}

	field, err := idField(reflect.ValueOf(entity).Elem())
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return errors.NewValidationError("id", "id field cannot be set")
	}
	field.Set(reflect.ValueOf(id))
	return nil
}

// IsNew reports whether entity has a zero id.
func (e EntityInformation[T, ID]) IsNew(entity T) (bool, error) {
	id, err := e.IDOf(entity)
	if err != nil {
		return false, err
	}
	var zero ID
	return id == zero, nil
}

// newID generates a random id when ID is a string kind.
func newID[ID comparable]() (ID, bool) {
	var id ID
	v := reflect.ValueOf(&id).Elem()
	if v.Kind() != reflect.String {
		return id, false
	}
	v.SetString(uuid.NewString())
	return id, true
}

// idField finds the id field of a struct or struct pointer value.
func idField(v reflect.Value) (reflect.Value, error) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, errors.NewValidationError("entity", "must not be nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, errors.NewUnsupportedError("id lookup", v.Interface())
	}

	typ := v.Type()
	byName := -1
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		if tag, _, _ := strings.Cut(f.Tag.Get("mapstore"), ","); tag == "id" {
			return v.Field(i), nil
		}
		if byName < 0 && (f.Name == "ID" || f.Name == "Id") {
			byName = i
		}
	}
	if byName < 0 {
		return reflect.Value{}, errors.NewValidationError("id", fmt.Sprintf("%s has no id field", typ))
	}
	return v.Field(byName), nil
}

// convert turns a stored value into T. Values stored as T or *T convert
// directly; maps (untyped values read back from a backend) are decoded with
// mapstructure using json tags.
func convert[T any](v any) (T, error) {
	var zero T
	if v == nil {
		return zero, errors.NewValidationError("value", "must not be nil")
	}
	if t, ok := v.(T); ok {
		return t, nil
	}

	target := reflect.TypeOf((*T)(nil)).Elem()
	rv := reflect.ValueOf(v)

	switch {
	case rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Type() == target:
		return rv.Elem().Interface().(T), nil
	case target.Kind() == reflect.Pointer && rv.Type() == target.Elem():
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(rv)
		return ptr.Interface().(T), nil
	case rv.Kind() == reflect.Map:
		var out T
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &out,
			TagName:          "json",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				dateTimeHook,
				mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
			),
		})
		if err != nil {
			return zero, err
		}
		if err := decoder.Decode(v); err != nil {
			return zero, fmt.Errorf("failed to decode %T into %s: %w", v, target, err)
		}
		return out, nil
	}

	return zero, errors.NewUnsupportedError(fmt.Sprintf("conversion to %s", target), v)
}

var dateTimeType = reflect.TypeOf(strfmt.DateTime{})

func dateTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != dateTimeType {
		return data, nil
	}
	return strfmt.ParseDateTime(reflect.ValueOf(data).String())
}
