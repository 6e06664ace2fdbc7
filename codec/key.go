/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/suparena/mapstore/errors"
	"github.com/suparena/mapstore/registry"
)

const uuidTag = "uuid"

// EncodeKey renders an identifier as "<kind>:<value>" so that backends keyed by
// strings or bytes can hand the original key type back from DecodeKey.
//
// Keys of a named type (type UserID string) must be registered with
// registry.Register; they encode as "<kind>@<name>:<value>" and decode back
// into the named type. Unregistered named types are unsupported, so a
// UserID("a") and a plain "a" never share an encoding.
func EncodeKey(key any) (string, error) {
	if key == nil {
		return "", errors.NewValidationError("id", "must not be nil")
	}
	if id, ok := key.(uuid.UUID); ok {
		return uuidTag + ":" + id.String(), nil
	}

	v := reflect.ValueOf(key)
	kind, raw, ok := encodeKind(v)
	if !ok {
		return "", errors.NewUnsupportedError("key encoding", key)
	}

	if v.Type().PkgPath() != "" {
		name, _, registered := registry.NameOf(key)
		if !registered {
			return "", errors.NewUnsupportedError(fmt.Sprintf("key encoding of unregistered type %s", v.Type()), key)
		}
		kind += "@" + name
	}
	return kind + ":" + raw, nil
}

func encodeKind(v reflect.Value) (kind, raw string, ok bool) {
	switch v.Kind() {
	case reflect.String:
		return "string", v.String(), true
	case reflect.Bool:
		return "bool", strconv.FormatBool(v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Kind().String(), strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Kind().String(), strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return v.Kind().String(), strconv.FormatFloat(v.Float(), 'g', -1, v.Type().Bits()), true
	}
	return "", "", false
}

// DecodeKey reverses EncodeKey.
func DecodeKey(encoded string) (any, error) {
	tag, raw, ok := strings.Cut(encoded, ":")
	if !ok {
		return nil, errors.NewValidationError("key", fmt.Sprintf("malformed encoded key %q", encoded))
	}

	kind, name, named := strings.Cut(tag, "@")
	out, err := decodeKind(kind, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key %q: %w", encoded, err)
	}
	if !named {
		return out, nil
	}

	typ, err := registry.Lookup(name)
	if err != nil {
		return nil, err
	}
	v := reflect.ValueOf(out)
	if typ.Kind() != v.Kind() {
		return nil, errors.NewValidationError("key", fmt.Sprintf("%s is a %s, not a %s key", name, typ.Kind(), v.Kind()))
	}
	return v.Convert(typ).Interface(), nil
}

func decodeKind(kind, raw string) (any, error) {
	var (
		out any
		err error
	)
	switch kind {
	case "string":
		return raw, nil
	case uuidTag:
		out, err = uuid.Parse(raw)
	case "bool":
		out, err = strconv.ParseBool(raw)
	case "int":
		var n int64
		n, err = strconv.ParseInt(raw, 10, 0)
		out = int(n)
	case "int8":
		var n int64
		n, err = strconv.ParseInt(raw, 10, 8)
		out = int8(n)
	case "int16":
		var n int64
		n, err = strconv.ParseInt(raw, 10, 16)
		out = int16(n)
	case "int32":
		var n int64
		n, err = strconv.ParseInt(raw, 10, 32)
		out = int32(n)
	case "int64":
		out, err = strconv.ParseInt(raw, 10, 64)
	case "uint":
		var n uint64
		n, err = strconv.ParseUint(raw, 10, 0)
		out = uint(n)
	case "uint8":
		var n uint64
		n, err = strconv.ParseUint(raw, 10, 8)
		out = uint8(n)
	case "uint16":
		var n uint64
		n, err = strconv.ParseUint(raw, 10, 16)
		out = uint16(n)
	case "uint32":
		var n uint64
		n, err = strconv.ParseUint(raw, 10, 32)
		out = uint32(n)
	case "uint64":
		out, err = strconv.ParseUint(raw, 10, 64)
	case "float32":
		var f float64
		f, err = strconv.ParseFloat(raw, 32)
		out = float32(f)
	case "float64":
		out, err = strconv.ParseFloat(raw, 64)
	default:
		return nil, errors.NewValidationError("key", fmt.Sprintf("unknown key kind %q", kind))
	}
	return out, err
}
