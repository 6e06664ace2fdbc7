/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package predicate

import (
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/mitchellh/mapstructure"
)

const (
	// KeyAttribute names the entry key in attribute paths.
	KeyAttribute = "__key"
	// ThisAttribute names the entry value itself.
	ThisAttribute = "this"
)

// Attribute resolves a dotted attribute path against an entry. The first
// segment may be KeyAttribute or ThisAttribute; otherwise the path starts at
// the entry value. Map keys and struct fields are matched exactly first, then by
// json tag, then case-insensitively.
func Attribute(entry Entry, path string) (any, bool) {
	segments := strings.Split(path, ".")

	current := entry.Value
	switch segments[0] {
	case KeyAttribute:
		current = entry.Key
		segments = segments[1:]
	case ThisAttribute:
		segments = segments[1:]
	}

	for _, segment := range segments {
		next, ok := field(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func field(v any, name string) (any, bool) {
	if isNil(v) {
		return nil, false
	}

	if m, ok := v.(map[string]any); ok {
		return lookup(m, name)
	}

	rv := reflect.Indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return lookup(m, name)
	case reflect.Struct:
		if isLeaf(rv.Interface()) {
			return nil, false
		}
		if got, ok := structField(rv, name); ok {
			return got, true
		}
		return lookup(project(rv.Interface()), name)
	}
	return nil, false
}

// structField matches by Go field name or json tag.
func structField(rv reflect.Value, name string) (any, bool) {
	typ := rv.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if f.Name == name || (tag != "" && tag == name) {
			return rv.Field(i).Interface(), true
		}
	}
	return nil, false
}

// project flattens a struct into a map, keyed by field name, so that embedded
// fields and case-insensitive names resolve the same way as map keys.
func project(v any) (out map[string]any) {
	out = make(map[string]any)
	defer func() {
		if recover() != nil {
			out = map[string]any{}
		}
	}()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &out,
		TagName: "json",
		Squash:  true,
	})
	if err != nil {
		return out
	}
	if err := decoder.Decode(v); err != nil {
		return map[string]any{}
	}
	return out
}

func lookup(m map[string]any, name string) (any, bool) {
	if got, ok := m[name]; ok {
		return got, true
	}
	// several keys may fold to name; the lowest one wins
	var candidates []string
	for k := range m {
		if strings.EqualFold(k, name) {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}
	sort.Strings(candidates)
	return m[candidates[0]], true
}

func isLeaf(v any) bool {
	switch v.(type) {
	case time.Time, strfmt.DateTime, strfmt.Date:
		return true
	}
	return false
}
