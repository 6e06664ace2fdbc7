/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package predicate

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
)

// Compare orders two attribute values. It reports false when the values are not
// comparable with each other. Numbers of any kind compare numerically; strings,
// bools and times (including strfmt.DateTime) compare naturally. Pointers are
// dereferenced.
func Compare(a, b any) (int, bool) {
	a, b = normalize(a), normalize(b)
	if a == nil || b == nil {
		return 0, false
	}

	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		}
		return 0, true
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		}
		return 1, true
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return av.Compare(bv), true
	}
	return 0, false
}

// Equals reports whether two attribute values are equal, comparing numbers
// across kinds. nil equals only nil.
func Equals(a, b any) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	if c, ok := Compare(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func normalize(v any) any {
	if isNil(v) {
		return nil
	}

	switch tv := v.(type) {
	case strfmt.DateTime:
		return time.Time(tv)
	case *strfmt.DateTime:
		return time.Time(*tv)
	case strfmt.Date:
		return time.Time(tv)
	case time.Time:
		return tv
	}

	rv := reflect.ValueOf(v)
	deref := false
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
		deref = true
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	}

	if deref {
		return normalize(rv.Interface())
	}
	return v
}
