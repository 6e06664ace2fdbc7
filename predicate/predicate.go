/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package predicate

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// Entry is one key/value pair of a map.
type Entry struct {
	Key   any
	Value any
}

// Predicate filters map entries.
type Predicate interface {
	Apply(entry Entry) bool
}

// Func adapts a plain function to Predicate.
type Func func(entry Entry) bool

// Apply calls f.
func (f Func) Apply(entry Entry) bool {
	return f(entry)
}

// Comparator orders two entries: negative if a sorts first, positive if b does.
type Comparator func(a, b Entry) int

type constant bool

func (c constant) Apply(Entry) bool { return bool(c) }

func (c constant) String() string {
	if c {
		return "true"
	}
	return "false"
}

// True matches every entry.
func True() Predicate { return constant(true) }

// False matches no entry.
func False() Predicate { return constant(false) }

type comparison struct {
	attribute string
	op        string
	value     any
}

func (p *comparison) Apply(entry Entry) bool {
	got, ok := Attribute(entry, p.attribute)
	if !ok {
		return false
	}

	switch p.op {
	case "=":
		return Equals(got, p.value)
	case "!=":
		return !Equals(got, p.value)
	}

	c, ok := Compare(got, p.value)
	if !ok {
		return false
	}
	switch p.op {
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	}
	return false
}

func (p *comparison) String() string {
	return fmt.Sprintf("%s %s %v", p.attribute, p.op, p.value)
}

// Equal matches entries whose attribute equals value.
func Equal(attribute string, value any) Predicate {
	return &comparison{attribute: attribute, op: "=", value: value}
}

// NotEqual matches entries whose attribute differs from value. Entries without
// the attribute never match.
func NotEqual(attribute string, value any) Predicate {
	return &comparison{attribute: attribute, op: "!=", value: value}
}

// GreaterThan matches entries whose attribute is greater than value.
func GreaterThan(attribute string, value any) Predicate {
	return &comparison{attribute: attribute, op: ">", value: value}
}

// GreaterEqual matches entries whose attribute is greater than or equal to value.
func GreaterEqual(attribute string, value any) Predicate {
	return &comparison{attribute: attribute, op: ">=", value: value}
}

// LessThan matches entries whose attribute is less than value.
func LessThan(attribute string, value any) Predicate {
	return &comparison{attribute: attribute, op: "<", value: value}
}

// LessEqual matches entries whose attribute is less than or equal to value.
func LessEqual(attribute string, value any) Predicate {
	return &comparison{attribute: attribute, op: "<=", value: value}
}

// Between matches entries whose attribute lies in [from, to].
func Between(attribute string, from, to any) Predicate {
	return And(GreaterEqual(attribute, from), LessEqual(attribute, to))
}

type equalFold struct {
	attribute string
	value     string
}

func (p *equalFold) Apply(entry Entry) bool {
	got, ok := Attribute(entry, p.attribute)
	if !ok {
		return false
	}
	s, ok := got.(string)
	return ok && strings.EqualFold(s, p.value)
}

// EqualIgnoreCase matches string attributes equal to value ignoring case.
func EqualIgnoreCase(attribute string, value string) Predicate {
	return &equalFold{attribute: attribute, value: value}
}

type in struct {
	attribute string
	values    []any
}

func (p *in) Apply(entry Entry) bool {
	got, ok := Attribute(entry, p.attribute)
	if !ok {
		return false
	}
	for _, v := range p.values {
		if Equals(got, v) {
			return true
		}
	}
	return false
}

// In matches entries whose attribute equals one of values.
func In(attribute string, values ...any) Predicate {
	return &in{attribute: attribute, values: values}
}

type isNull struct {
	attribute string
}

func (p *isNull) Apply(entry Entry) bool {
	got, ok := Attribute(entry, p.attribute)
	return !ok || isNil(got)
}

// IsNull matches entries whose attribute is missing or nil.
func IsNull(attribute string) Predicate {
	return &isNull{attribute: attribute}
}

type pattern struct {
	attribute string
	re        *regexp.Regexp
}

func (p *pattern) Apply(entry Entry) bool {
	got, ok := Attribute(entry, p.attribute)
	if !ok {
		return false
	}
	if isNil(got) {
		return false
	}
	s, ok := got.(string)
	if !ok {
		s = fmt.Sprint(reflect.Indirect(reflect.ValueOf(got)).Interface())
	}
	return p.re.MatchString(s)
}

// Like matches string attributes against a SQL LIKE pattern where % matches any
// run of characters and _ matches one character. A backslash escapes either.
func Like(attribute, like string) Predicate {
	return &pattern{attribute: attribute, re: regexp.MustCompile(likeToRegexp(like, false))}
}

// ILike is the case-insensitive form of Like.
func ILike(attribute, like string) Predicate {
	return &pattern{attribute: attribute, re: regexp.MustCompile(likeToRegexp(like, true))}
}

// Regex matches string attributes against a regular expression. The whole
// attribute must match.
func Regex(attribute, expr string) (Predicate, error) {
	re, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		return nil, fmt.Errorf("invalid regex %q: %w", expr, err)
	}
	return &pattern{attribute: attribute, re: re}, nil
}

// EscapeLike escapes the LIKE wildcards in s so it matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func likeToRegexp(like string, fold bool) string {
	var b strings.Builder
	if fold {
		b.WriteString("(?is)^")
	} else {
		b.WriteString("(?s)^")
	}

	escaped := false
	for _, r := range like {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			b.WriteString(".*")
		case r == '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	if escaped {
		b.WriteString(regexp.QuoteMeta(`\`))
	}

	b.WriteString("$")
	return b.String()
}

type and []Predicate

func (ps and) Apply(entry Entry) bool {
	for _, p := range ps {
		if p != nil && !p.Apply(entry) {
			return false
		}
	}
	return true
}

type or []Predicate

func (ps or) Apply(entry Entry) bool {
	for _, p := range ps {
		if p == nil || p.Apply(entry) {
			return true
		}
	}
	return false
}

// And matches entries matching every predicate. Nil predicates are ignored.
func And(predicates ...Predicate) Predicate {
	if len(predicates) == 1 && predicates[0] != nil {
		return predicates[0]
	}
	return and(predicates)
}

// Or matches entries matching at least one predicate. A nil predicate matches
// everything.
func Or(predicates ...Predicate) Predicate {
	if len(predicates) == 1 && predicates[0] != nil {
		return predicates[0]
	}
	return or(predicates)
}

type not struct {
	inner Predicate
}

func (p not) Apply(entry Entry) bool {
	return p.inner != nil && !p.inner.Apply(entry)
}

// Not negates p. Not(nil) matches nothing.
func Not(p Predicate) Predicate {
	return not{inner: p}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

type contains struct {
	attribute string
	value     any
	fold      bool
}

func (p *contains) Apply(entry Entry) bool {
	got, ok := Attribute(entry, p.attribute)
	if !ok || isNil(got) {
		return false
	}

	if s, ok := got.(string); ok {
		sub, ok := p.value.(string)
		if !ok {
			return false
		}
		if p.fold {
			return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
		}
		return strings.Contains(s, sub)
	}

	rv := reflect.ValueOf(got)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i).Interface()
			if p.fold {
				if a, ok := elem.(string); ok {
					if b, ok := p.value.(string); ok && strings.EqualFold(a, b) {
						return true
					}
					continue
				}
			}
			if Equals(elem, p.value) {
				return true
			}
		}
	case reflect.Map:
		key := reflect.ValueOf(p.value)
		if key.IsValid() && key.Type().AssignableTo(rv.Type().Key()) {
			return rv.MapIndex(key).IsValid()
		}
	}
	return false
}

// Contains matches string attributes containing value as a substring, and
// slice, array or map attributes holding value as an element or key.
func Contains(attribute string, value any) Predicate {
	return &contains{attribute: attribute, value: value}
}

// ContainsIgnoreCase is the case-insensitive form of Contains for strings.
func ContainsIgnoreCase(attribute string, value any) Predicate {
	return &contains{attribute: attribute, value: value, fold: true}
}

type isEmpty struct {
	attribute string
}

func (p *isEmpty) Apply(entry Entry) bool {
	got, ok := Attribute(entry, p.attribute)
	if !ok || isNil(got) {
		return true
	}
	rv := reflect.ValueOf(got)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	}
	return false
}

// IsEmpty matches attributes that are missing, nil, or an empty string,
// slice or map.
func IsEmpty(attribute string) Predicate {
	return &isEmpty{attribute: attribute}
}
