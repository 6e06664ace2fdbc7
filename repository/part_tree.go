/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/suparena/mapstore/errors"
	"github.com/suparena/mapstore/keyvalue"
)

// Subject is what a query method does with its matches.
type Subject int

const (
	SubjectFind Subject = iota
	SubjectCount
	SubjectExists
	SubjectDelete
)

func (s Subject) String() string {
	switch s {
	case SubjectCount:
		return "count"
	case SubjectExists:
		return "exists"
	case SubjectDelete:
		return "delete"
	}
	return "find"
}

var subjectPrefixes = []struct {
	prefix  string
	subject Subject
}{
	{"find", SubjectFind},
	{"read", SubjectFind},
	{"get", SubjectFind},
	{"query", SubjectFind},
	{"search", SubjectFind},
	{"stream", SubjectFind},
	{"count", SubjectCount},
	{"exists", SubjectExists},
	{"delete", SubjectDelete},
	{"remove", SubjectDelete},
}

// subjectOf returns the subject of a method name by its prefix, defaulting to find.
func subjectOf(name string) Subject {
	lower := strings.ToLower(name)
	for _, p := range subjectPrefixes {
		if strings.HasPrefix(lower, p.prefix) {
			return p.subject
		}
	}
	return SubjectFind
}

// subjectModifiers reads Distinct and First/Top from the subject of a method
// name. Names without a known prefix carry no modifiers.
func subjectModifiers(name string) (distinct bool, maxResults int, err error) {
	lower := strings.ToLower(name)
	for _, p := range subjectPrefixes {
		if !strings.HasPrefix(lower, p.prefix) {
			continue
		}
		subject, _, _ := cutKeyword(name[len(p.prefix):], "By")
		var tree PartTree
		if err := tree.parseSubject(subject); err != nil {
			return false, 0, err
		}
		return tree.Distinct, tree.MaxResults, nil
	}
	return false, 0, nil
}

// Type is the comparison a part applies to its property.
type Type int

const (
	SimpleProperty Type = iota
	NegatingSimpleProperty
	Between
	IsNotNull
	IsNull
	LessThan
	LessThanEqual
	GreaterThan
	GreaterThanEqual
	Before
	After
	NotLike
	Like
	StartingWith
	EndingWith
	IsNotEmpty
	IsEmpty
	NotContaining
	Containing
	NotIn
	In
	Regex
	Exists
	True
	False
)

// keywords maps method name suffixes to types. Matching tries longer
// suffixes first.
var keywords = map[string]Type{
	"Is":                 SimpleProperty,
	"Equals":             SimpleProperty,
	"IsNot":              NegatingSimpleProperty,
	"Not":                NegatingSimpleProperty,
	"IsBetween":          Between,
	"Between":            Between,
	"IsNotNull":          IsNotNull,
	"NotNull":            IsNotNull,
	"IsNull":             IsNull,
	"Null":               IsNull,
	"IsLessThan":         LessThan,
	"LessThan":           LessThan,
	"IsLessThanEqual":    LessThanEqual,
	"LessThanEqual":      LessThanEqual,
	"IsGreaterThan":      GreaterThan,
	"GreaterThan":        GreaterThan,
	"IsGreaterThanEqual": GreaterThanEqual,
	"GreaterThanEqual":   GreaterThanEqual,
	"IsBefore":           Before,
	"Before":             Before,
	"IsAfter":            After,
	"After":              After,
	"IsNotLike":          NotLike,
	"NotLike":            NotLike,
	"IsLike":             Like,
	"Like":               Like,
	"IsStartingWith":     StartingWith,
	"StartingWith":       StartingWith,
	"StartsWith":         StartingWith,
	"IsEndingWith":       EndingWith,
	"EndingWith":         EndingWith,
	"EndsWith":           EndingWith,
	"IsNotEmpty":         IsNotEmpty,
	"NotEmpty":           IsNotEmpty,
	"IsEmpty":            IsEmpty,
	"Empty":              IsEmpty,
	"IsNotContaining":    NotContaining,
	"NotContaining":      NotContaining,
	"NotContains":        NotContaining,
	"IsContaining":       Containing,
	"Containing":         Containing,
	"Contains":           Containing,
	"IsNotIn":            NotIn,
	"NotIn":              NotIn,
	"IsIn":               In,
	"In":                 In,
	"MatchesRegex":       Regex,
	"Matches":            Regex,
	"Regex":              Regex,
	"Exists":             Exists,
	"IsTrue":             True,
	"True":               True,
	"IsFalse":            False,
	"False":              False,
}

var keywordsBySize = func() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}()

// NumberOfArguments returns how many method arguments a part of type t binds.
func (t Type) NumberOfArguments() int {
	switch t {
	case Between:
		return 2
	case IsNull, IsNotNull, IsEmpty, IsNotEmpty, Exists, True, False:
		return 0
	}
	return 1
}

// Part is one condition of a method name, such as "AgeGreaterThan".
type Part struct {
	Property   string
	Type       Type
	IgnoreCase bool
}

// PartTree is a parsed query method name:
//
//	findDistinctTop3ByLastnameIgnoreCaseAndAgeGreaterThanOrEmailOrderByAgeDesc
//
// Parts inside one OR group are AND-ed.
type PartTree struct {
	Subject    Subject
	Distinct   bool
	MaxResults int
	Or         [][]Part
	Sort       keyvalue.Sort
}

// ParsePartTree parses a method name. Prefixes are matched case-insensitively
// so both findByName and FindByName work.
func ParsePartTree(name string) (*PartTree, error) {
	tree := &PartTree{}

	lower := strings.ToLower(name)
	matched := false
	for _, p := range subjectPrefixes {
		if strings.HasPrefix(lower, p.prefix) {
			tree.Subject = p.subject
			name = name[len(p.prefix):]
			matched = true
			break
		}
	}
	if !matched {
		return nil, invalidMethod(name, "must start with find, read, get, query, search, stream, count, exists, delete or remove")
	}

	subject, rest, hasBy := cutKeyword(name, "By")
	if err := tree.parseSubject(subject); err != nil {
		return nil, err
	}
	if !hasBy {
		return tree, nil
	}

	conditions, order, hasOrder := cutKeyword(rest, "OrderBy")
	if hasOrder {
		orders, err := parseOrderBy(order)
		if err != nil {
			return nil, err
		}
		tree.Sort = orders
	}

	allIgnoreCase := false
	for _, suffix := range []string{"AllIgnoreCase", "AllIgnoringCase"} {
		if strings.HasSuffix(conditions, suffix) {
			conditions = strings.TrimSuffix(conditions, suffix)
			allIgnoreCase = true
			break
		}
	}

	if conditions == "" {
		if hasOrder {
			return tree, nil
		}
		return nil, invalidMethod(name, "no criteria after By")
	}

	for _, group := range splitKeyword(conditions, "Or") {
		var parts []Part
		for _, raw := range splitKeyword(group, "And") {
			part, err := parsePart(raw, allIgnoreCase)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
		tree.Or = append(tree.Or, parts)
	}
	return tree, nil
}

// NumberOfArguments returns the arguments the conditions bind.
func (t *PartTree) NumberOfArguments() int {
	n := 0
	for _, group := range t.Or {
		for _, p := range group {
			n += p.Type.NumberOfArguments()
		}
	}
	return n
}

func (t *PartTree) parseSubject(subject string) error {
	if strings.HasPrefix(subject, "Distinct") {
		t.Distinct = true
		subject = strings.TrimPrefix(subject, "Distinct")
	}

	for _, limit := range []string{"First", "Top"} {
		i := strings.Index(subject, limit)
		if i < 0 {
			continue
		}
		digits := subject[i+len(limit):]
		end := 0
		for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
			end++
		}
		t.MaxResults = 1
		if end > 0 {
			n, err := strconv.Atoi(digits[:end])
			if err != nil || n <= 0 {
				return invalidMethod(subject, "invalid result limit")
			}
			t.MaxResults = n
		}
		break
	}

	if strings.Contains(subject, "Distinct") {
		t.Distinct = true
	}
	return nil
}

func parsePart(raw string, ignoreCase bool) (Part, error) {
	part := Part{IgnoreCase: ignoreCase}

	for _, suffix := range []string{"IgnoreCase", "IgnoringCase"} {
		if strings.HasSuffix(raw, suffix) {
			raw = strings.TrimSuffix(raw, suffix)
			part.IgnoreCase = true
			break
		}
	}

	property := raw
	for _, kw := range keywordsBySize {
		if strings.HasSuffix(raw, kw) && len(raw) > len(kw) {
			property = strings.TrimSuffix(raw, kw)
			part.Type = keywords[kw]
			break
		}
	}

	if property == "" {
		return part, invalidMethod(raw, "missing property")
	}
	part.Property = propertyPath(property)
	return part, nil
}

func parseOrderBy(order string) (keyvalue.Sort, error) {
	var s keyvalue.Sort
	for order != "" {
		asc := indexDirection(order, "Asc")
		desc := indexDirection(order, "Desc")

		var (
			prop       string
			descending bool
			rest       string
		)
		switch {
		case asc < 0 && desc < 0:
			prop, rest = order, ""
		case desc < 0 || (asc >= 0 && asc < desc):
			prop, rest = order[:asc], order[asc+len("Asc"):]
		default:
			prop, rest, descending = order[:desc], order[desc+len("Desc"):], true
		}
		if prop == "" {
			return s, invalidMethod(order, "missing property in OrderBy")
		}

		s.Orders = append(s.Orders, keyvalue.Order{Property: propertyPath(prop), Descending: descending})
		order = rest
	}
	return s, nil
}

// indexDirection finds a direction keyword that ends a property: it must
// follow at least one character and be followed by an upper-case letter or
// the end of the string.
func indexDirection(s, dir string) int {
	from := 1
	for from < len(s) {
		i := strings.Index(s[from:], dir)
		if i < 0 {
			return -1
		}
		i += from
		end := i + len(dir)
		if end == len(s) || startsUpper(s[end:]) {
			return i
		}
		from = i + 1
	}
	return -1
}

// cutKeyword splits s around the first kw that starts a new word.
func cutKeyword(s, kw string) (before, after string, found bool) {
	for i := 0; i+len(kw) <= len(s); i++ {
		if !strings.HasPrefix(s[i:], kw) {
			continue
		}
		if i > 0 && !startsUpper(s[i:]) {
			continue
		}
		rest := s[i+len(kw):]
		if rest == "" || startsUpper(rest) {
			return s[:i], rest, true
		}
	}
	return s, "", false
}

// splitKeyword splits s on every kw that sits between two words.
func splitKeyword(s, kw string) []string {
	var out []string
	start := 0
	for i := 1; i+len(kw) < len(s); i++ {
		if strings.HasPrefix(s[i:], kw) && startsUpper(s[i+len(kw):]) && i > start {
			out = append(out, s[start:i])
			start = i + len(kw)
			i = start
		}
	}
	return append(out, s[start:])
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// propertyPath turns "Address_ZipCode" into "address.zipCode".
func propertyPath(property string) string {
	segments := strings.Split(property, "_")
	for i, seg := range segments {
		segments[i] = decapitalize(seg)
	}
	return strings.Join(segments, ".")
}

// decapitalize lower-cases the first letter unless the first two are both
// upper case, so "Lastname" becomes "lastname" and "URL" stays "URL".
func decapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	if next, _ := utf8.DecodeRuneInString(s[size:]); unicode.IsUpper(r) && unicode.IsUpper(next) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func invalidMethod(name, reason string) error {
	return errors.NewValidationError("method", fmt.Sprintf("%s: %s", name, reason))
}
