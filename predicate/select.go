/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package predicate

import (
	"sort"
	"strings"
)

// Select evaluates p over entries the way a map does for values(p) and
// keySet(p). A nil predicate selects everything. For a *Paging predicate the
// matches are stably sorted by its comparator and cut to the current page.
func Select(entries []Entry, p Predicate) []Entry {
	matched := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if p == nil || p.Apply(e) {
			matched = append(matched, e)
		}
	}

	paging, ok := p.(*Paging)
	if !ok {
		return matched
	}

	if paging.comparator != nil {
		sort.SliceStable(matched, func(i, j int) bool {
			return paging.comparator(matched[i], matched[j]) < 0
		})
	}

	start, end := paging.bounds(len(matched))
	return matched[start:end]
}

// Values returns the values of the selected entries.
func Values(entries []Entry, p Predicate) []any {
	selected := Select(entries, p)
	out := make([]any, len(selected))
	for i, e := range selected {
		out[i] = e.Value
	}
	return out
}

// Keys returns the keys of the selected entries.
func Keys(entries []Entry, p Predicate) []any {
	selected := Select(entries, p)
	out := make([]any, len(selected))
	for i, e := range selected {
		out[i] = e.Key
	}
	return out
}

// ByAttribute orders entries by an attribute path. Missing or nil attributes
// sort first; incomparable values keep their relative order. With ignoreCase
// string attributes compare case-insensitively.
func ByAttribute(path string, descending, ignoreCase bool) Comparator {
	return func(a, b Entry) int {
		av, _ := Attribute(a, path)
		bv, _ := Attribute(b, path)
		if ignoreCase {
			av, bv = fold(av), fold(bv)
		}

		var c int
		switch an, bn := isNil(av), isNil(bv); {
		case an && bn:
			c = 0
		case an:
			c = -1
		case bn:
			c = 1
		default:
			c, _ = Compare(av, bv)
		}

		if descending {
			return -c
		}
		return c
	}
}

// Chain combines comparators; later ones break ties of earlier ones.
func Chain(comparators ...Comparator) Comparator {
	return func(a, b Entry) int {
		for _, cmp := range comparators {
			if cmp == nil {
				continue
			}
			if c := cmp(a, b); c != 0 {
				return c
			}
		}
		return 0
	}
}

func fold(v any) any {
	if s, ok := v.(string); ok {
		return strings.ToLower(s)
	}
	return v
}
