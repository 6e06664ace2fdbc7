/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package predicate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/suparena/mapstore/errors"
)

func TestSQL(t *testing.T) {
	tests := []struct {
		query string
		args  []any
		want  []any
	}{
		{query: "age >= 30", want: []any{"3", "1", "4"}},
		{query: "age = 30 AND name = 'Dave'", want: []any{"4"}},
		{query: "age == 17 or name = \"eve\"", want: []any{"5", "2"}},
		{query: "age <> 30 AND NOT (age > 40)", want: []any{"5", "2"}},
		{query: "name LIKE 'A%'", want: []any{"1"}},
		{query: "name NOT ILIKE 'a%'", want: []any{"3", "5", "2", "4"}},
		{query: "name REGEX '[A-Z].*'", want: []any{"1", "2", "4"}},
		{query: "age IN (17, 22)", want: []any{"5", "2"}},
		{query: "age NOT IN (17, 22, 30)", want: []any{"3"}},
		{query: "age BETWEEN 20 AND 30 AND name != 'eve'", want: []any{"1", "4"}},
		{query: "age NOT BETWEEN 20 AND 30", want: []any{"3", "2"}},
		{query: "nickname IS NULL AND age < ?", args: []any{20}, want: []any{"2"}},
		{query: "nickname IS NOT NULL", want: []any{}},
		{query: "__key = ?", args: []any{"3"}, want: []any{"3"}},
		{query: "age > -1.5 AND age < 2.2e1", want: []any{"2"}},
		{query: "name = 'O''Neil' OR age = ?", args: []any{41}, want: []any{"3"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			p, err := SQL(tt.query, tt.args...)
			if err != nil {
				t.Fatalf("SQL(%q) failed: %v", tt.query, err)
			}
			got := Keys(people(), p)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSQLErrors(t *testing.T) {
	tests := []struct {
		query string
		args  []any
	}{
		{query: ""},
		{query: "age >"},
		{query: "age >= 1 AND"},
		{query: "(age = 1"},
		{query: "age = 1)"},
		{query: "name LIKE 'unterminated"},
		{query: "name LIKE 3"},
		{query: "age IN 1, 2"},
		{query: "age BETWEEN 1 OR 2"},
		{query: "name IS 'x'"},
		{query: "age = ?"},
		{query: "age = 1", args: []any{2}},
		{query: "age # 1"},
		{query: "name REGEX '('"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			_, err := SQL(tt.query, tt.args...)
			if !errors.IsValidationError(err) {
				t.Fatalf("Expected validation error for %q, got %v", tt.query, err)
			}
		})
	}
}

func TestMustSQLPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Expected panic")
		}
	}()
	MustSQL("age >")
}

func TestPlaceholders(t *testing.T) {
	n, err := Placeholders("lastname = ? AND age BETWEEN ? AND ? AND note = '?'")
	if err != nil {
		t.Fatalf("Placeholders failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 placeholders, got %d", n)
	}

	if _, err := Placeholders("age # ?"); !errors.IsValidationError(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}
