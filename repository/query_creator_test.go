/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/suparena/mapstore/errors"
	"github.com/suparena/mapstore/predicate"
)

type address struct {
	City string `json:"city"`
}

type user struct {
	ID        string   `json:"id"`
	Firstname string   `json:"firstname"`
	Lastname  string   `json:"lastname"`
	Age       int      `json:"age"`
	Active    bool     `json:"active"`
	Email     *string  `json:"email,omitempty"`
	Tags      []string `json:"tags"`
	Address   address  `json:"address"`
}

func strptr(s string) *string { return &s }

func users() []predicate.Entry {
	all := []user{
		{ID: "1", Firstname: "Alice", Lastname: "Smith", Age: 30, Active: true, Email: strptr("alice@example.com"), Tags: []string{"admin"}, Address: address{City: "Berlin"}},
		{ID: "2", Firstname: "Bob", Lastname: "smith", Age: 17, Tags: []string{}, Address: address{City: "Boston"}},
		{ID: "3", Firstname: "Carol", Lastname: "Jones", Age: 41, Active: true, Tags: []string{"ops", "admin"}, Address: address{City: "Paris"}},
		{ID: "4", Firstname: "Dave", Lastname: "Miller_x", Age: 30, Email: strptr("dave@example.org"), Address: address{City: "Bern"}},
	}
	entries := make([]predicate.Entry, len(all))
	for i, u := range all {
		entries[i] = predicate.Entry{Key: u.ID, Value: u}
	}
	return entries
}

func TestQueryCreator(t *testing.T) {
	tests := []struct {
		method string
		args   []any
		want   []any
	}{
		{method: "findByLastname", args: []any{"Smith"}, want: []any{"1"}},
		{method: "findByLastnameIgnoreCase", args: []any{"SMITH"}, want: []any{"1", "2"}},
		{method: "findByLastnameNot", args: []any{"Smith"}, want: []any{"2", "3", "4"}},
		{method: "findByLastnameNotIgnoreCase", args: []any{"smith"}, want: []any{"3", "4"}},
		{method: "findByAgeGreaterThan", args: []any{30}, want: []any{"3"}},
		{method: "findByAgeGreaterThanEqual", args: []any{30}, want: []any{"1", "3", "4"}},
		{method: "findByAgeLessThan", args: []any{30}, want: []any{"2"}},
		{method: "findByAgeLessThanEqual", args: []any{30}, want: []any{"1", "2", "4"}},
		{method: "findByAgeBetween", args: []any{18, 40}, want: []any{"1", "4"}},
		{method: "findByEmailIsNull", want: []any{"2", "3"}},
		{method: "findByEmailIsNotNull", want: []any{"1", "4"}},
		{method: "findByEmailExists", want: []any{"1", "4"}},
		{method: "findByFirstnameLike", args: []any{"%a%"}, want: []any{"3", "4"}},
		{method: "findByFirstnameLikeIgnoreCase", args: []any{"a%"}, want: []any{"1"}},
		{method: "findByFirstnameNotLike", args: []any{"%a%"}, want: []any{"1", "2"}},
		{method: "findByAddress_CityStartingWith", args: []any{"Ber"}, want: []any{"1", "4"}},
		{method: "findByLastnameEndingWith", args: []any{"_x"}, want: []any{"4"}},
		{method: "findByFirstnameContaining", args: []any{"o"}, want: []any{"2", "3"}},
		{method: "findByFirstnameContainingIgnoreCase", args: []any{"A"}, want: []any{"1", "3", "4"}},
		{method: "findByTagsContaining", args: []any{"admin"}, want: []any{"1", "3"}},
		{method: "findByTagsNotContaining", args: []any{"admin"}, want: []any{"2", "4"}},
		{method: "findByAgeIn", args: []any{[]int{17, 41}}, want: []any{"2", "3"}},
		{method: "findByAgeNotIn", args: []any{[]int{17, 41}}, want: []any{"1", "4"}},
		{method: "findByTagsIsEmpty", want: []any{"2", "4"}},
		{method: "findByTagsIsNotEmpty", want: []any{"1", "3"}},
		{method: "findByActiveTrue", want: []any{"1", "3"}},
		{method: "findByActiveFalse", want: []any{"2", "4"}},
		{method: "findByEmailMatchesRegex", args: []any{`.*\.org`}, want: []any{"4"}},
		{method: "findByLastnameRegexIgnoreCase", args: []any{"sm.*"}, want: []any{"1", "2"}},
		{method: "findByAgeAndActive", args: []any{30, true}, want: []any{"1"}},
		{method: "findByAgeLessThanOrLastname", args: []any{18, "Jones"}, want: []any{"2", "3"}},
		{method: "findAll", want: []any{"1", "2", "3", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			tree, err := ParsePartTree(tt.method)
			if err != nil {
				t.Fatalf("ParsePartTree failed: %v", err)
			}
			p, err := NewQueryCreator(tree).Create(tt.args)
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}

			got := predicate.Keys(users(), p)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQueryCreatorErrors(t *testing.T) {
	tests := []struct {
		method string
		args   []any
	}{
		{method: "findByAgeBetween", args: []any{1}},
		{method: "findByLastname", args: []any{"a", "b"}},
		{method: "findByLastnameLike", args: []any{42}},
		{method: "findByLastnameRegex", args: []any{"("}},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			tree, err := ParsePartTree(tt.method)
			if err != nil {
				t.Fatalf("ParsePartTree failed: %v", err)
			}
			if _, err := NewQueryCreator(tree).Create(tt.args); !errors.IsValidationError(err) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}
