/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/suparena/mapstore/errors"
	"github.com/suparena/mapstore/keyvalue"
)

func TestParsePartTree(t *testing.T) {
	tests := []struct {
		name string
		want *PartTree
	}{
		{
			name: "findByLastname",
			want: &PartTree{Or: [][]Part{{{Property: "lastname", Type: SimpleProperty}}}},
		},
		{
			name: "findByLastnameAndAgeGreaterThan",
			want: &PartTree{Or: [][]Part{{
				{Property: "lastname", Type: SimpleProperty},
				{Property: "age", Type: GreaterThan},
			}}},
		},
		{
			name: "readByLastnameOrFirstnameIgnoreCase",
			want: &PartTree{Or: [][]Part{
				{{Property: "lastname", Type: SimpleProperty}},
				{{Property: "firstname", Type: SimpleProperty, IgnoreCase: true}},
			}},
		},
		{
			name: "countByAgeBetween",
			want: &PartTree{Subject: SubjectCount, Or: [][]Part{{{Property: "age", Type: Between}}}},
		},
		{
			name: "existsByEmailIsNull",
			want: &PartTree{Subject: SubjectExists, Or: [][]Part{{{Property: "email", Type: IsNull}}}},
		},
		{
			name: "removeByStatusNotIn",
			want: &PartTree{Subject: SubjectDelete, Or: [][]Part{{{Property: "status", Type: NotIn}}}},
		},
		{
			name: "findByLastnameNot",
			want: &PartTree{Or: [][]Part{{{Property: "lastname", Type: NegatingSimpleProperty}}}},
		},
		{
			name: "findByActiveTrueAndTagsIsNotEmpty",
			want: &PartTree{Or: [][]Part{{
				{Property: "active", Type: True},
				{Property: "tags", Type: IsNotEmpty},
			}}},
		},
		{
			name: "findByAddress_CityStartingWith",
			want: &PartTree{Or: [][]Part{{{Property: "address.city", Type: StartingWith}}}},
		},
		{
			name: "findByFirstnameAndLastnameAllIgnoreCase",
			want: &PartTree{Or: [][]Part{{
				{Property: "firstname", Type: SimpleProperty, IgnoreCase: true},
				{Property: "lastname", Type: SimpleProperty, IgnoreCase: true},
			}}},
		},
		{
			name: "findByOrderId",
			want: &PartTree{Or: [][]Part{{{Property: "orderId", Type: SimpleProperty}}}},
		},
		{
			name: "findDistinctTop3ByAgeGreaterThanOrderByAgeDescLastnameAsc",
			want: &PartTree{
				Distinct:   true,
				MaxResults: 3,
				Or:         [][]Part{{{Property: "age", Type: GreaterThan}}},
				Sort:       keyvalue.SortBy(keyvalue.Desc("age"), keyvalue.Asc("lastname")),
			},
		},
		{
			name: "findFirstByOrderByAge",
			want: &PartTree{MaxResults: 1, Sort: keyvalue.SortBy(keyvalue.Asc("age"))},
		},
		{
			name: "findAll",
			want: &PartTree{},
		},
		{
			name: "FindByURL",
			want: &PartTree{Or: [][]Part{{{Property: "URL", Type: SimpleProperty}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePartTree(tt.name)
			if err != nil {
				t.Fatalf("ParsePartTree(%q) failed: %v", tt.name, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParsePartTreeErrors(t *testing.T) {
	for _, name := range []string{
		"saveByName",
		"findBy",
		"findTop0ByName",
		"findByIgnoreCase",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ParsePartTree(name); !errors.IsValidationError(err) {
				t.Errorf("Expected validation error for %q, got %v", name, err)
			}
		})
	}
}

func TestNumberOfArguments(t *testing.T) {
	tree, err := ParsePartTree("findByAgeBetweenAndNameAndEmailIsNullOrActiveTrueOrTagsContaining")
	if err != nil {
		t.Fatalf("ParsePartTree failed: %v", err)
	}
	if got := tree.NumberOfArguments(); got != 4 {
		t.Errorf("Expected 4 arguments, got %d", got)
	}
}

func TestSubjectOf(t *testing.T) {
	tests := map[string]Subject{
		"findAdults":    SubjectFind,
		"countAdults":   SubjectCount,
		"existsAdult":   SubjectExists,
		"deleteMinors":  SubjectDelete,
		"removeMinors":  SubjectDelete,
		"adults":        SubjectFind,
		"StreamMinors":  SubjectFind,
		"CountByStatus": SubjectCount,
	}
	for name, want := range tests {
		if got := subjectOf(name); got != want {
			t.Errorf("subjectOf(%q) = %v, want %v", name, got, want)
		}
	}
}
