/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package predicate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func people() []Entry {
	return []Entry{
		entry("3", person{Name: "carol", Age: 41}),
		entry("1", person{Name: "Alice", Age: 30}),
		entry("5", person{Name: "eve", Age: 22}),
		entry("2", person{Name: "Bob", Age: 17}),
		entry("4", person{Name: "Dave", Age: 30}),
	}
}

func TestPaging(t *testing.T) {
	byAge := ByAttribute("age", false, false)

	t.Run("Pages", func(t *testing.T) {
		p := NewPaging(nil, Chain(byAge, ByAttribute(KeyAttribute, false, false)), 2)

		pages := [][]any{{"2", "5"}, {"1", "4"}, {"3"}, {}}
		for i, want := range pages {
			got := Keys(people(), p)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("page %d mismatch (-want +got):\n%s", i, diff)
			}
			p.NextPage()
		}
	})

	t.Run("Filtered", func(t *testing.T) {
		p := NewPaging(GreaterEqual("age", 22), byAge, 2)
		p.SetPage(1)
		got := Keys(people(), p)
		if diff := cmp.Diff([]any{"4", "3"}, got); diff != "" {
			t.Fatalf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Stable", func(t *testing.T) {
		got := Keys(people(), NewPaging(Equal("age", 30), byAge, 0))
		if diff := cmp.Diff([]any{"1", "4"}, got); diff != "" {
			t.Fatalf("Expected insertion order for ties (-want +got):\n%s", diff)
		}
	})

	t.Run("Descending", func(t *testing.T) {
		got := Keys(people(), NewPaging(nil, ByAttribute("age", true, false), 1))
		if diff := cmp.Diff([]any{"3"}, got); diff != "" {
			t.Fatalf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("IgnoreCase", func(t *testing.T) {
		got := Keys(people(), NewPaging(nil, ByAttribute("name", false, true), 0))
		if diff := cmp.Diff([]any{"1", "2", "3", "4", "5"}, got); diff != "" {
			t.Fatalf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("PreviousPageClamps", func(t *testing.T) {
		p := NewPaging(nil, nil, 2)
		p.PreviousPage()
		if p.Page() != 0 {
			t.Fatalf("Expected page 0, got %d", p.Page())
		}
		p.NextPage()
		p.NextPage()
		p.PreviousPage()
		if p.Page() != 1 {
			t.Fatalf("Expected page 1, got %d", p.Page())
		}
		p.SetPage(-4)
		if p.Page() != 0 {
			t.Fatalf("Expected page 0, got %d", p.Page())
		}
	})

	t.Run("NilSortsFirst", func(t *testing.T) {
		nick := "z"
		entries := []Entry{
			entry("a", person{Nickname: &nick}),
			entry("b", person{}),
		}
		got := Keys(entries, NewPaging(nil, ByAttribute("nickname", false, false), 0))
		if diff := cmp.Diff([]any{"b", "a"}, got); diff != "" {
			t.Fatalf("mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestSelectWithoutPaging(t *testing.T) {
	got := Values(people(), LessThan("age", 25))
	if len(got) != 2 {
		t.Fatalf("Expected 2 values, got %d", len(got))
	}
	if all := Keys(people(), nil); len(all) != 5 {
		t.Fatalf("Expected nil predicate to select everything, got %d", len(all))
	}
}
