/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package predicate

import (
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
)

type address struct {
	City string `json:"city"`
}

type person struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Age      int             `json:"age"`
	Nickname *string         `json:"nickname,omitempty"`
	Address  address         `json:"address"`
	Joined   strfmt.DateTime `json:"joined"`
}

func entry(key any, value any) Entry {
	return Entry{Key: key, Value: value}
}

func TestAttribute(t *testing.T) {
	nick := "al"
	p := person{ID: "1", Name: "Alice", Age: 30, Nickname: &nick, Address: address{City: "Lisbon"}}

	tests := []struct {
		name  string
		value any
		path  string
		want  any
		found bool
	}{
		{name: "field name", value: p, path: "Name", want: "Alice", found: true},
		{name: "json tag", value: p, path: "age", want: 30, found: true},
		{name: "pointer value", value: &p, path: "name", want: "Alice", found: true},
		{name: "nested", value: p, path: "address.city", want: "Lisbon", found: true},
		{name: "missing", value: p, path: "email", found: false},
		{name: "key", value: p, path: KeyAttribute, want: "k1", found: true},
		{name: "map", value: map[string]any{"Color": "red"}, path: "color", want: "red", found: true},
		{name: "this", value: 7, path: ThisAttribute, want: 7, found: true},
		{name: "nil value", value: nil, path: "name", found: false},
		{name: "exact key over folded", value: map[string]any{"Name": "upper", "name": "lower"}, path: "name", want: "lower", found: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Attribute(entry("k1", tt.value), tt.path)
			if ok != tt.found {
				t.Fatalf("Attribute(%q) found = %v, want %v", tt.path, ok, tt.found)
			}
			if ok && got != tt.want {
				t.Fatalf("Attribute(%q) = %#v, want %#v", tt.path, got, tt.want)
			}
		})
	}
}

func TestAttributeFoldedCollision(t *testing.T) {
	m := map[string]any{"name": "lower", "Name": "upper", "NAMe": "mixed"}
	// map iteration order varies between runs
	for i := 0; i < 50; i++ {
		got, ok := Attribute(entry("k1", m), "nAME")
		if !ok || got != "mixed" {
			t.Fatalf("Attribute(nAME) = %#v, %v, want mixed", got, ok)
		}
	}
}

func TestCompare(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Hour)
	five := 5

	tests := []struct {
		name string
		a, b any
		want int
		ok   bool
	}{
		{name: "ints across kinds", a: int32(3), b: int64(4), want: -1, ok: true},
		{name: "int and float", a: 2, b: 2.0, want: 0, ok: true},
		{name: "pointer", a: &five, b: 4, want: 1, ok: true},
		{name: "strings", a: "b", b: "a", want: 1, ok: true},
		{name: "bools", a: false, b: true, want: -1, ok: true},
		{name: "strfmt and time", a: strfmt.DateTime(now), b: later, want: -1, ok: true},
		{name: "mixed", a: "1", b: 1, ok: false},
		{name: "nil", a: nil, b: 1, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Compare(tt.a, tt.b)
			if ok != tt.ok {
				t.Fatalf("Compare ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("Compare = %d, want %d", got, tt.want)
			}
		})
	}

	if !Equals(nil, nil) || Equals(nil, 0) {
		t.Error("nil should equal only nil")
	}
	if !Equals([]int{1}, []int{1}) {
		t.Error("Equals should fall back to deep equality")
	}
}

func TestPredicates(t *testing.T) {
	alice := entry("1", person{Name: "Alice", Age: 30, Address: address{City: "Lisbon"}})
	bob := entry("2", person{Name: "bob_smith", Age: 17})

	tests := []struct {
		name  string
		p     Predicate
		alice bool
		bob   bool
	}{
		{name: "equal", p: Equal("name", "Alice"), alice: true},
		{name: "not equal", p: NotEqual("name", "Alice"), bob: true},
		{name: "greater equal", p: GreaterEqual("age", 18), alice: true},
		{name: "less than", p: LessThan("age", 18), bob: true},
		{name: "between inclusive", p: Between("age", 17, 30), alice: true, bob: true},
		{name: "equal ignore case", p: EqualIgnoreCase("name", "ALICE"), alice: true},
		{name: "in", p: In("age", 1, 17), bob: true},
		{name: "is null", p: IsNull("nickname"), alice: true, bob: true},
		{name: "like", p: Like("name", "A%"), alice: true},
		{name: "like escaped underscore", p: Like("name", `bob\_%`), bob: true},
		{name: "like is case sensitive", p: Like("name", "a%")},
		{name: "ilike", p: ILike("name", "a_ice"), alice: true},
		{name: "nested", p: Equal("address.city", "Lisbon"), alice: true},
		{name: "key", p: Equal(KeyAttribute, "2"), bob: true},
		{name: "and", p: And(GreaterThan("age", 10), Like("name", "b%")), bob: true},
		{name: "or", p: Or(Equal("age", 30), Equal("age", 17)), alice: true, bob: true},
		{name: "not", p: Not(Equal("name", "Alice")), bob: true},
		{name: "not nil", p: Not(nil)},
		{name: "and ignores nil", p: And(nil, Equal("age", 30)), alice: true},
		{name: "true", p: True(), alice: true, bob: true},
		{name: "false", p: False()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Apply(alice); got != tt.alice {
				t.Errorf("alice: got %v, want %v", got, tt.alice)
			}
			if got := tt.p.Apply(bob); got != tt.bob {
				t.Errorf("bob: got %v, want %v", got, tt.bob)
			}
		})
	}
}

func TestRegex(t *testing.T) {
	p, err := Regex("name", "A[a-z]+")
	if err != nil {
		t.Fatalf("Regex failed: %v", err)
	}
	if !p.Apply(entry(1, person{Name: "Alice"})) {
		t.Error("Expected Alice to match")
	}
	if p.Apply(entry(1, person{Name: "Alice2"})) {
		t.Error("Expected whole-string match")
	}

	if _, err := Regex("name", "("); err == nil {
		t.Error("Expected error for invalid expression")
	}
}

func TestEscapeLike(t *testing.T) {
	p := Like("name", EscapeLike("50%_off")+"%")
	if !p.Apply(entry(1, person{Name: "50%_off today"})) {
		t.Error("Expected literal match")
	}
	if p.Apply(entry(1, person{Name: "50 off"})) {
		t.Error("Expected escaped wildcards to match literally")
	}
}

func TestBuilder(t *testing.T) {
	alice := entry("1", person{Name: "Alice", Age: 30})
	bob := entry("2", person{Name: "Bob", Age: 17})

	t.Run("AndOr", func(t *testing.T) {
		b := NewBuilder().
			Attr("age").GreaterEqual(18).
			Attr("name").Like("A%").
			OrAttr("name").Equal("Bob")

		p, err := b.Build()
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if !p.Apply(alice) || !p.Apply(bob) {
			t.Error("Expected both entries to match")
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if !NewBuilder().Apply(alice) {
			t.Error("Expected empty builder to match")
		}
	})

	t.Run("Negate", func(t *testing.T) {
		b := NewBuilder().Attr("age").LessThan(18).Negate()
		if !b.Apply(alice) || b.Apply(bob) {
			t.Error("Expected negated builder to match only alice")
		}
	})

	t.Run("InvalidRegex", func(t *testing.T) {
		b := NewBuilder().Attr("name").Regex("(")
		if _, err := b.Build(); err == nil {
			t.Fatal("Expected build error")
		}
		if b.Apply(alice) {
			t.Error("Expected failed builder to match nothing")
		}
	})
}

func TestContainsAndEmpty(t *testing.T) {
	type tagged struct {
		Title string
		Tags  []string
		Attrs map[string]int
	}
	full := entry(1, tagged{Title: "Hello World", Tags: []string{"go", "Maps"}, Attrs: map[string]int{"x": 1}})
	empty := entry(2, tagged{})

	tests := []struct {
		name  string
		p     Predicate
		full  bool
		empty bool
	}{
		{name: "substring", p: Contains("Title", "lo W"), full: true},
		{name: "substring case", p: Contains("Title", "world")},
		{name: "substring fold", p: ContainsIgnoreCase("Title", "world"), full: true},
		{name: "slice element", p: Contains("Tags", "go"), full: true},
		{name: "slice element fold", p: ContainsIgnoreCase("Tags", "maps"), full: true},
		{name: "map key", p: Contains("Attrs", "x"), full: true},
		{name: "is empty", p: IsEmpty("Tags"), empty: true},
		{name: "empty string", p: IsEmpty("Title"), empty: true},
		{name: "missing is empty", p: IsEmpty("Other"), full: true, empty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Apply(full); got != tt.full {
				t.Errorf("full: got %v, want %v", got, tt.full)
			}
			if got := tt.p.Apply(empty); got != tt.empty {
				t.Errorf("empty: got %v, want %v", got, tt.empty)
			}
		})
	}
}
