/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapstore

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/suparena/mapstore/cluster"
	"github.com/suparena/mapstore/cluster/memory"
	"github.com/suparena/mapstore/errors"
	"github.com/suparena/mapstore/keyvalue"
	"github.com/suparena/mapstore/predicate"
)

type adapterPerson struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func newAdapter(t *testing.T) *KeyValueAdapter {
	t.Helper()
	a, err := NewKeyValueAdapter(memory.New(t.Name()))
	if err != nil {
		t.Fatalf("Failed to create adapter: %v", err)
	}
	return a
}

func TestNewKeyValueAdapter(t *testing.T) {
	if _, err := NewKeyValueAdapter(nil); !errors.IsValidationError(err) {
		t.Errorf("Expected validation error for nil instance, got %v", err)
	}

	var typedNil *memory.Instance
	if _, err := NewKeyValueAdapter(typedNil); !errors.IsValidationError(err) {
		t.Errorf("Expected validation error for typed nil instance, got %v", err)
	}

	a := NewDefaultKeyValueAdapter()
	if a.Instance().Name() != DefaultInstanceName {
		t.Errorf("Expected default instance %q, got %q", DefaultInstanceName, a.Instance().Name())
	}
}

func TestAdapterPutGetDelete(t *testing.T) {
	ctx := context.Background()
	a := newAdapter(t)

	alice := adapterPerson{ID: "1", Name: "alice", Age: 30}
	previous, err := a.Put(ctx, "1", alice, "people")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if previous != nil {
		t.Errorf("Expected no previous value, got %v", previous)
	}

	older := adapterPerson{ID: "1", Name: "alice", Age: 31}
	previous, err = a.Put(ctx, "1", older, "people")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if diff := cmp.Diff(alice, previous); diff != "" {
		t.Errorf("previous value mismatch (-want +got):\n%s", diff)
	}

	got, err := a.Get(ctx, "1", "people")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if diff := cmp.Diff(older, got); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}

	ok, err := a.Contains(ctx, "1", "people")
	if err != nil || !ok {
		t.Errorf("Expected Contains to be true, got %v, %v", ok, err)
	}
	ok, _ = a.Contains(ctx, "1", "others")
	if ok {
		t.Error("Expected keyspaces to be isolated")
	}

	n, err := a.Count(ctx, "people")
	if err != nil || n != 1 {
		t.Errorf("Expected count 1, got %d, %v", n, err)
	}

	removed, err := a.Delete(ctx, "1", "people")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if diff := cmp.Diff(older, removed); diff != "" {
		t.Errorf("removed value mismatch (-want +got):\n%s", diff)
	}

	got, err = a.Get(ctx, "1", "people")
	if err != nil || got != nil {
		t.Errorf("Expected nil after delete, got %v, %v", got, err)
	}
	removed, err = a.Delete(ctx, "1", "people")
	if err != nil || removed != nil {
		t.Errorf("Expected deleting a missing key to return nil, got %v, %v", removed, err)
	}
}

func TestAdapterValidation(t *testing.T) {
	ctx := context.Background()
	a := newAdapter(t)

	tests := []struct {
		name string
		call func() error
	}{
		{"nil id", func() error { _, err := a.Put(ctx, nil, "x", "ks"); return err }},
		{"nil item", func() error { _, err := a.Put(ctx, "1", nil, "ks"); return err }},
		{"typed nil item", func() error { _, err := a.Put(ctx, "1", (*adapterPerson)(nil), "ks"); return err }},
		{"empty keyspace", func() error { _, err := a.Get(ctx, "1", ""); return err }},
		{"non-string keyspace", func() error { _, err := a.Map(ctx, 42); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.IsValidationError(err) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestAdapterBulk(t *testing.T) {
	ctx := context.Background()
	a := newAdapter(t)

	for _, p := range []adapterPerson{{"1", "a", 1}, {"2", "b", 2}, {"3", "c", 3}} {
		if _, err := a.Put(ctx, p.ID, p, "people"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	all, err := a.GetAllOf(ctx, "people")
	if err != nil {
		t.Fatalf("GetAllOf failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 values, got %d", len(all))
	}

	it, err := a.Entries(ctx, "people")
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	var keys []any
	defer it.Close()
	for it.Next() {
		keys = append(keys, it.Key())
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iteration failed: %v", err)
	}
	if diff := cmp.Diff([]any{"1", "2", "3"}, keys); diff != "" {
		t.Errorf("entry keys mismatch (-want +got):\n%s", diff)
	}

	if err := a.DeleteAllOf(ctx, "people"); err != nil {
		t.Fatalf("DeleteAllOf failed: %v", err)
	}
	if n, _ := a.Count(ctx, "people"); n != 0 {
		t.Errorf("Expected empty keyspace, got %d", n)
	}
}

func TestAdapterFind(t *testing.T) {
	ctx := context.Background()
	a := newAdapter(t)

	for i, name := range []string{"dave", "carol", "bob", "alice", "eve"} {
		p := adapterPerson{ID: name, Name: name, Age: 20 + i}
		if _, err := a.Put(ctx, p.ID, p, "people"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	q := keyvalue.NewQuery(predicate.GreaterEqual("age", 21)).
		WithSort(keyvalue.By("name")).
		Skip(2).
		Limit(2)

	got, err := a.Find(ctx, q, "people")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	var names []string
	for _, v := range got {
		names = append(names, v.(adapterPerson).Name)
	}
	// matches sorted: alice, bob, carol, eve; page 1 of size 2
	if diff := cmp.Diff([]string{"carol", "eve"}, names); diff != "" {
		t.Errorf("Find mismatch (-want +got):\n%s", diff)
	}

	n, err := a.CountQuery(ctx, q, "people")
	if err != nil {
		t.Fatalf("CountQuery failed: %v", err)
	}
	if n != 4 {
		t.Errorf("Expected count 4 ignoring paging, got %d", n)
	}

	n, err = a.CountQuery(ctx, keyvalue.NewQuery("name = 'bob'"), "people")
	if err != nil || n != 1 {
		t.Errorf("Expected SQL count 1, got %d, %v", n, err)
	}
}

func TestAdapterClear(t *testing.T) {
	ctx := context.Background()
	a := newAdapter(t)

	if _, err := a.Put(ctx, "1", adapterPerson{ID: "1"}, "people"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := a.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := a.Get(ctx, "1", "people"); err != cluster.ErrNotActive {
		t.Errorf("Expected ErrNotActive after Clear, got %v", err)
	}

	if err := a.SetInstance(nil); !errors.IsValidationError(err) {
		t.Errorf("Expected validation error for nil instance, got %v", err)
	}
	fresh := memory.New(t.Name() + "-fresh")
	if err := a.SetInstance(fresh); err != nil {
		t.Fatalf("SetInstance failed: %v", err)
	}
	if a.Instance() != fresh {
		t.Error("Expected the new instance to be used")
	}
	if n, err := a.Count(ctx, "people"); err != nil || n != 0 {
		t.Errorf("Expected empty keyspace on the new instance, got %d, %v", n, err)
	}
}
