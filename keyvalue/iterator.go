/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package keyvalue

import (
	"github.com/suparena/mapstore/predicate"
)

// Iterator walks key/value entries:
//
//	it, err := adapter.Entries(ctx, "users")
//	if err != nil {
//		return err
//	}
//	defer it.Close()
//	for it.Next() {
//		fmt.Println(it.Key(), it.Value())
//	}
//	return it.Err()
type Iterator interface {
	Next() bool
	Key() any
	Value() any
	Err() error
	Close() error
}

type sliceIterator struct {
	entries []predicate.Entry
	pos     int
	closed  bool
}

// NewSliceIterator iterates over a snapshot of entries.
func NewSliceIterator(entries []predicate.Entry) Iterator {
	return &sliceIterator{entries: entries, pos: -1}
}

func (it *sliceIterator) Next() bool {
	if it.closed || it.pos+1 >= len(it.entries) {
		return false
	}
	it.pos++
	return true
}

func (it *sliceIterator) current() (predicate.Entry, bool) {
	if it.closed || it.pos < 0 || it.pos >= len(it.entries) {
		return predicate.Entry{}, false
	}
	return it.entries[it.pos], true
}

func (it *sliceIterator) Key() any {
	e, _ := it.current()
	return e.Key
}

func (it *sliceIterator) Value() any {
	e, _ := it.current()
	return e.Value
}

func (it *sliceIterator) Err() error { return nil }

func (it *sliceIterator) Close() error {
	it.closed = true
	it.entries = nil
	return nil
}

// Collect drains it into entries and closes it.
func Collect(it Iterator) ([]predicate.Entry, error) {
	defer it.Close()

	var entries []predicate.Entry
	for it.Next() {
		entries = append(entries, predicate.Entry{Key: it.Key(), Value: it.Value()})
	}
	return entries, it.Err()
}
