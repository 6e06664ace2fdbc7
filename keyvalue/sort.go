/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package keyvalue

import (
	"strings"
)

// Order sorts by one property path.
type Order struct {
	Property   string
	Descending bool
	IgnoreCase bool
}

// Asc orders ascending by property.
func Asc(property string) Order { return Order{Property: property} }

// Desc orders descending by property.
func Desc(property string) Order { return Order{Property: property, Descending: true} }

// IgnoringCase returns o comparing strings case-insensitively.
func (o Order) IgnoringCase() Order {
	o.IgnoreCase = true
	return o
}

func (o Order) String() string {
	dir := "ASC"
	if o.Descending {
		dir = "DESC"
	}
	if o.IgnoreCase {
		return o.Property + " " + dir + " (ignore case)"
	}
	return o.Property + " " + dir
}

// Sort is an ordered list of orders. Later orders break ties of earlier ones.
type Sort struct {
	Orders []Order
}

// SortBy builds a sort from orders.
func SortBy(orders ...Order) Sort {
	return Sort{Orders: orders}
}

// By sorts ascending by each property.
func By(properties ...string) Sort {
	orders := make([]Order, len(properties))
	for i, p := range properties {
		orders[i] = Asc(p)
	}
	return Sort{Orders: orders}
}

// Descending returns s with every order reversed to descending.
func (s Sort) Descending() Sort {
	orders := make([]Order, len(s.Orders))
	for i, o := range s.Orders {
		o.Descending = true
		orders[i] = o
	}
	return Sort{Orders: orders}
}

// And appends the orders of other.
func (s Sort) And(other Sort) Sort {
	orders := make([]Order, 0, len(s.Orders)+len(other.Orders))
	orders = append(orders, s.Orders...)
	return Sort{Orders: append(orders, other.Orders...)}
}

// IsSorted reports whether s has any order.
func (s Sort) IsSorted() bool { return len(s.Orders) > 0 }

func (s Sort) String() string {
	if !s.IsSorted() {
		return "UNSORTED"
	}
	parts := make([]string, len(s.Orders))
	for i, o := range s.Orders {
		parts[i] = o.String()
	}
	return strings.Join(parts, ", ")
}
