/*
Package predicate evaluates queries against map entries.

A Predicate decides whether an Entry (key and value) matches. Predicates are
built from attribute paths resolved against the entry value:

	adults := predicate.GreaterEqual("age", 18)
	named := predicate.And(adults, predicate.Like("name", "A%"))

or fluently:

	p, err := predicate.NewBuilder().
		Attr("age").GreaterEqual(18).
		Attr("address.city").Equal("Lisbon").
		Build()

or from a SQL-like string:

	p, err := predicate.SQL("age >= ? AND address.city = 'Lisbon'", 18)

Attribute paths are dotted. "__key" refers to the entry key and "this" to the
value itself. Struct fields resolve by Go name or json tag, map keys directly;
both fall back to a case-insensitive match.

Paging wraps a predicate with a comparator and a page cursor. Select applies it
the way a map evaluates values(predicate): filter, stable sort, then cut to the
current page.

	paging := predicate.NewPaging(adults, predicate.ByAttribute("name", false, false), 10)
	paging.NextPage()
	second := predicate.Values(entries, paging)
*/
package predicate
