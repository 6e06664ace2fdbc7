/*
Package repository provides typed repositories over a keyvalue.Template.

A repository stores entities of one type in one keyspace. Besides CRUD it
runs query methods, either derived from the method name or declared as a
SQL-like predicate:

	f, _ := repository.NewFactory(template, repository.DefaultConfig())
	users, _ := repository.NewRepository(f, repository.EntityInformation[User, string]{},
	    repository.Method{Name: "findAdults", Query: "age >= ?"},
	)

	smiths, _ := users.FindBy(ctx, "findByLastnameIgnoreCaseOrderByAgeDesc", "smith")
	page2, _ := users.FindBy(ctx, "findByActiveTrue", repository.PageRequest(1, 20))
	adults, _ := users.FindBy(ctx, "findAdults", 18)

Lookup strategies:

  - CREATE_IF_NOT_FOUND (default): a declared query wins, otherwise the name
    is parsed.
  - CREATE: the name is parsed unless the method declares a query; named
    queries are not consulted.
  - USE_DECLARED_QUERY: a declared query is required.

Declared queries come from Method.Query or from a YAML file of named queries
keyed by "keyspace.method" or "method".
*/
package repository
