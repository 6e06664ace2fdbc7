/*
Package mapstore is a key-value persistence layer over distributed-map style
backends.

Every keyspace is one named map of a cluster instance. The KeyValueAdapter
passes operations straight through to the maps, and its QueryEngine turns
query criteria, sort and paging into predicates that the maps evaluate
themselves.

Backends:
  - memory: process-local maps (cluster/memory)
  - bolt: a bbolt file, one bucket per keyspace (cluster/bolt)
  - dynamodb: one DynamoDB table shared by all keyspaces (cluster/ddb)

Basic Usage:

	cfg, _ := config.Load("mapstore.yaml")
	store, _ := mapstore.Open(ctx, cfg)
	defer store.Close()

	users, _ := mapstore.RepositoryFor(store, repository.EntityInformation[User, string]{Keyspace: "users"})
	saved, _ := users.Save(ctx, User{Name: "John", Age: 42})

	adults, _ := users.FindBy(ctx, "findByAgeGreaterThanEqualOrderByName", 18)

The adapter can also be used without repositories:

	adapter := mapstore.NewDefaultKeyValueAdapter()
	_, _ = adapter.Put(ctx, "1", saved, "users")
	found, _ := adapter.Find(ctx, keyvalue.NewQuery("age >= 18").Limit(10), "users")
*/
package mapstore
