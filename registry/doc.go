/*
Package registry manages type registration and keyspace mapping for mapstore.

The registry system enables:
  - Restoring concrete Go types from backends that serialize values (bbolt, DynamoDB)
  - Resolving the keyspace an entity type is stored in

Type Registry:
Maps type names to Go types. Values are tagged with the name when written:

	registry.Register[User]("User")

Keyspace Registry:
Associates Go types with keyspace names. Without a registration the type name
itself is the keyspace:

	registry.RegisterKeyspace[User]("users")
	registry.KeyspaceOf[User]()  // "users"
	registry.KeyspaceOf[Order]() // "Order"

The registry is thread-safe and should be populated during initialization,
typically in init() functions.
*/
package registry
