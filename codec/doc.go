/*
Package codec converts identifiers and items to and from the byte and string
forms used by serializing map backends.

Keys are encoded as "<kind>:<value>" (for example "string:abc", "int64:42",
"uuid:0f8c...") so that a decoded key has the same Go type it was written with.

Values are wrapped in a JSON envelope carrying the type name from the type
registry, which lets Unmarshal rebuild the concrete Go type:

	registry.Register[User]("User")

	data, _ := codec.Marshal(User{ID: "1"})
	v, _ := codec.Unmarshal(data) // v is a User
*/
package codec
