/*
Package ddb implements a cluster instance on a single DynamoDB table.

Table layout:

	PK          "MAP#<instance>#<map>"   partition key, one partition per map
	SK          "<kind>:<key>"           sort key, the codec encoding of the entry key
	EntityType  registered type name of the value, if any
	Ptr         true when the value was stored as a pointer
	Value       the value as a JSON document (json tag names), marshaled with attributevalue

Reads use strongly consistent Query pages under the map partition. Predicates,
sorting and paging are evaluated over the fetched entries. Size uses
Select COUNT. Clear deletes in BatchWriteItem chunks of 25 and resends
unprocessed requests with linear backoff.

Throttling and internal server errors are returned as transient errors:

	_, err := m.Put(ctx, "u1", user)
	if errors.IsTransient(err) {
		// retry later
	}

Usage:

	inst, err := ddb.Open(ctx, ddb.ClientOptions{Region: "us-east-1"}, "mapstore", "default")
	users, err := inst.Map(ctx, "users")
*/
package ddb
