/*
Package keyvalue defines the key-value contract (Adapter), the query model
(Query, Sort) and the Template that adds not-found and already-exists
semantics and paged streaming on top of an adapter.

	template := keyvalue.NewTemplate(adapter)
	_ = template.Insert(ctx, "1", user, "users")

	q := keyvalue.NewQuery("age >= 18").WithSort(keyvalue.By("lastname")).Limit(10)
	adults, _ := template.Find(ctx, q, "users")

	for res := range template.Stream(ctx, q, "users", storagemodels.WithPageSize(50)) {
	    if res.Error != nil {
	        break
	    }
	    process(res.Item)
	}
*/
package keyvalue
