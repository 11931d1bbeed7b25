// Package hitprint runs ready-made search queries and prints selected fields
// of every hit as "<field>: <value>" lines.
//
// Queries are executed exactly once against Valkey, Redis (FT.SEARCH) or
// Elasticsearch (_search). A field missing from a hit prints as None; backend
// errors are returned to the caller unchanged.
//
//	client, _ := hitprint.New(hitprint.WithValkey("localhost:6379", ""))
//	defer client.Close()
//
//	q, _ := client.Query("articles:idx", "@lang:{go}", hitprint.WithLimit(20))
//	_ = client.Project(ctx, q, []string{"title", "score"})
//
// Any type with an Execute method can be projected, which keeps test doubles
// and custom backends on the same path:
//
//	_ = hitprint.Project(ctx, os.Stdout, myQuery, []string{"title"})
package hitprint
