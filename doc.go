// Package cqlstore provides a Cassandra-backed web session store using the
// gocql driver.
//
// Each session persists as a single row keyed by its opaque session id. The
// payload is one JSON document whose top-level keys are the session's values
// plus a "cookie" object carrying the transmission attributes (maxAge,
// secure, httpOnly, sameSite, domain, ...). Row lifetime rides on the column
// store's native write-time TTL, so expired sessions read as absent and no
// garbage collection is needed.
//
// Example schema:
//
//	CREATE KEYSPACE IF NOT EXISTS sessions_store
//	  WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 1};
//
//	CREATE TABLE IF NOT EXISTS sessions_store.sessions (
//	  id   text PRIMARY KEY,
//	  data text
//	);
//
// The keyspace and its replication settings are a cluster decision; the
// table can alternatively be created with [Store.CreateTable].
//
// Usage:
//
//	cfg, err := cqlstore.ConfigFromEnv()
//	if err != nil {
//		log.Fatal(err)
//	}
//	store, err := cqlstore.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	sess := cqlstore.NewSession()
//	sess.Values["userID"] = "u-123"
//	sess.Cookie["maxAge"] = 30 * time.Minute
//	if err := store.Set(ctx, sid, sess); err != nil {
//		// handle
//	}
//
// The cookie attributes written with every session come from the store's
// resolved policy: a locked-down production baseline (secure, httpOnly,
// sameSite "strict") or a development baseline (insecure, non-httpOnly,
// sameSite "lax", a local domain), each overridable per key through
// Config.Cookie and Config.DevCookie. Policy values overwrite caller-set
// attributes of the same name on every write.
package cqlstore
