package cqlstore

import (
	"fmt"
	"regexp"
)

// Query templates rendered once at construction with the resolved table
// name. Values always bind as placeholders; only the identifier is
// interpolated, after validation. UPDATE is an upsert in CQL, and USING TTL
// sets the row's write-time lifetime.
const (
	getQueryTemplate    = `SELECT data FROM %s WHERE id = ?`
	setQueryTemplate    = `UPDATE %s USING TTL ? SET data = ? WHERE id = ?`
	deleteQueryTemplate = `DELETE FROM %s WHERE id = ?`

	createTableTemplate = `CREATE TABLE IF NOT EXISTS %s (id text PRIMARY KEY, data text)`
)

// identRe matches unquoted CQL identifiers: a leading letter, then letters,
// digits, or underscores, 48 chars max.
var identRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]{0,47}$`)

// resolveTable validates the keyspace and table names and joins them into
// the identifier interpolated into the query templates. An empty keyspace
// yields a bare table name, relying on the connection's default keyspace.
func resolveTable(keyspace, table string) (string, error) {
	if !identRe.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	if keyspace == "" {
		return table, nil
	}
	if !identRe.MatchString(keyspace) {
		return "", fmt.Errorf("invalid keyspace name %q", keyspace)
	}
	return keyspace + "." + table, nil
}
