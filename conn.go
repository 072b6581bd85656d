package cqlstore

import (
	"context"
	"log/slog"

	"github.com/gocql/gocql"
)

// Conn is the narrow query surface the store needs from a CQL client. It is
// satisfied by wrapping a *gocql.Session with WrapGocql, or by NewMemConn
// for tests.
type Conn interface {
	// ExecContext runs a statement that returns no rows.
	ExecContext(ctx context.Context, stmt string, args ...any) error
	// QueryRowContext runs a statement expected to return at most one row.
	QueryRowContext(ctx context.Context, stmt string, args ...any) Row
}

// Row is a single-row result. Scan reports gocql.ErrNotFound when the row
// does not exist.
type Row interface {
	Scan(dest ...any) error
}

var _ Row = (*gocql.Query)(nil)

// WrapGocql adapts a *gocql.Session to the Conn interface.
func WrapGocql(sess *gocql.Session) Conn {
	return &gocqlConn{sess: sess}
}

type gocqlConn struct {
	sess *gocql.Session
}

func (c *gocqlConn) ExecContext(ctx context.Context, stmt string, args ...any) error {
	return c.sess.Query(stmt, args...).WithContext(ctx).Exec()
}

func (c *gocqlConn) QueryRowContext(ctx context.Context, stmt string, args ...any) Row {
	return c.sess.Query(stmt, args...).WithContext(ctx)
}

// queryObserver forwards driver-level query completions to the store's
// logger. Wired onto owned clients only; a supplied Conn keeps whatever
// observers its owner configured.
type queryObserver struct {
	logger *slog.Logger
}

func (o queryObserver) ObserveQuery(ctx context.Context, q gocql.ObservedQuery) {
	attrs := []any{"stmt", q.Statement, "duration", q.End.Sub(q.Start)}
	if q.Err != nil {
		attrs = append(attrs, "err", q.Err)
	}
	o.logger.DebugContext(ctx, "CQL query", attrs...)
}

// connectObserver surfaces failed connection attempts. The store retries
// nothing itself, so without this the only signal for an unreachable node
// is individual operation errors.
type connectObserver struct {
	logger *slog.Logger
}

func (o connectObserver) ObserveConnect(c gocql.ObservedConnect) {
	if c.Err == nil {
		return
	}
	attrs := []any{"duration", c.End.Sub(c.Start), "err", c.Err}
	if c.Host != nil {
		attrs = append(attrs, "host", c.Host.ConnectAddress().String())
	}
	o.logger.Warn("CQL connect failed", attrs...)
}
