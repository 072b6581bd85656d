package cqlstore

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gocql/gocql"
)

// NewMemConn returns an in-memory Conn that understands the statements this
// package renders, including write-time TTL expiry. It is intended for tests
// and local development without a running cluster.
func NewMemConn() Conn {
	return &memConn{
		rows: make(map[string]memRow),
		now:  time.Now,
	}
}

type memConn struct {
	mu   sync.Mutex
	rows map[string]memRow
	now  func() time.Time
}

type memRow struct {
	payload   []byte
	expiresAt time.Time
}

func (m *memConn) ExecContext(_ context.Context, stmt string, args ...any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case strings.HasPrefix(stmt, "UPDATE "):
		if len(args) != 3 {
			return fmt.Errorf("update: want 3 args, got %d", len(args))
		}
		ttl, ok := args[0].(int)
		if !ok {
			return fmt.Errorf("update: ttl arg is %T, not int", args[0])
		}
		payload, err := payloadBytes(args[1])
		if err != nil {
			return fmt.Errorf("update: %w", err)
		}
		id, ok := args[2].(string)
		if !ok {
			return fmt.Errorf("update: id arg is %T, not string", args[2])
		}
		m.rows[id] = memRow{
			payload:   payload,
			expiresAt: m.now().Add(time.Duration(ttl) * time.Second),
		}
		return nil
	case strings.HasPrefix(stmt, "DELETE "):
		if len(args) != 1 {
			return fmt.Errorf("delete: want 1 arg, got %d", len(args))
		}
		id, ok := args[0].(string)
		if !ok {
			return fmt.Errorf("delete: id arg is %T, not string", args[0])
		}
		delete(m.rows, id)
		return nil
	case strings.HasPrefix(stmt, "CREATE TABLE "):
		// The map is the table.
		return nil
	default:
		return fmt.Errorf("unsupported statement %q", stmt)
	}
}

func (m *memConn) QueryRowContext(_ context.Context, stmt string, args ...any) Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !strings.HasPrefix(stmt, "SELECT ") {
		return memResult{err: fmt.Errorf("unsupported statement %q", stmt)}
	}
	if len(args) != 1 {
		return memResult{err: fmt.Errorf("select: want 1 arg, got %d", len(args))}
	}
	id, ok := args[0].(string)
	if !ok {
		return memResult{err: fmt.Errorf("select: id arg is %T, not string", args[0])}
	}
	row, ok := m.rows[id]
	if !ok {
		return memResult{err: gocql.ErrNotFound}
	}
	if m.now().After(row.expiresAt) {
		delete(m.rows, id)
		return memResult{err: gocql.ErrNotFound}
	}
	return memResult{payload: row.payload}
}

func payloadBytes(v any) ([]byte, error) {
	switch p := v.(type) {
	case []byte:
		return p, nil
	case string:
		return []byte(p), nil
	default:
		return nil, fmt.Errorf("payload arg is %T, not bytes or string", v)
	}
}

type memResult struct {
	payload []byte
	err     error
}

func (r memResult) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != 1 {
		return fmt.Errorf("scan: want 1 dest, got %d", len(dest))
	}
	switch d := dest[0].(type) {
	case *[]byte:
		*d = append([]byte(nil), r.payload...)
		return nil
	case *string:
		*d = string(r.payload)
		return nil
	default:
		return fmt.Errorf("scan: unsupported dest %T", dest[0])
	}
}
