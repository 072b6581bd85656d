package cqlstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/gocql/gocql"
)

// Store persists sessions in a single CQL table, one row per session id,
// with expiry handled by the column store's write-time TTL.
type Store struct {
	conn     Conn
	ownsConn bool
	connErr  error
	sess     *gocql.Session

	table       string
	getQuery    string
	setQuery    string
	deleteQuery string

	policy     Attrs
	defaultTTL time.Duration
	sealer     AEAD
	logger     *slog.Logger
}

// New builds a Store from cfg. Configuration problems fail construction,
// but a failure to reach an owned cluster does not: it is logged, and every
// store operation returns the connection error until the process restarts.
func New(cfg Config) (*Store, error) {
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	table, err := resolveTable(cfg.Keyspace, cfg.Table)
	if err != nil {
		return nil, err
	}

	s := &Store{
		table:       table,
		getQuery:    fmt.Sprintf(getQueryTemplate, table),
		setQuery:    fmt.Sprintf(setQueryTemplate, table),
		deleteQuery: fmt.Sprintf(deleteQueryTemplate, table),
		policy:      resolveCookiePolicy(cfg.Development, cfg.Cookie, cfg.DevCookie),
		defaultTTL:  cfg.DefaultTTL,
		sealer:      cfg.AEAD,
		logger:      cfg.Logger,
	}

	if cfg.Conn != nil {
		s.conn = cfg.Conn
		return s, nil
	}

	cluster, err := cfg.cluster()
	if err != nil {
		return nil, err
	}
	sess, err := cluster.CreateSession()
	if err != nil {
		s.connErr = fmt.Errorf("connecting to cluster: %w", err)
		s.logger.Error("Failed to connect to cluster, store operations will return the error", "err", err)
		return s, nil
	}
	s.sess = sess
	s.conn = WrapGocql(sess)
	s.ownsConn = true
	return s, nil
}

// Close shuts down the owned cluster client. A connection supplied through
// Config.Conn is left open.
func (s *Store) Close() {
	if s.ownsConn && s.sess != nil {
		s.sess.Close()
	}
}

func (s *Store) client() (Conn, error) {
	if s.connErr != nil {
		return nil, s.connErr
	}
	return s.conn, nil
}

// Get loads the session stored under id. Absent and expired sessions return
// (nil, nil). A row whose payload cannot be decoded is logged and likewise
// reported absent, so corrupt data starts a fresh session instead of
// wedging the caller.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	conn, err := s.client()
	if err != nil {
		return nil, err
	}

	var payload []byte
	err = conn.QueryRowContext(ctx, s.getQuery, id).Scan(&payload)
	s.trace(ctx, "session get", err, "query", s.getQuery, "id", id)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting %s: %w", id, err)
	}

	sess, err := s.decodePayload(id, payload)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to decode session data, treating it as absent", "id", id, "err", err)
		return nil, nil
	}
	return sess, nil
}

// Set writes sess under id. The store's cookie policy is merged over the
// session's cookie attributes first, then the row TTL derives from the
// resulting maxAge, falling back to the configured default.
func (s *Store) Set(ctx context.Context, id string, sess *Session) error {
	if sess == nil {
		return fmt.Errorf("setting %s: nil session", id)
	}
	if sess.Cookie == nil {
		sess.Cookie = Attrs{}
	}
	maps.Copy(sess.Cookie, s.policy)
	normalizeMaxAge(sess.Cookie)
	ttl := ttlSeconds(sess.Cookie, s.defaultTTL)

	payload, err := s.encodePayload(id, sess)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", id, err)
	}

	conn, err := s.client()
	if err != nil {
		return err
	}
	err = conn.ExecContext(ctx, s.setQuery, ttl, payload, id)
	s.trace(ctx, "session set", err, "query", s.setQuery, "id", id, "ttl", ttl)
	if err != nil {
		return fmt.Errorf("setting %s: %w", id, err)
	}
	return nil
}

// Destroy removes the session stored under id. Destroying an absent session
// is not an error.
func (s *Store) Destroy(ctx context.Context, id string) error {
	conn, err := s.client()
	if err != nil {
		return err
	}
	err = conn.ExecContext(ctx, s.deleteQuery, id)
	s.trace(ctx, "session destroy", err, "query", s.deleteQuery, "id", id)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", id, err)
	}
	return nil
}

// CreateTable creates the session table if it does not exist. The keyspace
// must already exist; replication is a cluster-operations decision the store
// does not make.
func (s *Store) CreateTable(ctx context.Context) error {
	conn, err := s.client()
	if err != nil {
		return err
	}
	stmt := fmt.Sprintf(createTableTemplate, s.table)
	err = conn.ExecContext(ctx, stmt)
	s.trace(ctx, "create table", err, "query", stmt)
	if err != nil {
		return fmt.Errorf("creating table %s: %w", s.table, err)
	}
	return nil
}

// trace emits a debug record for one executed statement. Not-found reads
// are normal and carry no error attribute.
func (s *Store) trace(ctx context.Context, msg string, err error, attrs ...any) {
	if err != nil && !errors.Is(err, gocql.ErrNotFound) {
		attrs = append(attrs, "err", err)
	}
	s.logger.DebugContext(ctx, msg, attrs...)
}

func (s *Store) encodePayload(id string, sess *Session) ([]byte, error) {
	doc, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	if s.sealer == nil {
		return doc, nil
	}
	return sealPayload(s.sealer, id, doc)
}

func (s *Store) decodePayload(id string, payload []byte) (*Session, error) {
	if s.sealer != nil {
		doc, err := unsealPayload(s.sealer, id, payload)
		if err != nil {
			return nil, err
		}
		payload = doc
	}
	sess := &Session{}
	if err := json.Unmarshal(payload, sess); err != nil {
		return nil, err
	}
	return sess, nil
}
