package cqlstore

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gocql/gocql"
)

// Defaults applied by Config.normalize for fields left at their zero value.
const (
	DefaultKeyspace       = "sessions_store"
	DefaultTableName      = "sessions"
	DefaultPort           = 9042
	DefaultConnectTimeout = 5 * time.Second
	DefaultFetchSize      = 5000
	DefaultConsistency    = "quorum"
	DefaultTTL            = 24 * time.Hour
)

// Config configures a Store. The zero value is usable and targets a local
// single-node cluster with the default keyspace and table.
type Config struct {
	// ContactPoints are the cluster hosts to connect to.
	ContactPoints []string `env:"CQLSTORE_CONTACT_POINTS" envSeparator:"," envDefault:"localhost"`
	// Port is the CQL native protocol port.
	Port int `env:"CQLSTORE_PORT" envDefault:"9042"`
	// Keyspace qualifies the session table. When a Conn is supplied and
	// Keyspace is empty, queries use the bare table name and rely on the
	// connection's keyspace.
	Keyspace string `env:"CQLSTORE_KEYSPACE"`
	// Table is the session table name.
	Table string `env:"CQLSTORE_TABLE" envDefault:"sessions"`
	// ConnectTimeout bounds the initial cluster connection.
	ConnectTimeout time.Duration `env:"CQLSTORE_CONNECT_TIMEOUT" envDefault:"5s"`
	// FetchSize is the page size for queries on the owned client.
	FetchSize int `env:"CQLSTORE_FETCH_SIZE" envDefault:"5000"`
	// Consistency names the consistency level for the owned client, e.g.
	// "one", "quorum", "all".
	Consistency string `env:"CQLSTORE_CONSISTENCY" envDefault:"quorum"`
	// Username and Password enable password authentication when Username
	// is non-empty.
	Username string `env:"CQLSTORE_USERNAME"`
	Password string `env:"CQLSTORE_PASSWORD"`
	// DefaultTTL is the row lifetime applied when a session's cookie
	// carries no usable maxAge. Must be at least one second.
	DefaultTTL time.Duration `env:"CQLSTORE_DEFAULT_TTL" envDefault:"24h"`
	// Development selects the permissive cookie baseline.
	Development bool `env:"CQLSTORE_DEVELOPMENT"`

	// Cookie overrides production cookie attributes per key.
	Cookie Attrs
	// DevCookie overrides development cookie attributes per key.
	DevCookie Attrs
	// Conn supplies an existing connection. When set the store does not
	// build its own client, and Close leaves the connection open.
	Conn Conn
	// Logger receives the store's traces. Defaults to slog.Default().
	Logger *slog.Logger
	// AEAD, when set, seals payloads at rest and refuses unsealed rows.
	AEAD AEAD
}

// ConfigFromEnv builds a Config from CQLSTORE_* environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// normalize fills zero-value fields with defaults. The keyspace defaults
// only when the store builds its own client; a supplied Conn keeps queries
// on the bare table name unless a keyspace is set explicitly.
func (c *Config) normalize() {
	if len(c.ContactPoints) == 0 {
		c.ContactPoints = []string{"localhost"}
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Keyspace == "" && c.Conn == nil {
		c.Keyspace = DefaultKeyspace
	}
	if c.Table == "" {
		c.Table = DefaultTableName
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.FetchSize == 0 {
		c.FetchSize = DefaultFetchSize
	}
	if c.Consistency == "" {
		c.Consistency = DefaultConsistency
	}
	if c.DefaultTTL == 0 {
		c.DefaultTTL = DefaultTTL
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

func (c *Config) validate() error {
	if c.DefaultTTL < time.Second {
		return fmt.Errorf("default TTL %v is below one second", c.DefaultTTL)
	}
	if c.FetchSize < 0 {
		return fmt.Errorf("fetch size %d is negative", c.FetchSize)
	}
	return nil
}

// cluster translates the Config into gocql cluster settings for the owned
// client.
func (c *Config) cluster() (*gocql.ClusterConfig, error) {
	consistency, err := gocql.ParseConsistencyWrapper(c.Consistency)
	if err != nil {
		return nil, fmt.Errorf("parsing consistency %q: %w", c.Consistency, err)
	}

	cluster := gocql.NewCluster(c.ContactPoints...)
	cluster.Port = c.Port
	cluster.Keyspace = c.Keyspace
	cluster.ConnectTimeout = c.ConnectTimeout
	cluster.PageSize = c.FetchSize
	cluster.Consistency = consistency
	cluster.QueryObserver = queryObserver{logger: c.Logger}
	cluster.ConnectObserver = connectObserver{logger: c.Logger}
	if c.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: c.Username,
			Password: c.Password,
		}
	}
	return cluster, nil
}
