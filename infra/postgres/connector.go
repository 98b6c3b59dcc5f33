package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
)

var ErrMissingURI = errors.New("store connection URI is not configured")

type openFunc func(ctx context.Context, uri string) (*sqlx.DB, error)

// Connector lazily opens one connection pool and hands the same pool to
// every caller. Callers that arrive while a connect is in flight wait for
// it. A failed connect leaves nothing cached so the next call retries.
type Connector struct {
	uri  string
	open openFunc

	mu sync.Mutex
	db *sqlx.DB
}

func NewConnector(uri string) (*Connector, error) {
	if uri == "" {
		return nil, ErrMissingURI
	}
	return &Connector{uri: uri, open: connect}, nil
}

// NewConnectorWithDB wraps an already open pool.
func NewConnectorWithDB(db *sqlx.DB) *Connector {
	return &Connector{db: db}
}

func connect(ctx context.Context, uri string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", uri)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return db, nil
}

func (c *Connector) DB(ctx context.Context) (*sqlx.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db, nil
	}
	if c.open == nil {
		return nil, errors.New("connector is closed")
	}

	zap.L().Info("Creating new database connection...")
	db, err := c.open(ctx, c.uri)
	if err != nil {
		zap.L().Error("Database connection failed", zap.Error(err))
		return nil, fmt.Errorf("connect to store: %w", err)
	}
	zap.L().Info("Database connection established")

	c.db = db
	return db, nil
}

func (c *Connector) Ping(ctx context.Context) error {
	db, err := c.DB(ctx)
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// PoolStats returns current connection pool statistics, or nil before the
// first connect.
func (c *Connector) PoolStats() map[string]any {
	c.mu.Lock()
	db := c.db
	c.mu.Unlock()

	if db == nil {
		return nil
	}

	stats := db.Stats()
	return map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
}

// Close releases the pool. Later calls to DB fail.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.open = nil
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}
