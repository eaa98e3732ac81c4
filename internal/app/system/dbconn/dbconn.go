// Package dbconn owns the process-wide MongoDB client.
//
// The first caller of Client dials; concurrent first callers share that one
// dial. A successful client is kept until Close. A failed dial is returned to
// every caller that joined it and is not remembered, so the next call dials
// again. There is no automatic retry.
package dbconn

import (
	"context"
	"errors"
	"fmt"
	"sync"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrNotConfigured is returned when no URI was provided.
var ErrNotConfigured = errors.New("dbconn: mongo uri not configured")

// DialFunc establishes a client with the given pool bounds (0 keeps the
// driver default). Tests substitute a fake.
type DialFunc func(ctx context.Context, uri, dbName string, maxPool, minPool uint64) (*mongo.Client, error)

// wafflePooledDial connects through waffle's pooled connect.
func wafflePooledDial(ctx context.Context, uri, dbName string, maxPool, minPool uint64) (*mongo.Client, error) {
	pool := wafflemongo.DefaultPoolConfig()
	if maxPool > 0 {
		pool.MaxPoolSize = maxPool
	}
	if minPool > 0 {
		pool.MinPoolSize = minPool
	}
	return wafflemongo.ConnectWithPool(ctx, uri, dbName, pool)
}

// Config describes the connection.
type Config struct {
	URI         string
	Database    string
	MaxPoolSize uint64
	MinPoolSize uint64
}

// Connector lazily creates and then shares a single pooled client.
type Connector struct {
	cfg    Config
	dial   DialFunc
	logger *zap.Logger

	group singleflight.Group

	mu     sync.RWMutex
	client *mongo.Client
}

// New builds a Connector that dials with waffle's pooled connect.
func New(cfg Config, logger *zap.Logger) *Connector {
	return NewWithDialer(cfg, wafflePooledDial, logger)
}

// NewWithDialer builds a Connector with a custom dial function.
func NewWithDialer(cfg Config, dial DialFunc, logger *zap.Logger) *Connector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Connector{cfg: cfg, dial: dial, logger: logger}
}

// Client returns the shared client, dialing if none exists yet.
func (c *Connector) Client(ctx context.Context) (*mongo.Client, error) {
	c.mu.RLock()
	cl := c.client
	c.mu.RUnlock()
	if cl != nil {
		return cl, nil
	}
	if c.cfg.URI == "" {
		return nil, ErrNotConfigured
	}

	v, err, shared := c.group.Do("connect", func() (any, error) {
		c.mu.RLock()
		existing := c.client
		c.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		client, err := c.dial(ctx, c.cfg.URI, c.cfg.Database, c.cfg.MaxPoolSize, c.cfg.MinPoolSize)
		if err != nil {
			return nil, fmt.Errorf("connect to mongo: %w", err)
		}

		c.mu.Lock()
		c.client = client
		c.mu.Unlock()

		c.logger.Info("connected to MongoDB",
			zap.String("database", c.cfg.Database),
			zap.Uint64("max_pool_size", c.cfg.MaxPoolSize),
			zap.Uint64("min_pool_size", c.cfg.MinPoolSize),
		)
		return client, nil
	})
	if err != nil {
		c.logger.Warn("mongo connect failed", zap.Bool("shared", shared), zap.Error(err))
		return nil, err
	}
	return v.(*mongo.Client), nil
}

// Database returns the configured database on the shared client.
func (c *Connector) Database(ctx context.Context) (*mongo.Database, error) {
	cl, err := c.Client(ctx)
	if err != nil {
		return nil, err
	}
	return cl.Database(c.cfg.Database), nil
}

// Close disconnects the shared client if one was created.
func (c *Connector) Close(ctx context.Context) error {
	c.mu.Lock()
	cl := c.client
	c.client = nil
	c.mu.Unlock()
	if cl == nil {
		return nil
	}
	return cl.Disconnect(ctx)
}
