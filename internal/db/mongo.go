package db

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// State of the shared connection. The connector starts uninitialized and only
// dials when something first asks for the database.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateConnecting    State = "connecting"
	StateConnected     State = "connected"
)

// ErrMissingURI is reported on every attempt while the connection string is
// absent; it is never cached, so setting the variable and retrying works.
var ErrMissingURI = errors.New("MONGODB_URI is not set")

type Options struct {
	URI      string
	Database string
	// DialTimeout bounds a single connection attempt. Defaults to 10s.
	DialTimeout time.Duration
	// AfterConnect runs once per successful dial, before the connection is
	// handed out. Used to bootstrap indexes.
	AfterConnect func(ctx context.Context, dbase *mongo.Database) error
	// Dial defaults to the real driver dial; tests swap it.
	Dial func(ctx context.Context, uri string) (*mongo.Client, error)
}

// Connector owns the process-wide Mongo client. At most one dial is in
// flight at any time: concurrent callers wait on the running attempt and
// share its outcome. A failed attempt resets the state to uninitialized so
// the next caller retries from scratch.
type Connector struct {
	uri          string
	dbName       string
	dialTimeout  time.Duration
	afterConnect func(ctx context.Context, dbase *mongo.Database) error
	dial         func(ctx context.Context, uri string) (*mongo.Client, error)

	mu       sync.Mutex
	state    State
	client   *mongo.Client
	inflight *attempt
}

// one dial attempt; err is written before done is closed
type attempt struct {
	done chan struct{}
	err  error
}

func NewConnector(opts Options) *Connector {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 10 * time.Second
	}
	if opts.Dial == nil {
		opts.Dial = dialMongo
	}
	if opts.Database == "" {
		opts.Database = "dev_events"
	}

	return &Connector{
		uri:          opts.URI,
		dbName:       opts.Database,
		dialTimeout:  opts.DialTimeout,
		afterConnect: opts.AfterConnect,
		dial:         opts.Dial,
		state:        StateUninitialized,
	}
}

// Database returns the shared handle, dialing lazily on first use.
func (c *Connector) Database(ctx context.Context) (*mongo.Database, error) {
	for {
		c.mu.Lock()

		switch c.state {
		case StateConnected:
			dbase := c.client.Database(c.dbName)
			c.mu.Unlock()
			return dbase, nil

		case StateConnecting:
			at := c.inflight
			c.mu.Unlock()

			select {
			case <-at.done:
			case <-ctx.Done():
				return nil, ctx.Err()
			}

			if at.err != nil {
				return nil, at.err
			}
			// attempt we waited on succeeded; loop to pick up the handle

		default: // StateUninitialized
			if c.uri == "" {
				c.mu.Unlock()
				return nil, ErrMissingURI
			}

			at := &attempt{done: make(chan struct{})}
			c.inflight = at
			c.state = StateConnecting
			c.mu.Unlock()

			client, err := c.connect()

			c.mu.Lock()
			if err != nil {
				c.state = StateUninitialized
			} else {
				c.state = StateConnected
				c.client = client
			}
			c.inflight = nil
			c.mu.Unlock()

			at.err = err
			close(at.done)

			if err != nil {
				return nil, err
			}
			// loop back and hand out the database from the connected state
		}
	}
}

// connect runs on its own deadline; a caller hanging up must not fail the
// attempt everyone else is waiting on.
func (c *Connector) connect() (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.dialTimeout)
	defer cancel()

	client, err := c.dial(ctx, c.uri)
	if err != nil {
		return nil, err
	}

	if c.afterConnect != nil {
		if err := c.afterConnect(ctx, client.Database(c.dbName)); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
	}

	return client, nil
}

func dialMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	// make sure the server is actually there before caching the client
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return client, nil
}

func (c *Connector) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Ping reaches the server, dialing first if nothing has connected yet.
func (c *Connector) Ping(ctx context.Context) error {
	if _, err := c.Database(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	client := c.client
	c.mu.Unlock()

	if client == nil {
		// disconnected between the dial and the ping
		return errors.New("not connected")
	}

	return client.Ping(ctx, nil)
}

// Disconnect tears the cached client down and puts the connector back at the
// start of its lifecycle.
func (c *Connector) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.client = nil
	if c.state == StateConnected {
		c.state = StateUninitialized
	}
	c.mu.Unlock()

	if client == nil {
		return nil
	}

	return client.Disconnect(ctx)
}
