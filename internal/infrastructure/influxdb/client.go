package influxdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/nerrad567/point-relay/internal/infrastructure/config"
)

// Default timeouts for InfluxDB operations.
const (
	defaultConnectTimeout = 10 * time.Second
	defaultPingTimeout    = 5 * time.Second
)

// Client wraps the InfluxDB v2 client for Point Relay.
//
// Writes are synchronous: each line is written with a blocking write API and
// the outcome is returned to the caller. There is no batching or retry at
// this layer - a failed write is a failed message.
//
// InfluxDB v2 has no database concept; the target database name maps to a
// bucket. One write API is kept per target bucket and reused across writes.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	client influxdb2.Client
	cfg    config.StoreConfig

	// writers caches one blocking write API per target database (bucket).
	writers  map[string]api.WriteAPIBlocking
	writerMu sync.Mutex
}

// Connect establishes a connection to the InfluxDB server.
//
// It performs the following setup:
//  1. Creates the client with token authentication
//  2. Verifies connectivity with a ping
//
// Parameters:
//   - ctx: Context for cancellation (bounds the connectivity check)
//   - cfg: Store configuration from config.yaml
//
// Returns:
//   - *Client: Connected client ready for use
//   - error: Wrapping ErrConfiguration if the client cannot be built or the
//     server is unreachable
func Connect(ctx context.Context, cfg config.StoreConfig) (*Client, error) {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)

	// Verify connectivity
	pingCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	healthy, err := client.Ping(pingCtx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConfiguration, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConfiguration)
	}

	return &Client{
		client:  client,
		cfg:     cfg,
		writers: make(map[string]api.WriteAPIBlocking),
	}, nil
}

// Write submits one line of line-protocol text to the given database.
//
// The line is written synchronously; the returned error is the write's
// outcome. Timestamps in the line are nanosecond precision.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - database: Target database (bucket) name
//   - line: A single line-protocol record
//
// Returns:
//   - error: Wrapping ErrWriteFailed if the store rejects or the request fails
func (c *Client) Write(ctx context.Context, database, line string) error {
	if err := c.writerFor(database).WriteRecord(ctx, line); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// writerFor returns the cached blocking write API for a database, creating
// it on first use.
func (c *Client) writerFor(database string) api.WriteAPIBlocking {
	c.writerMu.Lock()
	defer c.writerMu.Unlock()

	w, ok := c.writers[database]
	if !ok {
		w = c.client.WriteAPIBlocking(c.cfg.Org, database)
		c.writers[database] = w
	}
	return w
}

// Close shuts down the InfluxDB connection.
//
// Returns:
//   - error: nil (the InfluxDB client Close doesn't return errors)
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	c.client.Close()
	return nil
}

// HealthCheck verifies the InfluxDB connection is alive and functioning.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (c *Client) HealthCheck(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	healthy, err := c.client.Ping(checkCtx)
	if err != nil {
		return fmt.Errorf("influxdb health check failed: %w", err)
	}
	if !healthy {
		return fmt.Errorf("influxdb health check failed: server not healthy")
	}

	return nil
}
