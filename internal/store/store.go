package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nerrad567/point-relay/internal/infrastructure/config"
	"github.com/nerrad567/point-relay/internal/infrastructure/influxdb"
	"github.com/nerrad567/point-relay/internal/infrastructure/tsdb"
)

// ErrConfiguration indicates the store cannot be reached or the configured
// backend is unusable. Acquire returns it wrapped; callers treat it as
// fatal for the message being processed, not for the process.
var ErrConfiguration = errors.New("store: configuration error")

// Handle is a live connection to a time-series store.
//
// Both backends satisfy it; the relay never sees a concrete client.
type Handle interface {
	// Write submits one line-protocol record to the named database.
	Write(ctx context.Context, database, line string) error

	// Close releases the underlying connection.
	Close() error
}

// Resolver owns the lifecycle of the store connection.
//
// The handle is created lazily on first Acquire and reused until Release.
// Connecting at first use rather than at boot means the relay starts and
// serves its other surfaces even when the store is down; the first message
// pays the connection cost.
//
// Thread Safety:
//   - Acquire and Release are safe for concurrent use. Concurrent Acquire
//     calls resolve to the same handle.
type Resolver struct {
	cfg config.StoreConfig

	mu     sync.Mutex
	handle Handle
}

// NewResolver creates a resolver for the configured backend.
//
// No connection is made here; see Acquire.
func NewResolver(cfg config.StoreConfig) *Resolver {
	return &Resolver{cfg: cfg}
}

// Acquire returns the store handle, connecting on first use.
//
// Repeated calls return the same handle until Release discards it. A failed
// connection attempt leaves the resolver empty, so the next Acquire retries
// from scratch.
//
// Parameters:
//   - ctx: Context bounding the connection attempt
//
// Returns:
//   - Handle: Live store connection
//   - error: Wrapping ErrConfiguration if the backend is unknown or the
//     connection attempt fails
func (r *Resolver) Acquire(ctx context.Context) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handle != nil {
		return r.handle, nil
	}

	handle, err := r.connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	r.handle = handle
	return r.handle, nil
}

// connect dials the configured backend. Caller holds the mutex.
func (r *Resolver) connect(ctx context.Context) (Handle, error) {
	switch r.cfg.Backend {
	case config.BackendInfluxDB:
		return influxdb.Connect(ctx, r.cfg)
	case config.BackendVictoriaMetrics:
		return tsdb.Connect(ctx, r.cfg)
	default:
		return nil, fmt.Errorf("unknown backend %q", r.cfg.Backend)
	}
}

// Release closes and discards the current handle, if any.
//
// Close errors are discarded: the handle is being thrown away either way,
// and the next Acquire builds a fresh one. Safe to call when no handle
// exists.
func (r *Resolver) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handle == nil {
		return
	}

	_ = r.handle.Close()
	r.handle = nil
}
