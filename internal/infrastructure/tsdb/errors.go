package tsdb

import "errors"

// Sentinel errors for VictoriaMetrics operations.
var (
	// ErrConfiguration indicates the client could not be constructed or the
	// configured endpoint is unreachable. Fatal: the caller must not retry.
	ErrConfiguration = errors.New("tsdb: invalid client configuration")

	// ErrWriteFailed indicates a write operation failed.
	ErrWriteFailed = errors.New("tsdb: write failed")
)
