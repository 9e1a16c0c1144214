package influxdb

import "errors"

// Sentinel errors for InfluxDB operations.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, influxdb.ErrWriteFailed) {
//	    // Record and move on - no retry at this layer
//	}
var (
	// ErrConfiguration indicates the client could not be constructed or the
	// configured endpoint is unreachable. Fatal: the caller must not retry.
	ErrConfiguration = errors.New("influxdb: invalid client configuration")

	// ErrWriteFailed indicates a write operation failed.
	ErrWriteFailed = errors.New("influxdb: write failed")
)
