// Package influxdb provides the InfluxDB v2 store backend for Point Relay.
//
// It wraps influxdb-client-go with token authentication, a connect-time ping,
// and synchronous per-line writes. The relay's "database" notion maps to an
// InfluxDB v2 bucket; a blocking write API is cached per target bucket.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.Store)
//	if err != nil {
//	    // ErrConfiguration - fatal, do not retry
//	}
//	defer client.Close()
//
//	err = client.Write(ctx, "telemetry", `sensor temp=21.5`)
//
// # Error Handling
//
// Writes are synchronous and return their outcome directly. There is no
// batching, buffering or retry: the caller owns failure policy.
package influxdb
