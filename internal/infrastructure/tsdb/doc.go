// Package tsdb provides the VictoriaMetrics store backend for Point Relay.
//
// VictoriaMetrics accepts InfluxDB line protocol on its /write endpoint, so
// this client is a thin HTTP layer: a connect-time /health probe, then one
// POST per line with the target database passed as the db query parameter.
//
// # Usage
//
//	client, err := tsdb.Connect(ctx, cfg.Store)
//	if err != nil {
//	    // ErrConfiguration - fatal, do not retry
//	}
//	defer client.Close()
//
//	err = client.Write(ctx, "telemetry", `sensor temp=21.5`)
//
// No batching, buffering or retry happens here; failure policy belongs to
// the caller.
package tsdb
