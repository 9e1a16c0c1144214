// Package store resolves and owns the time-series store connection.
//
// The relay is configured with exactly one backend (InfluxDB v2 or
// VictoriaMetrics); Resolver hides which one behind the Handle interface
// and creates the connection lazily on first Acquire. Release discards the
// handle so a later Acquire reconnects - the relay calls it after a failed
// write rather than retrying.
//
// # Usage
//
//	resolver := store.NewResolver(cfg.Store)
//	defer resolver.Release()
//
//	handle, err := resolver.Acquire(ctx)
//	if err != nil {
//	    // store unreachable or misconfigured
//	}
//	err = handle.Write(ctx, "telemetry", line)
package store
