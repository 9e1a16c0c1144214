// Package relay wires ingest routes to the time-series store.
//
// Each configured route subscribes to an MQTT topic. Every delivered message
// runs through the same pipeline:
//
//	decode envelope → translate to line protocol → acquire store → write
//
// A successful write flips the status badge to "written" and forwards the
// original payload to the route's forward topic. Any failure flips the badge
// to "error", preserves the payload as a dead letter and logs the reason.
// The badge resets to "idle" after a configurable delay; one resettable
// timer serves all outcomes so the badge always tracks the latest message.
//
// The store handle is acquired lazily per message and kept across messages.
// After a failed write it is released, so the next message reconnects
// instead of reusing a connection that just failed. There is no retry: a
// message either lands in the store or in the dead-letter table.
package relay
