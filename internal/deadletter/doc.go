// Package deadletter records messages the relay failed to deliver.
//
// A failed translation or store write should never silently drop a message:
// the original payload is preserved in SQLite alongside the route, topic and
// failure reason. The HTTP API exposes the records for inspection; replay is
// a manual operation and out of scope here.
package deadletter
