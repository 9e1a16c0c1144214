// Package translate converts loosely-structured event messages into
// time-series points encoded as InfluxDB line protocol.
//
// A message is a JSON object with an optional payload, measurement, database
// and timestamp. Translation is a short pipeline, each step failing fast:
//
//  1. Resolve the target database (message, then route, then store default).
//  2. Classify the payload: a string is treated as already-encoded line
//     protocol and passed through verbatim; an object is decomposed into
//     fields, tags and a timestamp; anything else is rejected.
//  3. Resolve the measurement (message, then route).
//  4. Build the point: field values are classified into a closed set of
//     kinds (float, integer, boolean, string, null, unsupported) at decode
//     time, so point building is a total match rather than reflection.
//  5. Serialize via the store client's line-protocol encoder.
//
// Legacy producer compatibility is preserved: flat payloads without a fields
// object use their top-level keys as the field set, strings like "42i" encode
// as integers, and the old {"s": ...}/{"i": ...} wrapper objects select an
// explicit string or integer encoding.
//
// The package is pure: no I/O, no clocks, no global state. Submission and
// status reporting live in the relay package.
package translate
