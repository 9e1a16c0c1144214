package translate

import (
	"strings"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Defaults carries the route-level (node-level) fallbacks used when the
// message itself does not name a measurement or database.
type Defaults struct {
	Measurement string
	Database    string
}

// Result is a translated message ready for submission.
type Result struct {
	// Line is the line-protocol text to write, a single line without a
	// trailing newline.
	Line string

	// Database is the resolved target database.
	Database string
}

// Translate converts one decoded message into submittable line-protocol text.
//
// Resolution precedence:
//   - database: message > route defaults > store default; all empty fails
//     with ErrMissingDatabase.
//   - measurement: message > route defaults; both empty fails with
//     ErrMissingMeasurement (structured payloads only - text payloads carry
//     their own measurement inline).
//
// Text payloads bypass decomposition entirely and are returned verbatim.
// Structured payloads are decomposed, classified and serialized; see the
// package documentation for the classification rules.
//
// Parameters:
//   - msg: Decoded message (see DecodeMessage)
//   - route: Route-level measurement/database defaults
//   - storeDatabase: Store-level default database (lowest precedence)
//
// Returns:
//   - *Result: Line text and resolved database
//   - error: One of the translate sentinel errors
func Translate(msg *Message, route Defaults, storeDatabase string) (*Result, error) {
	database := firstNonEmpty(msg.Database, route.Database, storeDatabase)
	if database == "" {
		return nil, ErrMissingDatabase
	}

	switch msg.Kind {
	case PayloadText:
		// Already-encoded line protocol: forwarded without structural
		// modification. Malformed text is the store's problem to reject.
		return &Result{Line: msg.Text, Database: database}, nil
	case PayloadStructured:
		// Handled below.
	default:
		return nil, ErrInvalidPayload
	}

	measurement := firstNonEmpty(msg.Measurement, route.Measurement)
	if measurement == "" {
		return nil, ErrMissingMeasurement
	}

	d, err := decompose(msg.Object, msg.Timestamp)
	if err != nil {
		return nil, err
	}

	p, err := buildPoint(measurement, d)
	if err != nil {
		return nil, err
	}

	return &Result{Line: serialize(p), Database: database}, nil
}

// serialize renders a point as line-protocol text.
//
// The wire grammar (escaping, quoting, type suffixes) is owned by the store
// client's encoder - it is deliberately not reimplemented here. Tags and
// fields are sorted first so output is deterministic.
func serialize(p *write.Point) string {
	p.SortTags()
	p.SortFields()
	return strings.TrimSuffix(write.PointToLineProtocol(p, time.Nanosecond), "\n")
}

// firstNonEmpty returns the first non-empty string, or "".
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
