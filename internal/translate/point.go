package translate

import (
	"sort"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// decomposed is a structured payload split into its point ingredients.
type decomposed struct {
	fields    map[string]any
	tags      map[string]any
	timestamp time.Time
}

// decompose splits a structured payload into fields, tags and a timestamp.
//
// The explicit keys "fields", "tags" and "timestamp" are extracted when
// present; every other top-level key goes into the remainder. When the
// payload has no usable fields object, the remainder becomes the field set -
// the legacy shorthand for flat payloads like {"temp": 21.5, "unit": "C"}.
//
// An explicit fields value of the wrong shape with nothing to fall back on
// fails with ErrInvalidFields rather than ErrNoFields: the producer named the
// fields key and got its shape wrong, which is the more precise report. A
// payload-level timestamp takes precedence over the message-level one.
func decompose(obj map[string]any, msgTimestamp time.Time) (decomposed, error) {
	d := decomposed{
		tags:      map[string]any{},
		timestamp: msgTimestamp,
	}

	remainder := make(map[string]any, len(obj))
	var rawFields any
	haveFields := false

	for k, v := range obj {
		switch k {
		case keyFields:
			rawFields = v
			haveFields = true
		case keyTags:
			if tags, ok := v.(map[string]any); ok {
				d.tags = tags
			}
		case keyTimestamp:
			if ts := parseTimestamp(v); !ts.IsZero() {
				d.timestamp = ts
			}
		default:
			remainder[k] = v
		}
	}

	if fields, ok := rawFields.(map[string]any); ok {
		d.fields = fields
		return d, nil
	}
	if haveFields && len(remainder) == 0 {
		// The producer sent an explicit fields value of the wrong shape and
		// there are no flat keys to substitute.
		return decomposed{}, ErrInvalidFields
	}
	d.fields = remainder
	return d, nil
}

// buildPoint assembles a line-protocol point from decomposed payload parts.
//
// Tags and fields with null values are skipped; fields of unsupported shapes
// are skipped too. Tag values are string-coerced without field classification,
// so a string like "12i" stays "12i" in the tag - the trailing-i marker only
// has meaning for fields. A point that ends up with zero fields fails with
// ErrNoFields - measurement, tags and timestamp alone are not submittable.
//
// Keys are processed in sorted order so the serialized output is
// deterministic regardless of map iteration.
func buildPoint(measurement string, d decomposed) (*write.Point, error) {
	p := write.NewPointWithMeasurement(measurement)

	for _, k := range sortedKeys(d.tags) {
		raw := d.tags[k]
		if raw == nil {
			continue
		}
		p.AddTag(k, TagString(raw))
	}

	fieldCount := 0
	for _, k := range sortedKeys(d.fields) {
		v := Classify(d.fields[k])
		switch v.Kind {
		case KindFloat:
			p.AddField(k, v.Float)
		case KindInteger:
			p.AddField(k, v.Int)
		case KindBoolean:
			p.AddField(k, v.Bool)
		case KindString:
			p.AddField(k, v.Str)
		default:
			// Null and unsupported shapes contribute nothing.
			continue
		}
		fieldCount++
	}

	if fieldCount == 0 {
		return nil, ErrNoFields
	}

	if !d.timestamp.IsZero() {
		p.SetTime(d.timestamp)
	}

	return p, nil
}

// sortedKeys returns the map's keys in lexicographic order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
