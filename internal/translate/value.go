package translate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the type of a classified field or tag value.
type Kind int

// The closed set of value kinds. Classification happens once, at decode time;
// everything downstream is a total switch over these.
const (
	// KindNull is a JSON null. Null values are skipped entirely - they never
	// appear as tags or fields on the resulting point.
	KindNull Kind = iota

	// KindFloat is any JSON number. All numerics encode as floats.
	KindFloat

	// KindInteger is an explicitly integer-marked value: either a string with
	// a trailing "i" marker ("42i") or a legacy {"i": ...} wrapper object.
	KindInteger

	// KindBoolean is a JSON boolean.
	KindBoolean

	// KindString is a JSON string without the integer marker, or a legacy
	// {"s": ...} wrapper object.
	KindString

	// KindUnsupported is any shape with no field encoding (arrays, objects
	// without a recognised wrapper marker). Unsupported fields are silently
	// skipped.
	KindUnsupported
)

// Value is a classified field value.
//
// Exactly one of Float, Int, Bool or Str is meaningful, selected by Kind.
// Raw retains the original decoded value for KindUnsupported.
type Value struct {
	Kind  Kind
	Float float64
	Int   int64
	Bool  bool
	Str   string
	Raw   any
}

// Legacy wrapper object keys. Old producers wrapped values to force an
// explicit encoding: {"s": "up"} for a string, {"i": "42"} for an integer.
const (
	markerString  = "s"
	markerInteger = "i"
)

// Classify converts a decoded JSON value into a Value.
//
// The input comes from encoding/json with UseNumber enabled, so numbers
// arrive as json.Number. The mapping is:
//
//	null            -> KindNull
//	number          -> KindFloat
//	bool            -> KindBoolean
//	"42i"           -> KindInteger (trailing-i marker, full integer prefix)
//	other strings   -> KindString
//	{"s": ...}      -> KindString (legacy wrapper)
//	{"i": ...}      -> KindInteger (legacy wrapper, full integer required)
//	anything else   -> KindUnsupported
func Classify(v any) Value {
	switch val := v.(type) {
	case nil:
		return Value{Kind: KindNull}
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return Value{Kind: KindUnsupported, Raw: v}
		}
		return Value{Kind: KindFloat, Float: f}
	case bool:
		return Value{Kind: KindBoolean, Bool: val}
	case string:
		if n, ok := markedInteger(val); ok {
			return Value{Kind: KindInteger, Int: n}
		}
		return Value{Kind: KindString, Str: val}
	case map[string]any:
		return classifyWrapper(val)
	default:
		return Value{Kind: KindUnsupported, Raw: v}
	}
}

// classifyWrapper resolves the legacy wrapper object shapes.
//
// The string marker wins over the integer marker when both are present.
// An integer marker that does not parse fully as an integer makes the whole
// value unsupported rather than falling back to a string: the producer asked
// for an integer and did not provide one.
func classifyWrapper(obj map[string]any) Value {
	if raw, ok := obj[markerString]; ok {
		if s, ok := raw.(string); ok {
			return Value{Kind: KindString, Str: s}
		}
	}
	if raw, ok := obj[markerInteger]; ok {
		if n, ok := wrapperInteger(raw); ok {
			return Value{Kind: KindInteger, Int: n}
		}
	}
	return Value{Kind: KindUnsupported, Raw: obj}
}

// markedInteger recognises the legacy string encoding "42i": a single
// trailing marker character with a prefix that parses fully as an integer.
// "i" alone and strings with the marker mid-text ("4i2") are plain strings.
func markedInteger(s string) (int64, bool) {
	if !strings.HasSuffix(s, markerInteger) {
		return 0, false
	}
	prefix := strings.TrimSuffix(s, markerInteger)
	n, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// wrapperInteger parses the value of a legacy {"i": ...} wrapper. Both string
// digits and integer-valued numbers are accepted; anything else is rejected.
func wrapperInteger(raw any) (int64, bool) {
	switch v := raw.(type) {
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// TagString returns the tag coercion of a raw decoded value.
//
// Tags are plain strings in line protocol, so string values pass through
// verbatim - the trailing-i integer marker is a field encoding and does not
// apply here. Numbers keep their original textual form, booleans format as
// true/false, anything else falls back to its printed representation.
// Callers must skip nil before coercing.
func TagString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
