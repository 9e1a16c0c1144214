package translate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// PayloadKind classifies the payload of an incoming message.
type PayloadKind int

const (
	// PayloadInvalid is anything that is neither text nor a structured
	// object: absent, null, a number, a boolean, an array.
	PayloadInvalid PayloadKind = iota

	// PayloadText is a string payload, treated as already-encoded
	// line-protocol text and passed through verbatim. Its internal syntax is
	// not validated here; a malformed line is rejected by the store on write.
	PayloadText

	// PayloadStructured is an object payload, decomposed into fields, tags
	// and a timestamp.
	PayloadStructured
)

// Message is one decoded incoming event. It is transient: built per
// delivery, translated once, never retained.
type Message struct {
	// Measurement is the message-level measurement override. Empty when the
	// message does not carry one.
	Measurement string

	// Database is the message-level database override. Empty when the
	// message does not carry one.
	Database string

	// Timestamp is the message-level timestamp. Zero when absent or
	// unparseable (the store assigns ingest time in that case).
	Timestamp time.Time

	// Kind is the payload classification.
	Kind PayloadKind

	// Text holds the verbatim payload when Kind is PayloadText.
	Text string

	// Object holds the raw decoded payload when Kind is PayloadStructured.
	// Values are as produced by encoding/json with UseNumber: json.Number,
	// string, bool, nil, map[string]any, []any.
	Object map[string]any
}

// Message envelope keys.
const (
	keyPayload     = "payload"
	keyMeasurement = "measurement"
	keyDatabase    = "database"
	keyTimestamp   = "timestamp"
	keyFields      = "fields"
	keyTags        = "tags"
)

// DecodeMessage parses raw message bytes into a Message.
//
// The envelope must be a JSON object; anything else (including invalid JSON)
// fails with ErrInvalidPayload. Missing envelope keys are not an error at
// this stage - precedence resolution and payload classification happen in
// Translate.
//
// Parameters:
//   - data: Raw message bytes as delivered by the transport
//
// Returns:
//   - *Message: Decoded message ready for translation
//   - error: ErrInvalidPayload if the envelope is not a JSON object
func DecodeMessage(data []byte) (*Message, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var envelope map[string]any
	if err := dec.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: message is not a JSON object: %v", ErrInvalidPayload, err)
	}

	msg := &Message{
		Measurement: stringKey(envelope, keyMeasurement),
		Database:    stringKey(envelope, keyDatabase),
		Timestamp:   parseTimestamp(envelope[keyTimestamp]),
	}

	switch payload := envelope[keyPayload].(type) {
	case string:
		msg.Kind = PayloadText
		msg.Text = payload
	case map[string]any:
		msg.Kind = PayloadStructured
		msg.Object = payload
	default:
		msg.Kind = PayloadInvalid
	}

	return msg, nil
}

// stringKey returns the string value of an envelope key, or "" when the key
// is absent or not a string.
func stringKey(envelope map[string]any, key string) string {
	s, _ := envelope[key].(string)
	return s
}

// parseTimestamp interprets a message or payload timestamp value.
//
// Numbers are epoch milliseconds (the legacy producer convention). Strings
// are parsed as RFC 3339. Anything else - or a parse failure - yields the
// zero time, meaning the point carries no explicit timestamp and the store
// assigns one on ingest.
func parseTimestamp(raw any) time.Time {
	switch v := raw.(type) {
	case json.Number:
		if ms, err := v.Int64(); err == nil {
			return time.UnixMilli(ms)
		}
		if f, err := v.Float64(); err == nil {
			return time.UnixMilli(int64(f))
		}
		return time.Time{}
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
		return time.Time{}
	default:
		return time.Time{}
	}
}
