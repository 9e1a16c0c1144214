package translate_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nerrad567/point-relay/internal/translate"
)

// decode is a helper that fails the test on envelope decode errors.
func decode(t *testing.T, raw string) *translate.Message {
	t.Helper()
	msg, err := translate.DecodeMessage([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeMessage() error = %v", err)
	}
	return msg
}

// run translates with no route defaults and "env" as the store default.
func run(t *testing.T, raw string) (*translate.Result, error) {
	t.Helper()
	return translate.Translate(decode(t, raw), translate.Defaults{}, "env")
}

// =============================================================================
// Decode Tests
// =============================================================================

func TestDecodeMessage_NotJSON(t *testing.T) {
	_, err := translate.DecodeMessage([]byte("not json at all"))
	if !errors.Is(err, translate.ErrInvalidPayload) {
		t.Errorf("DecodeMessage() error = %v, want ErrInvalidPayload", err)
	}
}

func TestDecodeMessage_TopLevelArray(t *testing.T) {
	_, err := translate.DecodeMessage([]byte(`[1, 2, 3]`))
	if !errors.Is(err, translate.ErrInvalidPayload) {
		t.Errorf("DecodeMessage() error = %v, want ErrInvalidPayload", err)
	}
}

func TestDecodeMessage_PayloadKinds(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want translate.PayloadKind
	}{
		{"string payload", `{"payload": "cpu load=1"}`, translate.PayloadText},
		{"object payload", `{"payload": {"temp": 1}}`, translate.PayloadStructured},
		{"missing payload", `{"measurement": "m"}`, translate.PayloadInvalid},
		{"null payload", `{"payload": null}`, translate.PayloadInvalid},
		{"numeric payload", `{"payload": 42}`, translate.PayloadInvalid},
		{"array payload", `{"payload": [1]}`, translate.PayloadInvalid},
		{"boolean payload", `{"payload": true}`, translate.PayloadInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decode(t, tt.raw).Kind; got != tt.want {
				t.Errorf("Kind = %v, want %v", got, tt.want)
			}
		})
	}
}

// =============================================================================
// Database and Measurement Precedence
// =============================================================================

func TestTranslate_DatabasePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		msgDB    string
		routeDB  string
		storeDB  string
		wantDB   string
		wantErr  error
	}{
		{"message wins", "msg-db", "route-db", "store-db", "msg-db", nil},
		{"route beats store", "", "route-db", "store-db", "route-db", nil},
		{"store is the fallback", "", "", "store-db", "store-db", nil},
		{"all empty fails", "", "", "", "", translate.ErrMissingDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"payload": {"v": 1}, "measurement": "m"`
			if tt.msgDB != "" {
				raw += fmt.Sprintf(`, "database": %q`, tt.msgDB)
			}
			raw += `}`

			res, err := translate.Translate(decode(t, raw),
				translate.Defaults{Database: tt.routeDB}, tt.storeDB)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Translate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Translate() error = %v", err)
			}
			if res.Database != tt.wantDB {
				t.Errorf("Database = %q, want %q", res.Database, tt.wantDB)
			}
		})
	}
}

func TestTranslate_MeasurementPrecedence(t *testing.T) {
	// Message-level measurement wins over the route default
	res, err := translate.Translate(
		decode(t, `{"payload": {"v": 1}, "measurement": "from-msg"}`),
		translate.Defaults{Measurement: "from-route"}, "env")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if !strings.HasPrefix(res.Line, "from-msg ") {
		t.Errorf("Line = %q, want from-msg measurement", res.Line)
	}

	// Route default applies when the message has none
	res, err = translate.Translate(
		decode(t, `{"payload": {"v": 1}}`),
		translate.Defaults{Measurement: "from-route"}, "env")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if !strings.HasPrefix(res.Line, "from-route ") {
		t.Errorf("Line = %q, want from-route measurement", res.Line)
	}
}

func TestTranslate_MissingMeasurement(t *testing.T) {
	_, err := run(t, `{"payload": {"v": 1}}`)
	if !errors.Is(err, translate.ErrMissingMeasurement) {
		t.Errorf("Translate() error = %v, want ErrMissingMeasurement", err)
	}
}

func TestTranslate_TextPayloadNeedsNoMeasurement(t *testing.T) {
	// A text payload carries its own measurement inline
	res, err := run(t, `{"payload": "cpu,host=a load=1.5"}`)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if res.Line != "cpu,host=a load=1.5" {
		t.Errorf("Line = %q, want verbatim text", res.Line)
	}
}

// =============================================================================
// Payload Classification
// =============================================================================

func TestTranslate_TextPayloadVerbatim(t *testing.T) {
	const text = "weird,tag=\\ escaped field=1i 1700000000000000000"
	res, err := run(t, fmt.Sprintf(`{"payload": %q}`, text))
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if res.Line != text {
		t.Errorf("Line = %q, want untouched %q", res.Line, text)
	}
	if res.Database != "env" {
		t.Errorf("Database = %q, want env", res.Database)
	}
}

func TestTranslate_InvalidPayload(t *testing.T) {
	for _, raw := range []string{
		`{"measurement": "m"}`,
		`{"payload": null, "measurement": "m"}`,
		`{"payload": 7, "measurement": "m"}`,
		`{"payload": [1, 2], "measurement": "m"}`,
	} {
		if _, err := run(t, raw); !errors.Is(err, translate.ErrInvalidPayload) {
			t.Errorf("Translate(%s) error = %v, want ErrInvalidPayload", raw, err)
		}
	}
}

// =============================================================================
// Structured Payloads
// =============================================================================

func TestTranslate_FlatPayloadShorthand(t *testing.T) {
	// The spec.md worked example: flat keys become the field set
	res, err := run(t, `{"payload": {"temp": 21.5, "unit": "C"}, "measurement": "sensor"}`)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	want := `sensor temp=21.5,unit="C"`
	if res.Line != want {
		t.Errorf("Line = %q, want %q", res.Line, want)
	}
	if res.Database != "env" {
		t.Errorf("Database = %q, want env", res.Database)
	}
}

func TestTranslate_ExplicitFieldsAndTags(t *testing.T) {
	res, err := run(t, `{
		"payload": {
			"fields": {"load": 1.5, "up": true},
			"tags": {"host": "a", "region": "eu"}
		},
		"measurement": "cpu"
	}`)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	want := `cpu,host=a,region=eu load=1.5,up=true`
	if res.Line != want {
		t.Errorf("Line = %q, want %q", res.Line, want)
	}
}

func TestTranslate_NullTagsAndFieldsSkipped(t *testing.T) {
	res, err := run(t, `{
		"payload": {
			"fields": {"load": 1.5, "gone": null},
			"tags": {"host": "a", "gone": null}
		},
		"measurement": "cpu"
	}`)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	want := `cpu,host=a load=1.5`
	if res.Line != want {
		t.Errorf("Line = %q, want %q", res.Line, want)
	}
}

func TestTranslate_TagCoercion(t *testing.T) {
	res, err := run(t, `{
		"payload": {
			"fields": {"v": 1},
			"tags": {"num": 3.5, "flag": true, "count": "12i"}
		},
		"measurement": "m"
	}`)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	want := `m,count=12i,flag=true,num=3.5 v=1`
	if res.Line != want {
		t.Errorf("Line = %q, want %q", res.Line, want)
	}
}

func TestTranslate_TagKeepsMarkerText(t *testing.T) {
	// The trailing-i encoding belongs to fields; a tag string carrying it
	// must land in the line untouched
	res, err := run(t, `{
		"payload": {
			"fields": {"v": 1},
			"tags": {"id": "12i"}
		},
		"measurement": "m"
	}`)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	want := `m,id=12i v=1`
	if res.Line != want {
		t.Errorf("Line = %q, want %q", res.Line, want)
	}
}

func TestTranslate_NonObjectFieldsFallsBackToFlatKeys(t *testing.T) {
	// An unusable fields value is ignored when flat keys exist
	res, err := run(t, `{
		"payload": {"fields": "broken", "temp": 20},
		"measurement": "sensor"
	}`)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if res.Line != "sensor temp=20" {
		t.Errorf("Line = %q, want sensor temp=20", res.Line)
	}
}

func TestTranslate_NonObjectFieldsNoFallback(t *testing.T) {
	_, err := run(t, `{"payload": {"fields": "broken"}, "measurement": "sensor"}`)
	if !errors.Is(err, translate.ErrInvalidFields) {
		t.Errorf("Translate() error = %v, want ErrInvalidFields", err)
	}
}

func TestTranslate_NoFields(t *testing.T) {
	for name, raw := range map[string]string{
		"empty payload":       `{"payload": {}, "measurement": "m"}`,
		"all nulls":           `{"payload": {"a": null, "b": null}, "measurement": "m"}`,
		"all unsupported":     `{"payload": {"a": [1], "b": {"x": 1}}, "measurement": "m"}`,
		"only tags":           `{"payload": {"tags": {"host": "a"}}, "measurement": "m"}`,
		"empty explicit set":  `{"payload": {"fields": {}}, "measurement": "m"}`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := run(t, raw); !errors.Is(err, translate.ErrNoFields) {
				t.Errorf("Translate() error = %v, want ErrNoFields", err)
			}
		})
	}
}

// =============================================================================
// Field Type Classification
// =============================================================================

func TestTranslate_FieldTypes(t *testing.T) {
	tests := []struct {
		name  string
		value string // JSON literal for the field value
		want  string // expected serialized field, or "" when skipped
	}{
		{"float", `21.5`, `v=21.5`},
		{"whole number is still a float", `10`, `v=10`},
		{"boolean", `true`, `v=true`},
		{"legacy integer marker", `"10i"`, `v=10i`},
		{"negative legacy integer", `"-7i"`, `v=-7i`},
		{"digit string stays a string", `"10"`, `v="10"`},
		{"plain string", `"abc"`, `v="abc"`},
		{"bare marker is a string", `"i"`, `v="i"`},
		{"mid-string marker is a string", `"4i2"`, `v="4i2"`},
		{"decimal prefix is a string", `"4.2i"`, `v="4.2i"`},
		{"legacy string wrapper", `{"s": "up"}`, `v="up"`},
		{"legacy integer wrapper", `{"i": "42"}`, `v=42i`},
		{"legacy integer wrapper with number", `{"i": 42}`, `v=42i`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := fmt.Sprintf(`{"payload": {"v": %s}, "measurement": "m"}`, tt.value)
			res, err := run(t, raw)
			if err != nil {
				t.Fatalf("Translate() error = %v", err)
			}
			want := "m " + tt.want
			if res.Line != want {
				t.Errorf("Line = %q, want %q", res.Line, want)
			}
		})
	}
}

func TestTranslate_UnsupportedShapesSkipped(t *testing.T) {
	res, err := run(t, `{
		"payload": {"keep": 1, "arr": [1, 2], "obj": {"nested": true}, "badint": {"i": "4.2"}},
		"measurement": "m"
	}`)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if res.Line != "m keep=1" {
		t.Errorf("Line = %q, want only the supported field kept", res.Line)
	}
}

// =============================================================================
// Timestamps
// =============================================================================

func TestTranslate_NumericTimestampIsEpochMillis(t *testing.T) {
	res, err := run(t, `{"payload": {"v": 1}, "measurement": "m", "timestamp": 1700000000000}`)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if !strings.HasSuffix(res.Line, " 1700000000000000000") {
		t.Errorf("Line = %q, want nanosecond timestamp suffix", res.Line)
	}
}

func TestTranslate_RFC3339Timestamp(t *testing.T) {
	res, err := run(t, `{"payload": {"v": 1, "timestamp": "2026-01-02T15:04:05Z"}, "measurement": "m"}`)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if !strings.HasSuffix(res.Line, " 1767366245000000000") {
		t.Errorf("Line = %q, want RFC 3339 timestamp as nanoseconds", res.Line)
	}
}

func TestTranslate_PayloadTimestampWinsOverMessage(t *testing.T) {
	res, err := run(t, `{
		"payload": {"v": 1, "timestamp": 2000},
		"measurement": "m",
		"timestamp": 1000
	}`)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if !strings.HasSuffix(res.Line, " 2000000000") {
		t.Errorf("Line = %q, want payload-level timestamp", res.Line)
	}
}

func TestTranslate_NoTimestampLeavesLineBare(t *testing.T) {
	res, err := run(t, `{"payload": {"v": 1}, "measurement": "m"}`)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if res.Line != "m v=1" {
		t.Errorf("Line = %q, want no timestamp section", res.Line)
	}
}

func TestTranslate_UnparseableTimestampIgnored(t *testing.T) {
	res, err := run(t, `{"payload": {"v": 1}, "measurement": "m", "timestamp": "next tuesday"}`)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if res.Line != "m v=1" {
		t.Errorf("Line = %q, want unparseable timestamp dropped", res.Line)
	}
}
