package record

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
)

// None is printed in place of a value when a field is absent from a record
// or holds a null.
const None = "None"

// Record is a single search hit: a read-only mapping from field name to value.
// Values are scalars (string, bool, numbers, json.Number), nil, or nested
// JSON structures as returned by the backend.
type Record struct {
	id     string
	score  float64
	fields map[string]any
}

// New creates a record. The field map is copied.
func New(id string, score float64, fields map[string]any) Record {
	return Record{id: id, score: score, fields: maps.Clone(fields)}
}

// ID returns the backend document key.
func (r Record) ID() string { return r.id }

// Score returns the backend relevance score (0 when the backend reports none).
func (r Record) Score() float64 { return r.score }

// Len returns the number of fields in the record.
func (r Record) Len() int { return len(r.fields) }

// Lookup returns the value stored under name. ok is false when the field is
// absent; a present null yields (nil, true).
func (r Record) Lookup(name string) (v any, ok bool) {
	v, ok = r.fields[name]
	return v, ok
}

// Fields returns a copy of the record fields.
func (r Record) Fields() map[string]any {
	return maps.Clone(r.fields)
}

// Format renders a looked-up value for text output.
// Absent fields and nulls render as None.
func Format(v any, ok bool) string {
	if !ok || v == nil {
		return None
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

// Value looks up name and formats it in one step.
func (r Record) Value(name string) string {
	return Format(r.Lookup(name))
}
