package record

import (
	"encoding/json"
	"testing"
)

func TestLookup_PresentAndAbsent(t *testing.T) {
	r := New("doc:1", 0.5, map[string]any{"title": "A", "empty": nil})

	v, ok := r.Lookup("title")
	if !ok || v != "A" {
		t.Fatalf("Lookup(title) = %v, %v; want A, true", v, ok)
	}

	v, ok = r.Lookup("empty")
	if !ok || v != nil {
		t.Fatalf("Lookup(empty) = %v, %v; want nil, true", v, ok)
	}

	if _, ok = r.Lookup("missing"); ok {
		t.Fatal("Lookup(missing) reported present")
	}
}

func TestNew_CopiesFields(t *testing.T) {
	src := map[string]any{"title": "A"}
	r := New("", 0, src)
	src["title"] = "B"

	if got := r.Value("title"); got != "A" {
		t.Errorf("record changed with source map: got %q", got)
	}

	out := r.Fields()
	out["title"] = "C"
	if got := r.Value("title"); got != "A" {
		t.Errorf("record changed through Fields(): got %q", got)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		v    any
		ok   bool
		want string
	}{
		{"absent", nil, false, None},
		{"null", nil, true, None},
		{"string", "hello", true, "hello"},
		{"empty string", "", true, ""},
		{"json number", json.Number("1"), true, "1"},
		{"int", 42, true, "42"},
		{"int64", int64(-7), true, "-7"},
		{"float whole", float64(1), true, "1"},
		{"float", 0.25, true, "0.25"},
		{"bool", true, true, "true"},
		{"object", map[string]any{"a": json.Number("1")}, true, `{"a":1}`},
		{"array", []any{"x", "y"}, true, `["x","y"]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Format(tc.v, tc.ok); got != tc.want {
				t.Errorf("Format(%v, %v) = %q, want %q", tc.v, tc.ok, got, tc.want)
			}
		})
	}
}
