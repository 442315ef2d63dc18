package config

import (
	"reflect"
	"strings"
	"testing"
)

func TestLoadWithWarnings_UnknownRootField(t *testing.T) {
	t.Parallel()

	data := []byte(`{"codec": "json", "unknown_field": "value", "another": 1}`)

	cfg, warnings, err := LoadWithWarnings("test.json", data)
	if err != nil {
		t.Fatalf("LoadWithWarnings() error = %v", err)
	}
	if cfg.Codec != "json" {
		t.Errorf("Codec = %q, want json", cfg.Codec)
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want 2", warnings)
	}
	if !strings.Contains(warnings[0], "another") || !strings.Contains(warnings[1], "unknown_field") {
		t.Errorf("warnings = %v, want sorted warnings about another and unknown_field", warnings)
	}
}

func TestLoadWithWarnings_SchemaFieldIgnored(t *testing.T) {
	t.Parallel()

	data := []byte(`{"$schema": "./config.schema.json", "ndigits": 2}`)

	_, warnings, err := LoadWithWarnings("test.json", data)
	if err != nil {
		t.Fatalf("LoadWithWarnings() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
}

func TestLoadWithWarnings_InvalidJSON(t *testing.T) {
	t.Parallel()

	if _, _, err := LoadWithWarnings("test.json", []byte(`{invalid}`)); err == nil {
		t.Error("LoadWithWarnings() expected error for invalid JSON")
	}
}

func TestGetJSONFields(t *testing.T) {
	t.Parallel()

	type sample struct {
		Named    string `json:"named"`
		WithOpts string `json:"with_opts,omitempty"`
		Skipped  string `json:"-"`
		NoTag    string
	}

	fields := getJSONFields(reflect.TypeOf(sample{}))
	for _, want := range []string{"named", "with_opts"} {
		if !fields[want] {
			t.Errorf("missing field %q", want)
		}
	}
	if len(fields) != 2 {
		t.Errorf("fields = %v, want 2 entries", fields)
	}
}
