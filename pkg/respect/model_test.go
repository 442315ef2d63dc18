package respect

import (
	"encoding/json"
	"errors"
	"io/fs"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/afero"
	"google.golang.org/protobuf/types/known/structpb"
)

const lookSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["look"],
  "properties": {
    "look": {"type": "array", "items": {"type": "string"}}
  }
}`

// checked rejects an empty look list after decoding.
type checked struct {
	Look []string `json:"look"`
}

func (c *checked) Validate() error {
	if len(c.Look) == 0 {
		return errors.New("look must not be empty")
	}
	return nil
}

func newModelSession(t *testing.T, files map[string]string) *Session {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, content := range files {
		if err := afero.WriteFile(fsys, resPath(name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	s, _ := newTestSession(t, fsys, sessionOpts{})
	return s
}

func TestLoadModel(t *testing.T) {
	t.Parallel()

	s := newModelSession(t, map[string]string{
		"session_test/TestScenario.json": `{"look": ["I", "found", "this"], "score": 0.5}`,
	})

	var got sample
	if err := s.LoadModel(&got); err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}
	want := sample{Look: []string{"I", "found", "this"}, Score: 0.5}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadModel() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAs(t *testing.T) {
	t.Parallel()

	s := newModelSession(t, map[string]string{
		"session_test/TestScenario__ints.json": `{"a": 1, "b": 2, "c": 3}`,
		"session_test/TestScenario__bad.json":  `{"a": 1, "b": "x"}`,
	})

	got, err := LoadAs[map[string]int](s, Name("ints"))
	if err != nil {
		t.Fatalf("LoadAs() error = %v", err)
	}
	if diff := cmp.Diff(map[string]int{"a": 1, "b": 2, "c": 3}, got); diff != "" {
		t.Errorf("LoadAs() mismatch (-want +got):\n%s", diff)
	}

	_, err = LoadAs[map[string]int](s, Name("bad"))
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		t.Errorf("LoadAs() error = %v, want *json.UnmarshalTypeError", err)
	}

	_, err = LoadAs[map[string]int](s, Name("missing"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadAs() error = %v, want not found", err)
	}
}

func TestLoadModel_Schema(t *testing.T) {
	t.Parallel()

	s := newModelSession(t, map[string]string{
		"look.schema.json":                      lookSchema,
		"session_test/TestScenario__good.json":  `{"look": ["a"]}`,
		"session_test/TestScenario__wrong.json": `{"look": 3}`,
	})

	schema, err := CompileSchema(s.FS, resPath("look.schema.json"))
	if err != nil {
		t.Fatalf("CompileSchema() error = %v", err)
	}

	var v map[string]any
	if err := s.LoadModel(&v, Name("good"), WithSchema(schema)); err != nil {
		t.Errorf("LoadModel(good) error = %v", err)
	}

	err = s.LoadModel(&v, Name("wrong"), WithSchema(schema))
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("LoadModel(wrong) error = %v, want *jsonschema.ValidationError", err)
	}

	// The session-wide schema applies when no option overrides it.
	s.Schema = schema
	if err := s.LoadModel(&v, Name("wrong")); !errors.As(err, &verr) {
		t.Errorf("LoadModel(wrong) with session schema error = %v", err)
	}
}

func TestCompileSchema_Errors(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if _, err := CompileSchema(fsys, "/missing.json"); err == nil {
		t.Error("CompileSchema() expected error for missing file")
	}

	if err := afero.WriteFile(fsys, "/broken.json", []byte(`{"type": `), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := CompileSchema(fsys, "/broken.json"); err == nil {
		t.Error("CompileSchema() expected error for malformed schema")
	}
}

func TestLoadModel_Validator(t *testing.T) {
	t.Parallel()

	s := newModelSession(t, map[string]string{
		"session_test/TestScenario__full.json":  `{"look": ["x"]}`,
		"session_test/TestScenario__empty.json": `{"look": []}`,
	})

	var c checked
	if err := s.LoadModel(&c, Name("full")); err != nil {
		t.Errorf("LoadModel(full) error = %v", err)
	}
	err := s.LoadModel(&c, Name("empty"))
	if err == nil || err.Error() != "look must not be empty" {
		t.Errorf("LoadModel(empty) error = %v, want validation error", err)
	}
}

func TestLoadModel_Proto(t *testing.T) {
	t.Parallel()

	s := newModelSession(t, map[string]string{
		"session_test/TestScenario.json": `{"name": "p", "count": 2}`,
	})

	msg := &structpb.Struct{}
	if err := s.LoadModel(msg); err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}
	if got := msg.GetFields()["name"].GetStringValue(); got != "p" {
		t.Errorf("name = %q, want p", got)
	}
	if got := msg.GetFields()["count"].GetNumberValue(); got != 2 {
		t.Errorf("count = %v, want 2", got)
	}
}

func TestLoadModel_YAML(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, resPath("session_test/TestScenario.yaml"), []byte("look: [a, b]\nscore: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	s, _ := newTestSession(t, fsys, sessionOpts{codec: YAML})

	got, err := LoadAs[sample](s)
	if err != nil {
		t.Fatalf("LoadAs() error = %v", err)
	}
	if diff := cmp.Diff(sample{Look: []string{"a", "b"}, Score: 2}, got); diff != "" {
		t.Errorf("LoadAs() mismatch (-want +got):\n%s", diff)
	}
}
