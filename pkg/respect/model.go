package respect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/afero"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Validator is implemented by models that check their own invariants after
// decoding, such as messages generated by protoc-gen-validate.
type Validator interface {
	Validate() error
}

// LoadModel decodes a structured resource into v, which must be a pointer.
//
// The data is decoded with the session codec, validated against the JSON
// Schema given by WithSchema or Session.Schema, then stored in v through
// protojson (proto.Message) or encoding/json. If v implements Validator its
// Validate method runs last. Validation and decoding errors are returned
// as produced by those layers.
func (s *Session) LoadModel(v any, opts ...Option) error {
	r := s.newRequest(s.codec().Ext(), opts)
	data, err := s.readFile(s.resolve(r))
	if err != nil {
		return err
	}

	plain, err := s.codec().Decode(data)
	if err != nil {
		return err
	}

	schema := r.schema
	if schema == nil {
		schema = s.Schema
	}
	if schema != nil {
		if err := schema.Validate(plain); err != nil {
			return err
		}
	}

	js, err := encodeJSON(plain, false)
	if err != nil {
		return err
	}
	if m, ok := v.(proto.Message); ok {
		if err := protojson.Unmarshal(js, m); err != nil {
			return err
		}
	} else if err := json.Unmarshal(js, v); err != nil {
		return err
	}

	if val, ok := v.(Validator); ok {
		return val.Validate()
	}
	return nil
}

// LoadAs loads a structured resource as a value of type T, e.g.
// LoadAs[map[string]int](s). Use LoadModel for proto messages.
func LoadAs[T any](s *Session, opts ...Option) (T, error) {
	var v T
	err := s.LoadModel(&v, opts...)
	return v, err
}

// CompileSchema compiles the JSON Schema stored at path in fsys.
func CompileSchema(fsys afero.Fs, path string) (*jsonschema.Schema, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	name := filepath.Base(path)
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
