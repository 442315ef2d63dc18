package respect

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v3"
)

// Codec encodes and decodes structured resource content. Decode returns
// plain data (see ToPlain); Encode accepts any value ToPlain accepts.
type Codec interface {
	// Ext is the file extension used for resources in this format.
	Ext() string
	Encode(v any) ([]byte, error)
	Decode(data []byte) (any, error)
}

// Built-in codecs.
var (
	// JSON is the standard codec: sorted keys, two-space indent, and the
	// NaN/Infinity/-Infinity extension on both encode and decode.
	JSON Codec = JSONCodec{}

	// CompactJSON is JSON with arrays of scalars kept on one line.
	CompactJSON Codec = JSONCodec{Compact: true}

	// JSON5 loads the permissive JSON5 dialect (comments, trailing commas,
	// unquoted keys) and saves like CompactJSON.
	JSON5 Codec = JSON5Codec{}

	// YAML stores resources as YAML documents.
	YAML Codec = YAMLCodec{}
)

var codecsByName = map[string]Codec{
	"json":    JSON,
	"compact": CompactJSON,
	"json5":   JSON5,
	"yaml":    YAML,
}

// CodecByName returns the built-in codec registered under name.
func CodecByName(name string) (Codec, error) {
	if c, ok := codecsByName[strings.ToLower(name)]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown codec %q (must be one of %s)", name, strings.Join(CodecNames(), ", "))
}

// CodecNames lists the names accepted by CodecByName.
func CodecNames() []string {
	names := make([]string, 0, len(codecsByName))
	for name := range codecsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// JSONCodec is the extended JSON codec.
type JSONCodec struct {
	Compact bool
}

func (JSONCodec) Ext() string { return "json" }

func (c JSONCodec) Encode(v any) ([]byte, error) {
	plain, err := ToPlain(v)
	if err != nil {
		return nil, err
	}
	return encodeJSON(plain, c.Compact)
}

func (JSONCodec) Decode(data []byte) (any, error) {
	return decodeJSON(data)
}

// JSON5Codec is the permissive JSON dialect. Numbers decode as float64
// except integral values within the exact float range, which decode as int64.
type JSON5Codec struct{}

func (JSON5Codec) Ext() string { return "json" }

func (JSON5Codec) Encode(v any) ([]byte, error) {
	return CompactJSON.Encode(v)
}

func (JSON5Codec) Decode(data []byte) (any, error) {
	var v any
	if err := json5.Unmarshal(normalizeJSON5(data), &v); err != nil {
		return nil, err
	}
	v, err := restoreNonFinite(v)
	if err != nil {
		return nil, err
	}
	return integralToInt(v), nil
}

const maxExactFloatInt = 1 << 53

func integralToInt(v any) any {
	switch x := v.(type) {
	case float64:
		if x == math.Trunc(x) && math.Abs(x) <= maxExactFloatInt {
			return int64(x)
		}
		return x
	case []any:
		for i, item := range x {
			x[i] = integralToInt(item)
		}
		return x
	case map[string]any:
		for k, item := range x {
			x[k] = integralToInt(item)
		}
		return x
	default:
		return x
	}
}

// YAMLCodec stores resources as YAML.
type YAMLCodec struct{}

func (YAMLCodec) Ext() string { return "yaml" }

func (YAMLCodec) Encode(v any) ([]byte, error) {
	plain, err := ToPlain(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(plain); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (YAMLCodec) Decode(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return ToPlain(v)
}
