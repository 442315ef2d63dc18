package respect

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Shape classifies a value for the structural walks in ToPlain and
// RoundFloats. The set is closed: a new kind of value needs a new Shape
// and a case in every walk.
type Shape int

const (
	ShapeOther    Shape = iota // strings, bools, ints, nil
	ShapeFloat                 // float32, float64
	ShapeMapping               // maps
	ShapeSequence              // slices
	ShapeTuple                 // fixed-size Go arrays
	ShapeModel                 // structs, proto messages, json.Marshaler
	ShapeArray                 // gonum vectors and matrices
)

var shapeNames = [...]string{"other", "float", "mapping", "sequence", "tuple", "model", "array"}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "Shape(" + strconv.Itoa(int(s)) + ")"
}

var (
	matrixType    = reflect.TypeOf((*mat.Matrix)(nil)).Elem()
	protoType     = reflect.TypeOf((*proto.Message)(nil)).Elem()
	marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textKeyType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	bytesType     = reflect.TypeOf([]byte(nil))
	numberType    = reflect.TypeOf(json.Number(""))
)

// ShapeOf reports the Shape of v.
func ShapeOf(v any) Shape {
	return shapeOf(reflect.ValueOf(v))
}

func shapeOf(rv reflect.Value) Shape {
	if !rv.IsValid() {
		return ShapeOther
	}
	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return ShapeOther
	}

	t := rv.Type()
	switch {
	case t.Implements(matrixType):
		return ShapeArray
	case t.Implements(protoType), t.Implements(marshalerType):
		return ShapeModel
	}

	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return ShapeFloat
	case reflect.Map:
		return ShapeMapping
	case reflect.Slice:
		if t == bytesType {
			return ShapeOther
		}
		return ShapeSequence
	case reflect.Array:
		return ShapeTuple
	case reflect.Struct:
		return ShapeModel
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Struct {
			return ShapeModel
		}
	}
	return ShapeOther
}

// ToPlain converts v into the plain data model shared by all codecs and
// comparisons: nil, bool, string, int64, float64, []any and map[string]any.
// Models are dumped through protojson (proto.Message) or encoding/json,
// numeric arrays become nested []any.
func ToPlain(v any) (any, error) {
	return toPlain(reflect.ValueOf(v))
}

func toPlain(rv reflect.Value) (any, error) {
	rv = indirect(rv)
	if !rv.IsValid() {
		return nil, nil
	}

	switch shapeOf(rv) {
	case ShapeModel:
		return modelToPlain(rv)
	case ShapeArray:
		return arrayToPlain(rv.Interface().(mat.Matrix)), nil
	case ShapeFloat:
		return rv.Float(), nil
	case ShapeMapping:
		if rv.IsNil() {
			return nil, nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key, err := mapKey(iter.Key())
			if err != nil {
				return nil, err
			}
			val, err := toPlain(iter.Value())
			if err != nil {
				return nil, err
			}
			out[key] = val
		}
		return out, nil
	case ShapeSequence, ShapeTuple:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			val, err := toPlain(rv.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = val
		}
		return out, nil
	}

	if rv.Type() == numberType {
		return parseNumber(rv.String())
	}

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u := rv.Uint(); u <= math.MaxInt64 {
			return int64(u), nil
		}
		return float64(rv.Uint()), nil
	}

	// []byte and anything else encoding/json knows how to render.
	data, err := json.Marshal(rv.Interface())
	if err != nil {
		return nil, err
	}
	return decodeJSON(data)
}

// indirect strips interfaces and pointers to non-struct values.
// Nil pointers and interfaces become the invalid Value.
func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Interface || rv.Kind() == reflect.Pointer) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		if shape := shapeOf(rv); shape == ShapeModel || shape == ShapeArray {
			return rv
		}
		rv = rv.Elem()
	}
	return rv
}

func modelToPlain(rv reflect.Value) (any, error) {
	if m, ok := rv.Interface().(proto.Message); ok {
		data, err := protojson.Marshal(m)
		if err != nil {
			return nil, err
		}
		return decodeJSON(data)
	}

	data, err := json.Marshal(rv.Interface())
	if err != nil {
		return nil, fmt.Errorf("dump %s: %w", rv.Type(), err)
	}
	return decodeJSON(data)
}

func arrayToPlain(m mat.Matrix) any {
	if vec, ok := m.(mat.Vector); ok {
		out := make([]any, vec.Len())
		for i := range out {
			out[i] = vec.AtVec(i)
		}
		return out
	}

	r, c := m.Dims()
	rows := make([]any, r)
	for i := range rows {
		row := make([]any, c)
		for j := range row {
			row[j] = m.At(i, j)
		}
		rows[i] = row
	}
	return rows
}

func mapKey(k reflect.Value) (string, error) {
	k = indirect(k)
	if !k.IsValid() {
		return "null", nil
	}
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if k.Type().Implements(textKeyType) {
		text, err := k.Interface().(encoding.TextMarshaler).MarshalText()
		return string(text), err
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(k.Float(), 'g', -1, 64), nil
	case reflect.Bool:
		return strconv.FormatBool(k.Bool()), nil
	}
	return "", fmt.Errorf("unsupported map key type %s", k.Type())
}
