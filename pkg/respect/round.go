package respect

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// RoundFloats returns a copy of v with every floating-point leaf rounded to
// ndigits decimal digits, half to even on the exact decimal expansion.
//
// Maps, slices and arrays are rebuilt with their original types where the
// rounded elements still fit; models and numeric arrays are converted to
// plain data first, so containers holding them become []any or
// map[string]any. Integers are never rounded. ndigits == 0 still rounds,
// to the nearest integral float.
func RoundFloats(v any, ndigits int) (any, error) {
	if v == nil {
		return nil, nil
	}
	out, err := roundValue(reflect.ValueOf(v), ndigits)
	if err != nil || !out.IsValid() {
		return nil, err
	}
	return out.Interface(), nil
}

func roundValue(rv reflect.Value, ndigits int) (reflect.Value, error) {
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return rv, nil
		}
		rv = rv.Elem()
	}

	switch shapeOf(rv) {
	case ShapeModel:
		plain, err := modelToPlain(rv)
		if err != nil {
			return reflect.Value{}, err
		}
		return roundValue(reflect.ValueOf(plain), ndigits)

	case ShapeArray:
		plain := arrayToPlain(rv.Interface().(mat.Matrix))
		return roundValue(reflect.ValueOf(plain), ndigits)

	case ShapeFloat:
		out := reflect.New(rv.Type()).Elem()
		out.SetFloat(roundFloat(rv.Float(), ndigits))
		return out, nil

	case ShapeMapping:
		return roundMap(rv, ndigits)

	case ShapeSequence:
		if rv.IsNil() {
			return rv, nil
		}
		elems, err := roundElems(rv, ndigits)
		if err != nil {
			return reflect.Value{}, err
		}
		if !fits(elems, rv.Type().Elem()) {
			return anySlice(elems), nil
		}
		out := reflect.MakeSlice(rv.Type(), len(elems), len(elems))
		for i, e := range elems {
			setElem(out.Index(i), e)
		}
		return out, nil

	case ShapeTuple:
		elems, err := roundElems(rv, ndigits)
		if err != nil {
			return reflect.Value{}, err
		}
		if !fits(elems, rv.Type().Elem()) {
			return anySlice(elems), nil
		}
		out := reflect.New(rv.Type()).Elem()
		for i, e := range elems {
			setElem(out.Index(i), e)
		}
		return out, nil
	}

	// ShapeOther: pointers to non-struct values are followed and
	// reallocated, everything else is copied by value.
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		inner, err := roundValue(rv.Elem(), ndigits)
		if err != nil {
			return reflect.Value{}, err
		}
		if inner.IsValid() && inner.Type() == rv.Elem().Type() {
			p := reflect.New(inner.Type())
			p.Elem().Set(inner)
			return p, nil
		}
		return inner, nil
	}
	if !rv.IsValid() {
		return rv, nil
	}
	out := reflect.New(rv.Type()).Elem()
	out.Set(rv)
	return out, nil
}

func roundMap(rv reflect.Value, ndigits int) (reflect.Value, error) {
	if rv.IsNil() {
		return rv, nil
	}

	// Keys that round to the same value collide; visiting them in order
	// makes the greatest original key win on every run.
	orig := rv.MapKeys()
	slices.SortFunc(orig, compareKeys)

	t := rv.Type()
	keys := make([]reflect.Value, 0, len(orig))
	vals := make([]reflect.Value, 0, len(orig))
	for _, key := range orig {
		k, err := roundValue(key, ndigits)
		if err != nil {
			return reflect.Value{}, err
		}
		v, err := roundValue(rv.MapIndex(key), ndigits)
		if err != nil {
			return reflect.Value{}, err
		}
		keys = append(keys, k)
		vals = append(vals, v)
	}

	if fits(keys, t.Key()) && fits(vals, t.Elem()) {
		out := reflect.MakeMapWithSize(t, len(keys))
		for i := range keys {
			out.SetMapIndex(keys[i], valueOrZero(vals[i], t.Elem()))
		}
		return out, nil
	}

	out := make(map[string]any, len(keys))
	for i := range keys {
		key, err := mapKey(keys[i])
		if err != nil {
			return reflect.Value{}, err
		}
		out[key] = interfaceOf(vals[i])
	}
	return reflect.ValueOf(out), nil
}

// compareKeys orders map keys of any kind: numbers and strings by value,
// anything else by its printed form.
func compareKeys(a, b reflect.Value) int {
	for a.Kind() == reflect.Interface && !a.IsNil() {
		a = a.Elem()
	}
	for b.Kind() == reflect.Interface && !b.IsNil() {
		b = b.Elem()
	}
	if a.Kind() != b.Kind() {
		return cmp.Compare(a.Kind(), b.Kind())
	}

	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.String:
		return cmp.Compare(a.String(), b.String())
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func roundElems(rv reflect.Value, ndigits int) ([]reflect.Value, error) {
	elems := make([]reflect.Value, rv.Len())
	for i := range elems {
		e, err := roundValue(rv.Index(i), ndigits)
		if err != nil {
			return nil, err
		}
		elems[i] = e
	}
	return elems, nil
}

// fits reports whether every value can be stored in a container of elem type.
func fits(values []reflect.Value, elem reflect.Type) bool {
	for _, v := range values {
		if v.IsValid() && !v.Type().AssignableTo(elem) {
			return false
		}
	}
	return true
}

func setElem(dst, v reflect.Value) {
	if v.IsValid() {
		dst.Set(v)
	}
}

func valueOrZero(v reflect.Value, t reflect.Type) reflect.Value {
	if !v.IsValid() {
		return reflect.Zero(t)
	}
	return v
}

func interfaceOf(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}

func anySlice(values []reflect.Value) reflect.Value {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = interfaceOf(v)
	}
	return reflect.ValueOf(out)
}

// roundFloat rounds f to ndigits decimal digits. strconv formats the exact
// binary value and breaks exact ties to even, so 2.675 rounds to 2.67 and
// 0.125 to 0.12.
func roundFloat(f float64, ndigits int) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	if ndigits < 0 {
		p := math.Pow10(-ndigits)
		return math.RoundToEven(f/p) * p
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', ndigits, 64), 64)
	if err != nil {
		return f
	}
	return r
}
