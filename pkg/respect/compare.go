package respect

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Equal reports whether two plain values (see ToPlain) are structurally
// equal. Numbers compare by value across int64 and float64, and NaN equals
// NaN so that baselines holding NaN can pass.
func Equal(expected, actual any) bool {
	ok, _ := Compare(expected, actual)
	return ok
}

// Compare compares two plain values and returns a one-line description of
// the first difference found, located with a JSON Path.
func Compare(expected, actual any) (bool, string) {
	return compareValues(expected, actual, "")
}

func compareValues(expected, actual any, path string) (bool, string) {
	if expected == nil && actual == nil {
		return true, ""
	}
	if expected == nil || actual == nil {
		return false, fmt.Sprintf("%s: nil mismatch (expected=%v, actual=%v)", pathStr(path), expected, actual)
	}

	if e, ok := asNumber(expected); ok {
		return compareNumber(e, actual, path)
	}

	switch e := expected.(type) {
	case []any:
		return compareArray(e, actual, path)
	case map[string]any:
		return compareObject(e, actual, path)
	case string:
		if a, ok := actual.(string); ok {
			if e == a {
				return true, ""
			}
			return false, fmt.Sprintf("%s: string mismatch (expected=%q, actual=%q)", pathStr(path), e, a)
		}
		return false, fmt.Sprintf("%s: type mismatch (expected=string, actual=%s)", pathStr(path), typeName(actual))
	case bool:
		if a, ok := actual.(bool); ok {
			if e == a {
				return true, ""
			}
			return false, fmt.Sprintf("%s: bool mismatch (expected=%v, actual=%v)", pathStr(path), e, a)
		}
		return false, fmt.Sprintf("%s: type mismatch (expected=bool, actual=%s)", pathStr(path), typeName(actual))
	default:
		if expected == actual {
			return true, ""
		}
		return false, fmt.Sprintf("%s: value mismatch (expected=%v, actual=%v)", pathStr(path), expected, actual)
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func compareNumber(expected float64, actual any, path string) (bool, string) {
	a, ok := asNumber(actual)
	if !ok {
		return false, fmt.Sprintf("%s: type mismatch (expected=number, actual=%s)", pathStr(path), typeName(actual))
	}
	if expected == a || (math.IsNaN(expected) && math.IsNaN(a)) {
		return true, ""
	}
	return false, fmt.Sprintf("%s: number mismatch (expected=%v, actual=%v)", pathStr(path), expected, a)
}

func compareArray(expected []any, actual any, path string) (bool, string) {
	a, ok := actual.([]any)
	if !ok {
		return false, fmt.Sprintf("%s: type mismatch (expected=array, actual=%s)", pathStr(path), typeName(actual))
	}

	if len(expected) != len(a) {
		return false, fmt.Sprintf("%s: array length mismatch (expected=%d, actual=%d)", pathStr(path), len(expected), len(a))
	}

	for i := range expected {
		elemPath := fmt.Sprintf("%s[%d]", path, i)
		if ok, diff := compareValues(expected[i], a[i], elemPath); !ok {
			return false, diff
		}
	}
	return true, ""
}

func compareObject(expected map[string]any, actual any, path string) (bool, string) {
	a, ok := actual.(map[string]any)
	if !ok {
		return false, fmt.Sprintf("%s: type mismatch (expected=object, actual=%s)", pathStr(path), typeName(actual))
	}

	for _, key := range sortedKeys(expected) {
		if _, ok := a[key]; !ok {
			return false, fmt.Sprintf("%s.%s: missing in actual", pathStr(path), key)
		}
	}
	for _, key := range sortedKeys(a) {
		if _, ok := expected[key]; !ok {
			return false, fmt.Sprintf("%s.%s: unexpected in actual", pathStr(path), key)
		}
	}

	for _, key := range sortedKeys(expected) {
		if ok, diff := compareValues(expected[key], a[key], path+"."+key); !ok {
			return false, diff
		}
	}
	return true, ""
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case float64, int64:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

// pathStr formats a path for messages using JSON Path conventions.
func pathStr(path string) string {
	if path == "" {
		return "$"
	}
	return "$" + path
}

// indentLines prefixes every line of s, used to nest diffs in messages.
func indentLines(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
