package respect

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

const jsonIndent = "  "

// Bare NaN and Infinity tokens are not JSON. Before handing data to a
// strict decoder they are rewritten into these string sentinels, which
// restoreNonFinite turns back into floats.
const sentinelPrefix = "\x00respect:"

var nonFiniteTokens = []struct {
	token string
	value float64
}{
	{"-Infinity", math.Inf(-1)},
	{"Infinity", math.Inf(1)},
	{"NaN", math.NaN()},
}

// encodeJSON writes plain data as indented JSON with sorted keys.
// When compact is set, arrays holding only scalars stay on one line.
func encodeJSON(v any, compact bool) ([]byte, error) {
	e := &jsonEncoder{compact: compact}
	if err := e.value(v, 0); err != nil {
		return nil, err
	}
	e.buf.WriteByte('\n')
	return e.buf.Bytes(), nil
}

type jsonEncoder struct {
	buf     bytes.Buffer
	compact bool
}

func (e *jsonEncoder) newline(depth int) {
	e.buf.WriteByte('\n')
	e.buf.WriteString(strings.Repeat(jsonIndent, depth))
}

func (e *jsonEncoder) value(v any, depth int) error {
	switch x := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case bool:
		e.buf.WriteString(strconv.FormatBool(x))
	case string:
		return e.str(x)
	case int64:
		e.buf.WriteString(strconv.FormatInt(x, 10))
	case float64:
		e.buf.WriteString(formatFloat(x))
	case []any:
		return e.array(x, depth)
	case map[string]any:
		return e.object(x, depth)
	default:
		return fmt.Errorf("json: unsupported plain value of type %T", v)
	}
	return nil
}

func (e *jsonEncoder) str(s string) error {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	e.buf.Write(bytes.TrimSuffix(b.Bytes(), []byte("\n")))
	return nil
}

func (e *jsonEncoder) array(items []any, depth int) error {
	if len(items) == 0 {
		e.buf.WriteString("[]")
		return nil
	}

	if e.compact && allScalars(items) {
		e.buf.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				e.buf.WriteString(", ")
			}
			if err := e.value(item, depth); err != nil {
				return err
			}
		}
		e.buf.WriteByte(']')
		return nil
	}

	e.buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(depth + 1)
		if err := e.value(item, depth+1); err != nil {
			return err
		}
	}
	e.newline(depth)
	e.buf.WriteByte(']')
	return nil
}

func (e *jsonEncoder) object(m map[string]any, depth int) error {
	if len(m) == 0 {
		e.buf.WriteString("{}")
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	e.buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(depth + 1)
		if err := e.str(k); err != nil {
			return err
		}
		e.buf.WriteString(": ")
		if err := e.value(m[k], depth+1); err != nil {
			return err
		}
	}
	e.newline(depth)
	e.buf.WriteByte('}')
	return nil
}

func allScalars(items []any) bool {
	for _, item := range items {
		switch item.(type) {
		case []any, map[string]any:
			return false
		}
	}
	return true
}

// formatFloat renders f the way encoding/json does, but always keeps a
// decimal point or exponent so the value decodes back as a float, and
// spells out non-finite values.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(s)
		if n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// decodeJSON parses JSON extended with NaN, Infinity and -Infinity into
// plain data. Integers without fraction or exponent decode as int64.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(escapeNonFinite(data)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("json: unexpected data after top-level value at offset %d", dec.InputOffset())
	}
	return restoreNonFinite(v)
}

// escapeNonFinite replaces bare non-finite tokens outside of string
// literals with sentinel strings.
func escapeNonFinite(data []byte) []byte {
	if !bytes.Contains(data, []byte("NaN")) && !bytes.Contains(data, []byte("Infinity")) {
		return data
	}
	return rewriteTokens(data, false)
}

// normalizeJSON5 is escapeNonFinite for the JSON5 dialect: comments are
// blanked out and a leading + is accepted on NaN and Infinity.
func normalizeJSON5(data []byte) []byte {
	return rewriteTokens(data, true)
}

// rewriteTokens scans data once, tracking both quote styles, and rewrites
// non-finite tokens outside string literals. With json5 set comments become
// whitespace, which keeps trailing and embedded comments away from the
// decoder.
func rewriteTokens(data []byte, json5 bool) []byte {
	var out bytes.Buffer
	out.Grow(len(data) + 32)

	var quote byte
	escaped := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if quote != 0 {
			out.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		if c == '"' || c == '\'' {
			quote = c
			out.WriteByte(c)
			continue
		}
		if n := commentLen(data[i:]); n > 0 {
			if json5 {
				out.WriteByte(' ')
				if data[i+n-1] == '\n' {
					out.WriteByte('\n')
				}
			} else {
				out.Write(data[i : i+n])
			}
			i += n - 1
			continue
		}
		if json5 && c == '+' {
			if tok := nonFiniteAt(data, i+1); tok == "Infinity" || tok == "NaN" {
				out.WriteString(`"\u0000respect:` + tok + `"`)
				i += len(tok)
				continue
			}
		}
		if tok := nonFiniteAt(data, i); tok != "" {
			out.WriteString(`"\u0000respect:` + tok + `"`)
			i += len(tok) - 1
			continue
		}
		out.WriteByte(c)
	}
	return out.Bytes()
}

// commentLen returns the length of a // or /* */ comment starting at data[0].
func commentLen(data []byte) int {
	switch {
	case bytes.HasPrefix(data, []byte("//")):
		if end := bytes.IndexByte(data, '\n'); end >= 0 {
			return end + 1
		}
		return len(data)
	case bytes.HasPrefix(data, []byte("/*")):
		if end := bytes.Index(data[2:], []byte("*/")); end >= 0 {
			return end + 4
		}
		return len(data)
	}
	return 0
}

func nonFiniteAt(data []byte, i int) string {
	if i > 0 && isIdentByte(data[i-1]) {
		return ""
	}
	for _, nf := range nonFiniteTokens {
		end := i + len(nf.token)
		if !bytes.HasPrefix(data[i:], []byte(nf.token)) {
			continue
		}
		if end < len(data) && isIdentByte(data[end]) {
			continue
		}
		return nf.token
	}
	return ""
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// restoreNonFinite walks decoded data, turning sentinels back into floats
// and json.Number into int64 or float64.
func restoreNonFinite(v any) (any, error) {
	switch x := v.(type) {
	case string:
		if tok, ok := strings.CutPrefix(x, sentinelPrefix); ok {
			for _, nf := range nonFiniteTokens {
				if nf.token == tok {
					return nf.value, nil
				}
			}
		}
		return x, nil
	case json.Number:
		return parseNumber(string(x))
	case float64:
		return x, nil
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			r, err := restoreNonFinite(item)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			r, err := restoreNonFinite(item)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	default:
		return x, nil
	}
}

func parseNumber(s string) (any, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	var numErr *strconv.NumError
	if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
		// Out of range literals such as 1e400 saturate to ±Inf.
		return f, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}
