package respect

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Identity names the test a Session belongs to. It only feeds path
// derivation and is never mutated once captured.
type Identity struct {
	// Module is the stem of the source file declaring the test,
	// e.g. "codec_test" for codec_test.go.
	Module string

	// Class groups related tests. For Go subtests it is the top-level
	// test name; empty for top-level tests.
	Class string

	// Func is the test (or subtest path) name.
	Func string
}

// IdentityFromName builds an Identity from a module stem and a test name as
// reported by testing.T.Name. Subtest names "TestA/case_1/x" map to
// Class "TestA" and Func "case_1__x".
func IdentityFromName(module, testName string) Identity {
	segments := strings.Split(testName, "/")
	for i, s := range segments {
		segments[i] = SanitizeName(s)
	}

	id := Identity{Module: SanitizeName(module)}
	if len(segments) == 1 {
		id.Func = segments[0]
		return id
	}
	id.Class = segments[0]
	id.Func = strings.Join(segments[1:], separator)
	return id
}

// SanitizeName makes s safe to use as a single path element: it is
// normalized to NFC and every rune outside [A-Za-z0-9._-] becomes '_'.
func SanitizeName(s string) string {
	s = norm.NFC.String(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}

func (id Identity) String() string {
	return joinNonEmpty(id.Module, id.Class, id.Func)
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, separator)
}
