package respect

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pmezard/go-difflib/difflib"
)

// ErrMismatch is matched by every *MismatchError via errors.Is.
var ErrMismatch = errors.New("resource mismatch")

// NotFoundError reports a load of a resource that does not exist.
// It unwraps to fs.ErrNotExist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return "resource not found: " + e.Path
}

func (e *NotFoundError) Unwrap() error {
	return fs.ErrNotExist
}

// MismatchError reports that a computed value differs from its baseline,
// or that the baseline is missing (NotFound). Expected and Actual hold the
// compared values: strings for text resources, rounded plain data for
// structured ones.
type MismatchError struct {
	Path       string
	NotFound   bool
	Expected   any
	Actual     any
	Diff       string
	ActualPath string // where the actual value was written, if anywhere
}

func (e *MismatchError) Error() string {
	var b strings.Builder
	if e.NotFound {
		fmt.Fprintf(&b, "resource not found: %s", e.Path)
	} else {
		fmt.Fprintf(&b, "resource mismatch: %s", e.Path)
	}
	if e.Diff != "" {
		b.WriteString("\n")
		b.WriteString(indentLines(e.Diff, "  "))
	}
	if e.ActualPath != "" {
		fmt.Fprintf(&b, "\nactual value written to %s", e.ActualPath)
	}
	return b.String()
}

func (e *MismatchError) Is(target error) bool {
	return target == ErrMismatch || (e.NotFound && target == fs.ErrNotExist)
}

// textDiff renders a unified diff between expected and actual text.
func textDiff(expected, actual string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil || diff == "" {
		return fmt.Sprintf("expected: %q\nactual:   %q", expected, actual)
	}
	return diff
}

// dataDiff describes the first structural difference and a full cmp diff
// (-expected +actual) between two plain values.
func dataDiff(expected, actual any) string {
	_, first := Compare(expected, actual)
	full := cmp.Diff(expected, actual, cmpopts.EquateNaNs())
	switch {
	case full == "":
		return first
	case first == "":
		return full
	}
	return first + "\n(-expected +actual)\n" + full
}
