package output

import (
	"bytes"
	"strings"
	"testing"
)

// newTestWriter creates a Writer with captured output for testing.
func newTestWriter() (*Writer, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	w := &Writer{
		out:   stdout,
		err:   stderr,
		color: false, // Disable color for predictable test output
		quiet: false,
	}
	return w, stdout, stderr
}

func TestNew(t *testing.T) {
	w := New()
	if w == nil {
		t.Fatal("New() returned nil")
	}
	if w.out == nil {
		t.Error("out writer is nil")
	}
	if w.err == nil {
		t.Error("err writer is nil")
	}
}

func TestWriter_Println(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.Println("hello %s", "world")

	if got := stdout.String(); got != "hello world\n" {
		t.Errorf("Println() = %q, want %q", got, "hello world\n")
	}
}

func TestWriter_Errorln(t *testing.T) {
	w, _, stderr := newTestWriter()

	w.Errorln("error %d", 42)

	if got := stderr.String(); got != "error 42\n" {
		t.Errorf("Errorln() = %q, want %q", got, "error 42\n")
	}
}

func TestWriter_Info(t *testing.T) {
	tests := []struct {
		name   string
		quiet  bool
		expect string
	}{
		{"normal mode", false, "info message\n"},
		{"quiet mode", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, stdout, _ := newTestWriter()
			w.quiet = tt.quiet

			w.Info("info %s", "message")

			if got := stdout.String(); got != tt.expect {
				t.Errorf("Info() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestWriter_Success(t *testing.T) {
	w, stdout, _ := newTestWriter()
	w.Success("done")
	if got := stdout.String(); got != "done\n" {
		t.Errorf("Success() = %q, want %q", got, "done\n")
	}

	w, stdout, _ = newTestWriter()
	w.color = true
	w.Success("done")
	if got := stdout.String(); !strings.Contains(got, "\033[32m") || !strings.Contains(got, "done") {
		t.Errorf("Success() with color = %q, want green escape around %q", got, "done")
	}
}

func TestWriter_Warning(t *testing.T) {
	w, _, stderr := newTestWriter()
	w.quiet = true

	w.Warning("caution")

	if got := stderr.String(); got != "warning: caution\n" {
		t.Errorf("Warning() = %q, want %q", got, "warning: caution\n")
	}
}

func TestWriter_Logf(t *testing.T) {
	w, stdout, stderr := newTestWriter()

	w.Logf("respect: created baseline %s", "testdata/a.json")

	want := "warning: respect: created baseline testdata/a.json\n"
	if got := stderr.String(); got != want {
		t.Errorf("Logf() = %q, want %q", got, want)
	}
	if stdout.Len() != 0 {
		t.Errorf("Logf() wrote to stdout: %q", stdout.String())
	}
}

func TestWriter_ErrorPrefix(t *testing.T) {
	w, _, stderr := newTestWriter()

	w.ErrorPrefix("bad %s", "input")

	if got := stderr.String(); got != "respect: bad input\n" {
		t.Errorf("ErrorPrefix() = %q, want %q", got, "respect: bad input\n")
	}
}

func TestWriter_Hint(t *testing.T) {
	tests := []struct {
		name   string
		quiet  bool
		expect string
	}{
		{"normal", false, "try again\n"},
		{"quiet mode", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, stdout, _ := newTestWriter()
			w.quiet = tt.quiet

			w.Hint("try %s", "again")

			if got := stdout.String(); got != tt.expect {
				t.Errorf("Hint() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestWriter_Streams(t *testing.T) {
	w, stdout, stderr := newTestWriter()
	if w.Stdout() != stdout {
		t.Error("Stdout() does not return the stdout writer")
	}
	if w.Stderr() != stderr {
		t.Error("Stderr() does not return the stderr writer")
	}
}
