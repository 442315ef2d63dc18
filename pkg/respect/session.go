// Package respect stores expected test results in resource files and compares
// computed values against them.
//
// A Session is bound to one test. It derives resource paths from the test's
// Identity with a PathMaker, loads and saves text and structured data through
// a Codec, and implements the Expect workflow: equal values pass, different
// values fail with a *MismatchError, and in accept mode the actual value is
// written as the new baseline instead.
//
// Example usage with the respecttest fixture:
//
//	func TestReport(t *testing.T) {
//	    res := respecttest.New(t)
//	    report := buildReport()
//	    res.ExpectJSON(report)
//	}
//
// The first run fails with "resource not found"; running
// `go test -respect.accept` writes testdata/report_test/TestReport.json,
// and later runs compare against it.
package respect

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/afero"

	"github.com/AndreyAkinshin/respect/internal/output"
)

// actualPart is appended to the name parts of a resource to name the file
// receiving the actual value after a failed comparison.
const actualPart = "actual"

// Logger receives notices about baselines written in accept mode.
// *testing.T satisfies it.
type Logger interface {
	Logf(format string, args ...any)
}

// Config holds the construction-time settings of a Session.
type Config struct {
	// BaseDir is the directory PathMakers resolve against.
	BaseDir string

	// Accept turns failed comparisons into baseline writes.
	Accept bool

	// NDigits is the default rounding precision; nil disables rounding.
	NDigits *int

	// Codec defaults to JSON.
	Codec Codec

	// WriteActual writes the actual value next to the baseline when a
	// comparison fails outside accept mode.
	WriteActual bool

	// FS defaults to the OS filesystem.
	FS afero.Fs

	// Log defaults to warnings on stderr.
	Log Logger
}

// Session is the resource context of a single test. It is not safe for
// concurrent use; every test creates its own.
type Session struct {
	id      Identity
	baseDir string
	accept  bool

	// NDigits is the default rounding precision; nil disables rounding.
	NDigits *int

	// PathMaker resolves single resources. Defaults to ByFile.
	PathMaker PathMaker

	// ListMaker resolves the directory used by List. Defaults to ByFile.
	ListMaker PathMaker

	// Codec encodes structured resources. Defaults to JSON.
	Codec Codec

	// Schema, when set, validates data loaded by LoadModel.
	Schema *jsonschema.Schema

	WriteActual bool
	FS          afero.Fs
	Log         Logger
}

// New creates a Session for the test id.
func New(id Identity, cfg Config) *Session {
	s := &Session{
		id:          id,
		baseDir:     cfg.BaseDir,
		accept:      cfg.Accept,
		NDigits:     cfg.NDigits,
		PathMaker:   ByFile,
		ListMaker:   ByFile,
		Codec:       cfg.Codec,
		WriteActual: cfg.WriteActual,
		FS:          cfg.FS,
		Log:         cfg.Log,
	}
	if s.Codec == nil {
		s.Codec = JSON
	}
	if s.FS == nil {
		s.FS = afero.NewOsFs()
	}
	if s.Log == nil {
		s.Log = output.New()
	}
	return s
}

// Identity returns the test identity the session was created for.
func (s *Session) Identity() Identity { return s.id }

// BaseDir returns the directory resources are resolved against.
func (s *Session) BaseDir() string { return s.baseDir }

// Accept reports whether the session runs in accept mode.
func (s *Session) Accept() bool { return s.accept }

// Option adjusts a single Session call.
type Option func(*request)

type request struct {
	parts   []string
	ext     *string
	maker   *PathMaker
	digits  *int
	noRound bool
	schema  *jsonschema.Schema
}

// Name appends extra name parts to the resource stem.
func Name(parts ...string) Option {
	return func(r *request) { r.parts = append(r.parts, parts...) }
}

// Ext overrides the file extension. An empty ext means no extension.
func Ext(ext string) Option {
	return func(r *request) { r.ext = &ext }
}

// In resolves the resource with pm instead of the session's PathMaker.
func In(pm PathMaker) Option {
	return func(r *request) { r.maker = &pm }
}

// Digits overrides the session's rounding precision.
func Digits(n int) Option {
	return func(r *request) { r.digits = &n }
}

// NoRounding disables rounding regardless of the session default.
func NoRounding() Option {
	return func(r *request) { r.noRound = true }
}

// WithSchema validates LoadModel data against schema.
func WithSchema(schema *jsonschema.Schema) Option {
	return func(r *request) { r.schema = schema }
}

func (s *Session) newRequest(defaultExt string, opts []Option) request {
	var r request
	for _, opt := range opts {
		opt(&r)
	}
	if r.ext == nil {
		r.ext = &defaultExt
	}
	return r
}

func (s *Session) maker(r request, fallback PathMaker) PathMaker {
	if r.maker != nil {
		return *r.maker
	}
	return fallback
}

func (s *Session) resolve(r request) string {
	return MakePath(s.id, s.baseDir, s.maker(r, s.PathMaker), r.parts, *r.ext)
}

func (s *Session) actualPath(r request) string {
	parts := append(append([]string(nil), r.parts...), actualPart)
	return MakePath(s.id, s.baseDir, s.maker(r, s.PathMaker), parts, *r.ext)
}

func (s *Session) digits(r request) *int {
	switch {
	case r.noRound:
		return nil
	case r.digits != nil:
		return r.digits
	}
	return s.NDigits
}

func (s *Session) codec() Codec {
	if s.Codec == nil {
		return JSON
	}
	return s.Codec
}

// Dir returns the resource directory.
func (s *Session) Dir(opts ...Option) string {
	r := s.newRequest("", opts)
	return s.maker(r, s.PathMaker).Dir(s.id, s.baseDir)
}

// Path returns the resource file path. The extension defaults to none.
func (s *Session) Path(opts ...Option) string {
	return s.resolve(s.newRequest("", opts))
}

// LoadText reads a text resource (extension "txt" by default).
func (s *Session) LoadText(opts ...Option) (string, error) {
	data, err := s.readFile(s.resolve(s.newRequest("txt", opts)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SaveText writes a text resource verbatim (extension "txt" by default).
func (s *Session) SaveText(text string, opts ...Option) error {
	return s.writeFile(s.resolve(s.newRequest("txt", opts)), []byte(text))
}

// Delete removes a resource (no extension by default). A missing file is
// not an error.
func (s *Session) Delete(opts ...Option) error {
	return s.removeFile(s.resolve(s.newRequest("", opts)))
}

// LoadJSON decodes a structured resource with the session codec.
func (s *Session) LoadJSON(opts ...Option) (any, error) {
	data, err := s.readFile(s.resolve(s.newRequest(s.codec().Ext(), opts)))
	if err != nil {
		return nil, err
	}
	return s.codec().Decode(data)
}

// SaveJSON encodes v with the session codec, rounding floats first when a
// precision is set.
func (s *Session) SaveJSON(v any, opts ...Option) error {
	r := s.newRequest(s.codec().Ext(), opts)
	plain, err := ToPlain(v)
	if err != nil {
		return err
	}
	if d := s.digits(r); d != nil {
		if plain, err = RoundFloats(plain, *d); err != nil {
			return err
		}
	}
	data, err := s.codec().Encode(plain)
	if err != nil {
		return err
	}
	return s.writeFile(s.resolve(r), data)
}

// DeleteJSON removes a structured resource. A missing file is not an error.
func (s *Session) DeleteJSON(opts ...Option) error {
	return s.removeFile(s.resolve(s.newRequest(s.codec().Ext(), opts)))
}

// List lists resources in the directory chosen by ListMaker (or In).
func (s *Session) List(lo ListOptions, opts ...Option) ([]string, error) {
	r := s.newRequest("", opts)
	dir := s.maker(r, s.ListMaker).Dir(s.id, s.baseDir)
	return ListResources(s.FS, dir, lo)
}

func (s *Session) readFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(s.FS, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, err
	}
	return data, nil
}

func (s *Session) writeFile(path string, data []byte) error {
	if err := s.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create resource dir: %w", err)
	}
	if err := afero.WriteFile(s.FS, path, data, 0644); err != nil {
		return fmt.Errorf("write resource: %w", err)
	}
	return nil
}

func (s *Session) removeFile(path string) error {
	if err := s.FS.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
